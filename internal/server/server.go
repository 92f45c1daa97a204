// Package server exposes the analytics views and post editing over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"BlogAnalytics/internal/config"
	"BlogAnalytics/pkg/logger"
)

// Deps holds what the router needs.
type Deps struct {
	Handler        *Handler
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(deps Deps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(AccessLog(log))
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	router.GET("/healthz", func(c *gin.Context) {
		OK(c, gin.H{"status": "ok"})
	})
	if deps.Handler != nil {
		deps.Handler.RegisterRoutes(router.Group("/api"))
	}

	router.NoRoute(func(c *gin.Context) {
		NotFound(c, "route not found")
	})
	router.NoMethod(func(c *gin.Context) {
		abort(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// NewHTTPServer wraps handler with the listener settings from cfg.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler, log *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		ErrorLog:          logger.New(log, "http", slog.LevelError),
	}
}
