package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"BlogAnalytics/internal/analytics"
	"BlogAnalytics/internal/config"
	"BlogAnalytics/internal/infrastructure/blogapi"
	"BlogAnalytics/internal/infrastructure/cache"
	"BlogAnalytics/internal/infrastructure/scheduler"
	"BlogAnalytics/internal/infrastructure/storage"
	"BlogAnalytics/internal/infrastructure/telegram"
	"BlogAnalytics/internal/logging"
	"BlogAnalytics/internal/ports"
	"BlogAnalytics/internal/server"
	"BlogAnalytics/internal/usecase"
)

const defaultShutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	http      *http.Server
	scheduler *usecase.Scheduler
	pipeline  *usecase.Pipeline
}

// New builds every adapter and use case from cfg.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	queryCache, err := cache.NewLRU(cfg.Cache.Size)
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}

	ttl := usecase.DefaultCacheTTL()
	if cfg.Cache.DefaultTTL > 0 {
		ttl.Default = cfg.Cache.DefaultTTL
	}

	blog := usecase.NewBlogService(usecase.BlogServiceDeps{
		Backend: blogapi.NewClient(cfg.Backend, baseLogger.With("component", "blogapi")),
		Cache:   queryCache,
		TTL:     ttl,
		Logger:  baseLogger.With("component", "blog"),
	})

	dashboard := usecase.NewDashboard(blog, dashboardConfig(cfg.Analytics), baseLogger.With("component", "dashboard"))

	db, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("snapshot store: %w", err)
	}
	snapshots := storage.NewSnapshotRepository(db, cfg.Database.Driver)

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Reports:    dashboard,
		Repository: snapshots,
		Notifier:   notifier,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	var jobs *usecase.Scheduler
	if cfg.Scheduler.Enabled {
		driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Interval, cfg.Scheduler.Location())
		jobs = usecase.NewScheduler(driver, pipeline, baseLogger.With("component", "scheduler"))
	}

	if strings.EqualFold(cfg.Logging.Level, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.Deps{
		Handler:        server.NewHandler(dashboard, blog, snapshots),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         baseLogger.With("component", "http"),
	})

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		db:        db,
		http:      server.NewHTTPServer(cfg.Server, router, baseLogger),
		scheduler: jobs,
		pipeline:  pipeline,
	}, nil
}

// Handler exposes the HTTP router.
func (a *Application) Handler() http.Handler {
	return a.http.Handler
}

// Run serves HTTP and runs the snapshot schedule until ctx is cancelled,
// then shuts both down within the configured timeout.
func (a *Application) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.http.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.http.Addr, err)
	}

	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			_ = listener.Close()
			return fmt.Errorf("start scheduler: %w", err)
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", listener.Addr().String())
		if err := a.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("shutdown http server: %w", err))
	}
	if a.scheduler != nil {
		if err := a.scheduler.Stop(shutdownCtx); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("stop scheduler: %w", err))
		}
	}
	a.logger.Info("application stopped")
	return runErr
}

// SnapshotNow takes a single snapshot outside the schedule.
func (a *Application) SnapshotNow(ctx context.Context) error {
	now := time.Now().In(a.cfg.Scheduler.Location())
	_, err := a.pipeline.Snapshot(ctx, now)
	return err
}

// Close releases the snapshot store.
func (a *Application) Close() error {
	return a.db.Close()
}

func dashboardConfig(cfg config.AnalyticsConfig) usecase.DashboardConfig {
	thresholds := analytics.DefaultThresholds()
	if cfg.HighViews > 0 {
		thresholds.High = cfg.HighViews
	}
	if cfg.LowViews > 0 {
		thresholds.Low = cfg.LowViews
	}

	return usecase.DashboardConfig{
		SampleSize:      cfg.SampleSize,
		AdminSampleSize: cfg.AdminSampleSize,
		MaxVisiblePages: cfg.MaxVisiblePages,
		Report: analytics.ReportOptions{
			TopPosts:   cfg.TopPosts,
			TopAuthors: cfg.TopAuthors,
			TopTags:    cfg.TopTags,
			Thresholds: thresholds,
		},
	}
}
