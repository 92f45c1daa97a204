package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"BlogAnalytics/internal/app"
	"BlogAnalytics/internal/config"
	"BlogAnalytics/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (defaults to $BLOG_ANALYTICS_CONFIG)")
	snapshotOnce := flag.Bool("snapshot", false, "take one analytics snapshot and exit")
	flag.Parse()

	// a missing .env is fine
	_ = godotenv.Load()

	cfg := config.Load()
	if *configPath != "" {
		cfg = config.LoadFile(*configPath)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *snapshotOnce {
		err = application.SnapshotNow(ctx)
	} else {
		err = application.Run(ctx)
	}
	if err != nil {
		logger.Error("application stopped", "error", err)
		stop()
		_ = application.Close()
		os.Exit(1)
	}
}
