package usecase

import (
	"context"
	"log/slog"
	"time"

	"BlogAnalytics/internal/ports"
)

const defaultRunTimeout = 2 * time.Minute

// Scheduler runs the snapshot pipeline on every trigger of a ports.Scheduler.
type Scheduler struct {
	driver     ports.Scheduler
	pipeline   *Pipeline
	logger     *slog.Logger
	runTimeout time.Duration
}

// NewScheduler binds pipeline to driver. Each run is bounded by a two minute timeout.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger, runTimeout: defaultRunTimeout}
}

// Start registers the snapshot job. Failed runs are logged and retried on the next trigger.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}
	return s.driver.Start(ctx, func(trigger time.Time) { s.run(ctx, trigger) })
}

// Stop halts the driver and waits for an in-flight run.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}

func (s *Scheduler) run(ctx context.Context, trigger time.Time) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	started := time.Now()
	snapshot, err := s.pipeline.Snapshot(runCtx, trigger)
	if s.logger == nil {
		return
	}
	if err != nil {
		s.logger.Error("snapshot failed", "trigger", trigger, "error", err)
		return
	}
	s.logger.Info("snapshot stored", "id", snapshot.ID, "trigger", trigger, "took", time.Since(started))
}
