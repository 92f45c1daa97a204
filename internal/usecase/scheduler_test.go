package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualDriver fires the registered job only when told to.
type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(ctx context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(ctx context.Context) error {
	d.stopped = true
	return nil
}

func TestSchedulerRunsPipelineOnTrigger(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{}
	pipeline := NewPipeline(PipelineDeps{Reports: stubReports{report: sampleReport()}, Repository: repo})
	driver := &manualDriver{}
	s := NewScheduler(driver, pipeline, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, s.Start(context.Background()))
	require.NotNil(t, driver.job)

	driver.job(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	driver.job(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	assert.Len(t, repo.saved, 2)

	require.NoError(t, s.Stop(context.Background()))
	assert.True(t, driver.stopped)
}

func TestSchedulerKeepsRunningAfterFailure(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{err: errors.New("disk full")}
	pipeline := NewPipeline(PipelineDeps{Reports: stubReports{report: sampleReport()}, Repository: repo})
	driver := &manualDriver{}
	s := NewScheduler(driver, pipeline, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, s.Start(context.Background()))
	assert.NotPanics(t, func() { driver.job(time.Now()) })

	repo.err = nil
	driver.job(time.Now())
	assert.Len(t, repo.saved, 1)
}

func TestSchedulerWithoutDriver(t *testing.T) {
	t.Parallel()

	s := NewScheduler(nil, nil, nil)
	assert.NoError(t, s.Start(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
}
