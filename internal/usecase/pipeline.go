package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"BlogAnalytics/internal/domain"
	"BlogAnalytics/internal/ports"
)

// ReportSource produces the analytics report a snapshot records.
type ReportSource interface {
	Report(ctx context.Context) (domain.Report, error)
}

// PipelineDeps wires all driven adapters into the snapshot pipeline.
type PipelineDeps struct {
	Reports    ReportSource
	Repository ports.SnapshotRepository
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Pipeline takes an analytics snapshot, persists it and publishes a digest.
type Pipeline struct {
	reports    ReportSource
	repository ports.SnapshotRepository
	notifier   ports.Notifier
	logger     *slog.Logger
	newID      func() string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		reports:    deps.Reports,
		repository: deps.Repository,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		newID:      func() string { return uuid.NewString() },
	}
}

// Snapshot builds the report at trigger, stores it and sends the digest.
func (p *Pipeline) Snapshot(ctx context.Context, trigger time.Time) (domain.Snapshot, error) {
	if p.reports == nil {
		return domain.Snapshot{}, nil
	}

	report, err := p.reports.Report(ctx)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("build report: %w", err)
	}

	snapshot := domain.Snapshot{
		ID:      p.newID(),
		TakenAt: trigger.UTC(),
		Report:  report,
	}

	if p.repository != nil {
		if err := p.repository.Save(ctx, snapshot); err != nil {
			return domain.Snapshot{}, fmt.Errorf("persist snapshot %s: %w", snapshot.ID, err)
		}
	}
	p.debug("snapshot taken", "id", snapshot.ID, "posts", report.Overview.TotalPosts)

	if p.notifier == nil {
		return snapshot, nil
	}

	if err := p.notifier.PublishDigest(ctx, buildDigestMessage(snapshot)); err != nil {
		return snapshot, fmt.Errorf("publish digest: %w", err)
	}
	return snapshot, nil
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger == nil {
		return
	}
	p.logger.Debug(msg, args...)
}

// markdownEscaper escapes Telegram Markdown markers in user-supplied text.
var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func buildDigestMessage(s domain.Snapshot) string {
	o := s.Report.Overview

	var b strings.Builder
	fmt.Fprintf(&b, "*Blog digest %s*\n", s.TakenAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Posts: %d\nViews: %d\nComments: %d\nEngagement: %.2f%%\n",
		o.TotalPosts, o.TotalViews, o.TotalComments, o.EngagementRate)

	if len(s.Report.TopPosts) > 0 {
		b.WriteString("\nTop posts:\n")
		for i, post := range s.Report.TopPosts {
			fmt.Fprintf(&b, "%d. %s (%d views, %d comments)\n", i+1, markdownEscaper.Replace(post.Title), post.Views, post.Comments)
		}
	}

	if len(s.Report.TopAuthors) > 0 {
		b.WriteString("\nTop authors:\n")
		for _, a := range s.Report.TopAuthors {
			fmt.Fprintf(&b, "- %s: %d posts, %d views\n", markdownEscaper.Replace(a.Author), a.Posts, a.Views)
		}
	}

	return b.String()
}
