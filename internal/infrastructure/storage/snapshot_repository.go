package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"BlogAnalytics/internal/domain"
	"BlogAnalytics/internal/ports"
)

const snapshotsTable = "analytics_snapshots"

// SnapshotRepository persists analytics snapshots into SQLite or Postgres.
type SnapshotRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository wires a sql.DB opened with driver.
func NewSnapshotRepository(db *sql.DB, driver string) *SnapshotRepository {
	return &SnapshotRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholders(driver)),
	}
}

// Save inserts the snapshot with its overview counters and the report as JSON.
func (r *SnapshotRepository) Save(ctx context.Context, s domain.Snapshot) error {
	if r.db == nil {
		return nil
	}

	report, err := json.Marshal(s.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	o := s.Report.Overview
	query, args, err := r.builder.
		Insert(snapshotsTable).
		Columns("id", "taken_at", "total_posts", "total_views", "total_comments", "engagement_rate", "report").
		Values(s.ID, s.TakenAt.UTC().UnixNano(), o.TotalPosts, o.TotalViews, o.TotalComments, o.EngagementRate, string(report)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Latest returns up to limit snapshots, newest first.
func (r *SnapshotRepository) Latest(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	if r.db == nil {
		return []domain.Snapshot{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	query, args, err := r.builder.
		Select("id", "taken_at", "report").
		From(snapshotsTable).
		OrderBy("taken_at DESC", "id").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}

	result := make([]domain.Snapshot, 0, limit)
	for rows.Next() {
		var (
			s       domain.Snapshot
			takenAt int64
			report  string
		)
		if err := rows.Scan(&s.ID, &takenAt, &report); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(report), &s.Report); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("decode snapshot %s: %w", s.ID, err)
		}
		s.TakenAt = time.Unix(0, takenAt).UTC()
		result = append(result, s)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}
