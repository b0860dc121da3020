package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CleanupService purges recommendations the user has read and not bookmarked
// once they are older than the retention window. When AbandonAfter is set it
// also marks assessment sessions idle for longer than that as abandoned.
type CleanupService struct {
	Pool          PgxPool
	RetentionDays int
	AbandonAfter  time.Duration
	now           func() time.Time
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(pool PgxPool, retentionDays int) *CleanupService {
	if retentionDays <= 0 {
		retentionDays = 180
	}
	return &CleanupService{Pool: pool, RetentionDays: retentionDays, now: time.Now}
}

// CleanupOldData deletes expired recommendations and returns how many were removed.
func (s *CleanupService) CleanupOldData(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -s.RetentionDays)
	tag, err := s.Pool.Exec(ctx, `
		DELETE FROM recommendations
		WHERE is_read AND NOT is_bookmarked AND created_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("op=cleanup.recommendations: %w", err)
	}
	deleted := tag.RowsAffected()
	slog.Info("recommendation cleanup completed",
		slog.Int64("deleted_recommendations", deleted),
		slog.Time("cutoff", cutoff),
	)
	if s.AbandonAfter > 0 {
		repo := &AssessmentRepo{Pool: s.Pool, now: s.now}
		abandoned, err := repo.AbandonStale(ctx, s.now().UTC().Add(-s.AbandonAfter))
		if err != nil {
			return deleted, fmt.Errorf("op=cleanup.assessments: %w", err)
		}
		slog.Info("stale assessments abandoned", slog.Int64("abandoned_assessments", abandoned))
	}
	return deleted, nil
}

// RunPeriodic starts a periodic cleanup job
func (s *CleanupService) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour // daily by default
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if _, err := s.CleanupOldData(ctx); err != nil {
		slog.Error("initial cleanup failed", slog.Any("error", err))
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup service stopping")
			return
		case <-ticker.C:
			if _, err := s.CleanupOldData(ctx); err != nil {
				slog.Error("periodic cleanup failed", slog.Any("error", err))
			}
		}
	}
}
