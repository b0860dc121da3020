package postgres

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

// ProgressRepo reads career progress joined with the catalog.
type ProgressRepo struct{ Pool PgxPool }

// NewProgressRepo constructs a ProgressRepo with the given pool.
func NewProgressRepo(p PgxPool) *ProgressRepo { return &ProgressRepo{Pool: p} }

// ListByUser returns userID's progress entries, most recently updated first.
func (r *ProgressRepo) ListByUser(ctx domain.Context, userID string) ([]domain.CareerProgress, error) {
	tracer := otel.Tracer("repo.career_progress")
	ctx, span := tracer.Start(ctx, "career_progress.ListByUser")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "career_progress"),
	)

	q := `SELECT cp.user_id, cp.career_path_id, p.name, cp.current_stage, cp.progress_percentage, cp.updated_at
FROM career_progress cp JOIN career_paths p ON p.id = cp.career_path_id
WHERE cp.user_id=$1 ORDER BY cp.updated_at DESC`
	rows, err := r.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("op=progress.list: %w", err)
	}
	defer rows.Close()
	out := []domain.CareerProgress{}
	for rows.Next() {
		var p domain.CareerProgress
		if err := rows.Scan(&p.UserID, &p.CareerPathID, &p.CareerPathName, &p.CurrentStage, &p.ProgressPercentage, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("op=progress.list.scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=progress.list.rows: %w", err)
	}
	return out, nil
}
