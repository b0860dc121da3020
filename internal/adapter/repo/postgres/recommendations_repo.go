package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

const recommendationColumns = `id, user_id, recommendation_type, title, description, priority,
	confidence_score, content, is_read, is_bookmarked, feedback_rating, created_at, updated_at`

// DefaultListLimit caps listings that do not request a limit.
const DefaultListLimit = 50

// recommendationContent is the JSONB payload holding the list-shaped draft fields.
type recommendationContent struct {
	ActionSteps      []string `json:"action_steps"`
	Timeline         string   `json:"timeline"`
	Resources        []string `json:"resources"`
	ExpectedOutcomes string   `json:"expected_outcomes"`
}

// RecommendationRepo persists recommendations.
type RecommendationRepo struct {
	Pool PgxPool
	now  func() time.Time
}

// NewRecommendationRepo constructs a RecommendationRepo with the given pool.
func NewRecommendationRepo(p PgxPool) *RecommendationRepo {
	return &RecommendationRepo{Pool: p, now: time.Now}
}

func startRecSpan(ctx domain.Context, name, op string) (domain.Context, trace.Span) {
	ctx, span := otel.Tracer("repo.recommendations").Start(ctx, name)
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", op),
		attribute.String("db.sql.table", "recommendations"),
	)
	return ctx, span
}

// scanRecommendation reads one row selected with recommendationColumns.
func scanRecommendation(row pgx.Row) (domain.Recommendation, error) {
	var (
		rec     domain.Recommendation
		content []byte
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Kind, &rec.Title, &rec.Description, &rec.Priority,
		&rec.Confidence, &content, &rec.IsRead, &rec.IsBookmarked, &rec.FeedbackRating,
		&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return domain.Recommendation{}, err
	}
	var c recommendationContent
	if len(content) > 0 {
		if err := json.Unmarshal(content, &c); err != nil {
			return domain.Recommendation{}, fmt.Errorf("decode content: %w", err)
		}
	}
	rec.ActionSteps = nonNil(c.ActionSteps)
	rec.Timeline = c.Timeline
	rec.Resources = nonNil(c.Resources)
	rec.ExpectedOutcomes = c.ExpectedOutcomes
	return rec, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// CreateMany stores drafts for userID in a single transaction and returns
// them in input order.
func (r *RecommendationRepo) CreateMany(ctx domain.Context, userID string, drafts []domain.Draft) ([]domain.Recommendation, error) {
	ctx, span := startRecSpan(ctx, "recommendations.CreateMany", "INSERT")
	defer span.End()
	span.SetAttributes(attribute.Int("recommendations.count", len(drafts)))

	if len(drafts) == 0 {
		return []domain.Recommendation{}, nil
	}
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("op=recommendation.create_many.begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := r.now().UTC()
	out := make([]domain.Recommendation, 0, len(drafts))
	for _, d := range drafts {
		content, err := json.Marshal(recommendationContent{
			ActionSteps:      nonNil(d.ActionSteps),
			Timeline:         d.Timeline,
			Resources:        nonNil(d.Resources),
			ExpectedOutcomes: d.ExpectedOutcomes,
		})
		if err != nil {
			return nil, fmt.Errorf("op=recommendation.create_many.encode: %w", err)
		}
		rec := domain.Recommendation{ID: uuid.NewString(), UserID: userID, Draft: d, CreatedAt: now, UpdatedAt: now}
		q := `INSERT INTO recommendations (id, user_id, recommendation_type, title, description, priority,
	confidence_score, content, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)`
		if _, err := tx.Exec(ctx, q, rec.ID, userID, d.Kind, d.Title, d.Description, d.Priority, d.Confidence, content, now); err != nil {
			return nil, fmt.Errorf("op=recommendation.create_many.insert: %w", err)
		}
		rec.ActionSteps = nonNil(d.ActionSteps)
		rec.Resources = nonNil(d.Resources)
		out = append(out, rec)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("op=recommendation.create_many.commit: %w", err)
	}
	return out, nil
}

// List returns userID's recommendations newest first.
func (r *RecommendationRepo) List(ctx domain.Context, userID string, f domain.RecommendationFilter) ([]domain.Recommendation, error) {
	ctx, span := startRecSpan(ctx, "recommendations.List", "SELECT")
	defer span.End()

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	args := []any{userID}
	q := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE user_id=$1`
	if f.Kind != "" {
		args = append(args, f.Kind)
		q += ` AND recommendation_type=$` + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	q += ` ORDER BY created_at DESC, id LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("op=recommendation.list: %w", err)
	}
	defer rows.Close()
	out := []domain.Recommendation{}
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("op=recommendation.list.scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=recommendation.list.rows: %w", err)
	}
	return out, nil
}

// Get loads one recommendation owned by userID.
func (r *RecommendationRepo) Get(ctx domain.Context, userID, id string) (domain.Recommendation, error) {
	ctx, span := startRecSpan(ctx, "recommendations.Get", "SELECT")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return domain.Recommendation{}, fmt.Errorf("op=recommendation.get: %w", domain.ErrNotFound)
	}
	q := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE id=$1 AND user_id=$2`
	rec, err := scanRecommendation(r.Pool.QueryRow(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Recommendation{}, fmt.Errorf("op=recommendation.get: %w", domain.ErrNotFound)
		}
		return domain.Recommendation{}, fmt.Errorf("op=recommendation.get: %w", err)
	}
	return rec, nil
}

// MarkRead flags a recommendation as read.
func (r *RecommendationRepo) MarkRead(ctx domain.Context, userID, id string) error {
	ctx, span := startRecSpan(ctx, "recommendations.MarkRead", "UPDATE")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("op=recommendation.mark_read: %w", domain.ErrNotFound)
	}
	tag, err := r.Pool.Exec(ctx, `UPDATE recommendations SET is_read=true, updated_at=$3 WHERE id=$1 AND user_id=$2`, id, userID, r.now().UTC())
	if err != nil {
		return fmt.Errorf("op=recommendation.mark_read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=recommendation.mark_read: %w", domain.ErrNotFound)
	}
	return nil
}

// UpdateFeedback applies the non-nil fields of fb and returns the updated row.
func (r *RecommendationRepo) UpdateFeedback(ctx domain.Context, userID, id string, fb domain.Feedback) (domain.Recommendation, error) {
	ctx, span := startRecSpan(ctx, "recommendations.UpdateFeedback", "UPDATE")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return domain.Recommendation{}, fmt.Errorf("op=recommendation.update_feedback: %w", domain.ErrNotFound)
	}
	q := `UPDATE recommendations SET
	feedback_rating=COALESCE($3, feedback_rating),
	is_bookmarked=COALESCE($4, is_bookmarked),
	updated_at=$5
WHERE id=$1 AND user_id=$2
RETURNING ` + recommendationColumns
	rec, err := scanRecommendation(r.Pool.QueryRow(ctx, q, id, userID, fb.Rating, fb.IsBookmarked, r.now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Recommendation{}, fmt.Errorf("op=recommendation.update_feedback: %w", domain.ErrNotFound)
		}
		return domain.Recommendation{}, fmt.Errorf("op=recommendation.update_feedback: %w", err)
	}
	return rec, nil
}

// Counts returns total and unread recommendation counts for userID.
func (r *RecommendationRepo) Counts(ctx domain.Context, userID string) (domain.RecommendationCounts, error) {
	ctx, span := startRecSpan(ctx, "recommendations.Counts", "SELECT")
	defer span.End()

	var c domain.RecommendationCounts
	q := `SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT is_read), MAX(created_at) FROM recommendations WHERE user_id=$1`
	if err := r.Pool.QueryRow(ctx, q, userID).Scan(&c.Total, &c.Unread, &c.LatestAt); err != nil {
		return domain.RecommendationCounts{}, fmt.Errorf("op=recommendation.counts: %w", err)
	}
	return c, nil
}
