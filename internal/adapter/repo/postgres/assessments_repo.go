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

const assessmentColumns = `id, user_id, session_type, status, answers, career_matches,
	confidence_score, started_at, completed_at, duration_seconds, created_at, updated_at`

// AssessmentRepo persists assessment sessions.
type AssessmentRepo struct {
	Pool PgxPool
	now  func() time.Time
}

// NewAssessmentRepo constructs an AssessmentRepo with the given pool.
func NewAssessmentRepo(p PgxPool) *AssessmentRepo { return &AssessmentRepo{Pool: p, now: time.Now} }

func startAssessmentSpan(ctx domain.Context, name, op string) (domain.Context, trace.Span) {
	ctx, span := otel.Tracer("repo.assessments").Start(ctx, name)
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", op),
		attribute.String("db.sql.table", "assessment_sessions"),
	)
	return ctx, span
}

// scanAssessment reads one row selected with assessmentColumns.
func scanAssessment(row pgx.Row) (domain.AssessmentSession, error) {
	var (
		s                domain.AssessmentSession
		answers, matches []byte
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Type, &s.Status, &answers, &matches,
		&s.ConfidenceScore, &s.StartedAt, &s.CompletedAt, &s.DurationSeconds,
		&s.CreatedAt, &s.UpdatedAt); err != nil {
		return domain.AssessmentSession{}, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &s.Answers); err != nil {
			return domain.AssessmentSession{}, fmt.Errorf("decode answers: %w", err)
		}
	}
	if len(matches) > 0 {
		if err := json.Unmarshal(matches, &s.Matches); err != nil {
			return domain.AssessmentSession{}, fmt.Errorf("decode career matches: %w", err)
		}
	}
	if s.Answers == nil {
		s.Answers = []domain.AssessmentAnswer{}
	}
	if s.Matches == nil {
		s.Matches = []domain.CareerMatch{}
	}
	s.QuestionsAnswered = len(s.Answers)
	return s, nil
}

// Start opens a new in_progress session for userID.
func (r *AssessmentRepo) Start(ctx domain.Context, userID string, kind domain.AssessmentType) (domain.AssessmentSession, error) {
	ctx, span := startAssessmentSpan(ctx, "assessments.Start", "INSERT")
	defer span.End()

	now := r.now().UTC()
	id := uuid.NewString()
	q := `INSERT INTO assessment_sessions (id, user_id, session_type, status, started_at, created_at, updated_at)
VALUES ($1,$2,$3,'in_progress',$4,$4,$4)`
	if _, err := r.Pool.Exec(ctx, q, id, userID, kind, now); err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("op=assessment.start: %w", err)
	}
	return domain.AssessmentSession{
		ID:        id,
		UserID:    userID,
		Type:      kind,
		Status:    domain.AssessmentInProgress,
		Answers:   []domain.AssessmentAnswer{},
		Matches:   []domain.CareerMatch{},
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SaveAnswer inserts a, replacing any answer with the same question number,
// keeping answers ordered by question number.
func (r *AssessmentRepo) SaveAnswer(ctx domain.Context, userID, id string, a domain.AssessmentAnswer) (domain.AssessmentSession, error) {
	ctx, span := startAssessmentSpan(ctx, "assessments.SaveAnswer", "UPDATE")
	defer span.End()
	span.SetAttributes(attribute.Int("assessment.question_number", a.QuestionNumber))

	if _, err := uuid.Parse(id); err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("op=assessment.save_answer: %w", domain.ErrNotFound)
	}
	if a.Options == nil {
		a.Options = []string{}
	}
	payload, err := json.Marshal(a)
	if err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("op=assessment.save_answer.encode: %w", err)
	}
	q := `UPDATE assessment_sessions SET
	answers = (
		SELECT jsonb_agg(e ORDER BY (e->>'question_number')::int)
		FROM (
			SELECT e FROM jsonb_array_elements(answers) AS e WHERE (e->>'question_number')::int <> $3
			UNION ALL SELECT $4::jsonb
		) AS merged(e)
	),
	updated_at=$5
WHERE id=$1 AND user_id=$2 AND status='in_progress'
RETURNING ` + assessmentColumns
	s, err := scanAssessment(r.Pool.QueryRow(ctx, q, id, userID, a.QuestionNumber, payload, r.now().UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AssessmentSession{}, fmt.Errorf("op=assessment.save_answer: %w", domain.ErrNotFound)
		}
		return domain.AssessmentSession{}, fmt.Errorf("op=assessment.save_answer: %w", err)
	}
	return s, nil
}

// Complete marks an in_progress session completed at the given time and
// records its duration. Empty matches and a nil confidence keep stored values.
func (r *AssessmentRepo) Complete(ctx domain.Context, userID, id string, c domain.AssessmentCompletion, at time.Time) (domain.AssessmentSession, error) {
	ctx, span := startAssessmentSpan(ctx, "assessments.Complete", "UPDATE")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("op=assessment.complete: %w", domain.ErrNotFound)
	}
	var matches any
	if len(c.Matches) > 0 {
		b, err := json.Marshal(c.Matches)
		if err != nil {
			return domain.AssessmentSession{}, fmt.Errorf("op=assessment.complete.encode: %w", err)
		}
		matches = b
	}
	q := `UPDATE assessment_sessions SET
	status='completed',
	completed_at=$3,
	duration_seconds=GREATEST(0, FLOOR(EXTRACT(EPOCH FROM ($3::timestamptz - started_at))))::int,
	career_matches=COALESCE($4::jsonb, career_matches),
	confidence_score=COALESCE($5, confidence_score),
	updated_at=$3
WHERE id=$1 AND user_id=$2 AND status='in_progress'
RETURNING ` + assessmentColumns
	s, err := scanAssessment(r.Pool.QueryRow(ctx, q, id, userID, at.UTC(), matches, c.ConfidenceScore))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AssessmentSession{}, fmt.Errorf("op=assessment.complete: %w", domain.ErrNotFound)
		}
		return domain.AssessmentSession{}, fmt.Errorf("op=assessment.complete: %w", err)
	}
	return s, nil
}

// Get loads one session owned by userID.
func (r *AssessmentRepo) Get(ctx domain.Context, userID, id string) (domain.AssessmentSession, error) {
	ctx, span := startAssessmentSpan(ctx, "assessments.Get", "SELECT")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("op=assessment.get: %w", domain.ErrNotFound)
	}
	q := `SELECT ` + assessmentColumns + ` FROM assessment_sessions WHERE id=$1 AND user_id=$2`
	s, err := scanAssessment(r.Pool.QueryRow(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AssessmentSession{}, fmt.Errorf("op=assessment.get: %w", domain.ErrNotFound)
		}
		return domain.AssessmentSession{}, fmt.Errorf("op=assessment.get: %w", err)
	}
	return s, nil
}

// List returns userID's sessions newest first.
func (r *AssessmentRepo) List(ctx domain.Context, userID string, f domain.AssessmentFilter) ([]domain.AssessmentSession, error) {
	ctx, span := startAssessmentSpan(ctx, "assessments.List", "SELECT")
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
	q := `SELECT ` + assessmentColumns + ` FROM assessment_sessions WHERE user_id=$1`
	if f.Status != "" {
		args = append(args, f.Status)
		q += ` AND status=$` + strconv.Itoa(len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		q += ` AND session_type=$` + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	q += ` ORDER BY created_at DESC, id LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("op=assessment.list: %w", err)
	}
	defer rows.Close()
	out := []domain.AssessmentSession{}
	for rows.Next() {
		s, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("op=assessment.list.scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=assessment.list.rows: %w", err)
	}
	return out, nil
}

// Counts aggregates userID's sessions. The average covers completed sessions
// only and is nil when none has a duration.
func (r *AssessmentRepo) Counts(ctx domain.Context, userID string) (domain.AssessmentCounts, error) {
	ctx, span := startAssessmentSpan(ctx, "assessments.Counts", "SELECT")
	defer span.End()

	var c domain.AssessmentCounts
	q := `SELECT COUNT(*),
	COUNT(*) FILTER (WHERE status='completed'),
	COUNT(*) FILTER (WHERE status='in_progress'),
	(AVG(duration_seconds) FILTER (WHERE status='completed' AND duration_seconds IS NOT NULL))::float8,
	COALESCE(SUM(jsonb_array_length(career_matches)), 0)
FROM assessment_sessions WHERE user_id=$1`
	if err := r.Pool.QueryRow(ctx, q, userID).Scan(&c.Total, &c.Completed, &c.InProgress, &c.AverageDurationSeconds, &c.TotalCareerMatches); err != nil {
		return domain.AssessmentCounts{}, fmt.Errorf("op=assessment.counts: %w", err)
	}
	return c, nil
}

// AbandonStale moves in_progress sessions started before cutoff to abandoned
// and returns how many changed.
func (r *AssessmentRepo) AbandonStale(ctx domain.Context, cutoff time.Time) (int64, error) {
	ctx, span := startAssessmentSpan(ctx, "assessments.AbandonStale", "UPDATE")
	defer span.End()

	tag, err := r.Pool.Exec(ctx, `UPDATE assessment_sessions SET status='abandoned', updated_at=$2
WHERE status='in_progress' AND started_at < $1`, cutoff.UTC(), r.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("op=assessment.abandon_stale: %w", err)
	}
	return tag.RowsAffected(), nil
}
