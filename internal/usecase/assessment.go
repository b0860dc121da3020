package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
	"github.com/fairyhunter13/ai-career-advisor/pkg/textx"
)

// AssessmentService runs questionnaire sessions for users.
type AssessmentService struct {
	Profiles    domain.ProfileRepository
	Assessments domain.AssessmentRepository
	now         func() time.Time
}

// NewAssessmentService constructs an AssessmentService.
func NewAssessmentService(p domain.ProfileRepository, a domain.AssessmentRepository) AssessmentService {
	return AssessmentService{Profiles: p, Assessments: a, now: time.Now}
}

func (s AssessmentService) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

// Start opens a session of the given type. An empty type means ai_powered.
// The user must already have a profile.
func (s AssessmentService) Start(ctx domain.Context, userID string, kind domain.AssessmentType) (domain.AssessmentSession, error) {
	kind = domain.AssessmentType(strings.ToLower(strings.TrimSpace(string(kind))))
	if kind == "" {
		kind = domain.AssessmentAIPowered
	}
	if !kind.Known() {
		return domain.AssessmentSession{}, fmt.Errorf("%w: unknown session type %q", domain.ErrValidation, kind)
	}
	if _, err := s.Profiles.Get(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.AssessmentSession{}, fmt.Errorf("%w: profile not found", domain.ErrNotFound)
		}
		return domain.AssessmentSession{}, fmt.Errorf("op=assessment.start.profile: %w", err)
	}
	out, err := s.Assessments.Start(ctx, userID, kind)
	if err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("op=assessment.start: %w", err)
	}
	observability.LoggerFromContext(ctx).Info("assessment started",
		slog.String("user_id", userID),
		slog.String("assessment_id", out.ID),
		slog.String("session_type", string(kind)))
	return out, nil
}

// SaveAnswer stores one answer on an in_progress session.
func (s AssessmentService) SaveAnswer(ctx domain.Context, userID, id string, a domain.AssessmentAnswer) (domain.AssessmentSession, error) {
	a.QuestionText = textx.SanitizeText(a.QuestionText)
	a.Answer = textx.SanitizeText(a.Answer)
	a.QuestionType = domain.QuestionType(strings.ToLower(strings.TrimSpace(string(a.QuestionType))))
	if a.QuestionType == "" {
		a.QuestionType = domain.QuestionMultipleChoice
	}
	if err := a.Validate(); err != nil {
		return domain.AssessmentSession{}, err
	}
	a.AnsweredAt = s.clock()
	out, err := s.Assessments.SaveAnswer(ctx, userID, id, a)
	if err != nil {
		return domain.AssessmentSession{}, s.closedOr(ctx, userID, id, "op=assessment.save_answer", err)
	}
	return out, nil
}

// Complete closes an in_progress session, records its results and stamps the
// profile's last assessment time.
func (s AssessmentService) Complete(ctx domain.Context, userID, id string, c domain.AssessmentCompletion) (domain.AssessmentSession, error) {
	if err := c.Validate(); err != nil {
		return domain.AssessmentSession{}, err
	}
	for i := range c.Matches {
		c.Matches[i].Title = textx.SingleLine(c.Matches[i].Title)
		c.Matches[i].Description = textx.SanitizeText(c.Matches[i].Description)
		if c.Matches[i].RequiredSkills == nil {
			c.Matches[i].RequiredSkills = []string{}
		}
	}
	now := s.clock()
	out, err := s.Assessments.Complete(ctx, userID, id, c, now)
	if err != nil {
		return domain.AssessmentSession{}, s.closedOr(ctx, userID, id, "op=assessment.complete", err)
	}
	lg := observability.LoggerFromContext(ctx).With(slog.String("user_id", userID), slog.String("assessment_id", id))
	if err := s.Profiles.TouchAssessment(ctx, userID, now); err != nil {
		lg.Warn("failed to stamp assessment time", slog.Any("error", err))
	}
	lg.Info("assessment completed", slog.Int("questions_answered", out.QuestionsAnswered), slog.Int("career_matches", len(out.Matches)))
	return out, nil
}

// closedOr turns a not-found mutation on a session that exists but is no
// longer in_progress into ErrConflict. Other errors are wrapped with op.
func (s AssessmentService) closedOr(ctx domain.Context, userID, id, op string, err error) error {
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	existing, gerr := s.Assessments.Get(ctx, userID, id)
	if gerr == nil && existing.Status != domain.AssessmentInProgress {
		return fmt.Errorf("%w: assessment is %s", domain.ErrConflict, existing.Status)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Get returns one session with its answers.
func (s AssessmentService) Get(ctx domain.Context, userID, id string) (domain.AssessmentSession, error) {
	out, err := s.Assessments.Get(ctx, userID, id)
	if err != nil {
		return domain.AssessmentSession{}, fmt.Errorf("op=assessment.get: %w", err)
	}
	return out, nil
}

// List returns userID's sessions newest first, optionally filtered.
func (s AssessmentService) List(ctx domain.Context, userID string, f domain.AssessmentFilter) ([]domain.AssessmentSession, error) {
	if f.Status != "" && !f.Status.Known() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, f.Status)
	}
	if f.Type != "" && !f.Type.Known() {
		return nil, fmt.Errorf("%w: unknown session type %q", domain.ErrValidation, f.Type)
	}
	if f.Limit < 0 || f.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", domain.ErrValidation)
	}
	out, err := s.Assessments.List(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("op=assessment.list: %w", err)
	}
	return out, nil
}

// Statistics summarises userID's sessions and reports the most recent one.
func (s AssessmentService) Statistics(ctx domain.Context, userID string) (domain.AssessmentStatistics, error) {
	counts, err := s.Assessments.Counts(ctx, userID)
	if err != nil {
		return domain.AssessmentStatistics{}, fmt.Errorf("op=assessment.statistics: %w", err)
	}
	stats := domain.AssessmentStatistics{AssessmentCounts: counts}
	if counts.Total == 0 {
		return stats, nil
	}
	latest, err := s.Assessments.List(ctx, userID, domain.AssessmentFilter{Limit: 1})
	if err != nil {
		return domain.AssessmentStatistics{}, fmt.Errorf("op=assessment.statistics.latest: %w", err)
	}
	if len(latest) > 0 {
		l := latest[0]
		stats.MostRecent = &domain.AssessmentSummary{ID: l.ID, Date: l.CreatedAt, Status: l.Status, Type: l.Type}
	}
	return stats, nil
}
