// Package usecase contains application business logic services.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
	"github.com/fairyhunter13/ai-career-advisor/internal/service/recommender"
)

// Response texts returned by Generate.
const (
	fallbackNote       = "AI service unavailable, using fallback recommendations"
	aiMessageFmt       = "Generated %d AI-powered recommendations"
	fallbackMessageFmt = "Generated %d recommendations (fallback mode)"
)

// Runner produces recommendation drafts for a profile.
type Runner interface {
	Run(ctx context.Context, profile domain.Profile) recommender.Result
}

// RateLimitError reports an exhausted generation quota and when to retry.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string { return e.Err.Error() }
func (e *RateLimitError) Unwrap() error { return e.Err }

// GenerateOutcome is the result of one generation request.
type GenerateOutcome struct {
	Message         string                  `json:"message"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	AIPowered       bool                    `json:"ai_powered"`
	Note            string                  `json:"note,omitempty"`
	Source          string                  `json:"-"`
}

// RecommendService generates and manages a user's recommendations.
type RecommendService struct {
	Profiles domain.ProfileRepository
	Recs     domain.RecommendationRepository
	Pipeline Runner
	Limiter  domain.GenerationLimiter
	Events   domain.EventPublisher
	now      func() time.Time
}

// NewRecommendService constructs a RecommendService. Limiter and Events may be nil.
func NewRecommendService(p domain.ProfileRepository, r domain.RecommendationRepository, pipe Runner, l domain.GenerationLimiter, ev domain.EventPublisher) RecommendService {
	return RecommendService{Profiles: p, Recs: r, Pipeline: pipe, Limiter: l, Events: ev, now: time.Now}
}

func (s RecommendService) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

// Generate runs the recommendation pipeline for userID and stores every draft.
// AI unavailability is not an error; the outcome then reports fallback mode.
func (s RecommendService) Generate(ctx domain.Context, userID string) (GenerateOutcome, error) {
	lg := observability.LoggerFromContext(ctx).With(slog.String("user_id", userID))

	profile, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return GenerateOutcome{}, fmt.Errorf("%w: profile not found", domain.ErrNotFound)
		}
		return GenerateOutcome{}, fmt.Errorf("op=recommend.generate.profile: %w", err)
	}

	if s.Limiter != nil {
		wait, err := s.Limiter.Allow(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrRateLimited) {
				lg.Info("generation quota exhausted", slog.Duration("retry_after", wait))
				return GenerateOutcome{}, &RateLimitError{RetryAfter: wait, Err: err}
			}
			return GenerateOutcome{}, fmt.Errorf("op=recommend.generate.quota: %w", err)
		}
	}

	res := s.Pipeline.Run(ctx, profile)
	recs, err := s.Recs.CreateMany(ctx, userID, res.Drafts)
	if err != nil {
		return GenerateOutcome{}, fmt.Errorf("op=recommend.generate.persist: %w", err)
	}

	now := s.clock()
	if err := s.Profiles.TouchAssessment(ctx, userID, now); err != nil {
		lg.Warn("failed to stamp assessment time", slog.Any("error", err))
	}

	if s.Events != nil {
		ids := make([]string, 0, len(recs))
		for _, r := range recs {
			ids = append(ids, r.ID)
		}
		ev := domain.GenerationEvent{UserID: userID, RecommendationIDs: ids, Source: res.Source, AIPowered: res.AIPowered, GeneratedAt: now}
		if err := s.Events.PublishGenerated(ctx, ev); err != nil {
			lg.Warn("failed to publish generation event", slog.Any("error", err))
		}
	}

	out := GenerateOutcome{Recommendations: recs, AIPowered: res.AIPowered, Source: res.Source}
	if res.AIPowered {
		out.Message = fmt.Sprintf(aiMessageFmt, len(recs))
	} else {
		out.Message = fmt.Sprintf(fallbackMessageFmt, len(recs))
		out.Note = fallbackNote
	}
	lg.Info("recommendation run stored",
		slog.String("source", res.Source),
		slog.Bool("ai_powered", res.AIPowered),
		slog.Int("count", len(recs)))
	return out, nil
}

// List returns userID's recommendations newest first.
func (s RecommendService) List(ctx domain.Context, userID string, f domain.RecommendationFilter) ([]domain.Recommendation, error) {
	if f.Kind != "" {
		k, ok := domain.ParseKind(string(f.Kind))
		if !ok {
			return nil, fmt.Errorf("%w: unknown recommendation type %q", domain.ErrValidation, f.Kind)
		}
		f.Kind = k
	}
	if f.Limit < 0 || f.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", domain.ErrValidation)
	}
	recs, err := s.Recs.List(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("op=recommend.list: %w", err)
	}
	return recs, nil
}

// Get returns one recommendation owned by userID.
func (s RecommendService) Get(ctx domain.Context, userID, id string) (domain.Recommendation, error) {
	rec, err := s.Recs.Get(ctx, userID, id)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("op=recommend.get: %w", err)
	}
	return rec, nil
}

// MarkRead flags a recommendation as read.
func (s RecommendService) MarkRead(ctx domain.Context, userID, id string) error {
	if err := s.Recs.MarkRead(ctx, userID, id); err != nil {
		return fmt.Errorf("op=recommend.mark_read: %w", err)
	}
	return nil
}

// Feedback records a rating and/or bookmark on a recommendation.
func (s RecommendService) Feedback(ctx domain.Context, userID, id string, fb domain.Feedback) (domain.Recommendation, error) {
	if err := fb.Validate(); err != nil {
		return domain.Recommendation{}, err
	}
	rec, err := s.Recs.UpdateFeedback(ctx, userID, id, fb)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("op=recommend.feedback: %w", err)
	}
	return rec, nil
}
