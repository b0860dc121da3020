package domain

import (
	"context"
	"time"
)

// Context aliases context.Context so ports read uniformly across adapters.
type Context = context.Context

// Repositories (ports)

// ProfileRepository persists user profiles.
type ProfileRepository interface {
	Get(ctx Context, userID string) (Profile, error)
	Upsert(ctx Context, p Profile) (Profile, error)
	TouchAssessment(ctx Context, userID string, at time.Time) error
}

// RecommendationRepository persists generated recommendations.
type RecommendationRepository interface {
	CreateMany(ctx Context, userID string, drafts []Draft) ([]Recommendation, error)
	List(ctx Context, userID string, f RecommendationFilter) ([]Recommendation, error)
	Get(ctx Context, userID, id string) (Recommendation, error)
	MarkRead(ctx Context, userID, id string) error
	UpdateFeedback(ctx Context, userID, id string, fb Feedback) (Recommendation, error)
	Counts(ctx Context, userID string) (RecommendationCounts, error)
}

// CareerPathRepository stores the career path catalog.
type CareerPathRepository interface {
	List(ctx Context, industry string) ([]CareerPath, error)
	Upsert(ctx Context, p CareerPath) error
}

// ProgressRepository reads a user's career progress.
type ProgressRepository interface {
	ListByUser(ctx Context, userID string) ([]CareerProgress, error)
}

// AssessmentRepository persists assessment sessions. Mutations only touch
// in_progress sessions and report ErrNotFound otherwise.
type AssessmentRepository interface {
	Start(ctx Context, userID string, kind AssessmentType) (AssessmentSession, error)
	SaveAnswer(ctx Context, userID, id string, a AssessmentAnswer) (AssessmentSession, error)
	Complete(ctx Context, userID, id string, c AssessmentCompletion, at time.Time) (AssessmentSession, error)
	Get(ctx Context, userID, id string) (AssessmentSession, error)
	List(ctx Context, userID string, f AssessmentFilter) ([]AssessmentSession, error)
	Counts(ctx Context, userID string) (AssessmentCounts, error)
}

// Generator (port)

// Generator sends a prompt to a language model and returns its raw text reply.
// Failures are wrapped in ErrExternalService; missing credentials surface as
// ErrConfiguration when the generator is constructed.
type Generator interface {
	Generate(ctx Context, prompt string) (string, error)
}

// EventPublisher announces completed generation runs.
type EventPublisher interface {
	PublishGenerated(ctx Context, ev GenerationEvent) error
}

// GenerationLimiter enforces a per-user generation quota. It returns
// ErrRateLimited together with the wait before the next allowed run.
type GenerationLimiter interface {
	Allow(ctx Context, userID string) (time.Duration, error)
}
