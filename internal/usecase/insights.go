package usecase

import (
	"fmt"
	"time"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

// ReadinessCheck represents a single readiness check result used by handlers.
type ReadinessCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Details string `json:"details,omitempty"`
}

// CatalogService lists the career path catalog.
type CatalogService struct {
	Paths domain.CareerPathRepository
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(p domain.CareerPathRepository) CatalogService { return CatalogService{Paths: p} }

// List returns career paths, optionally restricted to one industry.
func (s CatalogService) List(ctx domain.Context, industry string) ([]domain.CareerPath, error) {
	paths, err := s.Paths.List(ctx, industry)
	if err != nil {
		return nil, fmt.Errorf("op=catalog.list: %w", err)
	}
	return paths, nil
}

// InsightsService assembles a user's dashboard summary.
type InsightsService struct {
	Profiles domain.ProfileRepository
	Recs     domain.RecommendationRepository
	Progress domain.ProgressRepository
}

// NewInsightsService constructs an InsightsService.
func NewInsightsService(p domain.ProfileRepository, r domain.RecommendationRepository, pr domain.ProgressRepository) InsightsService {
	return InsightsService{Profiles: p, Recs: r, Progress: pr}
}

// Get returns profile completion, the headline skill scores, recommendation
// counts, career progress and the time of the latest activity.
func (s InsightsService) Get(ctx domain.Context, userID string) (domain.Insights, error) {
	p, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return domain.Insights{}, fmt.Errorf("op=insights.profile: %w", err)
	}
	counts, err := s.Recs.Counts(ctx, userID)
	if err != nil {
		return domain.Insights{}, fmt.Errorf("op=insights.counts: %w", err)
	}
	progress, err := s.Progress.ListByUser(ctx, userID)
	if err != nil {
		return domain.Insights{}, fmt.Errorf("op=insights.progress: %w", err)
	}
	if progress == nil {
		progress = []domain.CareerProgress{}
	}
	return domain.Insights{
		ProfileCompletion: p.ProfileCompletion,
		SkillScores: map[string]*int{
			"technical":       p.TechnicalSkills,
			"communication":   p.Communication,
			"leadership":      p.Leadership,
			"problem_solving": p.ProblemSolving,
		},
		RecommendationsCount:  counts.Total,
		UnreadRecommendations: counts.Unread,
		CareerProgress:        progress,
		LastActivity:          lastActivity(p.LastAssessmentAt, counts.LatestAt),
	}, nil
}

// lastActivity is the last assessment time, or the newest recommendation
// when the profile was never assessed.
func lastActivity(assessed, newest *time.Time) *time.Time {
	if assessed != nil {
		return assessed
	}
	return newest
}
