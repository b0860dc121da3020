// Package mocks provides testify mocks for the domain ports.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

// MockProfileRepository mocks domain.ProfileRepository.
type MockProfileRepository struct{ mock.Mock }

func (m *MockProfileRepository) Get(ctx context.Context, userID string) (domain.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) TouchAssessment(ctx context.Context, userID string, at time.Time) error {
	return m.Called(ctx, userID, at).Error(0)
}

// MockRecommendationRepository mocks domain.RecommendationRepository.
type MockRecommendationRepository struct{ mock.Mock }

func (m *MockRecommendationRepository) CreateMany(ctx context.Context, userID string, drafts []domain.Draft) ([]domain.Recommendation, error) {
	args := m.Called(ctx, userID, drafts)
	recs, _ := args.Get(0).([]domain.Recommendation)
	return recs, args.Error(1)
}

func (m *MockRecommendationRepository) List(ctx context.Context, userID string, f domain.RecommendationFilter) ([]domain.Recommendation, error) {
	args := m.Called(ctx, userID, f)
	recs, _ := args.Get(0).([]domain.Recommendation)
	return recs, args.Error(1)
}

func (m *MockRecommendationRepository) Get(ctx context.Context, userID, id string) (domain.Recommendation, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(domain.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) MarkRead(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockRecommendationRepository) UpdateFeedback(ctx context.Context, userID, id string, fb domain.Feedback) (domain.Recommendation, error) {
	args := m.Called(ctx, userID, id, fb)
	return args.Get(0).(domain.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) Counts(ctx context.Context, userID string) (domain.RecommendationCounts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.RecommendationCounts), args.Error(1)
}

// MockCareerPathRepository mocks domain.CareerPathRepository.
type MockCareerPathRepository struct{ mock.Mock }

func (m *MockCareerPathRepository) List(ctx context.Context, industry string) ([]domain.CareerPath, error) {
	args := m.Called(ctx, industry)
	paths, _ := args.Get(0).([]domain.CareerPath)
	return paths, args.Error(1)
}

func (m *MockCareerPathRepository) Upsert(ctx context.Context, p domain.CareerPath) error {
	return m.Called(ctx, p).Error(0)
}

// MockProgressRepository mocks domain.ProgressRepository.
type MockProgressRepository struct{ mock.Mock }

func (m *MockProgressRepository) ListByUser(ctx context.Context, userID string) ([]domain.CareerProgress, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).([]domain.CareerProgress)
	return p, args.Error(1)
}

// MockAssessmentRepository mocks domain.AssessmentRepository.
type MockAssessmentRepository struct{ mock.Mock }

func (m *MockAssessmentRepository) Start(ctx context.Context, userID string, kind domain.AssessmentType) (domain.AssessmentSession, error) {
	args := m.Called(ctx, userID, kind)
	return args.Get(0).(domain.AssessmentSession), args.Error(1)
}

func (m *MockAssessmentRepository) SaveAnswer(ctx context.Context, userID, id string, a domain.AssessmentAnswer) (domain.AssessmentSession, error) {
	args := m.Called(ctx, userID, id, a)
	return args.Get(0).(domain.AssessmentSession), args.Error(1)
}

func (m *MockAssessmentRepository) Complete(ctx context.Context, userID, id string, c domain.AssessmentCompletion, at time.Time) (domain.AssessmentSession, error) {
	args := m.Called(ctx, userID, id, c, at)
	return args.Get(0).(domain.AssessmentSession), args.Error(1)
}

func (m *MockAssessmentRepository) Get(ctx context.Context, userID, id string) (domain.AssessmentSession, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(domain.AssessmentSession), args.Error(1)
}

func (m *MockAssessmentRepository) List(ctx context.Context, userID string, f domain.AssessmentFilter) ([]domain.AssessmentSession, error) {
	args := m.Called(ctx, userID, f)
	out, _ := args.Get(0).([]domain.AssessmentSession)
	return out, args.Error(1)
}

func (m *MockAssessmentRepository) Counts(ctx context.Context, userID string) (domain.AssessmentCounts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.AssessmentCounts), args.Error(1)
}

// MockGenerator mocks domain.Generator.
type MockGenerator struct{ mock.Mock }

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockEventPublisher mocks domain.EventPublisher.
type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishGenerated(ctx context.Context, ev domain.GenerationEvent) error {
	return m.Called(ctx, ev).Error(0)
}

// MockGenerationLimiter mocks domain.GenerationLimiter.
type MockGenerationLimiter struct{ mock.Mock }

func (m *MockGenerationLimiter) Allow(ctx context.Context, userID string) (time.Duration, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(time.Duration), args.Error(1)
}
