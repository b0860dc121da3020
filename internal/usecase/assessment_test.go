package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain/mocks"
	"github.com/fairyhunter13/ai-career-advisor/internal/usecase"
)

const assessmentID = "6f1c2d3e-4a5b-4c6d-8e9f-0a1b2c3d4e5f"

func TestAssessmentService_Start(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		kind     domain.AssessmentType
		want     domain.AssessmentType
		profile  error
		wantErr  error
		wantCall bool
	}{
		{name: "defaults to ai_powered", kind: "", want: domain.AssessmentAIPowered, wantCall: true},
		{name: "normalises case", kind: " Quick ", want: domain.AssessmentQuick, wantCall: true},
		{name: "unknown type", kind: "marathon", wantErr: domain.ErrValidation},
		{name: "missing profile", kind: "standard", profile: domain.ErrNotFound, wantErr: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			profiles := &mocks.MockProfileRepository{}
			repo := &mocks.MockAssessmentRepository{}
			profiles.On("Get", mock.Anything, "u1").Return(domain.Profile{UserID: "u1"}, tt.profile)
			repo.On("Start", mock.Anything, "u1", tt.want).Return(domain.AssessmentSession{ID: assessmentID, Type: tt.want, Status: domain.AssessmentInProgress}, nil)

			out, err := usecase.NewAssessmentService(profiles, repo).Start(context.Background(), "u1", tt.kind)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Type)
			repo.AssertExpectations(t)
		})
	}
}

func TestAssessmentService_SaveAnswer(t *testing.T) {
	t.Parallel()
	profiles := &mocks.MockProfileRepository{}
	repo := &mocks.MockAssessmentRepository{}
	repo.On("SaveAnswer", mock.Anything, "u1", assessmentID, mock.MatchedBy(func(a domain.AssessmentAnswer) bool {
		return a.QuestionNumber == 3 &&
			a.QuestionType == domain.QuestionMultipleChoice &&
			a.Answer == "Remote" &&
			!a.AnsweredAt.IsZero()
	})).Return(domain.AssessmentSession{ID: assessmentID, QuestionsAnswered: 3}, nil)

	out, err := usecase.NewAssessmentService(profiles, repo).SaveAnswer(context.Background(), "u1", assessmentID, domain.AssessmentAnswer{
		QuestionNumber: 3, QuestionText: "Preferred setting?", Answer: "  Remote\x00 ",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out.QuestionsAnswered)
	repo.AssertExpectations(t)
}

func TestAssessmentService_SaveAnswer_Rejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a    domain.AssessmentAnswer
	}{
		{name: "question number zero", a: domain.AssessmentAnswer{QuestionText: "q", Answer: "a"}},
		{name: "blank answer", a: domain.AssessmentAnswer{QuestionNumber: 1, QuestionText: "q", Answer: "   "}},
		{name: "unknown question type", a: domain.AssessmentAnswer{QuestionNumber: 1, QuestionText: "q", Answer: "a", QuestionType: "essay"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &mocks.MockAssessmentRepository{}
			_, err := usecase.NewAssessmentService(&mocks.MockProfileRepository{}, repo).SaveAnswer(context.Background(), "u1", assessmentID, tt.a)
			require.ErrorIs(t, err, domain.ErrValidation)
			repo.AssertNotCalled(t, "SaveAnswer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAssessmentService_ClosedSessionConflicts(t *testing.T) {
	t.Parallel()
	answer := domain.AssessmentAnswer{QuestionNumber: 1, QuestionText: "q", Answer: "a"}
	tests := []struct {
		name     string
		existing domain.AssessmentSession
		getErr   error
		want     error
	}{
		{name: "completed session", existing: domain.AssessmentSession{Status: domain.AssessmentCompleted}, want: domain.ErrConflict},
		{name: "abandoned session", existing: domain.AssessmentSession{Status: domain.AssessmentAbandoned}, want: domain.ErrConflict},
		{name: "unknown session", getErr: domain.ErrNotFound, want: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &mocks.MockAssessmentRepository{}
			repo.On("SaveAnswer", mock.Anything, "u1", assessmentID, mock.Anything).Return(domain.AssessmentSession{}, domain.ErrNotFound)
			repo.On("Complete", mock.Anything, "u1", assessmentID, mock.Anything, mock.Anything).Return(domain.AssessmentSession{}, domain.ErrNotFound)
			repo.On("Get", mock.Anything, "u1", assessmentID).Return(tt.existing, tt.getErr)
			svc := usecase.NewAssessmentService(&mocks.MockProfileRepository{}, repo)

			_, err := svc.SaveAnswer(context.Background(), "u1", assessmentID, answer)
			assert.ErrorIs(t, err, tt.want)
			_, err = svc.Complete(context.Background(), "u1", assessmentID, domain.AssessmentCompletion{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAssessmentService_Complete_StampsProfile(t *testing.T) {
	t.Parallel()
	profiles := &mocks.MockProfileRepository{}
	repo := &mocks.MockAssessmentRepository{}
	var completedAt time.Time
	repo.On("Complete", mock.Anything, "u1", assessmentID, mock.MatchedBy(func(c domain.AssessmentCompletion) bool {
		return len(c.Matches) == 1 && c.Matches[0].Title == "Data Analyst" && c.Matches[0].RequiredSkills != nil
	}), mock.AnythingOfType("time.Time")).Run(func(args mock.Arguments) {
		completedAt = args.Get(4).(time.Time)
	}).Return(domain.AssessmentSession{ID: assessmentID, Status: domain.AssessmentCompleted}, nil)
	profiles.On("TouchAssessment", mock.Anything, "u1", mock.AnythingOfType("time.Time")).Return(nil)

	out, err := usecase.NewAssessmentService(profiles, repo).Complete(context.Background(), "u1", assessmentID, domain.AssessmentCompletion{
		Matches: []domain.CareerMatch{{Title: "Data \n Analyst", MatchPercentage: 80}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AssessmentCompleted, out.Status)
	profiles.AssertCalled(t, "TouchAssessment", mock.Anything, "u1", completedAt)
}

func TestAssessmentService_Complete_ToleratesStampFailure(t *testing.T) {
	t.Parallel()
	profiles := &mocks.MockProfileRepository{}
	repo := &mocks.MockAssessmentRepository{}
	repo.On("Complete", mock.Anything, "u1", assessmentID, mock.Anything, mock.Anything).Return(domain.AssessmentSession{ID: assessmentID, Status: domain.AssessmentCompleted}, nil)
	profiles.On("TouchAssessment", mock.Anything, "u1", mock.Anything).Return(errors.New("db down"))

	_, err := usecase.NewAssessmentService(profiles, repo).Complete(context.Background(), "u1", assessmentID, domain.AssessmentCompletion{})
	require.NoError(t, err)
}

func TestAssessmentService_Complete_RejectsBadPayload(t *testing.T) {
	t.Parallel()
	bad := 1.5
	repo := &mocks.MockAssessmentRepository{}
	svc := usecase.NewAssessmentService(&mocks.MockProfileRepository{}, repo)

	_, err := svc.Complete(context.Background(), "u1", assessmentID, domain.AssessmentCompletion{ConfidenceScore: &bad})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Complete(context.Background(), "u1", assessmentID, domain.AssessmentCompletion{
		Matches: []domain.CareerMatch{{Title: "x", MatchPercentage: 140}},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssessmentService_List_ValidatesFilter(t *testing.T) {
	t.Parallel()
	repo := &mocks.MockAssessmentRepository{}
	repo.On("List", mock.Anything, "u1", domain.AssessmentFilter{Status: domain.AssessmentCompleted, Limit: 10}).
		Return([]domain.AssessmentSession{{ID: assessmentID}}, nil)
	svc := usecase.NewAssessmentService(&mocks.MockProfileRepository{}, repo)

	out, err := svc.List(context.Background(), "u1", domain.AssessmentFilter{Status: domain.AssessmentCompleted, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, out, 1)

	_, err = svc.List(context.Background(), "u1", domain.AssessmentFilter{Status: "paused"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.List(context.Background(), "u1", domain.AssessmentFilter{Type: "long"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAssessmentService_Statistics(t *testing.T) {
	t.Parallel()
	avg := 420.0
	created := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("with sessions", func(t *testing.T) {
		t.Parallel()
		repo := &mocks.MockAssessmentRepository{}
		repo.On("Counts", mock.Anything, "u1").Return(domain.AssessmentCounts{Total: 3, Completed: 2, InProgress: 1, AverageDurationSeconds: &avg, TotalCareerMatches: 5}, nil)
		repo.On("List", mock.Anything, "u1", domain.AssessmentFilter{Limit: 1}).Return([]domain.AssessmentSession{
			{ID: assessmentID, Status: domain.AssessmentInProgress, Type: domain.AssessmentQuick, CreatedAt: created},
		}, nil)

		stats, err := usecase.NewAssessmentService(&mocks.MockProfileRepository{}, repo).Statistics(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, &avg, stats.AverageDurationSeconds)
		require.NotNil(t, stats.MostRecent)
		assert.Equal(t, domain.AssessmentSummary{ID: assessmentID, Date: created, Status: domain.AssessmentInProgress, Type: domain.AssessmentQuick}, *stats.MostRecent)
	})

	t.Run("no sessions skips latest lookup", func(t *testing.T) {
		t.Parallel()
		repo := &mocks.MockAssessmentRepository{}
		repo.On("Counts", mock.Anything, "u1").Return(domain.AssessmentCounts{}, nil)

		stats, err := usecase.NewAssessmentService(&mocks.MockProfileRepository{}, repo).Statistics(context.Background(), "u1")
		require.NoError(t, err)
		assert.Nil(t, stats.MostRecent)
		assert.Nil(t, stats.AverageDurationSeconds)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("counts failure", func(t *testing.T) {
		t.Parallel()
		repo := &mocks.MockAssessmentRepository{}
		repo.On("Counts", mock.Anything, "u1").Return(domain.AssessmentCounts{}, errors.New("down"))
		_, err := usecase.NewAssessmentService(&mocks.MockProfileRepository{}, repo).Statistics(context.Background(), "u1")
		require.Error(t, err)
	})
}
