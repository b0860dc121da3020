//go:build integration

// Package integration exercises the storage and quota adapters against real
// Postgres and Redis containers. Run with: go test -tags integration ./internal/integration/...
package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-career-advisor/internal/catalog"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
	"github.com/fairyhunter13/ai-career-advisor/internal/service/ratelimiter"
	"github.com/fairyhunter13/ai-career-advisor/internal/service/recommender"
	"github.com/fairyhunter13/ai-career-advisor/internal/usecase"
)

func startContainer(ctx context.Context, t *testing.T, req testcontainers.ContainerRequest, port nat.Port) string {
	t.Helper()
	req.ExposedPorts = []string{string(port)}
	req.HostConfigModifier = func(hc *container.HostConfig) { hc.AutoRemove = true }
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })
	host, err := c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, port)
	require.NoError(t, err)
	return fmt.Sprintf("%s:%s", host, mapped.Port())
}

func startPostgres(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	addr := startContainer(ctx, t, testcontainers.ContainerRequest{
		Image: "postgres:16",
		Env:   map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "app"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(90 * time.Second),
	}, "5432/tcp")
	pool, err := postgres.NewPool(ctx, "postgres://postgres:postgres@"+addr+"/app?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	// Applying the schema twice must be harmless.
	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	return pool
}

func TestPostgres_RecommendationLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(ctx, t)

	profiles := postgres.NewProfileRepo(pool)
	recs := postgres.NewRecommendationRepo(pool)
	paths := postgres.NewCareerPathRepo(pool)
	progress := postgres.NewProgressRepo(pool)

	n, err := catalog.SeedDefault(ctx, paths, "")
	require.NoError(t, err)
	require.Equal(t, 8, n)
	n, err = catalog.SeedDefault(ctx, paths, "")
	require.NoError(t, err)
	all, err := paths.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, n)
	tech, err := paths.List(ctx, "Technology")
	require.NoError(t, err)
	require.Len(t, tech, 1)
	assert.Len(t, tech[0].CareerStages, 3)

	score := 4
	profileSvc := usecase.NewProfileService(profiles)
	saved, err := profileSvc.Upsert(ctx, "alice", domain.Profile{
		Skills:              "Python, SQL",
		Interests:           "data",
		PrimaryCareerField:  domain.FieldTechnology,
		PreferredIndustries: []string{"Fintech"},
		SkillScores:         domain.SkillScores{TechnicalSkills: &score},
	})
	require.NoError(t, err)
	assert.InDelta(t, 100.0*4/9, saved.ProfileCompletion, 0.01)

	_, err = pool.Exec(ctx, `INSERT INTO career_progress (user_id, career_path_id, current_stage, progress_percentage) VALUES ($1, $2, $3, $4)`,
		"alice", tech[0].ID, "Junior Developer", 40.0)
	require.NoError(t, err)

	recSvc := usecase.NewRecommendService(profiles, recs, recommender.NewPipeline(nil), nil, nil)
	out, err := recSvc.Generate(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, out.AIPowered)
	require.NotEmpty(t, out.Recommendations)

	listed, err := recSvc.List(ctx, "alice", domain.RecommendationFilter{})
	require.NoError(t, err)
	assert.Len(t, listed, len(out.Recommendations))

	first := listed[0].ID
	require.NoError(t, recSvc.MarkRead(ctx, "alice", first))
	rating, bookmarked := 5, true
	updated, err := recSvc.Feedback(ctx, "alice", first, domain.Feedback{Rating: &rating, IsBookmarked: &bookmarked})
	require.NoError(t, err)
	assert.True(t, updated.IsRead)
	assert.True(t, updated.IsBookmarked)
	require.NotNil(t, updated.FeedbackRating)
	assert.Equal(t, 5, *updated.FeedbackRating)

	_, err = recSvc.Get(ctx, "bob", first)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	insights, err := usecase.NewInsightsService(profiles, recs, progress).Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, len(listed), insights.RecommendationsCount)
	assert.Equal(t, len(listed)-1, insights.UnreadRecommendations)
	require.Len(t, insights.CareerProgress, 1)
	assert.Equal(t, "Software Engineering", insights.CareerProgress[0].CareerPathName)
	assert.NotNil(t, insights.LastActivity)

	// Age everything past the retention window; only the read, unbookmarked
	// rows may be purged.
	second := listed[1].ID
	require.NoError(t, recSvc.MarkRead(ctx, "alice", second))
	_, err = pool.Exec(ctx, `UPDATE recommendations SET created_at = now() - interval '400 days' WHERE user_id = $1`, "alice")
	require.NoError(t, err)
	deleted, err := postgres.NewCleanupService(pool, 180).CleanupOldData(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	_, err = recSvc.Get(ctx, "alice", second)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = recSvc.Get(ctx, "alice", first)
	assert.NoError(t, err)
}

func TestPostgres_AssessmentLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(ctx, t)

	profiles := postgres.NewProfileRepo(pool)
	_, err := usecase.NewProfileService(profiles).Upsert(ctx, "carol", domain.Profile{Skills: "Figma", Interests: "design"})
	require.NoError(t, err)

	svc := usecase.NewAssessmentService(profiles, postgres.NewAssessmentRepo(pool))
	_, err = svc.Start(ctx, "nobody", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sess, err := svc.Start(ctx, "carol", domain.AssessmentQuick)
	require.NoError(t, err)
	for _, a := range []domain.AssessmentAnswer{
		{QuestionNumber: 2, QuestionText: "Team size?", QuestionType: domain.QuestionText, Answer: "small"},
		{QuestionNumber: 1, QuestionText: "Favourite tool?", Options: []string{"Figma", "Sketch"}, Answer: "Sketch"},
		{QuestionNumber: 1, QuestionText: "Favourite tool?", Options: []string{"Figma", "Sketch"}, Answer: "Figma"},
	} {
		_, err = svc.SaveAnswer(ctx, "carol", sess.ID, a)
		require.NoError(t, err)
	}
	got, err := svc.Get(ctx, "carol", sess.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.QuestionsAnswered)
	assert.Equal(t, 1, got.Answers[0].QuestionNumber)
	assert.Equal(t, "Figma", got.Answers[0].Answer)

	_, err = pool.Exec(ctx, `UPDATE assessment_sessions SET started_at = now() - interval '10 minutes' WHERE id = $1`, sess.ID)
	require.NoError(t, err)
	conf := 0.85
	done, err := svc.Complete(ctx, "carol", sess.ID, domain.AssessmentCompletion{
		Matches:         []domain.CareerMatch{{Title: "Product Designer", MatchPercentage: 91}},
		ConfidenceScore: &conf,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AssessmentCompleted, done.Status)
	require.NotNil(t, done.DurationSeconds)
	assert.GreaterOrEqual(t, *done.DurationSeconds, 600)
	require.Len(t, done.Matches, 1)

	p, err := profiles.Get(ctx, "carol")
	require.NoError(t, err)
	require.NotNil(t, p.LastAssessmentAt)

	_, err = svc.SaveAnswer(ctx, "carol", sess.ID, domain.AssessmentAnswer{QuestionNumber: 3, QuestionText: "Late?", Answer: "yes"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	stale, err := svc.Start(ctx, "carol", domain.AssessmentStandard)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `UPDATE assessment_sessions SET started_at = now() - interval '5 days' WHERE id = $1`, stale.ID)
	require.NoError(t, err)
	cleanup := postgres.NewCleanupService(pool, 180)
	cleanup.AbandonAfter = 72 * time.Hour
	_, err = cleanup.CleanupOldData(ctx)
	require.NoError(t, err)
	_, err = svc.Start(ctx, "carol", "")
	require.NoError(t, err)

	abandoned, err := svc.List(ctx, "carol", domain.AssessmentFilter{Status: domain.AssessmentAbandoned})
	require.NoError(t, err)
	require.Len(t, abandoned, 1)
	assert.Equal(t, stale.ID, abandoned[0].ID)

	stats, err := svc.Statistics(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.TotalCareerMatches)
	require.NotNil(t, stats.AverageDurationSeconds)
	assert.GreaterOrEqual(t, *stats.AverageDurationSeconds, 600.0)
	require.NotNil(t, stats.MostRecent)
	assert.Equal(t, domain.AssessmentInProgress, stats.MostRecent.Status)
}

func TestRedis_GenerationQuota(t *testing.T) {
	ctx := context.Background()
	addr := startContainer(ctx, t, testcontainers.ContainerRequest{
		Image:      "redis:7-alpine",
		WaitingFor: wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}, "6379/tcp")
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	quota := ratelimiter.NewGenerationQuota(rdb, 2)
	for i := 0; i < 2; i++ {
		_, err := quota.Allow(ctx, "alice")
		require.NoError(t, err)
	}
	retryAfter, err := quota.Allow(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Greater(t, retryAfter, time.Duration(0))

	_, err = quota.Allow(ctx, "bob")
	assert.NoError(t, err)
}
