// Command server starts the AI Career Advisor HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	ai "github.com/fairyhunter13/ai-career-advisor/internal/adapter/ai"
	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/ai/tokencount"
	httpserver "github.com/fairyhunter13/ai-career-advisor/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/queue/redpanda"
	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-career-advisor/internal/app"
	"github.com/fairyhunter13/ai-career-advisor/internal/catalog"
	"github.com/fairyhunter13/ai-career-advisor/internal/config"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
	"github.com/fairyhunter13/ai-career-advisor/internal/service/ratelimiter"
	"github.com/fairyhunter13/ai-career-advisor/internal/service/recommender"
	"github.com/fairyhunter13/ai-career-advisor/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP, AI and pipeline instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()

	if cfg.DBAutoSchema {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}

	profileRepo := postgres.NewProfileRepo(pool)
	recRepo := postgres.NewRecommendationRepo(pool)
	pathRepo := postgres.NewCareerPathRepo(pool)
	progressRepo := postgres.NewProgressRepo(pool)
	assessmentRepo := postgres.NewAssessmentRepo(pool)

	if n, err := catalog.SeedDefault(ctx, pathRepo, cfg.CatalogSeedFile); err != nil {
		slog.Error("career path seeding failed", slog.Any("error", err))
	} else {
		slog.Info("career path catalog seeded", slog.Int("paths", n))
	}

	// Redis backs the per-user generation quota only; without it the quota is off.
	var (
		rdb       *redis.Client
		scripter  redis.Scripter
		redisPing app.RedisPinger
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opts)
		defer func() { _ = rdb.Close() }()
		scripter, redisPing = rdb, rdb
	}
	quota := ratelimiter.NewGenerationQuota(scripter, cfg.GenerateRatePerHour)

	gen, err := ai.NewGeneratorOrFallback(ctx, cfg)
	if err != nil {
		return fmt.Errorf("ai generator: %w", err)
	}
	pipeline := recommender.NewPipeline(gen,
		recommender.WithTuning(recommender.TuningFromConfig(cfg)),
		recommender.WithTimeout(cfg.AITimeout),
		recommender.WithTokenCounter(tokencount.NewCounter(ai.ModelName(cfg))),
	)

	var events domain.EventPublisher = redpanda.NoopPublisher{}
	if cfg.KafkaEnabled() {
		producer, err := redpanda.NewProducer(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return fmt.Errorf("redpanda producer init: %w", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				slog.Error("failed to close event producer", slog.Any("error", err))
			}
		}()
		events = producer
	}

	profileSvc := usecase.NewProfileService(profileRepo)
	recSvc := usecase.NewRecommendService(profileRepo, recRepo, pipeline, quota, events)
	catalogSvc := usecase.NewCatalogService(pathRepo)
	insightsSvc := usecase.NewInsightsService(profileRepo, recRepo, progressRepo)
	assessSvc := usecase.NewAssessmentService(profileRepo, assessmentRepo)

	dbCheck, redisCheck := app.BuildReadinessChecks(pool, redisPing)
	srv := httpserver.NewServer(cfg, profileSvc, recSvc, catalogSvc, insightsSvc, assessSvc, dbCheck, redisCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port), slog.String("env", cfg.AppEnv))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
	return serveErr
}
