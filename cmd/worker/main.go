// Package main provides the maintenance worker entry point.
// The worker keeps the career path catalog seeded, purges expired
// recommendations and abandons idle assessments on a schedule.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-career-advisor/internal/catalog"
	"github.com/fairyhunter13/ai-career-advisor/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()
	metricsSrv := &http.Server{Addr: ":9090", ReadHeaderTimeout: 5 * time.Second}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv.Handler = mux
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	slog.Info("starting worker", slog.String("env", cfg.AppEnv))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.DBAutoSchema {
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			slog.Error("schema bootstrap failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	if n, err := catalog.SeedDefault(ctx, postgres.NewCareerPathRepo(pool), cfg.CatalogSeedFile); err != nil {
		slog.Error("career path seeding failed", slog.Any("error", err))
	} else {
		slog.Info("career path catalog seeded", slog.Int("paths", n))
	}

	if cfg.RecommendationRetentionDays > 0 {
		cleanup := postgres.NewCleanupService(pool, cfg.RecommendationRetentionDays)
		cleanup.AbandonAfter = cfg.AssessmentAbandonAfter
		slog.Info("cleanup service started",
			slog.Int("retention_days", cfg.RecommendationRetentionDays),
			slog.Duration("assessment_abandon_after", cfg.AssessmentAbandonAfter),
			slog.Duration("interval", cfg.CleanupInterval))
		go cleanup.RunPeriodic(ctx, cfg.CleanupInterval)
	} else {
		slog.Info("recommendation retention disabled")
	}

	<-ctx.Done()
	slog.Info("worker shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = metricsSrv.Shutdown(shutdownCtx)
}
