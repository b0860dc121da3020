// Package ai wires the configured language model provider into a
// domain.Generator.
package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/ai/gemini"
	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/ai/openrouter"
	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/ai/stub"
	"github.com/fairyhunter13/ai-career-advisor/internal/config"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

// NewGenerator builds the generator selected by AI_PROVIDER, wrapped in a
// circuit breaker. Missing credentials and unknown providers are reported as
// domain.ErrConfiguration.
func NewGenerator(ctx context.Context, cfg config.Config) (domain.Generator, error) {
	var (
		gen domain.Generator
		err error
	)
	switch cfg.Provider() {
	case config.ProviderGemini:
		gen, err = gemini.New(ctx, cfg)
	case config.ProviderOpenRouter:
		gen, err = openrouter.New(cfg)
	case config.ProviderStub:
		if cfg.IsProd() {
			return nil, fmt.Errorf("op=ai.NewGenerator: %w: stub provider is not allowed in prod", domain.ErrConfiguration)
		}
		return stub.New(), nil
	default:
		return nil, fmt.Errorf("op=ai.NewGenerator: %w: unknown AI_PROVIDER %q", domain.ErrConfiguration, cfg.AIProvider)
	}
	if err != nil {
		return nil, err
	}
	return WithCircuitBreaker(gen, BreakerSettings{
		Name:     "ai-" + cfg.Provider(),
		Failures: cfg.AIBreakerFailures,
		Timeout:  cfg.AIBreakerTimeout,
	}), nil
}

// NewGeneratorOrFallback builds the configured generator. Outside prod a
// construction failure is logged and a nil generator is returned, which puts
// every run on the fallback recommender. In prod the error is returned so a
// misconfigured deploy fails at startup.
func NewGeneratorOrFallback(ctx context.Context, cfg config.Config) (domain.Generator, error) {
	gen, err := NewGenerator(ctx, cfg)
	if err == nil {
		slog.Info("AI generator initialized", slog.String("provider", cfg.Provider()), slog.String("model", ModelName(cfg)))
		return gen, nil
	}
	if cfg.IsProd() {
		return nil, err
	}
	slog.Warn("AI generator unavailable, serving fallback recommendations", slog.Any("error", err))
	return nil, nil
}

// ModelName returns the model identifier of the configured provider.
func ModelName(cfg config.Config) string {
	switch cfg.Provider() {
	case config.ProviderOpenRouter:
		return cfg.OpenRouterModel
	case config.ProviderStub:
		return "stub"
	}
	return cfg.GeminiModel
}
