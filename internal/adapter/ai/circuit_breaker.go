package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

// BreakerSettings configures WithCircuitBreaker.
type BreakerSettings struct {
	Name string
	// Failures is the number of consecutive failures that opens the circuit.
	Failures uint32
	// Timeout is how long the circuit stays open before a trial request.
	Timeout time.Duration
}

// CircuitBreakerGenerator short-circuits calls to a failing generator so
// requests go straight to the fallback path instead of waiting out the timeout.
type CircuitBreakerGenerator struct {
	next domain.Generator
	cb   *gobreaker.CircuitBreaker[string]
	name string
}

// WithCircuitBreaker wraps next with a circuit breaker.
func WithCircuitBreaker(next domain.Generator, s BreakerSettings) *CircuitBreakerGenerator {
	if s.Name == "" {
		s.Name = "ai-generator"
	}
	if s.Failures == 0 {
		s.Failures = 5
	}
	if s.Timeout <= 0 {
		s.Timeout = time.Minute
	}
	observability.SetBreakerState(s.Name, stateToFloat(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.Failures
		},
		// A caller giving up is not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("ai circuit breaker state change",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			observability.SetBreakerState(name, stateToFloat(to))
		},
	})
	return &CircuitBreakerGenerator{next: next, cb: cb, name: s.Name}
}

// Generate forwards to the wrapped generator unless the circuit is open.
func (g *CircuitBreakerGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := g.cb.Execute(func() (string, error) {
		return g.next.Generate(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("op=ai.breaker: %w: %w", domain.ErrExternalService, err)
		}
		return "", err
	}
	return out, nil
}

// State reports the current breaker state.
func (g *CircuitBreakerGenerator) State() gobreaker.State { return g.cb.State() }

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
