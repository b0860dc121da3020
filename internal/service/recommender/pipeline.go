// Package recommender turns a user profile into career recommendation drafts
// by prompting a language model and interpreting its reply, with a
// deterministic fallback when the model is unavailable or unhelpful.
package recommender

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

// Result sources.
const (
	SourceAIJSON   = "ai_json"
	SourceAIText   = "ai_text"
	SourceFallback = "fallback"
)

// Fallback reasons recorded in logs and metrics.
const (
	reasonNoGenerator = "generator_unavailable"
	reasonTimeout     = "timeout"
	reasonGenerator   = "generator_error"
	reasonEmpty       = "empty_response"
)

// DefaultTimeout bounds a single generator call.
const DefaultTimeout = 20 * time.Second

// Result is the outcome of one pipeline run.
type Result struct {
	Drafts    []domain.Draft
	AIPowered bool
	Source    string
}

// TokenCounter estimates the token size of a prompt.
type TokenCounter interface {
	Count(text string) int
}

// Pipeline generates recommendation drafts for a profile. It holds no
// per-run state and is safe for concurrent use.
type Pipeline struct {
	gen     domain.Generator
	interp  Interpreter
	timeout time.Duration
	tokens  TokenCounter
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTuning overrides the text parser thresholds.
func WithTuning(t Tuning) Option { return func(p *Pipeline) { p.interp = NewInterpreter(t) } }

// WithTimeout overrides the generator call timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithTokenCounter enables prompt size accounting.
func WithTokenCounter(c TokenCounter) Option { return func(p *Pipeline) { p.tokens = c } }

// NewPipeline builds a pipeline around gen. A nil gen always falls back.
func NewPipeline(gen domain.Generator, opts ...Option) *Pipeline {
	p := &Pipeline{
		gen:     gen,
		interp:  NewInterpreter(DefaultTuning()),
		timeout: DefaultTimeout,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run produces drafts for profile. It never fails: any generator error or an
// empty interpretation yields the fallback drafts with AIPowered false.
func (p *Pipeline) Run(ctx context.Context, profile domain.Profile) Result {
	tracer := otel.Tracer("service.recommender")
	ctx, span := tracer.Start(ctx, "recommender.Run")
	defer span.End()
	lg := observability.LoggerFromContext(ctx).With(slog.String("user_id", profile.UserID))

	if p.gen == nil {
		return p.fallback(ctx, lg, profile, reasonNoGenerator, nil)
	}

	prompt := ComposePrompt(BuildProfileContext(profile), profile.PrimaryCareerField)
	if p.tokens != nil {
		n := p.tokens.Count(prompt)
		observability.ObservePromptTokens(n)
		span.SetAttributes(attribute.Int("ai.prompt_tokens", n))
	}

	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	start := time.Now()
	raw, err := p.gen.Generate(cctx, prompt)
	if err != nil {
		reason := reasonGenerator
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded) {
			reason = reasonTimeout
		}
		return p.fallback(ctx, lg, profile, reason, err)
	}

	drafts, tier := p.interp.Interpret(raw)
	observability.RecordParseTier(string(tier))
	if len(drafts) == 0 {
		return p.fallback(ctx, lg, profile, reasonEmpty, nil)
	}

	source := SourceAIJSON
	if tier == TierText {
		source = SourceAIText
	}
	observability.RecordGenerated(source, len(drafts))
	span.SetAttributes(
		attribute.String("recommender.source", source),
		attribute.Int("recommender.drafts", len(drafts)),
	)
	lg.Info("recommendations generated",
		slog.String("source", source),
		slog.Int("count", len(drafts)),
		slog.Duration("ai_latency", time.Since(start)))
	return Result{Drafts: drafts, AIPowered: true, Source: source}
}

func (p *Pipeline) fallback(ctx context.Context, lg *slog.Logger, profile domain.Profile, reason string, err error) Result {
	drafts := Fallback(profile)
	for i := range drafts {
		drafts[i] = NormalizeDraft(drafts[i])
	}
	observability.RecordFallback(reason)
	observability.RecordGenerated(SourceFallback, len(drafts))
	attrs := []any{slog.String("reason", reason), slog.Int("count", len(drafts))}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	lg.WarnContext(ctx, "using fallback recommendations", attrs...)
	return Result{Drafts: drafts, AIPowered: false, Source: SourceFallback}
}
