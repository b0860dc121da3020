// Package gemini implements domain.Generator on the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/genai"

	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-advisor/internal/config"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

const provider = "gemini"

// contentGenerator is the subset of *genai.Models used by Client.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client sends prompts to a Gemini model.
type Client struct {
	models  contentGenerator
	model   string
	genCfg  *genai.GenerateContentConfig
	backoff func() backoff.BackOff
}

// Option customizes a Client.
type Option func(*genai.ClientConfig)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(u string) Option {
	return func(c *genai.ClientConfig) { c.HTTPOptions.BaseURL = u }
}

// New constructs a Gemini client. A missing API key is reported as
// domain.ErrConfiguration before any network call is made.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("op=gemini.New: %w: GEMINI_API_KEY is not set", domain.ErrConfiguration)
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, o := range opts {
		o(cc)
	}
	gc, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("op=gemini.New: %w: %w", domain.ErrConfiguration, err)
	}

	maxElapsed, initial, maxInterval, mult := cfg.GetAIBackoffConfig()
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(cfg.AITemperature)),
	}
	if cfg.AIMaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(cfg.AIMaxTokens)
	}
	return &Client{
		models: gc.Models,
		model:  cfg.GeminiModel,
		genCfg: genCfg,
		backoff: func() backoff.BackOff {
			expo := backoff.NewExponentialBackOff()
			expo.MaxElapsedTime = maxElapsed
			expo.InitialInterval = initial
			expo.MaxInterval = maxInterval
			expo.Multiplier = mult
			return expo
		},
	}, nil
}

// Generate returns the model's text reply to prompt. Rate limiting and server
// errors are retried until the backoff budget or ctx runs out.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var out string
	op := func() error {
		start := time.Now()
		resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), c.genCfg)
		observability.ObserveAIRequest(provider, time.Since(start), err)
		if err != nil {
			var apiErr genai.APIError
			if errors.As(err, &apiErr) && !retryable(apiErr.Code) {
				slog.Warn("ai provider rejected request",
					slog.String("provider", provider),
					slog.Int("status", apiErr.Code),
					slog.String("message", apiErr.Message))
				return backoff.Permanent(err)
			}
			return err
		}
		if resp == nil {
			return backoff.Permanent(errors.New("empty response"))
		}
		out = resp.Text()
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(c.backoff(), ctx)); err != nil {
		return "", fmt.Errorf("op=gemini.Generate: %w: %w", domain.ErrExternalService, err)
	}
	return out, nil
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
