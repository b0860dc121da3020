// Package openrouter implements domain.Generator on an OpenAI-compatible
// chat completions endpoint such as OpenRouter.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/ai-career-advisor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-career-advisor/internal/config"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

const (
	provider     = "openrouter"
	snippetBytes = 512
)

// Client calls the chat completions API.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a client. A missing API key is reported as
// domain.ErrConfiguration before any network call is made.
func New(cfg config.Config) (*Client, error) {
	if cfg.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("op=openrouter.New: %w: OPENROUTER_API_KEY is not set", domain.ErrConfiguration)
	}
	if cfg.OpenRouterBaseURL == "" {
		return nil, fmt.Errorf("op=openrouter.New: %w: OPENROUTER_BASE_URL is not set", domain.ErrConfiguration)
	}
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) getBackoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return expo
}

// Generate sends prompt as a single user message and returns the first choice.
// 429 and 5xx responses are retried; other 4xx responses fail immediately.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	b, err := json.Marshal(chatRequest{
		Model:       c.cfg.OpenRouterModel,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.cfg.AIMaxTokens,
		Temperature: c.cfg.AITemperature,
	})
	if err != nil {
		return "", fmt.Errorf("op=openrouter.Generate: %w", err)
	}
	endpoint := strings.TrimRight(c.cfg.OpenRouterBaseURL, "/") + "/chat/completions"

	var out chatResponse
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.OpenRouterAPIKey)
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.OpenRouterReferer != "" {
			req.Header.Set("HTTP-Referer", c.cfg.OpenRouterReferer)
		}
		if c.cfg.OpenRouterTitle != "" {
			req.Header.Set("X-Title", c.cfg.OpenRouterTitle)
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveAIRequest(provider, time.Since(start), err)
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		if err == nil && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
			err = fmt.Errorf("chat status %d", resp.StatusCode)
		}
		observability.ObserveAIRequest(provider, time.Since(start), err)

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			slog.Warn("ai provider rate limited", slog.String("provider", provider), slog.Int("status", resp.StatusCode))
			return err
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			slog.Warn("ai provider 4xx",
				slog.String("provider", provider),
				slog.Int("status", resp.StatusCode),
				slog.String("model", c.cfg.OpenRouterModel),
				slog.String("x_request_id", resp.Header.Get("X-Request-Id")),
				slog.String("body", snippet(body)))
			return backoff.Permanent(err)
		case err != nil:
			slog.Error("ai provider non-2xx", slog.String("provider", provider), slog.Int("status", resp.StatusCode), slog.String("body", snippet(body)))
			return err
		}
		if err := json.Unmarshal(body, &out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(c.getBackoffConfig(), ctx)); err != nil {
		return "", fmt.Errorf("op=openrouter.Generate: %w: %w", domain.ErrExternalService, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("op=openrouter.Generate: %w: %w", domain.ErrExternalService, errors.New("empty choices"))
	}
	return out.Choices[0].Message.Content, nil
}

func snippet(b []byte) string {
	if len(b) > snippetBytes {
		b = b[:snippetBytes]
	}
	return string(b)
}
