package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/fairyhunter13/ai-career-advisor/internal/config"
	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

type fakeModels struct {
	errs  []error
	reply string
	calls int
	model string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	if f.calls <= len(f.errs) {
		return nil, f.errs[f.calls-1]
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.reply, genai.RoleModel),
		}},
	}, nil
}

func newTestClient(m contentGenerator) *Client {
	return &Client{
		models:  m,
		model:   "gemini-1.5-flash",
		genCfg:  &genai.GenerateContentConfig{},
		backoff: func() backoff.BackOff { return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 3) },
	}
}

func TestNew_RequiresKey(t *testing.T) {
	t.Parallel()
	_, err := New(context.Background(), config.Config{GeminiModel: "gemini-1.5-flash"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestGenerate_ReturnsText(t *testing.T) {
	t.Parallel()
	m := &fakeModels{reply: "hello"}
	out, err := newTestClient(m).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "gemini-1.5-flash", m.model)
}

func TestGenerate_RetriesTransientErrors(t *testing.T) {
	t.Parallel()
	m := &fakeModels{
		errs:  []error{genai.APIError{Code: http.StatusTooManyRequests}, genai.APIError{Code: http.StatusServiceUnavailable}},
		reply: "ok",
	}
	out, err := newTestClient(m).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, m.calls)
}

func TestGenerate_ClientErrorIsPermanent(t *testing.T) {
	t.Parallel()
	m := &fakeModels{errs: []error{genai.APIError{Code: http.StatusBadRequest, Message: "bad"}}, reply: "unused"}
	_, err := newTestClient(m).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, domain.ErrExternalService)
	assert.Equal(t, 1, m.calls)
}

func TestGenerate_ExhaustedRetries(t *testing.T) {
	t.Parallel()
	boom := errors.New("connection reset")
	m := &fakeModels{errs: []error{boom, boom, boom, boom, boom}}
	_, err := newTestClient(m).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, domain.ErrExternalService)
	assert.ErrorIs(t, err, boom)
}

func TestGenerate_OverHTTP(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.Contains(r.URL.Path, "gemini-1.5-flash:generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"recommendations\": []}"}]}}]}`))
	}))
	defer srv.Close()

	c, err := New(context.Background(), config.Config{
		AppEnv:       "test",
		GeminiAPIKey: "test-key",
		GeminiModel:  "gemini-1.5-flash",
		AIMaxTokens:  256,
	}, WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)
	out, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"recommendations": []}`, out)
}
