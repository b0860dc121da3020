// Package tokencount estimates prompt and completion sizes for the
// configured language model using tiktoken-go.
package tokencount

import (
	"log/slog"
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Usage represents token counts for one generation call.
type Usage struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
}

// Counter counts tokens for a single model. It is safe for concurrent use.
type Counter struct {
	model string

	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
}

// NewCounter creates a counter for model. The encoding is resolved lazily.
func NewCounter(model string) *Counter {
	return &Counter{model: model}
}

func (c *Counter) encoding() (*tiktoken.Tiktoken, error) {
	c.once.Do(func() {
		name := encodingName(c.model)
		c.enc, c.err = tiktoken.EncodingForModel(name)
		if c.err != nil {
			slog.Debug("falling back to cl100k_base encoding",
				slog.String("model", c.model),
				slog.String("normalized", name),
				slog.Any("error", c.err))
			c.enc, c.err = tiktoken.GetEncoding("cl100k_base")
		}
	})
	return c.enc, c.err
}

// encodingName maps provider model IDs onto tiktoken model names. Gemini and
// the open-weight models served by OpenRouter have no public tiktoken table,
// so they are approximated with the GPT-4 encoding.
func encodingName(model string) string {
	model = strings.ToLower(model)
	if i := strings.LastIndex(model, "/"); i >= 0 {
		model = model[i+1:]
	}
	model = strings.TrimSuffix(model, ":free")
	if strings.Contains(model, "gpt-3.5") {
		return "gpt-3.5-turbo"
	}
	return "gpt-4"
}

// Count returns the token count of text. When no encoding is available it
// estimates four characters per token.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	enc, err := c.encoding()
	if err != nil || enc == nil {
		return estimate(text)
	}
	return len(enc.Encode(text, nil, nil))
}

// Usage returns the combined token usage of a prompt and its completion.
func (c *Counter) Usage(prompt, completion string) Usage {
	p, q := c.Count(prompt), c.Count(completion)
	return Usage{PromptTokens: p, CompletionTokens: q, TotalTokens: p + q, Model: c.model}
}

func estimate(text string) int {
	n := len(text) / 4
	if n == 0 {
		n = 1
	}
	return n
}
