package recommender

import (
	"context"
	"strings"
	"sync"
)

func intp(v int) *int { return &v }

// longSection returns a paragraph comfortably above the noise threshold.
func longSection(head string) string {
	return head + "\n" + strings.Repeat("Build depth in the area through steady deliberate practice. ", 2)
}

type stubGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	block   bool
	prompts []string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.reply, s.err
}

type fixedCounter int

func (f fixedCounter) Count(string) int { return int(f) }
