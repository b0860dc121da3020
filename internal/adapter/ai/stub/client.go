// Package stub provides a fast, deterministic generator for local runs and
// end-to-end tests. It never calls a model provider.
package stub

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

// Client answers every prompt with the same structured recommendation set.
type Client struct {
	// Latency simulates provider processing time.
	Latency time.Duration
}

var _ domain.Generator = (*Client)(nil)

// New returns a stub client with a small simulated latency.
func New() *Client { return &Client{Latency: 50 * time.Millisecond} }

type recommendation struct {
	Type             string   `json:"type"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Priority         string   `json:"priority"`
	Confidence       float64  `json:"confidence"`
	ActionSteps      []string `json:"action_steps"`
	Timeline         string   `json:"timeline"`
	Resources        []string `json:"resources"`
	ExpectedOutcomes string   `json:"expected_outcomes"`
}

// Generate returns a JSON document with three recommendations. A prompt
// without any text is rejected the way real providers reject it.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", domain.ErrInvalidArgument
	}
	if c.Latency > 0 {
		t := time.NewTimer(c.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
	payload := map[string][]recommendation{"recommendations": {
		{
			Type:             "career_path",
			Title:            "Move Toward a Senior Role",
			Description:      "Your experience supports a step up in scope and ownership.",
			Priority:         "high",
			Confidence:       0.9,
			ActionSteps:      []string{"Lead one cross-team project", "Document your impact quarterly"},
			Timeline:         "6-12 months",
			Resources:        []string{"Mentorship programs", "Leadership workshops"},
			ExpectedOutcomes: "Promotion readiness",
		},
		{
			Type:             "skill_development",
			Title:            "Deepen Data Skills",
			Description:      "Analytical depth is valued across every field you listed.",
			Priority:         "medium",
			Confidence:       0.8,
			ActionSteps:      []string{"Complete an SQL course", "Build a small dashboard"},
			Timeline:         "3 months",
			Resources:        []string{"Online courses"},
			ExpectedOutcomes: "Confident use of data in decisions",
		},
		{
			Type:             "industry_insight",
			Title:            "Track Hiring Trends in Your Field",
			Description:      "Demand shifts quickly; following it keeps your plan current.",
			Priority:         "low",
			Confidence:       0.7,
			ActionSteps:      []string{"Review job postings monthly", "Attend one meetup a month"},
			Timeline:         "ongoing",
			Resources:        []string{"Industry associations", "Labor market reports"},
			ExpectedOutcomes: "Early awareness of emerging roles",
		},
	}}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
