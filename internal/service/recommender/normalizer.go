package recommender

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

// RawDraft is a loosely typed recommendation as decoded from a model response.
type RawDraft = map[string]any

const defaultConfidence = 0.75

// Normalize converts a loosely typed draft into a canonical domain.Draft.
// Both the schema keys ("type", "confidence") and the stored names
// ("recommendation_type", "confidence_score") are accepted. It never fails.
func Normalize(raw RawDraft) domain.Draft {
	d := domain.Draft{
		Title:            str(raw["title"]),
		Description:      str(raw["description"]),
		Timeline:         str(raw["timeline"]),
		ExpectedOutcomes: str(raw["expected_outcomes"]),
		ActionSteps:      strList(raw["action_steps"]),
		Resources:        strList(raw["resources"]),
		Confidence:       defaultConfidence,
	}
	kind := first(raw, "type", "recommendation_type")
	if k, ok := domain.ParseKind(str(kind)); ok {
		d.Kind = k
	}
	if p, ok := domain.ParsePriority(str(raw["priority"])); ok {
		d.Priority = p
	}
	if c, ok := number(first(raw, "confidence", "confidence_score")); ok {
		d.Confidence = c
	}
	return NormalizeDraft(d)
}

// NormalizeDraft applies the canonical defaults to a typed draft. It is
// idempotent: a canonical draft is returned unchanged.
func NormalizeDraft(d domain.Draft) domain.Draft {
	if k, ok := domain.ParseKind(string(d.Kind)); ok {
		d.Kind = k
	} else {
		d.Kind = domain.KindCareerPath
	}
	if p, ok := domain.ParsePriority(string(d.Priority)); ok {
		d.Priority = p
	} else {
		d.Priority = domain.PriorityMedium
	}
	switch {
	case math.IsNaN(d.Confidence) || math.IsInf(d.Confidence, 0):
		d.Confidence = defaultConfidence
	case d.Confidence < 0:
		d.Confidence = 0
	case d.Confidence > 1:
		d.Confidence = 1
	}
	if d.ActionSteps == nil {
		d.ActionSteps = []string{}
	}
	if len(d.ActionSteps) > domain.MaxActionSteps {
		d.ActionSteps = append([]string(nil), d.ActionSteps[:domain.MaxActionSteps]...)
	}
	if d.Resources == nil {
		d.Resources = []string{}
	}
	return d
}

func first(raw RawDraft, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func strList(v any) []string {
	switch t := v.(type) {
	case []string:
		return append([]string{}, t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if e == nil {
				continue
			}
			if s := str(e); s != "" {
				out = append(out, s)
				continue
			}
			out = append(out, fmt.Sprint(e))
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return []string{}
		}
		return []string{t}
	default:
		return []string{}
	}
}

func number(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
