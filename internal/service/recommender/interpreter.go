package recommender

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
	"github.com/fairyhunter13/ai-career-advisor/pkg/textx"
)

// Tier identifies which parser interpreted a model response.
type Tier string

const (
	TierJSON Tier = "json"
	TierText Tier = "text"
)

// maxObjectScan bounds how many '{' offsets are tried when the outermost
// braces do not enclose a usable document.
const maxObjectScan = 64

const fallbackTitle = "Career Development Recommendation"

var (
	blankLine = regexp.MustCompile(`\n[ \t]*\n`)
	stepLine  = regexp.MustCompile(`^(?:\d+\.|[-*])`)

	genericSteps = []string{
		"Research opportunities in this area",
		"Develop relevant skills and knowledge",
		"Network with professionals in the field",
		"Apply learnings to current role or seek new opportunities",
	}
	textResources = []string{"Professional development courses", "Industry networking"}
)

const (
	textTimeline = "1-3 months"
	textOutcomes = "Career advancement and skill development"
)

// kindRules is evaluated in order; the first rule with a matching keyword wins.
var kindRules = []struct {
	kind     domain.Kind
	keywords []string
}{
	{domain.KindSkillDevelopment, []string{"skill", "learn", "course", "training"}},
	{domain.KindCareerPath, []string{"job", "position", "role", "career"}},
	{domain.KindSalaryGuidance, []string{"salary", "compensation", "pay"}},
	{domain.KindIndustryInsight, []string{"industry", "trend", "market"}},
	{domain.KindEducation, []string{"education", "degree", "certification"}},
}

// InferKind maps free text to a recommendation kind by keyword. Text with no
// keyword maps to career_path.
func InferKind(text string) domain.Kind {
	lower := strings.ToLower(text)
	for _, r := range kindRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.kind
			}
		}
	}
	return domain.KindCareerPath
}

// Interpreter turns raw model output into drafts using a strict JSON tier
// and a heuristic text tier.
type Interpreter struct {
	tuning Tuning
}

// NewInterpreter returns an Interpreter using t.
func NewInterpreter(t Tuning) Interpreter {
	return Interpreter{tuning: t}
}

// Interpret runs the JSON tier and falls back to the text tier when no
// recommendations document can be decoded. Drafts are normalized.
func (in Interpreter) Interpret(text string) ([]domain.Draft, Tier) {
	raws, err := in.ParseStructured(text)
	if err != nil {
		return in.ParseText(text), TierText
	}
	out := make([]domain.Draft, 0, len(raws))
	for _, r := range raws {
		out = append(out, Normalize(r))
	}
	return out, TierJSON
}

// ParseStructured extracts the "recommendations" list from the JSON object
// spanning the first '{' to the last '}' of text. When that span does not
// decode to such an object, each '{' is tried as the start of one. A
// "recommendations" value that is not a list does not count. Failures wrap
// domain.ErrParse.
func (in Interpreter) ParseStructured(text string) ([]RawDraft, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object", domain.ErrParse)
	}
	var doc map[string]any
	dec := json.NewDecoder(strings.NewReader(text[start : end+1]))
	dec.UseNumber()
	if err := dec.Decode(&doc); err == nil {
		if list, ok := recommendationList(doc); ok {
			return list, nil
		}
	}

	tried := 0
	for i := start; i <= end && tried < maxObjectScan; i++ {
		if text[i] != '{' {
			continue
		}
		tried++
		var obj map[string]any
		dec := json.NewDecoder(strings.NewReader(text[i : end+1]))
		dec.UseNumber()
		if err := dec.Decode(&obj); err != nil {
			continue
		}
		if list, ok := recommendationList(obj); ok {
			return list, nil
		}
	}
	return nil, fmt.Errorf("%w: no recommendations list", domain.ErrParse)
}

func recommendationList(doc map[string]any) ([]RawDraft, bool) {
	v, ok := doc["recommendations"]
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]RawDraft, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, true
}

// ParseText segments text on blank lines and builds one draft per substantial
// section among the first MaxSections. Priority and confidence follow the
// ordinal of the surviving section, so dropped noise does not shift them. It
// never fails; empty input yields an empty list.
func (in Interpreter) ParseText(text string) []domain.Draft {
	t := in.tuning
	sections := blankLine.Split(textx.NormalizeNewlines(text), -1)
	if len(sections) > t.MaxSections {
		sections = sections[:t.MaxSections]
	}
	out := make([]domain.Draft, 0, len(sections))
	for _, sec := range sections {
		body := strings.TrimSpace(sec)
		if utf8.RuneCountInString(body) <= t.MinSectionChars {
			continue
		}
		i := len(out)
		out = append(out, NormalizeDraft(domain.Draft{
			Kind:             InferKind(body),
			Title:            in.title(body),
			Description:      body,
			Priority:         priorityAt(i),
			Confidence:       t.BaseConfidence + t.ConfidenceStep*float64(i),
			ActionSteps:      actionSteps(body),
			Timeline:         textTimeline,
			Resources:        append([]string(nil), textResources...),
			ExpectedOutcomes: textOutcomes,
		}))
	}
	return out
}

func (in Interpreter) title(body string) string {
	firstLine, _, _ := strings.Cut(body, "\n")
	firstLine = strings.TrimSpace(firstLine)
	if utf8.RuneCountInString(firstLine) < in.tuning.MaxTitleChars {
		return firstLine
	}
	return fallbackTitle
}

func priorityAt(i int) domain.Priority {
	switch {
	case i == 0:
		return domain.PriorityHigh
	case i < 3:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func actionSteps(body string) []string {
	var steps []string
	for _, l := range strings.Split(body, "\n") {
		l = strings.TrimSpace(l)
		marker := stepLine.FindString(l)
		if marker == "" {
			continue
		}
		if s := strings.TrimSpace(l[len(marker):]); s != "" {
			steps = append(steps, s)
			if len(steps) == domain.MaxActionSteps {
				break
			}
		}
	}
	if len(steps) == 0 {
		return append([]string(nil), genericSteps...)
	}
	return steps
}
