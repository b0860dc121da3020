package recommender

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

func newTestInterpreter() Interpreter { return NewInterpreter(DefaultTuning()) }

func TestParseStructured_ExtractsList(t *testing.T) {
	t.Parallel()
	in := newTestInterpreter()
	tests := []struct {
		name   string
		text   string
		titles []string
	}{
		{
			name:   "bare document",
			text:   `{"recommendations":[{"title":"A"},{"title":"B"}]}`,
			titles: []string{"A", "B"},
		},
		{
			name:   "wrapped in prose and fences",
			text:   "Here are your picks:\n```json\n{\"recommendations\": [{\"title\": \"A\", \"type\": \"job_match\"}]}\n```\nGood luck!",
			titles: []string{"A"},
		},
		{
			name:   "stray braces before the document",
			text:   "Note {draft} follows.\n{\"recommendations\": [{\"title\": \"Only\"}]}",
			titles: []string{"Only"},
		},
		{
			name:   "nested under another object",
			text:   `{"data": {"recommendations": [{"title": "Inner"}]}}`,
			titles: []string{"Inner"},
		},
		{
			name:   "empty list",
			text:   `{"recommendations": []}`,
			titles: []string{},
		},
		{
			name:   "non-object entries skipped",
			text:   `{"recommendations": ["x", {"title": "Kept"}, 3]}`,
			titles: []string{"Kept"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := in.ParseStructured(tt.text)
			require.NoError(t, err)
			titles := make([]string, 0, len(got))
			for _, r := range got {
				titles = append(titles, r["title"].(string))
			}
			assert.Equal(t, tt.titles, titles)
		})
	}
}

func TestParseStructured_Failures(t *testing.T) {
	t.Parallel()
	in := newTestInterpreter()
	for _, text := range []string{
		"",
		"no braces at all",
		"} reversed {",
		`{"recommendations": {"title": "single object"}}`,
		`{"advice": [{"title": "wrong key"}]}`,
		`{"recommendations": [ {"title": "truncated"`,
	} {
		_, err := in.ParseStructured(text)
		assert.ErrorIs(t, err, domain.ErrParse, "text=%q", text)
	}
}

func TestInterpret_TierSelection(t *testing.T) {
	t.Parallel()
	in := newTestInterpreter()

	drafts, tier := in.Interpret(`{"recommendations":[{"type":"education","title":"MSc"}]}`)
	assert.Equal(t, TierJSON, tier)
	require.Len(t, drafts, 1)
	assert.Equal(t, domain.KindEducation, drafts[0].Kind)
	assert.Equal(t, domain.PriorityMedium, drafts[0].Priority)

	text := longSection("Consider a move into a product role")
	drafts, tier = in.Interpret(text)
	assert.Equal(t, TierText, tier)
	require.Len(t, drafts, 1)

	drafts, tier = in.Interpret(`{"recommendations": {"title": "x"}}`)
	assert.Equal(t, TierText, tier)
	assert.Empty(t, drafts)
}

func TestParseText_WorkedExample(t *testing.T) {
	t.Parallel()
	text := "Learn Python\n\nThis is a detailed section about improving skills with more than fifty characters of content here."
	got := newTestInterpreter().ParseText(text)

	require.Len(t, got, 1)
	assert.Equal(t, domain.KindSkillDevelopment, got[0].Kind)
	assert.Equal(t, domain.PriorityHigh, got[0].Priority)
	assert.InDelta(t, 0.75, got[0].Confidence, 1e-9)
}

func TestParseText_EmptyAndNoise(t *testing.T) {
	t.Parallel()
	in := newTestInterpreter()
	assert.Empty(t, in.ParseText(""))
	assert.Empty(t, in.ParseText("short\n\nalso short\n\n   \n\n"))
	assert.NotPanics(t, func() { in.ParseText("\n\n\n\r\n\r\n") })
}

func TestParseText_CapsAtFiveSections(t *testing.T) {
	t.Parallel()
	parts := make([]string, 9)
	for i := range parts {
		parts[i] = longSection("Section heading")
	}
	got := newTestInterpreter().ParseText(strings.Join(parts, "\n\n"))
	assert.Len(t, got, 5)
}

func TestParseText_OnlyFirstFiveRawSectionsConsidered(t *testing.T) {
	t.Parallel()
	text := strings.Join([]string{"a", "b", "c", "d", "e", longSection("Late content")}, "\n\n")
	assert.Empty(t, newTestInterpreter().ParseText(text))
}

func TestParseText_PriorityAndConfidenceByOrdinal(t *testing.T) {
	t.Parallel()
	parts := []string{
		longSection("First"),
		"noise",
		longSection("Second"),
		longSection("Third"),
		longSection("Fourth"),
	}
	got := newTestInterpreter().ParseText(strings.Join(parts, "\n\n"))
	require.Len(t, got, 4)

	wantPriority := []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityMedium, domain.PriorityLow}
	for i, d := range got {
		assert.Equal(t, wantPriority[i], d.Priority, "index %d", i)
		assert.InDelta(t, 0.75+0.05*float64(i), d.Confidence, 1e-9, "index %d", i)
	}
	assert.Equal(t, "Second", got[1].Title)
}

func TestParseText_ConfidenceFollowsTuning(t *testing.T) {
	t.Parallel()
	tuning := DefaultTuning()
	tuning.BaseConfidence = 0.9
	tuning.ConfidenceStep = 0.1
	parts := []string{longSection("A"), longSection("B"), longSection("C")}
	got := NewInterpreter(tuning).ParseText(strings.Join(parts, "\n\n"))
	require.Len(t, got, 3)
	assert.InDelta(t, 0.9, got[0].Confidence, 1e-9)
	assert.InDelta(t, 1.0, got[1].Confidence, 1e-9)
	assert.InDelta(t, 1.0, got[2].Confidence, 1e-9, "clamped into [0,1]")
}

func TestParseText_TitleAndSteps(t *testing.T) {
	t.Parallel()
	in := newTestInterpreter()

	section := "Move toward engineering management\n" +
		"Leading people is a natural next step given your scores and stated goals.\n" +
		"1. Shadow your manager\n" +
		"- Run a weekly sync\n" +
		"* Mentor a junior engineer\n" +
		"2. Read about management\n" +
		"3. Ask for a team"
	got := in.ParseText(section)
	require.Len(t, got, 1)
	d := got[0]
	assert.Equal(t, "Move toward engineering management", d.Title)
	assert.Equal(t, []string{"Shadow your manager", "Run a weekly sync", "Mentor a junior engineer", "Read about management"}, d.ActionSteps)
	assert.Equal(t, "1-3 months", d.Timeline)
	assert.Equal(t, []string{"Professional development courses", "Industry networking"}, d.Resources)
	assert.Equal(t, "Career advancement and skill development", d.ExpectedOutcomes)
	assert.Equal(t, section, d.Description)

	long := strings.Repeat("x", 120) + "\nbody"
	got = in.ParseText(long)
	require.Len(t, got, 1)
	assert.Equal(t, "Career Development Recommendation", got[0].Title)
	assert.Equal(t, genericSteps, got[0].ActionSteps)
}

func TestParseText_MinSectionLengthBoundary(t *testing.T) {
	t.Parallel()
	in := newTestInterpreter()
	require.Equal(t, 50, DefaultTuning().MinSectionChars)
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "exactly the minimum is dropped", text: strings.Repeat("a", 50), want: 0},
		{name: "one over the minimum is kept", text: strings.Repeat("a", 51), want: 1},
		{name: "surrounding whitespace does not count", text: "  \n" + strings.Repeat("a", 50) + "\n  ", want: 0},
		{name: "length is measured in runes", text: strings.Repeat("é", 51), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Len(t, in.ParseText(tt.text), tt.want)
		})
	}
}

func TestParseText_StepsKeepLeadingDigits(t *testing.T) {
	t.Parallel()
	section := "Build a creative technology portfolio\n" +
		"Showcase work that blends engineering with visual design skills.\n" +
		"- 3D modeling portfolio\n" +
		"1. 2024 goals review\n" +
		"10. 5 mock interviews\n" +
		"*   2x weekly practice"
	got := newTestInterpreter().ParseText(section)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"3D modeling portfolio", "2024 goals review", "5 mock interviews", "2x weekly practice"}, got[0].ActionSteps)
}

func TestParseText_CRLF(t *testing.T) {
	t.Parallel()
	text := strings.ReplaceAll(longSection("One")+"\n\n"+longSection("Two"), "\n", "\r\n")
	got := newTestInterpreter().ParseText(text)
	require.Len(t, got, 2)
	assert.Equal(t, "One", got[0].Title)
}

func TestInferKind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text string
		want domain.Kind
	}{
		{"Take a TRAINING course", domain.KindSkillDevelopment},
		{"Skill up and find a new job", domain.KindSkillDevelopment},
		{"Apply for a senior position", domain.KindCareerPath},
		{"Negotiate your salary", domain.KindSalaryGuidance},
		{"Follow market shifts", domain.KindIndustryInsight},
		{"Pursue a master's degree", domain.KindEducation},
		{"Something unrelated entirely", domain.KindCareerPath},
		{"", domain.KindCareerPath},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferKind(tt.text), tt.text)
	}
}
