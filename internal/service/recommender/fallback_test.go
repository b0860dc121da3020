package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

func TestFallback_BiologyWithoutScores(t *testing.T) {
	t.Parallel()
	got := Fallback(domain.Profile{FieldOfStudy: "Biology"})

	require.Len(t, got, 1)
	d := got[0]
	assert.Equal(t, domain.KindCareerPath, d.Kind)
	assert.Equal(t, domain.PriorityHigh, d.Priority)
	assert.Equal(t, 0.80, d.Confidence)
	assert.Equal(t, "Career Growth in Your Field", d.Title)
	assert.Contains(t, d.Description, "Based on your background in Biology")
	assert.Len(t, d.ActionSteps, 4)
	assert.Equal(t, "6-12 months", d.Timeline)
	assert.Len(t, d.Resources, 3)
}

func TestFallback_SkillGate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		score *int
		want  int
	}{
		{"unassessed", nil, 1},
		{"low", intp(5), 2},
		{"just below", intp(7), 2},
		{"threshold", intp(8), 1},
		{"high", intp(10), 1},
		{"minimum", intp(1), 2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Fallback(domain.Profile{SkillScores: domain.SkillScores{TechnicalSkills: tt.score}})
			require.Len(t, got, tt.want)
			if tt.want == 2 {
				assert.Equal(t, domain.KindSkillDevelopment, got[1].Kind)
				assert.Equal(t, domain.PriorityMedium, got[1].Priority)
				assert.Equal(t, 0.75, got[1].Confidence)
				assert.Equal(t, "Strengthen Technical Skills", got[1].Title)
			}
		})
	}
}

func TestFallback_UsesFieldLabel(t *testing.T) {
	t.Parallel()
	got := Fallback(domain.Profile{PrimaryCareerField: domain.FieldHealthcare})
	assert.Equal(t, "Career Growth in Healthcare & Medicine", got[0].Title)
	assert.Contains(t, got[0].Description, "your field")
}

func TestFallback_Deterministic(t *testing.T) {
	t.Parallel()
	p := domain.Profile{
		FieldOfStudy:       "Computer Science",
		PrimaryCareerField: domain.FieldTechnology,
		SkillScores:        domain.SkillScores{TechnicalSkills: intp(6), Leadership: intp(9)},
	}
	a, b := Fallback(p), Fallback(p)
	assert.Equal(t, a, b)
	for _, d := range a {
		assert.Equal(t, d, NormalizeDraft(d), "fallback drafts are already canonical")
	}
}
