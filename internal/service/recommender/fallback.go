package recommender

import (
	"fmt"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
	"github.com/fairyhunter13/ai-career-advisor/pkg/textx"
)

// technicalGapThreshold is the technical score below which a skill
// development draft is added.
const technicalGapThreshold = 8

// Fallback returns deterministic drafts for p. It always yields a career path
// draft and adds a skill development draft when the technical score is
// assessed and below technicalGapThreshold.
func Fallback(p domain.Profile) []domain.Draft {
	field := p.PrimaryCareerField.Label()
	if field == "" {
		field = "Your Field"
	}
	study := textOr(p.FieldOfStudy, "your field")

	out := []domain.Draft{{
		Kind:        domain.KindCareerPath,
		Title:       "Career Growth in " + field,
		Description: fmt.Sprintf("Based on your background in %s, there are several advancement opportunities to explore.", study),
		Priority:    domain.PriorityHigh,
		Confidence:  0.80,
		ActionSteps: []string{
			"Research senior roles in your field",
			"Identify key skills for advancement",
			"Seek mentorship from industry leaders",
			"Apply for stretch assignments",
		},
		Timeline:         "6-12 months",
		Resources:        []string{"Industry publications", "Professional associations", "LinkedIn Learning"},
		ExpectedOutcomes: "Clear career progression path and increased opportunities",
	}}

	if ts := p.TechnicalSkills; ts != nil && *ts < technicalGapThreshold {
		out = append(out, domain.Draft{
			Kind:        domain.KindSkillDevelopment,
			Title:       "Strengthen Technical Skills",
			Description: "Enhancing your technical capabilities will open new opportunities and increase your market value.",
			Priority:    domain.PriorityMedium,
			Confidence:  0.75,
			ActionSteps: []string{
				"Assess current skill gaps",
				"Enroll in relevant courses or certifications",
				"Practice through hands-on projects",
				"Seek feedback from peers and mentors",
			},
			Timeline:         "3-6 months",
			Resources:        []string{"Online learning platforms", "Certification programs", "Workshops"},
			ExpectedOutcomes: "Improved technical proficiency and career advancement",
		})
	}
	return out
}

func textOr(s, def string) string {
	if s = textx.SingleLine(s); s != "" {
		return s
	}
	return def
}
