package recommender

import (
	"strconv"
	"strings"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
	"github.com/fairyhunter13/ai-career-advisor/pkg/textx"
)

const (
	notSpecified = "Not specified"
	notAssessed  = "Not assessed"
)

// BuildProfileContext renders p as the labelled plain-text summary embedded in
// prompts. Absent fields render as placeholders, so an empty profile still
// produces a complete summary.
func BuildProfileContext(p domain.Profile) string {
	var b strings.Builder
	b.WriteString("USER PROFILE:\n")
	line(&b, "Primary Career Field", text(p.PrimaryCareerField.Label()))
	line(&b, "Career Stage", text(p.CareerStage.Label()))
	line(&b, "Education", text(p.EducationLevel.Label()))
	line(&b, "Field of Study", text(p.FieldOfStudy))
	line(&b, "Experience Level", text(p.ExperienceLevel.Label()))
	line(&b, "Current Role", text(p.CurrentRole))
	line(&b, "Skills", text(p.Skills))
	line(&b, "Interests", text(p.Interests))
	line(&b, "Goals", text(p.Goals))
	line(&b, "Work Style Preference", text(p.PreferredWorkStyle.Label()))
	line(&b, "Preferred Industries", industries(p.PreferredIndustries))
	line(&b, "Salary Expectation", salary(p.SalaryExpectation))

	b.WriteString("\nSKILL ASSESSMENT SCORES (1-10 scale):\n")
	s := p.SkillScores
	line(&b, "Technical/Specialized Skills", score(s.TechnicalSkills))
	line(&b, "Communication", score(s.Communication))
	line(&b, "Leadership", score(s.Leadership))
	line(&b, "Problem Solving", score(s.ProblemSolving))
	line(&b, "Creativity", score(s.Creativity))
	line(&b, "Adaptability", score(s.Adaptability))
	line(&b, "Teamwork", score(s.Teamwork))
	line(&b, "Customer Service", score(s.CustomerService))
	line(&b, "Sales & Marketing", score(s.SalesMarketing))
	line(&b, "Analytical Thinking", score(s.AnalyticalThinking))
	return b.String()
}

func line(b *strings.Builder, label, value string) {
	b.WriteString("- ")
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

// text keeps user input on one line so it cannot open new prompt sections.
func text(s string) string {
	if v := textx.SingleLine(s); v != "" {
		return v
	}
	return notSpecified
}

func industries(list []string) string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		label := domain.CareerField(textx.SingleLine(s)).Label()
		if label != "" {
			out = append(out, label)
		}
	}
	if len(out) == 0 {
		return notSpecified
	}
	return strings.Join(out, ", ")
}

func salary(v *int) string {
	if v == nil || *v <= 0 {
		return notSpecified
	}
	return "$" + strconv.Itoa(*v)
}

func score(v *int) string {
	if v == nil {
		return notAssessed
	}
	return strconv.Itoa(*v)
}
