package recommender

import (
	"strings"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

const promptPreamble = "You are a professional career advisor AI. Analyze this user profile and provide personalized career guidance."

const promptSchema = `Please provide 3-5 specific, actionable career recommendations in JSON format with this structure:
{
    "recommendations": [
        {
            "type": "career_path|skill_development|job_match|education|industry_insight|salary_guidance",
            "title": "Specific recommendation title",
            "description": "Detailed description explaining why this is relevant",
            "priority": "high|medium|low",
            "confidence": 0.85,
            "action_steps": ["Step 1", "Step 2", "Step 3"],
            "timeline": "Short timeline estimate",
            "resources": ["Resource 1", "Resource 2"],
            "expected_outcomes": "What they can expect to achieve"
        }
    ]
}`

const promptFocus = `Focus on:
1. Career progression opportunities in their field
2. Skill gaps and development recommendations
3. Industry-specific insights and trends
4. Networking and professional development
5. Compensation and career advancement strategies

Make recommendations specific to their career field, experience level, and stated goals.`

// ComposePrompt assembles the generation prompt from a profile summary built
// by BuildProfileContext and the profile's primary career field.
func ComposePrompt(summary string, field domain.CareerField) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimRight(summary, "\n"))
	b.WriteString("\n\nFIELD-SPECIFIC CONTEXT:\n")
	b.WriteString(FieldKnowledge(field))
	b.WriteString("\n\n")
	b.WriteString(promptSchema)
	b.WriteString("\n\n")
	b.WriteString(promptFocus)
	b.WriteByte('\n')
	return b.String()
}
