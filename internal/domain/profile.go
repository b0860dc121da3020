package domain

import "time"

// CareerField identifies a user's primary career field.
type CareerField string

// CareerStage describes where a user is in their career.
type CareerStage string

// EducationLevel is the highest completed education.
type EducationLevel string

// ExperienceLevel buckets years of professional experience.
type ExperienceLevel string

// WorkStyle is the preferred working arrangement.
type WorkStyle string

// Career fields with dedicated prompt knowledge. The full catalog lives in careerFieldLabels.
const (
	FieldTechnology CareerField = "technology"
	FieldHealthcare CareerField = "healthcare"
	FieldFinance    CareerField = "finance"
	FieldMarketing  CareerField = "marketing"
	FieldArts       CareerField = "arts"
	FieldEducation  CareerField = "education"
	FieldSales      CareerField = "sales"
)

var careerFieldLabels = map[CareerField]string{
	"technology":         "Technology & IT",
	"engineering":        "Engineering",
	"data_science":       "Data Science & Analytics",
	"cybersecurity":      "Cybersecurity",
	"finance":            "Finance & Banking",
	"accounting":         "Accounting",
	"consulting":         "Business Consulting",
	"entrepreneurship":   "Entrepreneurship",
	"management":         "Management & Leadership",
	"operations":         "Operations Management",
	"project_management": "Project Management",
	"sales":              "Sales & Business Development",
	"marketing":          "Marketing & Advertising",
	"digital_marketing":  "Digital Marketing",
	"ecommerce":          "E-commerce",
	"retail":             "Retail & Customer Service",
	"arts":               "Arts & Creative Industries",
	"graphic_design":     "Graphic Design",
	"web_design":         "Web Design & UX/UI",
	"content_creation":   "Content Creation",
	"photography":        "Photography & Videography",
	"writing":            "Writing & Journalism",
	"music":              "Music & Audio Production",
	"film":               "Film & Television",
	"fashion":            "Fashion & Styling",
	"architecture":       "Architecture & Interior Design",
	"healthcare":         "Healthcare & Medicine",
	"nursing":            "Nursing",
	"pharmacy":           "Pharmacy",
	"psychology":         "Psychology & Counseling",
	"physical_therapy":   "Physical Therapy",
	"veterinary":         "Veterinary Medicine",
	"biotechnology":      "Biotechnology",
	"education":          "Education & Teaching",
	"research":           "Research & Academia",
	"training":           "Corporate Training",
	"law":                "Law & Legal Services",
	"government":         "Government & Public Policy",
	"nonprofit":          "Non-profit & Social Services",
	"human_resources":    "Human Resources",
	"environmental":      "Environmental Science",
	"chemistry":          "Chemistry & Materials",
	"physics":            "Physics & Research",
	"agriculture":        "Agriculture & Food Science",
	"manufacturing":      "Manufacturing & Production",
	"construction":       "Construction & Trades",
	"automotive":         "Automotive",
	"logistics":          "Logistics & Supply Chain",
	"hospitality":        "Hospitality & Tourism",
	"food_service":       "Food Service & Culinary",
	"beauty":             "Beauty & Wellness",
	"fitness":            "Fitness & Sports",
	"aviation":           "Aviation & Aerospace",
	"transportation":     "Transportation & Logistics",
	"maritime":           "Maritime & Shipping",
	"other":              "Other",
}

var careerStageLabels = map[CareerStage]string{
	"exploring":       "Exploring Options",
	"transitioning":   "Career Transition",
	"advancing":       "Career Advancement",
	"specializing":    "Specialization",
	"leadership":      "Leadership Track",
	"entrepreneurial": "Entrepreneurial",
}

var educationLabels = map[EducationLevel]string{
	"high_school": "High School",
	"associate":   "Associate Degree",
	"bachelor":    "Bachelor's Degree",
	"master":      "Master's Degree",
	"phd":         "PhD",
	"bootcamp":    "Bootcamp/Certification",
	"other":       "Other",
}

var experienceLabels = map[ExperienceLevel]string{
	"entry":  "0-2 years",
	"junior": "2-5 years",
	"mid":    "5-8 years",
	"senior": "8-12 years",
	"lead":   "12+ years",
}

var workStyleLabels = map[WorkStyle]string{
	"remote":   "Remote",
	"hybrid":   "Hybrid",
	"onsite":   "On-site",
	"flexible": "Flexible",
}

// label returns the display label for a known code, the raw code for an
// unknown one, and "" when the code is empty.
func label[K ~string](labels map[K]string, k K) string {
	if k == "" {
		return ""
	}
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}

// Label returns the human-readable name of the field.
func (f CareerField) Label() string { return label(careerFieldLabels, f) }

// Known reports whether f is part of the field catalog.
func (f CareerField) Known() bool { _, ok := careerFieldLabels[f]; return ok }

// Label returns the human-readable name of the stage.
func (s CareerStage) Label() string { return label(careerStageLabels, s) }

// Known reports whether s is a recognized stage.
func (s CareerStage) Known() bool { _, ok := careerStageLabels[s]; return ok }

// Label returns the human-readable name of the education level.
func (e EducationLevel) Label() string { return label(educationLabels, e) }

// Known reports whether e is a recognized education level.
func (e EducationLevel) Known() bool { _, ok := educationLabels[e]; return ok }

// Label returns the human-readable experience range.
func (e ExperienceLevel) Label() string { return label(experienceLabels, e) }

// Known reports whether e is a recognized experience level.
func (e ExperienceLevel) Known() bool { _, ok := experienceLabels[e]; return ok }

// Label returns the human-readable work style.
func (w WorkStyle) Label() string { return label(workStyleLabels, w) }

// Known reports whether w is a recognized work style.
func (w WorkStyle) Known() bool { _, ok := workStyleLabels[w]; return ok }

// SkillScores holds self-assessed scores on a 1-10 scale. Nil means not assessed.
type SkillScores struct {
	TechnicalSkills    *int `json:"technical_skills_score,omitempty" validate:"omitempty,min=1,max=10"`
	Communication      *int `json:"communication_score,omitempty" validate:"omitempty,min=1,max=10"`
	Leadership         *int `json:"leadership_score,omitempty" validate:"omitempty,min=1,max=10"`
	ProblemSolving     *int `json:"problem_solving_score,omitempty" validate:"omitempty,min=1,max=10"`
	Creativity         *int `json:"creativity_score,omitempty" validate:"omitempty,min=1,max=10"`
	Adaptability       *int `json:"adaptability_score,omitempty" validate:"omitempty,min=1,max=10"`
	Teamwork           *int `json:"teamwork_score,omitempty" validate:"omitempty,min=1,max=10"`
	CustomerService    *int `json:"customer_service_score,omitempty" validate:"omitempty,min=1,max=10"`
	SalesMarketing     *int `json:"sales_marketing_score,omitempty" validate:"omitempty,min=1,max=10"`
	AnalyticalThinking *int `json:"analytical_thinking_score,omitempty" validate:"omitempty,min=1,max=10"`
}

// Profile is a user's self-reported career background. It is read-only to the
// recommendation pipeline.
// Invariants: every score is nil or within [1,10]; SalaryExpectation is nil or positive.
type Profile struct {
	UserID              string          `json:"user_id" validate:"required,max=100"`
	Skills              string          `json:"skills" validate:"max=5000"`
	Interests           string          `json:"interests" validate:"max=5000"`
	Goals               string          `json:"goals" validate:"max=5000"`
	EducationLevel      EducationLevel  `json:"education_level" validate:"max=20"`
	FieldOfStudy        string          `json:"field_of_study" validate:"max=100"`
	ExperienceLevel     ExperienceLevel `json:"experience_level" validate:"max=20"`
	CurrentRole         string          `json:"current_role" validate:"max=100"`
	PrimaryCareerField  CareerField     `json:"primary_career_field" validate:"max=50"`
	PreferredIndustries []string        `json:"preferred_industries" validate:"max=20,dive,max=100"`
	PreferredWorkStyle  WorkStyle       `json:"preferred_work_style" validate:"max=20"`
	SalaryExpectation   *int            `json:"salary_expectation,omitempty" validate:"omitempty,gt=0"`
	CareerStage         CareerStage     `json:"career_stage" validate:"max=20"`
	SkillScores
	ProfileCompletion   float64    `json:"profile_completion"`
	LastAssessmentAt    *time.Time `json:"last_assessment_date,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// CompletionPercentage returns the share of the nine descriptive fields that are filled, in [0,100].
func (p Profile) CompletionPercentage() float64 {
	filled := []bool{
		p.Skills != "",
		p.Interests != "",
		p.Goals != "",
		p.EducationLevel != "",
		p.FieldOfStudy != "",
		p.ExperienceLevel != "",
		p.CurrentRole != "",
		len(p.PreferredIndustries) > 0,
		p.PreferredWorkStyle != "",
	}
	n := 0
	for _, f := range filled {
		if f {
			n++
		}
	}
	return float64(n) / float64(len(filled)) * 100
}
