package domain

import (
	"strings"
	"time"
)

// Kind enumerates recommendation categories.
type Kind string

// Priority ranks how urgently a recommendation should be acted on.
type Priority string

// Recommendation kinds.
const (
	KindCareerPath       Kind = "career_path"
	KindSkillDevelopment Kind = "skill_development"
	KindJobMatch         Kind = "job_match"
	KindEducation        Kind = "education"
	KindIndustryInsight  Kind = "industry_insight"
	KindSalaryGuidance   Kind = "salary_guidance"
)

// Priorities.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Kinds lists every recommendation kind in display order.
var Kinds = []Kind{
	KindCareerPath, KindSkillDevelopment, KindJobMatch,
	KindEducation, KindIndustryInsight, KindSalaryGuidance,
}

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParseKind maps s onto a Kind. ok is false for anything outside the closed set.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// ParsePriority maps s onto a Priority. ok is false for anything outside the closed set.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Priorities {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Draft is an unpersisted recommendation produced by the generation pipeline.
// Invariants: Kind and Priority are members of their enums; Confidence is in
// [0,1]; ActionSteps holds at most MaxActionSteps entries; slices are never nil.
type Draft struct {
	Kind             Kind     `json:"recommendation_type"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Priority         Priority `json:"priority"`
	Confidence       float64  `json:"confidence_score"`
	ActionSteps      []string `json:"action_steps"`
	Timeline         string   `json:"timeline"`
	Resources        []string `json:"resources"`
	ExpectedOutcomes string   `json:"expected_outcomes"`
}

// MaxActionSteps bounds the number of action steps kept on a draft.
const MaxActionSteps = 4

// Recommendation is a persisted Draft owned by a user.
type Recommendation struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Draft
	IsRead         bool      `json:"is_read"`
	IsBookmarked   bool      `json:"is_bookmarked"`
	FeedbackRating *int      `json:"feedback_rating,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RecommendationFilter narrows a recommendation listing. Zero values mean no filter.
type RecommendationFilter struct {
	Kind   Kind
	Limit  int
	Offset int
}

// Feedback carries user reactions to a recommendation. Nil fields are left unchanged.
type Feedback struct {
	Rating       *int  `json:"feedback_rating,omitempty" validate:"omitempty,min=1,max=5"`
	IsBookmarked *bool `json:"is_bookmarked,omitempty"`
}

// RecommendationCounts summarizes a user's recommendations.
type RecommendationCounts struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
	// LatestAt is the creation time of the newest recommendation, nil when there are none.
	LatestAt *time.Time `json:"latest_at,omitempty"`
}

// SalaryRange is the average salary band of a career path.
type SalaryRange struct {
	Entry  string `json:"entry" yaml:"entry"`
	Mid    string `json:"mid" yaml:"mid"`
	Senior string `json:"senior" yaml:"senior"`
}

// PathStage is one rung of a career path.
type PathStage struct {
	Stage            string   `json:"stage" yaml:"stage"`
	Experience       string   `json:"experience" yaml:"experience"`
	Skills           []string `json:"skills" yaml:"skills"`
	Responsibilities []string `json:"responsibilities" yaml:"responsibilities"`
}

// CareerPath is a catalog entry describing a profession.
type CareerPath struct {
	ID                 string      `json:"id" yaml:"-"`
	Name               string      `json:"name" yaml:"name"`
	Description        string      `json:"description" yaml:"description"`
	Industry           string      `json:"industry" yaml:"industry"`
	RequiredSkills     []string    `json:"required_skills" yaml:"required_skills"`
	CareerStages       []PathStage `json:"career_stages" yaml:"career_stages"`
	AverageSalaryRange SalaryRange `json:"average_salary_range" yaml:"average_salary_range"`
	GrowthOutlook      string      `json:"growth_outlook" yaml:"growth_outlook"`
	CreatedAt          time.Time   `json:"created_at" yaml:"-"`
}

// CareerProgress tracks a user's advancement along a career path.
type CareerProgress struct {
	UserID             string    `json:"user_id"`
	CareerPathID       string    `json:"career_path_id"`
	CareerPathName     string    `json:"career_path_name"`
	CurrentStage       string    `json:"current_stage"`
	ProgressPercentage float64   `json:"progress_percentage"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Insights is the dashboard summary for a user.
type Insights struct {
	ProfileCompletion     float64          `json:"profile_completion"`
	SkillScores           map[string]*int  `json:"skill_scores"`
	RecommendationsCount  int              `json:"recommendations_count"`
	UnreadRecommendations int              `json:"unread_recommendations"`
	CareerProgress        []CareerProgress `json:"career_progress"`
	LastActivity          *time.Time       `json:"last_activity,omitempty"`
}

// GenerationEvent is published after a generation run has been persisted.
type GenerationEvent struct {
	UserID            string    `json:"user_id"`
	RecommendationIDs []string  `json:"recommendation_ids"`
	Source            string    `json:"source"`
	AIPowered         bool      `json:"ai_powered"`
	GeneratedAt       time.Time `json:"generated_at"`
}
