package domain

import "time"

// AssessmentType selects the questionnaire flavour of a session.
type AssessmentType string

// AssessmentStatus tracks the lifecycle of a session.
type AssessmentStatus string

// QuestionType describes how a question is answered.
type QuestionType string

// Assessment types.
const (
	AssessmentAIPowered AssessmentType = "ai_powered"
	AssessmentStandard  AssessmentType = "standard"
	AssessmentQuick     AssessmentType = "quick"
)

// Assessment statuses. Sessions move from in_progress to completed, or to
// abandoned when left idle.
const (
	AssessmentInProgress AssessmentStatus = "in_progress"
	AssessmentCompleted  AssessmentStatus = "completed"
	AssessmentAbandoned  AssessmentStatus = "abandoned"
)

// Question types.
const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionText           QuestionType = "text"
	QuestionRating         QuestionType = "rating"
	QuestionScenario       QuestionType = "scenario"
)

// Known reports whether t is a supported assessment type.
func (t AssessmentType) Known() bool {
	switch t {
	case AssessmentAIPowered, AssessmentStandard, AssessmentQuick:
		return true
	}
	return false
}

// Known reports whether s is a supported status.
func (s AssessmentStatus) Known() bool {
	switch s {
	case AssessmentInProgress, AssessmentCompleted, AssessmentAbandoned:
		return true
	}
	return false
}

// Known reports whether q is a supported question type.
func (q QuestionType) Known() bool {
	switch q {
	case QuestionMultipleChoice, QuestionText, QuestionRating, QuestionScenario:
		return true
	}
	return false
}

// AssessmentAnswer is one answered question. A session keeps at most one
// answer per QuestionNumber; saving the same number again replaces it.
type AssessmentAnswer struct {
	QuestionNumber int          `json:"question_number" validate:"gte=1,lte=500"`
	QuestionText   string       `json:"question_text" validate:"required,max=2000"`
	QuestionType   QuestionType `json:"question_type"`
	Options        []string     `json:"options" validate:"max=20,dive,max=500"`
	Answer         string       `json:"user_answer" validate:"required,max=5000"`
	AnsweredAt     time.Time    `json:"answered_at"`
}

// CareerMatch is a career suggested at the end of an assessment.
type CareerMatch struct {
	Title           string   `json:"title" validate:"required,max=200"`
	MatchPercentage int      `json:"match_percentage" validate:"gte=0,lte=100"`
	Description     string   `json:"description" validate:"max=5000"`
	RequiredSkills  []string `json:"required_skills" validate:"max=50,dive,max=200"`
	SalaryRange     string   `json:"salary_range" validate:"max=100"`
	GrowthPotential string   `json:"growth_potential" validate:"max=100"`
}

// AssessmentSession is a questionnaire run owned by a user.
type AssessmentSession struct {
	ID                string             `json:"id"`
	UserID            string             `json:"user_id"`
	Type              AssessmentType     `json:"session_type"`
	Status            AssessmentStatus   `json:"status"`
	Answers           []AssessmentAnswer `json:"answers"`
	QuestionsAnswered int                `json:"questions_answered"`
	Matches           []CareerMatch      `json:"career_matches"`
	ConfidenceScore   *float64           `json:"ai_confidence_score"`
	StartedAt         time.Time          `json:"started_at"`
	CompletedAt       *time.Time         `json:"completed_at"`
	DurationSeconds   *int               `json:"duration_seconds"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// AssessmentCompletion carries the optional results recorded when a session
// completes. Nil fields keep whatever the session already holds.
type AssessmentCompletion struct {
	Matches         []CareerMatch `json:"recommendations" validate:"max=20,dive"`
	ConfidenceScore *float64      `json:"ai_confidence_score" validate:"omitempty,gte=0,lte=1"`
}

// AssessmentFilter narrows a session listing.
type AssessmentFilter struct {
	Status AssessmentStatus
	Type   AssessmentType
	Limit  int
	Offset int
}

// AssessmentCounts aggregates a user's sessions.
type AssessmentCounts struct {
	Total                  int      `json:"total_assessments"`
	Completed              int      `json:"completed_assessments"`
	InProgress             int      `json:"in_progress_assessments"`
	AverageDurationSeconds *float64 `json:"average_duration"`
	TotalCareerMatches     int      `json:"total_recommendations"`
}

// AssessmentStatistics is the per-user summary served by the statistics endpoint.
type AssessmentStatistics struct {
	AssessmentCounts
	MostRecent *AssessmentSummary `json:"most_recent_assessment"`
}

// AssessmentSummary is the compact view of a session.
type AssessmentSummary struct {
	ID     string           `json:"id"`
	Date   time.Time        `json:"date"`
	Status AssessmentStatus `json:"status"`
	Type   AssessmentType   `json:"type"`
}
