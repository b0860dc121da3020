package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks field bounds and categorical codes. Violations are wrapped in ErrValidation.
func (p Profile) Validate() error {
	if err := getValidator().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, ","))
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	var bad []string
	if p.PrimaryCareerField != "" && !p.PrimaryCareerField.Known() {
		bad = append(bad, "primary_career_field")
	}
	if p.CareerStage != "" && !p.CareerStage.Known() {
		bad = append(bad, "career_stage")
	}
	if p.EducationLevel != "" && !p.EducationLevel.Known() {
		bad = append(bad, "education_level")
	}
	if p.ExperienceLevel != "" && !p.ExperienceLevel.Known() {
		bad = append(bad, "experience_level")
	}
	if p.PreferredWorkStyle != "" && !p.PreferredWorkStyle.Known() {
		bad = append(bad, "preferred_work_style")
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: unknown choice for %s", ErrValidation, strings.Join(bad, ","))
	}
	return nil
}

// Validate checks the feedback rating bounds.
func (f Feedback) Validate() error {
	if err := getValidator().Struct(f); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if f.Rating == nil && f.IsBookmarked == nil {
		return fmt.Errorf("%w: empty feedback", ErrValidation)
	}
	return nil
}

// Validate checks an answer before it is stored. An empty QuestionType is
// accepted and defaults to multiple_choice at the service layer.
func (a AssessmentAnswer) Validate() error {
	if err := getValidator().Struct(a); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if a.QuestionType != "" && !a.QuestionType.Known() {
		return fmt.Errorf("%w: unknown choice for question_type", ErrValidation)
	}
	return nil
}

// Validate checks the completion payload bounds.
func (c AssessmentCompletion) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
