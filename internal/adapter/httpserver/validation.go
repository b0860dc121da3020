package httpserver

import (
	"regexp"
	"strconv"

	"github.com/fairyhunter13/ai-career-advisor/internal/domain"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Pagination defaults.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

var userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.@-]+$`)

func invalid(field, code, msg string) ValidationResult {
	return ValidationResult{Errors: []ValidationError{{Field: field, Code: code, Message: msg}}}
}

// ValidateUserID validates the user id path parameter.
func ValidateUserID(userID string) ValidationResult {
	if userID == "" {
		return invalid("user_id", "REQUIRED", "User ID is required")
	}
	if len(userID) > 100 {
		return invalid("user_id", "TOO_LONG", "User ID is too long (max 100 characters)")
	}
	if !userIDPattern.MatchString(userID) {
		return invalid("user_id", "INVALID_FORMAT", "User ID contains invalid characters")
	}
	return ValidationResult{Valid: true}
}

// ValidateRecommendationType validates the optional type filter.
func ValidateRecommendationType(kind string) ValidationResult {
	if kind == "" {
		return ValidationResult{Valid: true}
	}
	if _, ok := domain.ParseKind(kind); !ok {
		return invalid("type", "INVALID_VALUE", "Unknown recommendation type")
	}
	return ValidationResult{Valid: true}
}

// ValidateAssessmentFilter validates the optional status and session_type filters.
func ValidateAssessmentFilter(status, kind string) ValidationResult {
	var errs []ValidationError
	if status != "" && !domain.AssessmentStatus(status).Known() {
		errs = append(errs, ValidationError{Field: "status", Code: "INVALID_VALUE", Message: "Unknown assessment status"})
	}
	if kind != "" && !domain.AssessmentType(kind).Known() {
		errs = append(errs, ValidationError{Field: "session_type", Code: "INVALID_VALUE", Message: "Unknown session type"})
	}
	if len(errs) > 0 {
		return ValidationResult{Valid: false, Errors: errs}
	}
	return ValidationResult{Valid: true}
}

// ValidatePagination validates pagination parameters
func ValidatePagination(page, limit string) ValidationResult {
	var errs []ValidationError
	if page != "" {
		pageNum, err := strconv.Atoi(page)
		if err != nil || pageNum < 1 {
			errs = append(errs, ValidationError{Field: "page", Code: "INVALID_FORMAT", Message: "Page must be a positive integer"})
		}
	}
	if limit != "" {
		limitNum, err := strconv.Atoi(limit)
		if err != nil || limitNum < 1 || limitNum > MaxPageLimit {
			errs = append(errs, ValidationError{Field: "limit", Code: "INVALID_FORMAT", Message: "Limit must be between 1 and 100"})
		}
	}
	if len(errs) > 0 {
		return ValidationResult{Valid: false, Errors: errs}
	}
	return ValidationResult{Valid: true}
}

// parsePagination converts already validated page/limit strings to limit and offset.
func parsePagination(page, limit string) (lim, offset, pageNum int) {
	lim, pageNum = DefaultPageLimit, 1
	if n, err := strconv.Atoi(limit); err == nil {
		lim = n
	}
	if n, err := strconv.Atoi(page); err == nil {
		pageNum = n
	}
	return lim, (pageNum - 1) * lim, pageNum
}
