package domain

import "errors"

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrRateLimited     = errors.New("rate limited")
	ErrInternal        = errors.New("internal error")

	// ErrConfiguration reports a missing or invalid setting detected at construction time.
	ErrConfiguration = errors.New("configuration error")
	// ErrExternalService wraps network, timeout and non-2xx failures from the AI provider.
	ErrExternalService = errors.New("external service error")
	// ErrParse marks a structured parse failure of a model response. It never leaves the pipeline.
	ErrParse = errors.New("parse error")
	// ErrValidation marks malformed input rejected before the pipeline runs.
	ErrValidation = errors.New("validation error")
)
