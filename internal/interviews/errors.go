package interviews

import "errors"

var (
	// ErrNotFound indicates the interview does not exist or is not visible to
	// the caller.
	ErrNotFound = errors.New("interview not found")
	// ErrValidation indicates missing or malformed input, caught before any
	// external call.
	ErrValidation = errors.New("missing required fields")
	// ErrGenerationFormat indicates the model output failed parse checks.
	ErrGenerationFormat = errors.New("failed to parse generated questions")
)
