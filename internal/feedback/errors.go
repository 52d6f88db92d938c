package feedback

import "errors"

var (
	// ErrNotFound indicates no feedback exists for the lookup.
	ErrNotFound = errors.New("feedback not found")
	// ErrGenerationFormat indicates the model output violated the scoring
	// contract.
	ErrGenerationFormat = errors.New("model output failed feedback contract")
)
