package feedback

import "context"

// Repo defines persistence operations for feedback records.
type Repo interface {
	// Upsert creates the record, or overwrites an existing record with the
	// same ID.
	Upsert(ctx context.Context, fb Feedback) error
	// GetByInterviewAndUser returns the newest match; at most one is assumed
	// but not enforced.
	GetByInterviewAndUser(ctx context.Context, interviewID, userID string) (Feedback, error)
}
