package interviews

import "context"

// Repo defines persistence operations for interviews.
type Repo interface {
	Create(ctx context.Context, interview Interview) error
	GetByID(ctx context.Context, id string) (Interview, error)
	// ListByUser returns a user's interviews, newest first.
	ListByUser(ctx context.Context, userID string) ([]Interview, error)
	// ListLatest returns other users' finalized interviews, newest first,
	// bounded by limit.
	ListLatest(ctx context.Context, excludeUserID string, limit int) ([]Interview, error)
}
