package feedback

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Feedback // id -> feedback
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Feedback),
	}
}

// Upsert stores or overwrites the record keyed by ID.
func (r *MemoryRepo) Upsert(ctx context.Context, fb Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[fb.ID] = fb
	return nil
}

// GetByInterviewAndUser returns the newest feedback for the pair.
func (r *MemoryRepo) GetByInterviewAndUser(ctx context.Context, interviewID, userID string) (Feedback, error) {
	if err := ctx.Err(); err != nil {
		return Feedback{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *Feedback
	for id := range r.data {
		fb := r.data[id]
		if fb.InterviewID != interviewID || fb.UserID != userID {
			continue
		}
		if found == nil || fb.CreatedAt.After(found.CreatedAt) {
			found = &fb
		}
	}
	if found == nil {
		return Feedback{}, ErrNotFound
	}
	return *found, nil
}

// Len reports the number of stored records.
func (r *MemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

var _ Repo = (*MemoryRepo)(nil)
