package interviews

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Interview // id -> interview
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Interview),
	}
}

// Create stores a new interview.
func (r *MemoryRepo) Create(ctx context.Context, interview Interview) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[interview.ID] = interview
	return nil
}

// GetByID returns an interview by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Interview, error) {
	if err := ctx.Err(); err != nil {
		return Interview{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	interview, ok := r.data[id]
	if !ok {
		return Interview{}, ErrNotFound
	}
	return interview, nil
}

// ListByUser returns a user's interviews, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Interview
	for _, interview := range r.data {
		if interview.UserID == userID {
			out = append(out, interview)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// ListLatest returns other users' finalized interviews, newest first.
func (r *MemoryRepo) ListLatest(ctx context.Context, excludeUserID string, limit int) ([]Interview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Interview
	for _, interview := range r.data {
		if interview.Finalized && interview.UserID != excludeUserID {
			out = append(out, interview)
		}
	}
	sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortNewestFirst(list []Interview) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

var _ Repo = (*MemoryRepo)(nil)
