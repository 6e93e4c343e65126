package notes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Note // applicationId -> notes
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Note)}
}

func (r *MemoryRepo) Create(ctx context.Context, note Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[note.ApplicationID] = append(r.data[note.ApplicationID], note)
	return nil
}

// ListByApplication returns notes newest first.
func (r *MemoryRepo) ListByApplication(ctx context.Context, userID, applicationID string) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Note, 0, len(r.data[applicationID]))
	for _, n := range r.data[applicationID] {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, applicationID, noteID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	notes := r.data[applicationID]
	for i, n := range notes {
		if n.ID == noteID && n.UserID == userID {
			r.data[applicationID] = append(notes[:i], notes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
