package testimonials

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Testimonial // userId -> testimonial
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Testimonial)}
}

func (r *MemoryRepo) Create(ctx context.Context, t Testimonial) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[t.UserID]; ok {
		return ErrAlreadySubmitted
	}
	r.data[t.UserID] = t
	return nil
}

// Approve marks a user's testimonial as approved.
func (r *MemoryRepo) Approve(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.data[userID]; ok {
		t.Approved = true
		r.data[userID] = t
	}
}

func (r *MemoryRepo) ListPublic(ctx context.Context, limit int) ([]Testimonial, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var out []Testimonial
	for _, t := range r.data {
		if t.Approved && t.AllowPublic {
			out = append(out, t)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
