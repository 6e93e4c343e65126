package applications

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Application // id -> application
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Application)}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[app.ID] = app
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.data[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

// List returns the user's applications newest first, honoring the filter.
func (r *MemoryRepo) List(ctx context.Context, userID string, filter ListFilter) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter = filter.normalized()
	query := strings.ToLower(filter.Query)

	r.mu.RLock()
	var apps []Application
	for _, app := range r.data {
		if app.UserID != userID {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(app.Company), query) &&
			!strings.Contains(strings.ToLower(app.RoleTitle), query) {
			continue
		}
		apps = append(apps, app)
	}
	r.mu.RUnlock()

	sort.Slice(apps, func(i, j int) bool {
		if apps[i].CreatedAt.Equal(apps[j].CreatedAt) {
			return apps[i].ID > apps[j].ID
		}
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})

	if filter.Offset >= len(apps) {
		return []Application{}, nil
	}
	end := len(apps)
	if filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return apps[filter.Offset:end], nil
}

func (r *MemoryRepo) Update(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.data[app.ID]
	if !ok || current.UserID != app.UserID {
		return ErrNotFound
	}
	app.Outreach = current.Outreach
	app.CreatedAt = current.CreatedAt
	r.data[app.ID] = app
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.data[id]
	if !ok || app.UserID != userID {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *MemoryRepo) SaveOutreach(ctx context.Context, userID, id string, draft Outreach, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.data[id]
	if !ok || app.UserID != userID {
		return ErrNotFound
	}
	app.Outreach = draft
	app.UpdatedAt = at
	r.data[id] = app
	return nil
}

func (r *MemoryRepo) CountByStatus(ctx context.Context, userID string) (map[Status]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[Status]int)
	for _, app := range r.data {
		if app.UserID == userID {
			counts[app.Status]++
		}
	}
	return counts, nil
}
