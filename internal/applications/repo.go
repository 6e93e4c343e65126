package applications

import (
	"context"
	"time"
)

// Repo persists applications. Get is not owner-scoped so callers can tell a
// foreign record from a missing one; writes are.
type Repo interface {
	Create(ctx context.Context, app Application) error
	Get(ctx context.Context, id string) (Application, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]Application, error)
	Update(ctx context.Context, app Application) error
	Delete(ctx context.Context, userID, id string) error
	SaveOutreach(ctx context.Context, userID, id string, draft Outreach, at time.Time) error
	CountByStatus(ctx context.Context, userID string) (map[Status]int, error)
}
