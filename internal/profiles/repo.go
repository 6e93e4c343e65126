package profiles

import "context"

// Repo persists one profile per user.
type Repo interface {
	Get(ctx context.Context, userID string) (Profile, error)
	Upsert(ctx context.Context, profile Profile) error
	GetMany(ctx context.Context, userIDs []string) (map[string]Profile, error)
}
