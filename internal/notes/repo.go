package notes

import "context"

type Repo interface {
	Create(ctx context.Context, note Note) error
	ListByApplication(ctx context.Context, userID, applicationID string) ([]Note, error)
	Delete(ctx context.Context, userID, applicationID, noteID string) error
}
