package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"applycraft-backend/internal/applications"
	"applycraft-backend/internal/shared/validation"
)

// ApplicationOwner resolves an application for its owner, failing with
// applications.ErrForbidden or applications.ErrNotFound otherwise.
type ApplicationOwner interface {
	Get(ctx context.Context, userID, id string) (applications.Application, error)
}

type Service struct {
	Repo         Repo
	Applications ApplicationOwner
	now          func() time.Time
}

func NewService(repo Repo, apps ApplicationOwner) *Service {
	return &Service{Repo: repo, Applications: apps, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID, applicationID string) ([]Note, error) {
	if _, err := s.Applications.Get(ctx, userID, applicationID); err != nil {
		return nil, err
	}
	return s.Repo.ListByApplication(ctx, userID, applicationID)
}

func (s *Service) Create(ctx context.Context, userID, applicationID string, in CreateInput) (Note, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validation.Struct(in); err != nil {
		return Note{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if _, err := s.Applications.Get(ctx, userID, applicationID); err != nil {
		return Note{}, err
	}
	note := Note{
		ID:            uuid.NewString(),
		ApplicationID: applicationID,
		UserID:        userID,
		Content:       in.Content,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, note); err != nil {
		return Note{}, err
	}
	return note, nil
}

func (s *Service) Delete(ctx context.Context, userID, applicationID, noteID string) error {
	if _, err := s.Applications.Get(ctx, userID, applicationID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, userID, applicationID, noteID)
}
