package applications

import (
	"context"
	"errors"

	"applycraft-backend/internal/outreach"
)

// LoadJob reads the fields a generation needs. Missing and foreign records
// are indistinguishable to the caller.
func (s *Service) LoadJob(ctx context.Context, userID, jobID string) (outreach.JobContext, error) {
	app, err := s.Get(ctx, userID, jobID)
	if err != nil {
		if IsOwnershipError(err) {
			return outreach.JobContext{}, outreach.ErrAccessDenied
		}
		return outreach.JobContext{}, err
	}
	return outreach.JobContext{
		ID:             app.ID,
		Company:        app.Company,
		RoleTitle:      app.RoleTitle,
		JobDescription: app.JobDescription,
	}, nil
}

// SaveDraft overwrites the stored drafts for the application.
func (s *Service) SaveDraft(ctx context.Context, userID, jobID string, draft outreach.Draft) error {
	err := s.Repo.SaveOutreach(ctx, userID, jobID, Outreach{
		DM:          draft.DM,
		Email:       draft.Email,
		CoverLetter: draft.CoverLetter,
	}, s.clock().UTC())
	if errors.Is(err, ErrNotFound) {
		return outreach.ErrAccessDenied
	}
	return err
}

var _ outreach.ApplicationStore = (*Service)(nil)
