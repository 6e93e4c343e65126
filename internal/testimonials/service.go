package testimonials

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"applycraft-backend/internal/profiles"
	"applycraft-backend/internal/shared/telemetry"
	"applycraft-backend/internal/shared/validation"
)

// AuthorSource looks up display details for testimonial authors.
type AuthorSource interface {
	Authors(ctx context.Context, userIDs []string) (map[string]profiles.Profile, error)
}

type Service struct {
	Repo    Repo
	Authors AuthorSource
	now     func() time.Time
}

func NewService(repo Repo, authors AuthorSource) *Service {
	return &Service{Repo: repo, Authors: authors, now: time.Now}
}

// Submit stores the user's single testimonial. New entries await approval.
func (s *Service) Submit(ctx context.Context, userID string, in SubmitInput) (Testimonial, error) {
	in.Feedback = strings.TrimSpace(in.Feedback)
	if err := validation.Struct(in); err != nil {
		return Testimonial{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	t := Testimonial{
		ID:          uuid.NewString(),
		UserID:      userID,
		Rating:      in.Rating,
		Feedback:    in.Feedback,
		AllowPublic: in.AllowPublic,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return Testimonial{}, err
	}
	return t, nil
}

// Public returns the approved public testimonials with author details.
// A failed author lookup degrades to anonymous entries.
func (s *Service) Public(ctx context.Context) ([]PublicEntry, error) {
	items, err := s.Repo.ListPublic(ctx, PublicLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, t := range items {
		ids = append(ids, t.UserID)
	}

	var authors map[string]profiles.Profile
	if s.Authors != nil && len(ids) > 0 {
		authors, err = s.Authors.Authors(ctx, ids)
		if err != nil {
			telemetry.Warn("testimonials.authors_failed", map[string]any{"err": err})
		}
	}

	out := make([]PublicEntry, 0, len(items))
	for _, t := range items {
		entry := PublicEntry{
			ID:         t.ID,
			Rating:     t.Rating,
			Feedback:   t.Feedback,
			AuthorName: AnonymousAuthor,
			CreatedAt:  t.CreatedAt,
		}
		if p, ok := authors[t.UserID]; ok {
			if name := strings.TrimSpace(p.FullName); name != "" {
				entry.AuthorName = name
			}
			entry.AuthorHeadline = p.Headline
		}
		out = append(out, entry)
	}
	return out, nil
}
