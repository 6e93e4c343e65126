package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"applycraft-backend/internal/outreach"
	"applycraft-backend/internal/shared/validation"
)

type Service struct {
	Repo Repo
	now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: time.Now}
}

// Get returns the user's profile, or an empty one if none was saved yet.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	p, err := s.Repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Profile{UserID: userID, Skills: []string{}}, nil
	}
	return p, err
}

// Update replaces the whole profile.
func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (Profile, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Headline = strings.TrimSpace(in.Headline)
	in.Summary = strings.TrimSpace(in.Summary)
	in.Skills = NormalizeSkills(in.Skills)
	if err := validation.Struct(in); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	p := Profile{
		UserID:    userID,
		FullName:  in.FullName,
		Headline:  in.Headline,
		Summary:   in.Summary,
		Skills:    in.Skills,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.Repo.Upsert(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Authors returns profiles keyed by user id; users without one are absent.
func (s *Service) Authors(ctx context.Context, userIDs []string) (map[string]Profile, error) {
	return s.Repo.GetMany(ctx, userIDs)
}

// OutreachProfile returns the stored profile in the shape the generator reads.
func (s *Service) OutreachProfile(ctx context.Context, userID string) (outreach.ProfileContext, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return outreach.ProfileContext{}, err
	}
	return outreach.ProfileContext{
		Name:     p.FullName,
		Headline: p.Headline,
		Summary:  p.Summary,
		Skills:   p.Skills,
	}, nil
}

// NormalizeSkills trims entries and drops blanks and case-insensitive
// duplicates, keeping first occurrences in order.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		skill = strings.Join(strings.Fields(skill), " ")
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out
}

var _ outreach.ProfileSource = (*Service)(nil)
