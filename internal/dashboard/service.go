// Package dashboard summarizes a user's pipeline.
package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"applycraft-backend/internal/applications"
)

// RecentLimit is how many of the newest applications a summary carries.
const RecentLimit = 5

// Source is the read side of the applications store.
type Source interface {
	List(ctx context.Context, userID string, filter applications.ListFilter) ([]applications.Application, error)
	CountByStatus(ctx context.Context, userID string) (map[applications.Status]int, error)
}

// Summary is the body of GET /dashboard. ByStatus always has every status.
type Summary struct {
	Total    int                         `json:"total"`
	ByStatus map[applications.Status]int `json:"byStatus"`
	Recent   []applications.Application  `json:"recent"`
}

type Service struct {
	Source Source
}

func NewService(source Source) *Service {
	return &Service{Source: source}
}

// Summary runs the count and recent queries concurrently.
func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	var (
		counts map[applications.Status]int
		recent []applications.Application
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.Source.CountByStatus(gCtx, userID)
		if err != nil {
			return fmt.Errorf("count by status: %w", err)
		}
		counts = c
		return nil
	})
	g.Go(func() error {
		r, err := s.Source.List(gCtx, userID, applications.ListFilter{Limit: RecentLimit})
		if err != nil {
			return fmt.Errorf("recent applications: %w", err)
		}
		recent = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	out := Summary{
		ByStatus: make(map[applications.Status]int, len(applications.Statuses)),
		Recent:   recent,
	}
	for _, st := range applications.Statuses {
		out.ByStatus[st] = counts[st]
		out.Total += counts[st]
	}
	if out.Recent == nil {
		out.Recent = []applications.Application{}
	}
	return out, nil
}
