package applications

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"applycraft-backend/internal/importer"
	"applycraft-backend/internal/shared/telemetry"
	"applycraft-backend/internal/shared/textutil"
	"applycraft-backend/internal/shared/validation"
)

// PostingFetcher downloads and parses a public job posting.
type PostingFetcher interface {
	Fetch(ctx context.Context, rawURL string) (importer.Posting, error)
}

type Service struct {
	Repo    Repo
	Fetcher PostingFetcher
	now     func() time.Time
}

func NewService(repo Repo, fetcher PostingFetcher) *Service {
	return &Service{Repo: repo, Fetcher: fetcher, now: time.Now}
}

// Create stores a new application. An empty status means saved.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Application, error) {
	in = trimCreate(in)
	if err := validation.Struct(in); err != nil {
		return Application{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	status := StatusSaved
	if in.Status != "" {
		parsed, err := ParseStatus(in.Status)
		if err != nil {
			return Application{}, err
		}
		status = parsed
	}
	now := s.clock().UTC()
	app := Application{
		ID:             uuid.NewString(),
		UserID:         userID,
		Company:        in.Company,
		RoleTitle:      in.RoleTitle,
		Location:       in.Location,
		Status:         status,
		JobDescription: in.JobDescription,
		JobURL:         in.JobURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Repo.Create(ctx, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Get returns an application owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (Application, error) {
	app, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if app.UserID != userID {
		return Application{}, ErrForbidden
	}
	return app, nil
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Application, error) {
	return s.Repo.List(ctx, userID, filter.normalized())
}

// Update applies the non-nil fields of in.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (Application, error) {
	in = trimUpdate(in)
	if err := validation.Struct(in); err != nil {
		return Application{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return Application{}, err
	}
	if in.Company != nil {
		app.Company = *in.Company
	}
	if in.RoleTitle != nil {
		app.RoleTitle = *in.RoleTitle
	}
	if in.Location != nil {
		app.Location = *in.Location
	}
	if in.JobDescription != nil {
		app.JobDescription = *in.JobDescription
	}
	if in.JobURL != nil {
		app.JobURL = *in.JobURL
	}
	app.UpdatedAt = s.clock().UTC()
	if err := s.Repo.Update(ctx, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// UpdateStatus moves an application along the pipeline and returns it with
// the status it left.
func (s *Service) UpdateStatus(ctx context.Context, userID, id, raw string) (Application, Status, error) {
	to, err := ParseStatus(raw)
	if err != nil {
		return Application{}, "", err
	}
	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return Application{}, "", err
	}
	from := app.Status
	if from == to {
		return app, from, nil
	}
	if !CanTransition(from, to) {
		return Application{}, from, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}
	app.Status = to
	app.UpdatedAt = s.clock().UTC()
	if err := s.Repo.Update(ctx, app); err != nil {
		return Application{}, from, err
	}
	return app, from, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, userID, id)
}

// Import creates an application from a job posting URL.
func (s *Service) Import(ctx context.Context, userID string, in ImportInput) (Application, error) {
	in.URL = strings.TrimSpace(in.URL)
	if err := validation.Struct(in); err != nil {
		return Application{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if s.Fetcher == nil {
		return Application{}, fmt.Errorf("%w: importer not configured", importer.ErrFetch)
	}
	posting, err := s.Fetcher.Fetch(ctx, in.URL)
	if err != nil {
		return Application{}, err
	}
	if strings.TrimSpace(posting.RoleTitle) == "" {
		return Application{}, ErrImportIncomplete
	}
	telemetry.Info("applications.imported", map[string]any{
		"user_id":   userID,
		"host":      hostOf(posting.URL),
		"jd_chars":  len([]rune(posting.Description)),
		"has_place": posting.Location != "",
	})
	return s.Create(ctx, userID, CreateInput{
		Company:        firstNonEmpty(textutil.ClampTrimmed(posting.Company, MaxCompanyChars), "Unknown company"),
		RoleTitle:      textutil.ClampTrimmed(posting.RoleTitle, MaxRoleTitleChars),
		Location:       textutil.ClampTrimmed(posting.Location, MaxLocationChars),
		Status:         in.Status,
		JobDescription: textutil.ClampTrimmed(posting.Description, MaxJobDescriptionChars),
		JobURL:         textutil.Clamp(posting.URL, MaxJobURLChars),
	})
}

// AttachJobDescription replaces the job description with text read from an
// uploaded document.
func (s *Service) AttachJobDescription(ctx context.Context, userID, id string, data []byte, mimeType, fileName string) (Application, error) {
	app, err := s.Get(ctx, userID, id)
	if err != nil {
		return Application{}, err
	}
	text, err := importer.DocumentText(ctx, data, mimeType, fileName)
	if err != nil {
		return Application{}, err
	}
	app.JobDescription = textutil.Clamp(text, MaxJobDescriptionChars)
	app.UpdatedAt = s.clock().UTC()
	if err := s.Repo.Update(ctx, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func trimCreate(in CreateInput) CreateInput {
	in.Company = strings.TrimSpace(in.Company)
	in.RoleTitle = strings.TrimSpace(in.RoleTitle)
	in.Location = strings.TrimSpace(in.Location)
	in.Status = strings.TrimSpace(in.Status)
	in.JobDescription = strings.TrimSpace(in.JobDescription)
	in.JobURL = strings.TrimSpace(in.JobURL)
	return in
}

func trimUpdate(in UpdateInput) UpdateInput {
	for _, field := range []**string{&in.Company, &in.RoleTitle, &in.Location, &in.JobDescription, &in.JobURL} {
		if *field != nil {
			trimmed := strings.TrimSpace(**field)
			*field = &trimmed
		}
	}
	return in
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

// IsOwnershipError reports errors that mean the caller cannot see the record.
func IsOwnershipError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden)
}

// CountByStatus returns per-status totals for the user's applications.
func (s *Service) CountByStatus(ctx context.Context, userID string) (map[Status]int, error) {
	return s.Repo.CountByStatus(ctx, userID)
}
