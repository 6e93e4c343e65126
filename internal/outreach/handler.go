package outreach

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"applycraft-backend/internal/shared/server/middleware"
	"applycraft-backend/internal/shared/server/respond"
	"applycraft-backend/internal/shared/telemetry"
)

// ProfileSource supplies the stored profile when a request carries none.
type ProfileSource interface {
	OutreachProfile(ctx context.Context, userID string) (ProfileContext, error)
}

// Handler exposes the generator over HTTP.
type Handler struct {
	Gen        *Generator
	Profiles   ProfileSource
	Production bool
}

// NewHandler constructs a Handler. profiles may be nil.
func NewHandler(gen *Generator, profiles ProfileSource, production bool) *Handler {
	return &Handler{Gen: gen, Profiles: profiles, Production: production}
}

// RegisterRoutes attaches outreach routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/outreach/generate", h.generate)
}

type generateRequest struct {
	JobID           string    `json:"jobId"`
	ProfileHeadline *string   `json:"profileHeadline"`
	ProfileSummary  *string   `json:"profileSummary"`
	ProfileSkills   skillList `json:"profileSkills"`
	ProfileName     *string   `json:"profileName"`
}

// skillList accepts either a JSON array or a comma separated string.
type skillList []string

func (s *skillList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		*s = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	out := []string{}
	for _, part := range strings.Split(joined, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*s = out
	return nil
}

func (r generateRequest) hasProfile() bool {
	return r.ProfileHeadline != nil || r.ProfileSummary != nil || r.ProfileSkills != nil || r.ProfileName != nil
}

func (r generateRequest) profile() ProfileContext {
	return ProfileContext{
		Name:     deref(r.ProfileName),
		Headline: deref(r.ProfileHeadline),
		Summary:  deref(r.ProfileSummary),
		Skills:   []string(r.ProfileSkills),
	}
}

func (h *Handler) generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", h.details(err))
		return
	}
	if strings.TrimSpace(req.JobID) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Missing required field: jobId", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	c.Set(middleware.ApplicationIDKey, req.JobID)

	profile := req.profile()
	if !req.hasProfile() && h.Profiles != nil {
		stored, err := h.Profiles.OutreachProfile(c.Request.Context(), userID)
		if err != nil {
			telemetry.Warn("outreach.profile_lookup_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"user_id":    userID,
				"err":        err,
			})
		} else {
			profile = stored
		}
	}

	res, err := h.Gen.Generate(c.Request.Context(), Request{
		UserID:  userID,
		JobID:   req.JobID,
		Profile: profile,
	})
	if res.Attempts > 0 {
		c.Set(middleware.DraftAttemptsKey, res.Attempts)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"success":     true,
		"dm":          res.Draft.DM,
		"email":       res.Draft.Email,
		"coverLetter": res.Draft.CoverLetter,
	})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		providerErr *ProviderError
		parseErr    *ParseError
		persistErr  *PersistenceError
	)
	details := h.details(err)
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "Missing required field: jobId", nil)
	case errors.Is(err, ErrAccessDenied):
		respond.Error(c, http.StatusForbidden, "access_denied", "Job not found or access denied", nil)
	case errors.Is(err, ErrJobLoad):
		respond.Error(c, http.StatusInternalServerError, "job_read_failed", "Failed to read job", details)
	case errors.As(err, &persistErr):
		respond.ErrorWithPayload(c, http.StatusInternalServerError, "persistence_failed", "Failed to save outreach", details, map[string]any{
			"success":     false,
			"dm":          persistErr.Draft.DM,
			"email":       persistErr.Draft.Email,
			"coverLetter": persistErr.Draft.CoverLetter,
		})
	case errors.As(err, &providerErr):
		if providerErr.Timeout {
			respond.Error(c, http.StatusInternalServerError, "provider_timeout", "AI provider timed out. Try again.", details)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "provider_error", "AI provider request failed. Try again.", details)
	case errors.As(err, &parseErr):
		respond.Error(c, http.StatusInternalServerError, "parse_error", "AI output could not be read. Try again.", details)
	case errors.Is(err, ErrIncompleteOutput):
		respond.Error(c, http.StatusInternalServerError, "incomplete_output", "AI output incomplete. Try again.", details)
	case errors.Is(err, ErrCanceled):
		respond.Error(c, http.StatusInternalServerError, "canceled", "Request canceled", details)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", "Internal server error", details)
	}
}

// details exposes internal error text outside production only.
func (h *Handler) details(err error) interface{} {
	if h.Production || err == nil {
		return nil
	}
	return err.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
