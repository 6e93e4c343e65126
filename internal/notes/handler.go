package notes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"applycraft-backend/internal/applications"
	"applycraft-backend/internal/shared/server/middleware"
	"applycraft-backend/internal/shared/server/respond"
	"applycraft-backend/internal/shared/validation"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/applications/:id/notes", h.list)
	rg.POST("/applications/:id/notes", h.create)
	rg.DELETE("/applications/:id/notes/:noteId", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	appID := c.Param("id")
	c.Set(middleware.ApplicationIDKey, appID)
	notes, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), appID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"items": notes})
}

func (h *Handler) create(c *gin.Context) {
	appID := c.Param("id")
	c.Set(middleware.ApplicationIDKey, appID)
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	note, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), appID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, note)
}

func (h *Handler) delete(c *gin.Context) {
	appID := c.Param("id")
	c.Set(middleware.ApplicationIDKey, appID)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), appID, c.Param("noteId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", "note content must be 1 to 2000 characters", validation.Details(err))
	case errors.Is(err, applications.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "you do not have access to this application", nil)
	case errors.Is(err, applications.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "note not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "request failed", nil)
	}
}
