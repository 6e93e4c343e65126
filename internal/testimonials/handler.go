package testimonials

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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

// RegisterPublicRoutes attaches the unauthenticated wall.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/testimonials", h.public)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/testimonials", h.submit)
}

func (h *Handler) public(c *gin.Context) {
	entries, err := h.Svc.Public(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load testimonials", nil)
		return
	}
	respond.OK(c, gin.H{"items": entries})
}

func (h *Handler) submit(c *gin.Context) {
	var in SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	t, err := h.Svc.Submit(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, "validation_error", "rating must be 1 to 5 and feedback 1 to 800 characters", validation.Details(err))
		case errors.Is(err, ErrAlreadySubmitted):
			respond.Error(c, http.StatusConflict, "already_submitted", "You have already submitted a testimonial", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save testimonial", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, t)
}
