package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"applycraft-backend/internal/shared/server/middleware"
	"applycraft-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.get)
}

func (h *Handler) get(c *gin.Context) {
	summary, err := h.Svc.Summary(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load dashboard", nil)
		return
	}
	respond.OK(c, summary)
}
