package users

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

// RegisterPublicRoutes attaches the routes that issue sessions.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.signup)
	rg.POST("/auth/login", h.login)
}

// RegisterRoutes attaches the routes that need a session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.logout)
	rg.GET("/me", h.me)
	rg.PUT("/me/password", h.changePassword)
}

func (h *Handler) signup(c *gin.Context) {
	var in SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	user, token, err := h.Svc.Signup(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid signup details", validation.Details(err))
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusConflict, "email_taken", "An account with this email already exists", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create account", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *Handler) login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	user, token, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid login details", validation.Details(err))
		case errors.Is(err, ErrInvalidCredentials):
			respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to log in", nil)
		}
		return
	}
	respond.OK(c, gin.H{"user": user, "token": token})
}

func (h *Handler) logout(c *gin.Context) {
	err := h.Svc.Logout(c.Request.Context(), middleware.UserIDFromContext(c), middleware.SessionIDFromContext(c))
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to log out", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	respond.OK(c, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"fullName":  user.FullName,
		"createdAt": user.CreatedAt,
	})
}

func (h *Handler) changePassword(c *gin.Context) {
	var in ChangePasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	err := h.Svc.ChangePassword(c.Request.Context(), middleware.UserIDFromContext(c), middleware.SessionIDFromContext(c), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid password", validation.Details(err))
		case errors.Is(err, ErrInvalidCredentials):
			respond.Error(c, http.StatusForbidden, "invalid_credentials", "Current password is incorrect", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to change password", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}
