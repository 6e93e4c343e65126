package applications

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"applycraft-backend/internal/importer"
	"applycraft-backend/internal/shared/server/middleware"
	"applycraft-backend/internal/shared/server/respond"
	"applycraft-backend/internal/shared/validation"
)

const maxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/applications", h.list)
	rg.POST("/applications", h.create)
	rg.POST("/applications/import", h.importPosting)
	rg.GET("/applications/:id", h.get)
	rg.PATCH("/applications/:id", h.update)
	rg.DELETE("/applications/:id", h.delete)
	rg.PATCH("/applications/:id/status", h.updateStatus)
	rg.POST("/applications/:id/job-description", h.uploadJobDescription)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	filter := ListFilter{Limit: DefaultListLimit}
	if v := c.Query("status"); v != "" {
		status, err := ParseStatus(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "invalid_status", "unknown status filter", nil)
			return
		}
		filter.Status = status
	}
	filter.Query = c.Query("q")
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.Limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.Offset = parsed
		}
	}

	apps, err := h.Svc.List(c.Request.Context(), userID, filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		return
	}
	respond.OK(c, gin.H{"items": apps})
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	app, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.ApplicationIDKey, app.ID)
	respond.JSON(c, http.StatusCreated, app)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ApplicationIDKey, id)
	app, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, app)
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ApplicationIDKey, id)
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	app, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, app)
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ApplicationIDKey, id)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ApplicationIDKey, id)
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	app, from, err := h.Svc.UpdateStatus(c.Request.Context(), middleware.UserIDFromContext(c), id, req.Status)
	if from != "" {
		c.Set(middleware.StatusTransitionKey, string(from)+"->"+req.Status)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, app)
}

func (h *Handler) importPosting(c *gin.Context) {
	var in ImportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	app, err := h.Svc.Import(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.ApplicationIDKey, app.ID)
	respond.JSON(c, http.StatusCreated, app)
}

func (h *Handler) uploadJobDescription(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.ApplicationIDKey, id)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	app, err := h.Svc.AttachJobDescription(c.Request.Context(), middleware.UserIDFromContext(c), id,
		data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, app)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid application details", validation.Details(err))
	case errors.Is(err, ErrInvalidStatus):
		respond.Error(c, http.StatusBadRequest, "invalid_status", "status must be one of saved, applied, interviewing, offer, rejected", nil)
	case errors.Is(err, ErrInvalidTransition):
		respond.Error(c, http.StatusConflict, "invalid_transition", err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "you do not have access to this application", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
	case errors.Is(err, importer.ErrInvalidURL):
		respond.Error(c, http.StatusBadRequest, "invalid_url", "url must be an absolute http or https link", nil)
	case errors.Is(err, importer.ErrFetch):
		respond.Error(c, http.StatusBadGateway, "fetch_failed", "could not download the job posting", nil)
	case errors.Is(err, ErrImportIncomplete):
		respond.Error(c, http.StatusUnprocessableEntity, "import_incomplete", "could not find a job title on that page", nil)
	case errors.Is(err, importer.ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_file", "upload a PDF, DOCX or text file", nil)
	case errors.Is(err, importer.ErrEmptyDocument):
		respond.Error(c, http.StatusUnprocessableEntity, "empty_document", "no text found in the uploaded file", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "request failed", nil)
	}
}
