package notes

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNoteRoutesMapOwnershipErrors(t *testing.T) {
	svc, app := newTestService(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set("userId", c.GetHeader("X-Test-User"))
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(api)

	send := func(method, path, user, body string) int {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-User", user)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		return resp.Code
	}

	path := "/api/v1/applications/" + app.ID + "/notes"
	assert.Equal(t, http.StatusCreated, send(http.MethodPost, path, "user-1", `{"content":"hello"}`))
	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, path, "user-1", `{"content":""}`))
	assert.Equal(t, http.StatusOK, send(http.MethodGet, path, "user-1", ""))
	assert.Equal(t, http.StatusForbidden, send(http.MethodGet, path, "user-2", ""))
	assert.Equal(t, http.StatusNotFound, send(http.MethodGet, "/api/v1/applications/missing/notes", "user-1", ""))
	assert.Equal(t, http.StatusNotFound, send(http.MethodDelete, path+"/nope", "user-1", ""))
}
