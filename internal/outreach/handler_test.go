package outreach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfiles struct {
	profile ProfileContext
	err     error
	calls   int
}

func (f *fakeProfiles) OutreachProfile(ctx context.Context, userID string) (ProfileContext, error) {
	f.calls++
	return f.profile, f.err
}

func newHandlerRouter(h *Handler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	})
	h.RegisterRoutes(api)
	return r
}

func postGenerate(t *testing.T, r *gin.Engine, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/outreach/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return resp, out
}

func TestGenerateEndpointSignsWithCandidateName(t *testing.T) {
	store := newFakeStore()
	client := &fakeLLM{responses: []string{draftJSON(t, inRangeDraft("Jane Doe"))}}
	h := NewHandler(newTestGenerator(store, client), nil, false)
	r := newHandlerRouter(h, "user-1")

	resp, out := postGenerate(t, r, map[string]any{
		"jobId":           "job-1",
		"profileName":     "Jane Doe",
		"profileHeadline": "Engineer",
		"profileSkills":   []string{"Go"},
	})

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, true, out["success"])
	for _, key := range []string{"dm", "email", "coverLetter"} {
		assert.Contains(t, out[key], "Jane Doe", key)
	}
	assert.Contains(t, client.call(0).Prompt, "Name: Jane Doe")
	assert.Contains(t, client.call(0).Prompt, "Company: Acme")
}

func TestGenerateEndpointRequiresJobID(t *testing.T) {
	client := &fakeLLM{}
	r := newHandlerRouter(NewHandler(newTestGenerator(newFakeStore(), client), nil, false), "user-1")

	resp, out := postGenerate(t, r, map[string]any{"profileName": "Jane"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	errBody, _ := out["error"].(map[string]any)
	assert.Equal(t, "Missing required field: jobId", errBody["message"])
	assert.Equal(t, 0, client.callCount())
}

func TestGenerateEndpointForbiddenForForeignJob(t *testing.T) {
	client := &fakeLLM{}
	r := newHandlerRouter(NewHandler(newTestGenerator(newFakeStore(), client), nil, false), "someone-else")

	resp, out := postGenerate(t, r, map[string]any{"jobId": "job-1"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	errBody, _ := out["error"].(map[string]any)
	assert.Equal(t, "access_denied", errBody["code"])
	assert.Equal(t, 0, client.callCount())
}

func TestGenerateEndpointReturnsDraftOnPersistenceFailure(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("write failed")
	draft := inRangeDraft("Jane Doe")
	client := &fakeLLM{responses: []string{draftJSON(t, draft)}}
	r := newHandlerRouter(NewHandler(newTestGenerator(store, client), nil, false), "user-1")

	resp, out := postGenerate(t, r, map[string]any{"jobId": "job-1"})
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, draft.DM, out["dm"])
	assert.Equal(t, draft.Email, out["email"])
	assert.Equal(t, draft.CoverLetter, out["coverLetter"])
	errBody, _ := out["error"].(map[string]any)
	assert.Equal(t, "persistence_failed", errBody["code"])
	assert.Contains(t, errBody["details"], "write failed")
}

func TestGenerateEndpointHidesDetailsInProduction(t *testing.T) {
	client := &fakeLLM{errs: []error{errors.New("upstream secret detail")}}
	r := newHandlerRouter(NewHandler(newTestGenerator(newFakeStore(), client), nil, true), "user-1")

	resp, out := postGenerate(t, r, map[string]any{"jobId": "job-1"})
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	errBody, _ := out["error"].(map[string]any)
	assert.Equal(t, "provider_error", errBody["code"])
	_, hasDetails := errBody["details"]
	assert.False(t, hasDetails)
	assert.NotContains(t, resp.Body.String(), "upstream secret detail")
}

func TestGenerateEndpointIncompleteOutput(t *testing.T) {
	empty := inRangeDraft("x")
	empty.Email = ""
	client := &fakeLLM{responses: []string{draftJSON(t, empty), draftJSON(t, empty)}}
	r := newHandlerRouter(NewHandler(newTestGenerator(newFakeStore(), client), nil, false), "user-1")

	resp, out := postGenerate(t, r, map[string]any{"jobId": "job-1"})
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	errBody, _ := out["error"].(map[string]any)
	assert.Equal(t, "incomplete_output", errBody["code"])
}

func TestGenerateEndpointFallsBackToStoredProfile(t *testing.T) {
	client := &fakeLLM{responses: []string{draftJSON(t, inRangeDraft("Sam Lee"))}}
	profiles := &fakeProfiles{profile: ProfileContext{Name: "Sam Lee", Summary: "Builds APIs"}}
	r := newHandlerRouter(NewHandler(newTestGenerator(newFakeStore(), client), profiles, false), "user-1")

	resp, _ := postGenerate(t, r, map[string]any{"jobId": "job-1"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, profiles.calls)
	assert.Contains(t, client.call(0).Prompt, "Name: Sam Lee")
	assert.Contains(t, client.call(0).Prompt, "Summary: Builds APIs")
}

func TestGenerateEndpointPrefersRequestProfile(t *testing.T) {
	client := &fakeLLM{responses: []string{draftJSON(t, inRangeDraft("x"))}}
	profiles := &fakeProfiles{profile: ProfileContext{Name: "Sam Lee"}}
	r := newHandlerRouter(NewHandler(newTestGenerator(newFakeStore(), client), profiles, false), "user-1")

	resp, _ := postGenerate(t, r, map[string]any{"jobId": "job-1", "profileSkills": "Go, SQL ,"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 0, profiles.calls)
	assert.Contains(t, client.call(0).Prompt, "Skills: Go, SQL\n")
	assert.Contains(t, client.call(0).Prompt, "Name: [Your Name]")
}
