package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"

	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/api"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/api/middleware"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/api/server"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/config"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/logger"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks/store"
	"github.com/GlenBELL01/Laboratory-Activity-4-Advanced-API-Implementation/tasks/tracker"
)

const testAPIKey = "test-secret-key"

// newTestRouter builds the full router over a memory store seeded with the
// sample task, the same wiring main performs.
func newTestRouter(t *testing.T, apiKey string) http.Handler {
	t.Helper()

	cfg := &config.Config{
		ServerPort:   8080,
		LogLevel:     "ERROR",
		Version:      "test",
		APIKey:       apiKey,
		StoreBackend: config.StoreMemory,
	}
	lg := logger.New(cfg.LogLevel, io.Discard)
	st := store.NewMemoryTaskStore()

	_, err := st.Add(context.Background(), "Complete Lab Activity", "Finish Lab Activity 2", false)
	require.NoError(t, err)

	tr := tracker.NewTracker(st, lg)
	return server.NewRouter(tr, st, cfg, lg)
}

func doRequest(t *testing.T, router http.Handler, method, path string, body []byte, apiKey string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set(middleware.APIKeyHeader, apiKey)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRouter_V1Lifecycle(t *testing.T) {
	router := newTestRouter(t, testAPIKey)

	// Seeded task is readable.
	rr := doRequest(t, router, http.MethodGet, "/v1/tasks/1", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var getResp api.TaskResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&getResp))
	assert.Equal(t, "Success", getResp.Status)
	assert.Equal(t, 1, getResp.Task.ID)
	assert.Equal(t, "Complete Lab Activity", getResp.Task.Title)

	// POST a second task, id follows store size.
	rr = doRequest(t, router, http.MethodPost, "/v1/tasks", []byte(`{"Title":"Write spec"}`), "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var addResp api.TaskAddedResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&addResp))
	assert.Equal(t, 2, addResp.TaskAdded.ID)
	assert.Equal(t, "Write spec", addResp.TaskAdded.Title)
	assert.Equal(t, false, addResp.TaskAdded.Done)

	// PATCH task 2: done=true only, title unchanged.
	rr = doRequest(t, router, http.MethodPatch, "/v1/tasks/2", []byte(`{"done":true}`), "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, router, http.MethodGet, "/v1/tasks/2", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&getResp))
	assert.Equal(t, "Write spec", getResp.Task.Title)
	assert.Equal(t, true, getResp.Task.Done)

	// DELETE task 1, then GET yields 404.
	rr = doRequest(t, router, http.MethodDelete, "/v1/tasks/1", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var delResp api.MessageResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&delResp))
	assert.Equal(t, "Task with ID 1 deleted", delResp.Message)

	rr = doRequest(t, router, http.MethodGet, "/v1/tasks/1", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_V1ErrorCodes(t *testing.T) {
	router := newTestRouter(t, testAPIKey)

	tests := []struct {
		name       string
		method     string
		path       string
		body       []byte
		expectCode int
	}{
		{"get zero id", http.MethodGet, "/v1/tasks/0", nil, http.StatusBadRequest},
		{"get negative id", http.MethodGet, "/v1/tasks/-5", nil, http.StatusBadRequest},
		{"get absent id", http.MethodGet, "/v1/tasks/99", nil, http.StatusNotFound},
		{"post empty title", http.MethodPost, "/v1/tasks", []byte(`{"Title":""}`), http.StatusUnprocessableEntity},
		{"patch invalid id", http.MethodPatch, "/v1/tasks/0", []byte(`{"done":true}`), http.StatusBadRequest},
		{"patch absent id", http.MethodPatch, "/v1/tasks/42", []byte(`{"done":true}`), http.StatusNotFound},
		{"delete invalid id", http.MethodDelete, "/v1/tasks/-1", nil, http.StatusBadRequest},
		{"delete absent id", http.MethodDelete, "/v1/tasks/42", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.expectCode, rr.Code)
		})
	}
}

func TestRouter_V2RequiresAPIKey(t *testing.T) {
	router := newTestRouter(t, testAPIKey)

	tests := []struct {
		name       string
		method     string
		path       string
		body       []byte
		apiKey     string
		expectCode int
	}{
		{"get without key", http.MethodGet, "/v2/tasks/1", nil, "", http.StatusUnauthorized},
		{"get with wrong key", http.MethodGet, "/v2/tasks/1", nil, "wrong-key", http.StatusUnauthorized},
		{"get with correct key", http.MethodGet, "/v2/tasks/1", nil, testAPIKey, http.StatusOK},
		{"post without key", http.MethodPost, "/v2/tasks", []byte(`{"Title":"x"}`), "", http.StatusUnauthorized},
		{"post with correct key", http.MethodPost, "/v2/tasks", []byte(`{"Title":"x"}`), testAPIKey, http.StatusCreated},
		{"patch without key", http.MethodPatch, "/v2/tasks/1", []byte(`{"done":true}`), "", http.StatusUnauthorized},
		{"delete without key", http.MethodDelete, "/v2/tasks/1", nil, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, tt.method, tt.path, tt.body, tt.apiKey)
			assert.Equal(t, tt.expectCode, rr.Code)
		})
	}
}

// The gate runs before the wrapped handler, so a bad key wins over a bad id.
func TestRouter_V2AuthEvaluatedBeforeHandler(t *testing.T) {
	router := newTestRouter(t, testAPIKey)

	rr := doRequest(t, router, http.MethodGet, "/v2/tasks/0", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_V2MatchesV1Responses(t *testing.T) {
	router := newTestRouter(t, testAPIKey)

	v1 := doRequest(t, router, http.MethodGet, "/v1/tasks/1", nil, "")
	v2 := doRequest(t, router, http.MethodGet, "/v2/tasks/1", nil, testAPIKey)

	require.Equal(t, http.StatusOK, v1.Code)
	require.Equal(t, http.StatusOK, v2.Code)
	assert.Equal(t, v1.Body.String(), v2.Body.String())
}

func TestRouter_UnsetAPIKeyFailsClosed(t *testing.T) {
	router := newTestRouter(t, "")

	tests := []struct {
		name   string
		apiKey string
	}{
		{"header absent", ""},
		{"header empty-matching", "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, router, http.MethodGet, "/v2/tasks/1", nil, tt.apiKey)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, testAPIKey)

	rr := doRequest(t, router, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.HealthResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, config.StoreMemory, resp.StoreBackend)
	assert.Equal(t, 1, resp.TaskCount)
	assert.Equal(t, "test", resp.Version)
}

func TestRouter_WireFormat(t *testing.T) {
	router := newTestRouter(t, testAPIKey)

	rr := doRequest(t, router, http.MethodGet, "/v1/tasks/1", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	// Field names are the wire contract: Id/Title/Description/done under "Task".
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	require.Contains(t, raw, "Status")
	require.Contains(t, raw, "Task")

	var taskFields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["Task"], &taskFields))
	require.Contains(t, taskFields, "Id")
	require.Contains(t, taskFields, "Title")
	require.Contains(t, taskFields, "Description")
	require.Contains(t, taskFields, "done")

	rr = doRequest(t, router, http.MethodPost, "/v1/tasks", []byte(`{"Title":"wire check"}`), "")
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	require.Contains(t, raw, "Task Added")
}
