package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"voice-notes/internal/auth"
	"voice-notes/internal/db"
	"voice-notes/internal/resources"
)

type testAPI struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestAPI(t *testing.T, opts RouteOptions) *testAPI {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	database, err := db.New(log, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	a := auth.New(database, log, "test-secret", time.Hour, auth.WithBcryptCost(bcrypt.MinCost))
	h := New(resources.New(database, log), a, log, 5*time.Second, "test")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	srv := httptest.NewServer(h.Routes(ctx, opts))
	t.Cleanup(srv.Close)
	return &testAPI{t: t, srv: srv}
}

func (a *testAPI) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, buf)
	require.NoError(a.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.srv.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (a *testAPI) register(name string) string {
	a.t.Helper()
	status, out := a.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"name": name, "email": name + "@example.com", "password": "password-" + name,
	})
	require.Equal(a.t, http.StatusCreated, status, out)
	assert.Equal(a.t, true, out["success"])
	return out["token"].(string)
}

func data(out map[string]any) map[string]any {
	return out["data"].(map[string]any)
}

func TestNotesScenario(t *testing.T) {
	api := newTestAPI(t, RouteOptions{})
	alice := api.register("alice")
	bob := api.register("bob")

	status, out := api.do(http.MethodPost, "/api/notes", alice, map[string]string{
		"title": "Groceries", "content": "milk, eggs", "user": "someone-else",
	})
	require.Equal(t, http.StatusCreated, status, out)
	note := data(out)
	id := note["id"].(string)
	assert.Equal(t, "General", note["category"])

	_, me := api.do(http.MethodGet, "/api/users/me", alice, nil)
	assert.Equal(t, data(me)["id"], note["user"], "owner must come from the token")

	status, out = api.do(http.MethodGet, "/api/notes", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), out["count"])
	list := out["data"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].(map[string]any)["id"])

	status, _ = api.do(http.MethodGet, "/api/notes/"+id, bob, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, out = api.do(http.MethodGet, "/api/notes", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), out["count"])

	status, out = api.do(http.MethodPut, "/api/notes/"+id, alice, map[string]string{"category": "Ideas"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ideas", data(out)["category"])
	assert.Equal(t, "milk, eggs", data(out)["content"])

	status, _ = api.do(http.MethodDelete, "/api/notes/"+id, bob, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, out = api.do(http.MethodDelete, "/api/notes/"+id, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, data(out))

	status, _ = api.do(http.MethodGet, "/api/notes/"+id, alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = api.do(http.MethodGet, "/api/notes/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestNoteValidation(t *testing.T) {
	api := newTestAPI(t, RouteOptions{})
	alice := api.register("alice")

	status, out := api.do(http.MethodPost, "/api/notes", alice, map[string]string{"title": "", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["errors"], "title")

	status, _ = api.do(http.MethodPost, "/api/notes", alice, map[string]string{"title": "x", "content": "y", "category": "Misc"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTaskToggleScenario(t *testing.T) {
	api := newTestAPI(t, RouteOptions{})
	alice := api.register("alice")
	bob := api.register("bob")

	status, out := api.do(http.MethodPost, "/api/tasks", alice, map[string]string{"title": "Ship v1"})
	require.Equal(t, http.StatusCreated, status, out)
	task := data(out)
	id := task["id"].(string)
	assert.Equal(t, "medium", task["priority"])
	assert.Equal(t, false, task["completed"])

	status, out = api.do(http.MethodPut, "/api/tasks/"+id+"/toggle", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, data(out)["completed"])

	status, _ = api.do(http.MethodPut, "/api/tasks/"+id+"/toggle", bob, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, out = api.do(http.MethodPut, "/api/tasks/"+id+"/toggle", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, data(out)["completed"])

	status, _ = api.do(http.MethodPut, "/api/tasks/missing/toggle", alice, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, out = api.do(http.MethodGet, "/api/stats", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), data(out)["totalTasks"])
	assert.Equal(t, float64(1), data(out)["pendingTasks"])
}

func TestTaskUpdateAndFilters(t *testing.T) {
	api := newTestAPI(t, RouteOptions{})
	alice := api.register("alice")

	status, out := api.do(http.MethodPost, "/api/tasks", alice, map[string]string{
		"title": "Pay rent", "priority": "high", "dueDate": "2026-11-01",
	})
	require.Equal(t, http.StatusCreated, status, out)
	id := data(out)["id"].(string)
	assert.Equal(t, "2026-11-01T00:00:00Z", data(out)["dueDate"])

	status, _ = api.do(http.MethodPost, "/api/tasks", alice, map[string]string{"title": "x", "dueDate": "next week"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, out = api.do(http.MethodPut, "/api/tasks/"+id, alice, map[string]any{"dueDate": "", "completed": true})
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, data(out), "dueDate")
	assert.Equal(t, true, data(out)["completed"])
	assert.Equal(t, "Pay rent", data(out)["title"])

	status, _ = api.do(http.MethodPut, "/api/tasks/"+id, alice, map[string]any{"title": " "})
	assert.Equal(t, http.StatusBadRequest, status)

	status, out = api.do(http.MethodGet, "/api/tasks?status=completed&priority=high", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), out["count"])

	status, out = api.do(http.MethodGet, "/api/tasks?status=pending", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), out["count"])

	status, _ = api.do(http.MethodGet, "/api/tasks?status=later", alice, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAuthFailures(t *testing.T) {
	api := newTestAPI(t, RouteOptions{})
	api.register("alice")

	status, _ := api.do(http.MethodGet, "/api/notes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = api.do(http.MethodGet, "/api/tasks", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = api.do(http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, out := api.do(http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "alice@example.com", "password": "password-alice",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, out["token"])
	assert.NotContains(t, out["user"], "passwordHash")

	status, _ = api.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "alice", "email": "alice@example.com", "password": "password-alice",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMalformedBody(t *testing.T) {
	api := newTestAPI(t, RouteOptions{})
	alice := api.register("alice")

	req, err := http.NewRequest(http.MethodPost, api.srv.URL+"/api/notes", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+alice)
	resp, err := api.srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRateLimitAndCORS(t *testing.T) {
	api := newTestAPI(t, RouteOptions{RateLimit: true, RPS: 0.001, Burst: 2, CORSOrigins: []string{"https://app.example"}})

	for i := 0; i < 2; i++ {
		status, _ := api.do(http.MethodGet, "/api/health", "", nil)
		require.Equal(t, http.StatusOK, status)
	}
	status, _ := api.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, status)

	req, err := http.NewRequest(http.MethodOptions, api.srv.URL+"/api/notes", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := api.srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://app.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "10.0.0.1", clientIP(r, ""))
	assert.Equal(t, "203.0.113.7", clientIP(r, "X-Forwarded-For"))

	r.Header.Set("X-Forwarded-For", "garbage")
	assert.Equal(t, "10.0.0.1", clientIP(r, "X-Forwarded-For"))
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	rl := newRateLimiter(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), 1, 1)

	assert.True(t, rl.allow("203.0.113.7"))
	assert.False(t, rl.allow("203.0.113.7"))

	rl.sweep(time.Hour)
	assert.Len(t, rl.clients, 1, "recent clients are kept")

	rl.sweep(0)
	assert.Empty(t, rl.clients)
	assert.True(t, rl.allow("203.0.113.7"), "a swept client starts with a full bucket")
}
