package task_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhanuIITMandi/SprintSync/internal/auth"
	"github.com/BhanuIITMandi/SprintSync/internal/eventbus"
	"github.com/BhanuIITMandi/SprintSync/internal/task"
	taskrepo "github.com/BhanuIITMandi/SprintSync/internal/task/repositoryimpl"
	"github.com/BhanuIITMandi/SprintSync/internal/user"
	userrepo "github.com/BhanuIITMandi/SprintSync/internal/user/repositoryimpl"
	"github.com/BhanuIITMandi/SprintSync/pkg/cerr"
	"github.com/BhanuIITMandi/SprintSync/pkg/storage"
)

type testEnv struct {
	router   http.Handler
	userRepo user.Repository
	owner    *user.User
	other    *user.User
	admin    *user.User
}

// identityHeader carries the test identity so each request can pick who it
// runs as without going through real token issuance.
const identityHeader = "X-Test-User"

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	userRepo := userrepo.NewYAMLRepository(store)
	taskRepo := taskrepo.NewYAMLRepository(store)
	bus := eventbus.New()

	users := make(map[string]auth.Identity)
	newUser := func(email string, isAdmin bool) *user.User {
		u := &user.User{
			ID:        ulid.Make().String(),
			Email:     email,
			IsAdmin:   isAdmin,
			CreatedAt: time.Now(),
		}
		require.NoError(t, userRepo.Create(context.Background(), u))
		users[u.ID] = auth.Identity{UserID: u.ID, IsAdmin: u.IsAdmin}
		return u
	}

	env := &testEnv{
		userRepo: userRepo,
		owner:    newUser("owner@example.com", false),
		other:    newUser("other@example.com", false),
		admin:    newUser("admin@example.com", true),
	}

	taskServer := task.NewServer(taskRepo, userRepo, bus)

	r := chi.NewRouter()
	r.Use(cerr.NewJSONResponseChiMiddleware())
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if ident, ok := users[req.Header.Get(identityHeader)]; ok {
				req = req.WithContext(auth.ContextWithIdentity(req.Context(), ident))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", taskServer.Create)
		r.Get("/", taskServer.List)
		r.Get("/{id}", taskServer.Get)
		r.Patch("/{id}", taskServer.Update)
		r.Patch("/{id}/status", taskServer.UpdateStatus)
		r.Delete("/{id}", taskServer.Delete)
	})
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, userID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set(identityHeader, userID)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) task.Task {
	t.Helper()
	var got task.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestCreateTaskDefaults(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, env.owner.ID, http.MethodPost, "/tasks", map[string]string{
		"title":       "Set up CI",
		"description": "Add a build workflow",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decodeTask(t, rec)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, task.StatusTodo, got.Status)
	assert.Equal(t, 0, got.TotalMinutes)
	assert.Equal(t, env.owner.ID, got.OwnerID)
	assert.Equal(t, env.owner.ID, got.AssigneeID)
}

func TestCreateTaskValidation(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, env.owner.ID, http.MethodPost, "/tasks", map[string]string{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, env.owner.ID, http.MethodPost, "/tasks", map[string]string{
		"title":       "Assign to ghost",
		"assignee_id": "01HXNOSUCHUSER",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, "", http.MethodPost, "/tasks", map[string]string{"title": "No identity"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusWorkflow(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, env.owner.ID, http.MethodPost, "/tasks", map[string]string{"title": "Workflow"})
	require.Equal(t, http.StatusOK, rec.Code)
	id := decodeTask(t, rec).ID

	setStatus := func(status string) *httptest.ResponseRecorder {
		return env.do(t, env.owner.ID, http.MethodPatch, "/tasks/"+id+"/status", map[string]string{"status": status})
	}

	// TODO -> DONE is not allowed.
	rec = setStatus("DONE")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = setStatus("IN_PROGRESS")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, task.StatusInProgress, decodeTask(t, rec).Status)

	rec = setStatus("DONE")
	require.Equal(t, http.StatusOK, rec.Code)

	// DONE -> IN_PROGRESS is not allowed, only back to TODO.
	rec = setStatus("IN_PROGRESS")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = setStatus("TODO")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, task.StatusTodo, decodeTask(t, rec).Status)

	rec = setStatus("BLOCKED")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskOwnershipAndVisibility(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, env.owner.ID, http.MethodPost, "/tasks", map[string]string{"title": "Private"})
	require.Equal(t, http.StatusOK, rec.Code)
	id := decodeTask(t, rec).ID

	// Another user cannot see or modify it.
	assert.Equal(t, http.StatusForbidden, env.do(t, env.other.ID, http.MethodGet, "/tasks/"+id, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, env.other.ID, http.MethodDelete, "/tasks/"+id, nil).Code)

	// Admins can.
	assert.Equal(t, http.StatusOK, env.do(t, env.admin.ID, http.MethodGet, "/tasks/"+id, nil).Code)

	// Listing is scoped to the requester, admins see everything.
	var listed []task.Task
	rec = env.do(t, env.other.ID, http.MethodGet, "/tasks", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed)

	rec = env.do(t, env.admin.ID, http.MethodGet, "/tasks", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func TestUpdateTask(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, env.owner.ID, http.MethodPost, "/tasks", map[string]string{"title": "Before"})
	require.Equal(t, http.StatusOK, rec.Code)
	id := decodeTask(t, rec).ID

	rec = env.do(t, env.owner.ID, http.MethodPatch, "/tasks/"+id, map[string]any{
		"title":         "After",
		"total_minutes": 30,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeTask(t, rec)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, 30, got.TotalMinutes)
	// Status never changes through a plain update.
	assert.Equal(t, task.StatusTodo, got.Status)

	rec = env.do(t, env.owner.ID, http.MethodPatch, "/tasks/"+id, map[string]any{"total_minutes": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, env.owner.ID, http.MethodPatch, "/tasks/"+id, map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTask(t *testing.T) {
	env := setupTestEnv(t)

	rec := env.do(t, env.owner.ID, http.MethodPost, "/tasks", map[string]string{"title": "Doomed"})
	require.Equal(t, http.StatusOK, rec.Code)
	id := decodeTask(t, rec).ID

	assert.Equal(t, http.StatusOK, env.do(t, env.owner.ID, http.MethodDelete, "/tasks/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, env.owner.ID, http.MethodGet, "/tasks/"+id, nil).Code)
}
