package task

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/BhanuIITMandi/SprintSync/internal/auth"
	"github.com/BhanuIITMandi/SprintSync/internal/eventbus"
	"github.com/BhanuIITMandi/SprintSync/internal/user"
	"github.com/BhanuIITMandi/SprintSync/pkg/cerr"
)

type Server struct {
	repo     Repository
	userRepo user.Repository
	eventBus *eventbus.Bus
}

func NewServer(repo Repository, userRepo user.Repository, eventBus *eventbus.Bus) *Server {
	return &Server{
		repo:     repo,
		userRepo: userRepo,
		eventBus: eventBus,
	}
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssigneeID  string `json:"assignee_id"`
}

type updateRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	TotalMinutes *int    `json:"total_minutes"`
	AssigneeID   *string `json:"assignee_id"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Create handles POST /api/tasks. New tasks always start in TODO with zero
// logged minutes; the assignee defaults to the creator.
func (s *Server) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, ok := auth.IdentityFromContext(ctx)
	if !ok {
		cerr.SetNewJSONError(ctx, cerr.Unauthenticated, "authentication required", nil)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid json body", err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "title is required", nil)
		return
	}

	assigneeID := req.AssigneeID
	if assigneeID == "" {
		assigneeID = ident.UserID
	}
	if assigneeID != ident.UserID {
		if _, err := s.userRepo.Get(ctx, assigneeID); err != nil {
			cerr.SetJSONError(ctx, err)
			return
		}
	}

	now := time.Now()
	t := &Task{
		ID:           ulid.Make().String(),
		Title:        req.Title,
		Description:  req.Description,
		Status:       StatusTodo,
		TotalMinutes: 0,
		OwnerID:      ident.UserID,
		AssigneeID:   assigneeID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	s.eventBus.PublishNew(eventbus.EventTypeTaskCreated, t.ID, map[string]string{"owner_id": t.OwnerID})

	cerr.SetJSONResponse(ctx, t)
}

// List handles GET /api/tasks. Administrators see every task, everyone else
// only their own.
func (s *Server) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, ok := auth.IdentityFromContext(ctx)
	if !ok {
		cerr.SetNewJSONError(ctx, cerr.Unauthenticated, "authentication required", nil)
		return
	}

	var (
		tasks []*Task
		err   error
	)
	if ident.IsAdmin {
		tasks, err = s.repo.ListAll(ctx)
	} else {
		tasks, err = s.repo.ListByOwner(ctx, ident.UserID)
	}
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if tasks == nil {
		tasks = []*Task{}
	}
	cerr.SetJSONResponse(ctx, tasks)
}

// Get handles GET /api/tasks/{id}.
func (s *Server) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, ok := s.authorizedTask(r)
	if !ok {
		return
	}
	cerr.SetJSONResponse(ctx, t)
}

// Update handles PATCH /api/tasks/{id}. Only the provided fields change;
// status is not updatable here.
func (s *Server) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, ok := s.authorizedTask(r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid json body", err)
		return
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "title must not be empty", nil)
			return
		}
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.TotalMinutes != nil {
		if *req.TotalMinutes < 0 {
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "total_minutes must not be negative", nil)
			return
		}
		t.TotalMinutes = *req.TotalMinutes
	}
	if req.AssigneeID != nil {
		if _, err := s.userRepo.Get(ctx, *req.AssigneeID); err != nil {
			cerr.SetJSONError(ctx, err)
			return
		}
		t.AssigneeID = *req.AssigneeID
	}
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	s.eventBus.PublishNew(eventbus.EventTypeTaskUpdated, t.ID, map[string]string{"owner_id": t.OwnerID})

	cerr.SetJSONResponse(ctx, t)
}

// UpdateStatus handles PATCH /api/tasks/{id}/status, enforcing the status
// workflow before anything is persisted.
func (s *Server) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, ok := s.authorizedTask(r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid json body", err)
		return
	}
	target, err := ParseStatus(req.Status)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if err := ValidateTransition(t.Status, target); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	t.Status = target
	t.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	s.eventBus.PublishNew(eventbus.EventTypeTaskStatusChanged, t.ID, map[string]string{
		"owner_id":   t.OwnerID,
		"new_status": string(t.Status),
	})

	cerr.SetJSONResponse(ctx, t)
}

// Delete handles DELETE /api/tasks/{id}.
func (s *Server) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, ok := s.authorizedTask(r)
	if !ok {
		return
	}
	if err := s.repo.Delete(ctx, t.ID); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	s.eventBus.PublishNew(eventbus.EventTypeTaskDeleted, t.ID, map[string]string{"owner_id": t.OwnerID})

	cerr.SetJSONResponse(ctx, map[string]string{"detail": "task deleted"})
}

// authorizedTask loads the task from the URL and checks that the requester
// owns it or is an administrator. On failure it records the error on the
// context and returns ok=false.
func (s *Server) authorizedTask(r *http.Request) (*Task, bool) {
	ctx := r.Context()
	ident, ok := auth.IdentityFromContext(ctx)
	if !ok {
		cerr.SetNewJSONError(ctx, cerr.Unauthenticated, "authentication required", nil)
		return nil, false
	}
	t, err := s.repo.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return nil, false
	}
	if !ident.IsAdmin && t.OwnerID != ident.UserID {
		cerr.SetNewJSONError(ctx, cerr.PermissionDenied, "not authorised", nil)
		return nil, false
	}
	return t, true
}
