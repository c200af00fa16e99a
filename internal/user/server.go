package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/BhanuIITMandi/SprintSync/internal/auth"
	"github.com/BhanuIITMandi/SprintSync/internal/eventbus"
	"github.com/BhanuIITMandi/SprintSync/pkg/cerr"
)

type Server struct {
	repo          Repository
	eventBus      *eventbus.Bus
	jwtSecret     []byte
	tokenLifetime time.Duration
}

func NewServer(repo Repository, eventBus *eventbus.Bus, jwtSecret []byte, tokenLifetime time.Duration) *Server {
	return &Server{
		repo:          repo,
		eventBus:      eventBus,
		jwtSecret:     jwtSecret,
		tokenLifetime: tokenLifetime,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Skills   string `json:"skills,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles POST /api/users.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid json body", err)
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid email address", err)
		return
	}
	if req.Password == "" {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "password is required", nil)
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		cerr.SetNewJSONError(ctx, cerr.Internal, "server error", err)
		return
	}

	u := &User{
		ID:             ulid.Make().String(),
		Email:          req.Email,
		HashedPassword: hash,
		Skills:         req.Skills,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	s.eventBus.PublishNew(eventbus.EventTypeUserCreated, u.ID, map[string]string{"email": u.Email})

	cerr.SetJSONResponse(ctx, u)
}

// Login handles POST /api/auth/login. Invalid email and invalid password are
// indistinguishable to the caller.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid json body", err)
		return
	}

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		cerr.SetNewJSONError(ctx, cerr.Unauthenticated, "invalid credentials", err)
		return
	}
	if !VerifyPassword(req.Password, u.HashedPassword) {
		cerr.SetNewJSONError(ctx, cerr.Unauthenticated, "invalid credentials", nil)
		return
	}

	token, err := auth.IssueToken(s.jwtSecret, u.ID, s.tokenLifetime)
	if err != nil {
		cerr.SetNewJSONError(ctx, cerr.Internal, "server error", err)
		return
	}

	cerr.SetJSONResponse(ctx, loginResponse{AccessToken: token, TokenType: "bearer"})
}

// Me handles GET /api/users/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ident, ok := auth.IdentityFromContext(ctx)
	if !ok {
		cerr.SetNewJSONError(ctx, cerr.Unauthenticated, "authentication required", nil)
		return
	}
	u, err := s.repo.Get(ctx, ident.UserID)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, u)
}

// Lookup adapts the repository into the auth middleware's IdentityLookup.
func (s *Server) Lookup(ctx context.Context, userID string) (auth.Identity, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return auth.Identity{}, err
	}
	return auth.Identity{UserID: u.ID, IsAdmin: u.IsAdmin}, nil
}
