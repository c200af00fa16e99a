package suggest

import (
	"encoding/json"
	"net/http"

	"github.com/BhanuIITMandi/SprintSync/internal/auth"
	"github.com/BhanuIITMandi/SprintSync/pkg/cerr"
)

type Server struct {
	service *Service
}

func NewServer(service *Service) *Server {
	return &Server{service: service}
}

// Suggest handles POST /api/ai/suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, ok := auth.IdentityFromContext(ctx)
	if !ok {
		cerr.SetNewJSONError(ctx, cerr.Unauthenticated, "authentication required", nil)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid json body", err)
		return
	}

	result, err := s.service.Suggest(ctx, ident, req)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, result)
}
