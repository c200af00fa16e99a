package internal

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/BhanuIITMandi/SprintSync/internal/auth"
	"github.com/BhanuIITMandi/SprintSync/internal/config"
	"github.com/BhanuIITMandi/SprintSync/internal/metrics"
	"github.com/BhanuIITMandi/SprintSync/internal/suggest"
	"github.com/BhanuIITMandi/SprintSync/internal/task"
	"github.com/BhanuIITMandi/SprintSync/internal/user"
	"github.com/BhanuIITMandi/SprintSync/pkg/cerr"
	"github.com/BhanuIITMandi/SprintSync/pkg/clog"
)

type Server struct {
	server        *http.Server
	env           *config.Env
	userServer    *user.Server
	taskServer    *task.Server
	suggestServer *suggest.Server
	collector     *metrics.Collector
}

func NewServer(
	env *config.Env,
	userServer *user.Server,
	taskServer *task.Server,
	suggestServer *suggest.Server,
	collector *metrics.Collector,
) *Server {
	return &Server{
		env:           env,
		userServer:    userServer,
		taskServer:    taskServer,
		suggestServer: suggestServer,
		collector:     collector,
	}
}

// ListenAndServe starts the HTTP server. The provided context is used as the
// base context for all incoming requests via http.Server.BaseContext, so
// cancelling it on shutdown also cancels in-flight request contexts.
func (s *Server) ListenAndServe(ctx context.Context) error {
	authMiddleware := auth.NewMiddleware([]byte(s.env.JWTSecret), s.userServer.Lookup)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(
			clog.SlogChiMiddleware(),
			s.collector.ChiMiddleware,
			cerr.NewJSONResponseChiMiddleware(),
		)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			cerr.SetNewJSONError(r.Context(), cerr.NotFound, "not found", nil)
		})

		r.Post("/users", s.userServer.Register)
		r.Post("/auth/login", s.userServer.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Handler)

			r.Get("/users/me", s.userServer.Me)

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", s.taskServer.Create)
				r.Get("/", s.taskServer.List)
				r.Get("/{id}", s.taskServer.Get)
				r.Patch("/{id}", s.taskServer.Update)
				r.Patch("/{id}/status", s.taskServer.UpdateStatus)
				r.Delete("/{id}", s.taskServer.Delete)
			})

			r.Post("/ai/suggest", s.suggestServer.Suggest)
		})
	})

	mux := http.NewServeMux()
	mux.Handle("/health", &HealthChecker{})
	mux.Handle("/metrics", s.collector.Handler())
	mux.Handle("/api/", r)

	addr := s.env.HTTPAddr()
	slog.Info("starting server", "addr", addr)

	s.server = &http.Server{
		Addr: addr,
		Handler: h2c.NewHandler(cors.New(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}).Handler(mux), &http2.Server{}),
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type HealthChecker struct{}

func (hc *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
