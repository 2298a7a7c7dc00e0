// Copyright (c) 2026 Acadia. All rights reserved.
// Author: platform@acadia.io

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and the cmd binaries are allowed to import net/http server primitives.

The API server sits BEHIND the edge proxy: bearer tokens are verified at
the edge and arrive here as the trusted identity header. This package
mounts the identity middleware that turns that header into a caller
principal for the protected route groups.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/acadia-lms/acadia/internal/classroom"
	"github.com/acadia-lms/acadia/internal/course"
	"github.com/acadia-lms/acadia/internal/platform/authz"
	"github.com/acadia-lms/acadia/internal/platform/config"
	"github.com/acadia-lms/acadia/internal/platform/constants"
	"github.com/acadia-lms/acadia/internal/platform/middleware"
	"github.com/acadia-lms/acadia/internal/submission"
	"github.com/acadia-lms/acadia/internal/task"
	"github.com/acadia-lms/acadia/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles accounts, login, and the token lifecycle.
	Auth *auth.Handler

	// Classroom manages rosters and course catalogs.
	Classroom *classroom.Handler

	// Course manages the course catalog.
	Course *course.Handler

	// Task manages assignments under courses.
	Task *task.Handler

	// Submission manages student hand-ins and review decisions.
	Submission *submission.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// The resolver turns the trusted identity header into a caller principal;
// it guards every route group except /api/user's public endpoints and the
// health probes.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, resolver authz.Resolver, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// The user domain mounts its own split of public and protected routes.
	// Every other domain sits entirely behind the identity middleware.
	r.Route("/api", func(api chi.Router) {
		api.Mount("/user", h.Auth.Routes(resolver))

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Identity(resolver))
			protected.Mount("/classroom", h.Classroom.Routes())
			protected.Mount("/course", h.Course.Routes())
			protected.Mount("/task", h.Task.Routes())
			protected.Mount("/submission", h.Submission.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
