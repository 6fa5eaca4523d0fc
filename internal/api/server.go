// Copyright (c) 2026 Revory. All rights reserved.
// Author: d.kovalyov.dev@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dkovalyov/revory/internal/catalog/category"
	"github.com/dkovalyov/revory/internal/catalog/genre"
	"github.com/dkovalyov/revory/internal/catalog/title"
	"github.com/dkovalyov/revory/internal/content/comment"
	"github.com/dkovalyov/revory/internal/content/review"
	"github.com/dkovalyov/revory/internal/platform/config"
	"github.com/dkovalyov/revory/internal/platform/constants"
	"github.com/dkovalyov/revory/internal/platform/middleware"
	"github.com/dkovalyov/revory/internal/platform/sec"
	"github.com/dkovalyov/revory/internal/users/account"
	"github.com/dkovalyov/revory/internal/users/auth"
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

	// Auth handles passwordless signup and the code-for-token exchange.
	Auth *auth.Handler

	// Account handles the admin user directory and /users/me.
	Account *account.Handler

	// Category and Genre manage the catalog taxonomy.
	Category *category.Handler
	Genre    *genre.Handler

	// Title handles the reviewable catalog.
	Title *title.Handler

	// Review and Comment handle user content nested under titles.
	Review  *review.Handler
	Comment *comment.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", h.Auth.RegisterRoutes)

		api.Route("/users", func(users chi.Router) {
			// /users/me must be declared alongside /users/{username};
			// chi resolves the static segment first.
			users.Route("/me", func(me chi.Router) {
				me.Use(middleware.RequireAuth())
				h.Account.RegisterProfileRoutes(me)
			})
			users.Group(func(directory chi.Router) {
				directory.Use(middleware.RequireRole(sec.RoleAdmin))
				h.Account.RegisterDirectoryRoutes(directory)
			})
		})

		api.Route("/categories", h.Category.RegisterRoutes)
		api.Route("/genres", h.Genre.RegisterRoutes)

		api.Route("/titles", func(titles chi.Router) {
			h.Title.RegisterRoutes(titles)

			titles.Route("/{titleID}/reviews", func(reviews chi.Router) {
				h.Review.RegisterRoutes(reviews)

				reviews.Route("/{reviewID}/comments", func(comments chi.Router) {
					h.Comment.RegisterRoutes(comments)
				})
			})
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
