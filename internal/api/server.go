// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

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

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/config"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/flash"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/metrics"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/middleware"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/users/account"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/users/auth"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/web"
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
// New domains add a field here. No other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler. It always returns 200 if the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Metrics serves the Prometheus registry on /metrics.
	Metrics http.Handler

	// Auth handles the login, registration and password reset pages.
	Auth *auth.Handler

	// Account handles admin activation and deactivation.
	Account *account.Handler
}

// Dependencies are the cross-cutting collaborators of the router.
type Dependencies struct {
	Resolver middleware.IdentityResolver
	Renderer *web.TemplateRenderer
	Flashes  *flash.Store
	Metrics  *metrics.Metrics
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(cfg *config.Config, log *slog.Logger, deps Dependencies, h Handlers) *Server {
	r := NewRouter(cfg, log, deps, h)

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

// NewRouter builds the routing tree. It is split from [NewServer] so tests
// can drive the router without a listener.
func NewRouter(cfg *config.Config, log *slog.Logger, deps Dependencies, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	secure := cfg.IsProduction()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log, cfg.TrustProxyHeaders))
	r.Use(middleware.PanicRecovery(deps.Renderer))
	r.Use(middleware.SecureHeaders(secure))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics)
	}

	// # Application Pages
	// Everything below knows who is asking.
	r.Group(func(app chi.Router) {
		app.Use(deps.Flashes.Middleware)
		app.Use(middleware.ResolveIdentity(deps.Resolver, deps.Metrics))

		app.Get(constants.PathHome, homePage(deps.Renderer))
		app.Mount("/auth", h.Auth.Routes())

		app.Route("/admin/users", func(admin chi.Router) {
			admin.Use(middleware.RequireAdmin(deps.Flashes, secure))
			admin.Mount("/", h.Account.Routes())
		})

		// Unmatched paths render through the identity chain so the error
		// page still shows the signed-in user.
		app.NotFound(notFound(deps.Renderer))
	})

	return r
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
