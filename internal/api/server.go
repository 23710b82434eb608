// Copyright (c) 2026 Crystalbox. All rights reserved.
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

	"github.com/taibuivan/crystalbox/internal/core/crystal"
	"github.com/taibuivan/crystalbox/internal/core/prebuild"
	"github.com/taibuivan/crystalbox/internal/core/reference"
	"github.com/taibuivan/crystalbox/internal/core/shipment"
	"github.com/taibuivan/crystalbox/internal/core/subscription"
	"github.com/taibuivan/crystalbox/internal/platform/config"
	"github.com/taibuivan/crystalbox/internal/platform/constants"
	"github.com/taibuivan/crystalbox/internal/platform/middleware"
	"github.com/taibuivan/crystalbox/internal/users/auth"
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
type Handlers struct {
	// Liveness is the /health handler; it returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; it returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles sign-in.
	Auth *auth.Handler

	// Crystal serves the catalog and the suggestion endpoint.
	Crystal *crystal.Handler

	// PreBuild stages boxes and runs smart-checks.
	PreBuild *prebuild.Handler

	// Shipment records and lists shipped boxes.
	Shipment *shipment.Handler

	// Subscription manages subscription products.
	Subscription *subscription.Handler

	// Reference serves colors, categories and locations.
	Reference *reference.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := NewRouter(context, cfg, log, verifier, h)

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

// NewRouter builds the routing tree on its own so tests can drive it with httptest.
func NewRouter(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *chi.Mux {
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
	r.Mount("/auth", h.Auth.Routes())

	r.Group(func(api chi.Router) {
		api.Use(middleware.RequireAuth)

		api.Mount("/crystals", h.Crystal.Routes())
		api.Mount("/preBuilds", h.PreBuild.Routes())
		api.Mount("/shipments", h.Shipment.Routes())
		api.Mount("/subscriptions", h.Subscription.Routes())
		api.Mount("/colors", h.Reference.ColorRoutes())
		api.Mount("/categories", h.Reference.LookupRoutes(reference.KindCategory))
		api.Mount("/locations", h.Reference.LookupRoutes(reference.KindLocation))
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
