// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Identity runs globally; each resource router carries its own permission gate.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/pinpoint/internal/core/location"
	"github.com/taibuivan/pinpoint/internal/platform/config"
	"github.com/taibuivan/pinpoint/internal/platform/constants"
	"github.com/taibuivan/pinpoint/internal/platform/metrics"
	"github.com/taibuivan/pinpoint/internal/platform/middleware"
	"github.com/taibuivan/pinpoint/internal/platform/sec"
	"github.com/taibuivan/pinpoint/internal/users/account"
	"github.com/taibuivan/pinpoint/internal/users/auth"
	"github.com/taibuivan/pinpoint/internal/users/permission"
	"github.com/taibuivan/pinpoint/internal/users/role"
)

// PublicPaths never require a session.
//
// Logout is public so that a client holding a stale cookie can still clear it.
var PublicPaths = []string{
	"/health",
	"/ready",
	"/auth/login",
	"/auth/logout",
	"/auth/users",
}

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
	// Liveness is the /health handler; always 200 while the process is up.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; 200 only when every dependency answers.
	Readiness http.HandlerFunc

	Auth       *auth.Handler
	Permission *permission.Handler
	Role       *role.Handler
	Account    *account.Handler
	Location   *location.Handler
}

// Security carries the request identity and authorization collaborators.
type Security struct {
	Sessions   middleware.SessionAuthenticator
	Authorizer *middleware.Authorizer
	Cookie     sec.SessionCookie
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, m *metrics.Metrics, security Security, h Handlers) *Server {
	router := NewRouter(ctx, cfg, log, m, security, h)

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routing tree. Split from [NewServer] so tests can drive
// it through httptest.
func NewRouter(ctx context.Context, cfg *config.Config, log *slog.Logger, m *metrics.Metrics, security Security, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	limiter := middleware.NewIPRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)

	// # Middleware Chain
	// Global middleware applied in order of execution.
	if cfg.TrustProxyHeaders {
		// Rewrites RemoteAddr; everything below keys on it.
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(m.Instrument)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(limiter.Handler)
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg, cfg.AllowedOrigins))
	r.Use(chimw.CleanPath)
	r.Use(middleware.Identity(security.Sessions, security.Cookie, PublicPaths...))

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	gate := security.Authorizer.Require
	r.Mount("/auth", h.Auth.Routes())
	r.Mount("/permissions", h.Permission.Routes(gate(permission.ViewPermissions, permission.ManagePermissions)))
	r.Mount("/roles", h.Role.Routes(gate(role.ViewRoles, role.ManageRoles)))
	r.Mount("/users", h.Account.Routes(gate(account.ViewUsers, account.ManageUsers)))
	r.Mount("/locations", h.Location.Routes(gate(location.ViewLocations, location.ManageLocations)))

	return r
}

// NewMetricsServer serves the Prometheus scrape endpoint on cfg.MetricsPort.
// It carries no session handling, so it must stay off the public network.
func NewMetricsServer(cfg *config.Config, log *slog.Logger, m *metrics.Metrics) *Server {
	router := NewMetricsRouter(m)

	return &Server{
		router: router,
		log:    log.With(slog.String("listener", "metrics")),
		httpServer: &http.Server{
			Addr:              ":" + cfg.MetricsPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewMetricsRouter exposes GET /metrics and nothing else.
func NewMetricsRouter(m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.PanicRecovery())
	r.Method(http.MethodGet, "/metrics", m.Handler())
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
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
