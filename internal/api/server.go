// Copyright (c) 2026 Rackline. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
edge handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/gateway are allowed to import net/http server primitives.

The edge owns three kinds of traffic: session endpoints it serves itself,
API calls it proxies to the marketplace backend, and page navigations it
gates and then forwards to the web renderer.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rackline/rackline/internal/gate"
	"github.com/rackline/rackline/internal/platform/config"
	"github.com/rackline/rackline/internal/platform/constants"
	"github.com/rackline/rackline/internal/platform/middleware"
	"github.com/rackline/rackline/internal/proxy"
	"github.com/rackline/rackline/internal/session"
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

// Handlers groups everything the router mounts.
//
// New edge concerns add a field here — no other change to server.go is
// required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Session serves the cookie and verification endpoints under /api/auth.
	Session *session.Handler

	// Backend proxies all remaining /api traffic to the marketplace backend.
	Backend *proxy.Proxy

	// BrowseCache caches anonymous responses on the public browse routes.
	// Nil when Redis is not configured; the routes are mounted uncached.
	BrowseCache *proxy.Cache

	// Pages forwards gated navigation requests to the web renderer.
	Pages http.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution. There is no global
	// request timeout: proxied routes carry their own per-group deadlines
	// and a blanket one would cut off the slow payment group.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Metrics(constants.AppName))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// # Edge API
	r.Route("/api", func(api chi.Router) {
		// Session endpoints are served by the edge itself, never proxied.
		api.Mount("/auth", h.Session.Routes())

		// Public browse routes: short deadline, cacheable for anonymous
		// visitors when Redis is available.
		browse := proxy.WithTimeout(constants.DefaultProxyTimeout, h.Backend.Handler())
		if h.BrowseCache != nil {
			browse = h.BrowseCache.Middleware(browse)
		}
		for _, prefix := range []string{"/providers", "/spaces"} {
			api.Handle(prefix, browse)
			api.Handle(prefix+"/*", browse)
		}

		// Payment capture and file uploads routinely exceed the standard
		// budget, so they get the extended one.
		slow := proxy.WithTimeout(constants.SlowProxyTimeout, h.Backend.Handler())
		for _, prefix := range []string{"/payments", "/uploads"} {
			api.Handle(prefix, slow)
			api.Handle(prefix+"/*", slow)
		}

		// Everything else the backend owns.
		api.Handle("/*", proxy.WithTimeout(constants.DefaultProxyTimeout, h.Backend.Handler()))
	})

	// # Page Navigation
	// Every non-API path is a page: the gate enforces the area rules and
	// the renderer produces the HTML.
	r.Group(func(pages chi.Router) {
		pages.Use(gate.Middleware())
		pages.Handle("/*", h.Pages)
		pages.Handle("/", h.Pages)
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

// Router exposes the composed handler, mainly for route-level tests.
func (s *Server) Router() http.Handler {
	return s.router
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
