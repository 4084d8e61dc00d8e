// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Role and permission gates are applied here, so domain packages only
    describe their own routes.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/dashboard"
	"github.com/taibuivan/merchantdesk/internal/merchant/apikey"
	"github.com/taibuivan/merchantdesk/internal/merchant/asset"
	"github.com/taibuivan/merchantdesk/internal/merchant/customer"
	"github.com/taibuivan/merchantdesk/internal/merchant/event"
	"github.com/taibuivan/merchantdesk/internal/merchant/points"
	"github.com/taibuivan/merchantdesk/internal/merchant/signconfig"
	"github.com/taibuivan/merchantdesk/internal/platform/config"
	"github.com/taibuivan/merchantdesk/internal/platform/constants"
	"github.com/taibuivan/merchantdesk/internal/platform/middleware"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/internal/system/bizadmin"
	"github.com/taibuivan/merchantdesk/internal/system/domainconfig"
	"github.com/taibuivan/merchantdesk/internal/system/transaction"
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
	// Liveness is the /health handler. It answers 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It answers 200 when every dependency is healthy.
	Readiness http.HandlerFunc

	// Metrics records request metrics and serves /metrics.
	Metrics *middleware.HTTPMetrics

	Auth      *auth.Handler
	Dashboard *dashboard.Handler

	// System administrator screens.
	BusinessAdmins *bizadmin.Handler
	Transactions   *transaction.Handler
	DomainConfig   *domainconfig.Handler

	// Merchant picks the merchant whose sign-service configurations and
	// API keys a system administrator manages.
	Merchant middleware.MerchantResolver

	// Business administrator screens.
	SignConfigs *signconfig.Handler
	APIKeys     *apikey.Handler
	Assets      *asset.Handler
	Customers   *customer.Handler
	Points      *points.Handler
	Events      *event.Handler
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
	r.Use(h.Metrics.Middleware)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated endpoints for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", h.Metrics.Handler())

	// # Application API
	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Route("/system-admin", func(system chi.Router) {
			mountSystemAdmin(system, h)
		})
		api.Route("/business-admin", func(business chi.Router) {
			mountBusinessAdmin(business, h)
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

// mountSystemAdmin registers the system administrator routes.
func mountSystemAdmin(router chi.Router, h Handlers) {
	router.Use(middleware.RequireRole(sec.RoleSystemAdmin))

	router.Get("/dashboard", h.Dashboard.System)
	router.Mount("/business-admins", h.BusinessAdmins.Routes())
	router.Mount("/domain-config", h.DomainConfig.Routes())
	h.Transactions.Register(router)

	router.Group(func(merchant chi.Router) {
		merchant.Use(middleware.ScopeMerchant(h.Merchant))
		merchant.Mount("/sign-configs", h.SignConfigs.Routes())
		merchant.Mount("/api-keys", h.APIKeys.Routes())
	})
}

// mountBusinessAdmin registers the business administrator routes. Each
// screen requires its permission; events and the dashboard only need the role.
func mountBusinessAdmin(router chi.Router, h Handlers) {
	router.Use(middleware.RequireRole(sec.RoleBusinessAdmin))

	router.Get("/dashboard", h.Dashboard.Business)
	router.Mount("/events", h.Events.Routes())

	router.With(middleware.RequirePermission(sec.PermConfigureSign)).
		Mount("/sign-configs", h.SignConfigs.Routes())
	router.With(middleware.RequirePermission(sec.PermManageAPIKeys)).
		Mount("/api-keys", h.APIKeys.Routes())
	router.With(middleware.RequirePermission(sec.PermViewAssets)).
		Mount("/assets", h.Assets.Routes())

	router.Group(func(users chi.Router) {
		users.Use(middleware.RequirePermission(sec.PermViewUsers))
		h.Customers.Register(users)
	})

	router.Mount("/points", h.Points.Routes(
		middleware.RequirePermission(sec.PermViewPoints),
		middleware.RequirePermission(sec.PermAllocatePoint),
	))
}

// Router exposes the configured router, used by tests.
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
