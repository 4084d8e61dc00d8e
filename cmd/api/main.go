// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the MerchantDesk HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool and the database/sql audit handle).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/merchantdesk/internal/api"
	"github.com/taibuivan/merchantdesk/internal/auth"
	"github.com/taibuivan/merchantdesk/internal/dashboard"
	"github.com/taibuivan/merchantdesk/internal/merchant/apikey"
	"github.com/taibuivan/merchantdesk/internal/merchant/asset"
	"github.com/taibuivan/merchantdesk/internal/merchant/customer"
	"github.com/taibuivan/merchantdesk/internal/merchant/event"
	"github.com/taibuivan/merchantdesk/internal/merchant/points"
	"github.com/taibuivan/merchantdesk/internal/merchant/signconfig"
	"github.com/taibuivan/merchantdesk/internal/platform/audit"
	"github.com/taibuivan/merchantdesk/internal/platform/config"
	"github.com/taibuivan/merchantdesk/internal/platform/constants"
	"github.com/taibuivan/merchantdesk/internal/platform/middleware"
	"github.com/taibuivan/merchantdesk/internal/platform/migration"
	pgstore "github.com/taibuivan/merchantdesk/internal/platform/postgres"
	redisstore "github.com/taibuivan/merchantdesk/internal/platform/redis"
	"github.com/taibuivan/merchantdesk/internal/platform/sec"
	"github.com/taibuivan/merchantdesk/internal/system/bizadmin"
	"github.com/taibuivan/merchantdesk/internal/system/domainconfig"
	"github.com/taibuivan/merchantdesk/internal/system/transaction"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("[MerchantDesk] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	auditDB, err := pgstore.OpenDB(startupCtx, cfg.DatabaseURL)
	must(log, err, "open audit handle")
	defer func() {
		if cerr := auditDB.Close(); cerr != nil {
			log.Error("audit handle close error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, redisstore.ServerPoolSize, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Auth Service ───────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	sessions := auth.NewSessionRepository(rdb)
	authService := auth.NewService(auth.NewAccountRepository(pool), sessions, tokens, cfg.AccessTokenTTL, log)

	if cfg.BootstrapAdminAccount != "" {
		must(log, authService.EnsureSystemAdmin(startupCtx, cfg.BootstrapAdminAccount, cfg.BootstrapAdminPassword), "bootstrap system admin")
	}

	metrics := middleware.NewHTTPMetrics()
	must(log, metrics.Register(authService.Collectors()...), "register metrics")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckAudit: func() error {
			return auditDB.PingContext(context.Background())
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	recorder := audit.NewSQLRecorder(auditDB)

	bizadminService := bizadmin.NewService(bizadmin.NewPostgresRepository(pool), sessions, recorder, log)
	transactionService := transaction.NewService(transaction.NewPostgresRepository(pool), recorder, log)
	domainConfigService := domainconfig.NewService(domainconfig.NewPostgresRepository(pool), recorder, log)

	signConfigService := signconfig.NewService(signconfig.NewPostgresRepository(pool),
		signconfig.NewHTTPChecker(cfg.SignCheckTimeout), recorder, log)
	apiKeyService := apikey.NewService(apikey.NewPostgresRepository(pool), recorder, log)
	assetService := asset.NewService(asset.NewPostgresRepository(pool))
	customerService := customer.NewService(customer.NewPostgresRepository(pool))
	pointsService := points.NewService(points.NewPostgresRepository(pool), recorder, log)
	eventService := event.NewService(event.NewPostgresRepository(pool), recorder, log)

	dashboardService := dashboard.NewService(bizadminService, transactionService,
		assetService, customerService, apiKeyService, pointsService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   metrics,

		Auth:      auth.NewHandler(authService),
		Dashboard: dashboard.NewHandler(dashboardService),

		BusinessAdmins: bizadmin.NewHandler(bizadminService),
		Transactions:   transaction.NewHandler(transactionService),
		DomainConfig:   domainconfig.NewHandler(domainConfigService),
		Merchant:       domainConfigService.MerchantDomain,

		SignConfigs: signconfig.NewHandler(signConfigService),
		APIKeys:     apikey.NewHandler(apiKeyService),
		Assets:      asset.NewHandler(assetService),
		Customers:   customer.NewHandler(customerService),
		Points:      points.NewHandler(pointsService),
		Events:      event.NewHandler(eventService),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, authService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// newLogger builds the JSON logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", "merchantdesk"))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
