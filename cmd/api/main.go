// Copyright (c) 2026 Pinpoint. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Pinpoint HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when configured.
//  5. Run database migrations (idempotent).
//  6. Wire repositories, services and HTTP handlers.
//  7. Start the session sweeper, the HTTP server and the metrics listener
//     with graceful shutdown.
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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/pinpoint/internal/api"
	"github.com/taibuivan/pinpoint/internal/core/location"
	"github.com/taibuivan/pinpoint/internal/platform/config"
	"github.com/taibuivan/pinpoint/internal/platform/constants"
	"github.com/taibuivan/pinpoint/internal/platform/metrics"
	"github.com/taibuivan/pinpoint/internal/platform/middleware"
	"github.com/taibuivan/pinpoint/internal/platform/migration"
	pgstore "github.com/taibuivan/pinpoint/internal/platform/postgres"
	redisstore "github.com/taibuivan/pinpoint/internal/platform/redis"
	"github.com/taibuivan/pinpoint/internal/platform/sec"
	"github.com/taibuivan/pinpoint/internal/users/account"
	"github.com/taibuivan/pinpoint/internal/users/auth"
	"github.com/taibuivan/pinpoint/internal/users/permission"
	"github.com/taibuivan/pinpoint/internal/users/role"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing",
		slog.String("service", constants.AppName),
		slog.String("version", constants.AppVersion),
	)

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
		slog.String("metrics_port", cfg.MetricsPort),
		slog.Bool("trust_proxy_headers", cfg.TrustProxyHeaders),
		slog.Bool("session_cookie_secure", cfg.SessionCookieSecure),
		slog.Bool("redis_enabled", cfg.RedisURL != ""),
	)

	// Root context for background workers; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration is caught quickly rather than
	// hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Metrics ────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// ── 7. Health handlers ────────────────────────────────────────────────
	healthDeps := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
	}
	if rdb != nil {
		healthDeps.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	cookie := sec.SessionCookie{
		Name:   cfg.SessionCookieName,
		MaxAge: cfg.SessionMaxAge(),
		Secure: cfg.SessionCookieSecure,
	}

	sessionOptions := auth.SessionOptions{
		MaxAge:        cfg.SessionMaxAge(),
		TouchInterval: cfg.SessionTouchInterval,
		Logger:        log,
	}
	if rdb != nil {
		sessionOptions.Throttle = auth.NewTouchThrottle(rdb)
	}

	permissionRepository := permission.NewRepository(pool)
	resolver := permission.NewResolver(permissionRepository)

	authRepository := auth.NewRepository(pool)
	sessions := auth.NewSessionManager(authRepository, sessionOptions)
	authService := auth.NewService(authRepository, sessions, resolver, appMetrics)

	roleService := role.NewService(role.NewRepository(pool))
	accountService := account.NewService(account.NewRepository(pool))
	locationService := location.NewService(location.NewRepository(pool))

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService, cookie, cfg.LoginRateLimit),
		Permission: permission.NewHandler(permissionRepository, resolver),
		Role:       role.NewHandler(roleService),
		Account:    account.NewHandler(accountService),
		Location:   location.NewHandler(locationService),
	}

	security := api.Security{
		Sessions:   sessions,
		Authorizer: middleware.NewAuthorizer(resolver, appMetrics),
		Cookie:     cookie,
	}

	// ── 9. Background Workers ─────────────────────────────────────────────
	go sessions.RunSweeper(rootCtx, cfg.SessionSweepInterval)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, appMetrics, security, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 2)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Scrape endpoint lives on its own port; an empty METRICS_PORT disables it.
	var metricsServer *api.Server
	if cfg.MetricsPort != "" {
		metricsServer = api.NewMetricsServer(cfg, log, appMetrics)
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
	}

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	shutdownErr := server.Shutdown(shutdownTimeout)
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownTimeout); err != nil {
			log.Error("metrics_shutdown_failed", slog.Any("error", err))
		}
	}

	// Stop workers, then let detached session touches finish before the pool closes.
	rootCancel()
	sessions.Drain()

	if shutdownErr != nil {
		log.Error("shutdown_failed", slog.Any("error", shutdownErr))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", "pinpoint"))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
