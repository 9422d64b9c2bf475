// Copyright (c) 2026 Rackline. All rights reserved.

// Command gateway is the entry point for the Rackline edge gateway.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables (.env honored in dev).
//  3. Connect to Redis when configured (browse cache).
//  4. Construct the backend proxy and the page renderer proxy.
//  5. Wire session handlers and health probes.
//  6. Start HTTP server with graceful shutdown.
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

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rackline/rackline/internal/api"
	"github.com/rackline/rackline/internal/platform/config"
	"github.com/rackline/rackline/internal/platform/constants"
	redisstore "github.com/rackline/rackline/internal/platform/redis"
	"github.com/rackline/rackline/internal/proxy"
	"github.com/rackline/rackline/internal/session"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Rackline] gateway_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A local .env is a convenience for development; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("backend", cfg.BackendBaseURL),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Redis (optional) ───────────────────────────────────────────────
	// The gateway runs fine without Redis; it only loses the browse cache.
	var rdb *goredis.Client
	if cfg.RedisURL != "" {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
	} else {
		log.Info("redis_not_configured", slog.String("effect", "browse cache disabled"))
	}

	// ── 4. Proxies ────────────────────────────────────────────────────────
	backendProxy, err := proxy.New(cfg.BackendBaseURL, log)
	must(log, err, "construct backend proxy")

	pageProxy, err := proxy.NewPageProxy(cfg.WebRendererURL, log)
	must(log, err, "construct page renderer proxy")

	var browseCache *proxy.Cache
	if rdb != nil {
		browseCache = proxy.NewCache(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second, log)
	}

	// ── 5. Session Domain ─────────────────────────────────────────────────
	backendClient := session.NewBackendClient(cfg.BackendBaseURL, log)
	sessionHandler := session.NewHandler(
		session.NewService(),
		backendClient,
		session.NewCookieCodec(cfg.IsProduction()),
	)

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	healthDeps := api.HealthDependencies{
		CheckBackend: func() error {
			return backendClient.Ping(context.Background())
		},
	}
	if rdb != nil {
		healthDeps.CheckCache = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	}
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Session:     sessionHandler,
		Backend:     backendProxy,
		BrowseCache: browseCache,
		Pages:       pageProxy,
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
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
