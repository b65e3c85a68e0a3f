// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Stockroom web server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build security primitives, metrics and the mail driver.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/HoangTuan-git/Product-Supplier-Management/internal/api"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/clock"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/config"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/constants"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/flash"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/mail"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/metrics"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/middleware"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/migration"
	pgstore "github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/postgres"
	redisstore "github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/redis"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/platform/sec"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/users/account"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/users/auth"
	"github.com/HoangTuan-git/Product-Supplier-Management/internal/web"
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

	log.Info("[Stockroom] service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
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
		slog.String("mail_driver", cfg.MailDriver),
	)

	// Root context for background workers (rate limiter sweeper).
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(appCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security, Metrics & Mail ───────────────────────────────────────
	systemClock := clock.System{}

	hasher, err := sec.NewPasswordHasher(cfg.BcryptCost, cfg.HashWorkers)
	must(log, err, "initialize password hasher")

	rememberSigner, err := sec.NewRememberMeSigner(cfg.RememberMeSecret, constants.AuthIssuer, cfg.RememberMeTTL, systemClock)
	must(log, err, "initialize remember-me signer")

	resetTokens := sec.NewResetTokenIssuer(cfg.ResetTokenTTL, systemClock)
	cookies := auth.NewCookies(sec.NewCookieSigner(cfg.SessionSecret), cfg.IsProduction(), cfg.SessionTTL, rememberSigner.TTL())

	registry := metrics.NewRegistry()
	authMetrics := metrics.NewMetrics(registry)

	notifier, closeNotifier, err := mail.New(cfg, log)
	must(log, err, "initialize mail driver")
	defer closeNotifier()

	renderer, err := web.NewTemplateRenderer()
	must(log, err, "parse templates")

	flashes := flash.NewStore(cfg.IsProduction())

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(rdb, cfg.SessionTTL)
	revocationRepository := auth.NewRevocationRepository(rdb, systemClock, rememberSigner.TTL())

	authService := auth.NewService(auth.ServiceConfig{
		Users:       userRepository,
		Sessions:    sessionRepository,
		Revocations: revocationRepository,
		Hasher:      hasher,
		ResetTokens: resetTokens,
		Remember:    rememberSigner,
		Notifier:    notifier,
		Metrics:     authMetrics,
		Clock:       systemClock,
		SessionTTL:  cfg.SessionTTL,
		BaseURL:     cfg.AppBaseURL,
	})

	resolver := auth.NewResolver(auth.ResolverConfig{
		Users:       userRepository,
		Sessions:    sessionRepository,
		Revocations: revocationRepository,
		Remember:    rememberSigner,
		Cookies:     cookies,
		Clock:       systemClock,
		SessionTTL:  cfg.SessionTTL,
	})

	credentialLimiter := middleware.NewRateLimiter(appCtx,
		constants.CredentialRateLimitRPS, constants.CredentialRateLimitBurst, cfg.TrustProxyHeaders, renderer)

	authHandler := auth.NewHandler(authService, renderer, flashes, cookies, credentialLimiter)
	accountHandler := account.NewHandler(account.NewService(userRepository, authService), renderer, flashes)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(cfg, log,
		api.Dependencies{
			Resolver: resolver,
			Renderer: renderer,
			Flashes:  flashes,
			Metrics:  authMetrics,
		},
		api.Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Metrics:   metrics.Handler(registry),
			Auth:      authHandler,
			Account:   accountHandler,
		},
	)

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
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
