// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Crystalbox HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire repositories, services and HTTP handlers.
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

	"github.com/taibuivan/crystalbox/internal/api"
	"github.com/taibuivan/crystalbox/internal/core/crystal"
	"github.com/taibuivan/crystalbox/internal/core/prebuild"
	"github.com/taibuivan/crystalbox/internal/core/reference"
	"github.com/taibuivan/crystalbox/internal/core/shipment"
	"github.com/taibuivan/crystalbox/internal/core/subscription"
	"github.com/taibuivan/crystalbox/internal/platform/config"
	"github.com/taibuivan/crystalbox/internal/platform/constants"
	"github.com/taibuivan/crystalbox/internal/platform/migration"
	pgstore "github.com/taibuivan/crystalbox/internal/platform/postgres"
	redisstore "github.com/taibuivan/crystalbox/internal/platform/redis"
	"github.com/taibuivan/crystalbox/internal/platform/sec"
	"github.com/taibuivan/crystalbox/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

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
		slog.Bool("lookback_month_wide", cfg.Recommendation.MonthWideLookback),
		slog.Bool("conflict_scope_subscription", cfg.Recommendation.ConflictScopeSubscription),
	)

	// Startup deadline so misconfiguration fails fast.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.Database.URL, log)
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
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.Database.URL, cfg.Database.MigrationPath, log), "run migrations")

	// ── 6. Auth ───────────────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	authService := auth.NewService(auth.NewUserRepository(pool), jwtSvc, cfg.AccessTokenTTL, log)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	// Order matters: history needs cycle lengths, suggestions need history
	// and reservations, smart-check needs crystals, history and subscriptions.
	rec := cfg.Recommendation

	subscriptionRepository := subscription.NewCachedRepository(
		subscription.NewPostgresRepository(pool), rdb, cfg.SubscriptionCacheTTL, log,
	)
	subscriptionService := subscription.NewService(subscriptionRepository, rec.DefaultCycleLength, log)

	shipmentService := shipment.NewService(shipment.NewPostgresRepository(pool), subscriptionService, shipment.LookbackSettings{
		DefaultDepth: rec.DefaultLookbackDepth,
		MaxDepth:     rec.MaxLookbackDepth,
		MonthWide:    rec.MonthWideLookback,
	}, log)

	prebuildRepository := prebuild.NewPostgresRepository(pool)
	reservations := prebuild.NewReservations(prebuildRepository, log)

	crystalService := crystal.NewService(crystal.NewPostgresRepository(pool), shipmentService, reservations, log)

	prebuildService := prebuild.NewService(prebuildRepository, crystalService, shipmentService, subscriptionService, prebuild.Settings{
		Concurrency: rec.SmartCheckConcurrency,
		Conflicts:   prebuild.ConflictOptions{ScopeBySubscription: rec.ConflictScopeSubscription},
	}, log)

	referenceService := reference.NewService(reference.NewPostgresRepository(pool), log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Auth:         auth.NewHandler(authService),
		Crystal:      crystal.NewHandler(crystalService),
		PreBuild:     prebuild.NewHandler(prebuildService),
		Shipment:     shipment.NewHandler(shipmentService),
		Subscription: subscription.NewHandler(subscriptionService),
		Reference:    reference.NewHandler(referenceService),
	})

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
		log.Error("server_startup_failed", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("server_shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
