// Copyright (c) 2026 Polyglot. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Polyglot HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration and parse the locale scheme.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build the scope index and register term filters.
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

	"github.com/taibuivan/polyglot/internal/api"
	"github.com/taibuivan/polyglot/internal/content"
	"github.com/taibuivan/polyglot/internal/editor"
	"github.com/taibuivan/polyglot/internal/hook"
	"github.com/taibuivan/polyglot/internal/locale"
	"github.com/taibuivan/polyglot/internal/meta"
	"github.com/taibuivan/polyglot/internal/platform/config"
	"github.com/taibuivan/polyglot/internal/platform/constants"
	"github.com/taibuivan/polyglot/internal/platform/migration"
	"github.com/taibuivan/polyglot/internal/platform/nonce"
	pgstore "github.com/taibuivan/polyglot/internal/platform/postgres"
	redisstore "github.com/taibuivan/polyglot/internal/platform/redis"
	"github.com/taibuivan/polyglot/internal/platform/sec"
	"github.com/taibuivan/polyglot/internal/term"
	"github.com/taibuivan/polyglot/internal/termfilter"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "polyglot"))
	slog.SetDefault(log)

	log.Info("[Polyglot] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "polyglot"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	// The locale scheme is immutable after parsing and is passed to every
	// component that needs it. There is no global locale state.
	scheme, err := locale.ParseVariables(cfg.LocaleVariables)
	must(log, err, "parse locale variables")

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("default_locale", string(scheme.DefaultKey())),
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

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
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
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckTokenStore: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Registries & Scope Index ───────────────────────────────────────
	postTypes := content.NewRegistry()
	postTypes.AddPostType("post", content.Labels{Singular: "Post", Plural: "Posts"})
	postTypes.AddPostType("page", content.Labels{Singular: "Page", Plural: "Pages"})

	taxonomies := term.NewRegistry()
	taxonomies.Register("category", term.Capabilities{
		Singular:        true,
		DefaultSingular: true,
		Description:     true,
	})
	// Each locale variable is backed by a taxonomy of the same name whose
	// terms are its slugs. Their display names are localizable too.
	for _, variable := range scheme.Variables() {
		taxonomies.Register(variable.Name, term.Capabilities{})
	}

	termRepository := term.NewPostgresRepository(pool)
	scopeIndex, err := term.NewScopeIndex(startupCtx, termRepository, scheme, log)
	must(log, err, "build scope index")

	// Every registered post type is restricted to the active locale's scope
	// terms; the empty slot covers cross-type search.
	filter := termfilter.NewFilter()
	for _, postType := range postTypes.Types() {
		filter.Register(postType, scopeIndex.Supplier())
	}
	filter.Register("", scopeIndex.Supplier())

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	hooks := hook.NewBus()
	nonces := nonce.NewService(rdb)
	counter := termfilter.NewCounter(pool)

	postMeta := meta.NewPostMetaRepository(pool)
	termMeta := meta.NewTermMetaRepository(pool)

	contentRepository := content.NewPostgresRepository(pool, filter)
	contentService := content.NewService(contentRepository, postMeta, scheme, postTypes, hooks, nonces, counter, log)
	contentHandler := content.NewHandler(contentService)

	termService := term.NewService(termRepository, termMeta, scheme, taxonomies, nonces, log)
	termHandler := term.NewHandler(termService)

	editorRepository := editor.NewPostgresRepository(pool)
	editorService := editor.NewService(editorRepository, jwtSvc, log)
	editorHandler := editor.NewHandler(editorService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Editor:    editorHandler,
		Content:   contentHandler,
		Term:      termHandler,
	}

	server := api.NewServer(context.Background(), cfg, log, scheme, jwtSvc, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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
