package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"postcurator/internal/cache"
	"postcurator/internal/curation"
	"postcurator/internal/database"
	"postcurator/internal/handlers"
	"postcurator/internal/metrics"
	"postcurator/internal/middleware"
	"postcurator/internal/router"
	"postcurator/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Connects to PostgreSQL, applies pending migrations, seeds the default
category tree in development and serves the API until SIGINT or SIGTERM.
Valkey is optional; without it category views are rebuilt on every request.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	m := metrics.New()
	checks := map[string]handlers.Check{"postgres": db.PingContext}

	// Valkey is optional. Keep both interfaces nil when it is down.
	var (
		views    curation.ViewCache
		resetter viewResetter
	)
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, view cache disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		vc := cache.NewViewCache(valkeyClient, cfg.CacheTTL)
		views, resetter = vc, vc
		checks["valkey"] = func(ctx context.Context) error {
			return valkeyClient.Ping(ctx).Err()
		}
	}

	// Seed the default tree (no-op if categories already exist).
	if cfg.IsDev() {
		nodes, err := database.LoadCategoryTree(cfg.CategoriesFile)
		if err != nil {
			return err
		}
		created, err := database.SeedCategories(cmd.Context(), db, nodes)
		if err != nil {
			return err
		}
		resetViews(cmd.Context(), created, resetter)
	}

	svc := curation.New(
		store.NewCategoryStore(db),
		store.NewPostStore(db),
		store.NewTxManager(db),
		views,
		m,
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	r := router.New(router.Options{
		API:         handlers.NewAPI(svc),
		Health:      handlers.Health(checks),
		Metrics:     m.Handler(),
		Observer:    m,
		RateLimiter: limiter,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
