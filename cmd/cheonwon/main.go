// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the 천원마켓 admin API server.
// It loads configuration, opens the configured storage, sets up routing,
// and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cheonwon/internal/backend"
	"cheonwon/internal/catalog"
	"cheonwon/internal/config"
	"cheonwon/internal/handlers"
	"cheonwon/internal/middleware"
	"cheonwon/internal/router"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBackend,
	)

	// The initial tree is only used when storage holds none.
	seed, err := config.LoadSeedTree(cfg.CategorySeedFile)
	if err != nil {
		slog.Error("failed to load category seed", "error", err)
		os.Exit(1)
	}

	b, err := backend.OpenOrMemory(cfg)
	if err != nil {
		slog.Error("failed to open storage", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer b.Close()

	svc := b.Catalog(context.Background(), catalog.WithSeed(seed))
	if svc.MemoryOnly() {
		slog.Warn("running in memory-only mode")
	}

	var changes handlers.ChangeLister
	if b.ChangeLog != nil {
		changes = b.ChangeLog
	}
	admin := handlers.NewAdmin(svc, changes)

	opts := router.Options{}
	if cfg.AdminTokenHash != "" {
		opts.Auth = middleware.NewTokenAuth(cfg.AdminTokenHash)
	} else {
		slog.Warn("ADMIN_TOKEN_HASH not set, admin API is unauthenticated")
	}
	if cfg.WriteRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.WriteRateLimit, time.Minute, cfg.TrustedProxies...)
		defer limiter.Stop()
		opts.Limiter = limiter
	}

	r := router.New(admin, opts)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
