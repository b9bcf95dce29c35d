// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package backend opens the storage selected by configuration and builds
// the catalog service on top of it. The server and the CLI share it.
package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"cheonwon/internal/cache"
	"cheonwon/internal/catalog"
	"cheonwon/internal/config"
	"cheonwon/internal/database"
	"cheonwon/internal/store"
)

// Backend is an open storage backend.
type Backend struct {
	// KV holds the category tree and the products.
	KV store.KV
	// ChangeLog is set only for the postgres backend.
	ChangeLog *store.ChangeLogStore

	db       *sql.DB
	valkey   *redis.Client
	degraded bool
}

// Open connects to the backend named by cfg.StoreBackend. For postgres it
// also applies migrations and, in development, seeds demo products.
func Open(cfg *config.Config) (*Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		if cfg.IsDev() {
			if err := database.Seed(db); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &Backend{
			KV:        store.NewAppStateStore(db),
			ChangeLog: store.NewChangeLogStore(db),
			db:        db,
		}, nil

	case config.BackendValkey:
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			return nil, err
		}
		return &Backend{
			KV:     cache.NewStateStore(client, cfg.ValkeyPrefix),
			valkey: client,
		}, nil

	case config.BackendMemory:
		slog.Warn("using in-memory storage, changes are lost on exit")
		return &Backend{KV: store.NewMemoryKV()}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// OpenOrMemory is Open for the long-running server: when the configured
// backend cannot be reached it logs a warning and returns a degraded
// in-memory backend instead of failing, so the admin still starts with
// the seed tree. Only an unknown backend name is an error.
func OpenOrMemory(cfg *config.Config) (*Backend, error) {
	b, err := Open(cfg)
	if err == nil {
		return b, nil
	}
	switch cfg.StoreBackend {
	case config.BackendPostgres, config.BackendValkey:
	default:
		return nil, err
	}
	slog.Warn("storage unreachable, running without persistence",
		"backend", cfg.StoreBackend,
		"error", err,
	)
	return &Backend{KV: store.NewMemoryKV(), degraded: true}, nil
}

// Degraded reports whether the configured backend could not be opened
// and the backend is standing in for it in memory.
func (b *Backend) Degraded() bool {
	return b.degraded
}

// Catalog builds a catalog service over the backend and loads its state.
// A service on a degraded backend is memory-only.
func (b *Backend) Catalog(ctx context.Context, opts ...catalog.Option) *catalog.Service {
	if b.ChangeLog != nil {
		opts = append(opts, catalog.WithChangeLog(b.ChangeLog))
	}
	svc := catalog.New(store.NewCategoryStore(b.KV), opts...)
	svc.Load(ctx)
	if b.degraded {
		svc.SetMemoryOnly()
	}
	return svc
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	var errs []error
	if b.db != nil {
		errs = append(errs, b.db.Close())
	}
	if b.valkey != nil {
		errs = append(errs, b.valkey.Close())
	}
	return errors.Join(errs...)
}
