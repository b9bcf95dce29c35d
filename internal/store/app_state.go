// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// AppStateStore is a KV backed by the app_state table in PostgreSQL.
type AppStateStore struct {
	db *sql.DB
}

// NewAppStateStore returns a new AppStateStore backed by the given database.
func NewAppStateStore(db *sql.DB) *AppStateStore {
	return &AppStateStore{db: db}
}

// Get returns the document stored under key, or nil if there is none.
func (s *AppStateStore) Get(ctx context.Context, key string) ([]byte, error) {
	var val []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = $1`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get app state %q: %w", key, err)
	}
	return val, nil
}

// SetMany upserts multiple documents in a single transaction.
func (s *AppStateStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("prepare app state upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for k, v := range entries {
		if _, err := stmt.ExecContext(ctx, k, v, now); err != nil {
			return fmt.Errorf("set app state %q: %w", k, err)
		}
	}

	return tx.Commit()
}
