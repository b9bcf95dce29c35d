// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// change_log.go records category tree changes in the database for audit
// purposes. Each entry captures what changed, the path before and after,
// and how many products a rename rewrote.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"cheonwon/internal/models"
)

// ChangeLogStore handles category change log operations.
type ChangeLogStore struct {
	db *sql.DB
}

// NewChangeLogStore creates a new ChangeLogStore.
func NewChangeLogStore(db *sql.DB) *ChangeLogStore {
	return &ChangeLogStore{db: db}
}

// Log records a category change.
func (s *ChangeLogStore) Log(ctx context.Context, c models.CategoryChange) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_change_log (action, node_id, old_value, new_value, products_updated)
		VALUES ($1, $2, $3, $4, $5)
	`, c.Action, c.NodeID, c.OldValue, c.NewValue, c.ProductsUpdated)
	if err != nil {
		// The change itself is already persisted.
		slog.Warn("failed to log category change",
			"action", c.Action,
			"node_id", c.NodeID,
			"error", err,
		)
		return
	}
	slog.Debug("category change logged",
		"action", c.Action,
		"node_id", c.NodeID,
	)
}

// Recent returns the most recent changes, newest first.
func (s *ChangeLogStore) Recent(ctx context.Context, limit int) ([]models.CategoryChange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, node_id, old_value, new_value, products_updated, created_at
		FROM category_change_log
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list category changes: %w", err)
	}
	defer rows.Close()

	var items []models.CategoryChange
	for rows.Next() {
		var c models.CategoryChange
		if err := rows.Scan(&c.ID, &c.Action, &c.NodeID, &c.OldValue, &c.NewValue, &c.ProductsUpdated, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category change: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
