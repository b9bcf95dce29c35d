// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists admin state. Values are opaque JSON documents kept
// under fixed keys in a KV backend (PostgreSQL, Valkey, or memory), and
// CategoryStore layers the category tree and product collection on top.
package store

import (
	"context"
	"maps"
	"sync"
)

// KV is a minimal document store. Get returns (nil, nil) when the key is
// absent. SetMany writes all entries atomically: either every value is
// stored or none is.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetMany(ctx context.Context, entries map[string][]byte) error
}

// MemoryKV is an in-process KV. It backs tests and the memory-only mode
// used when no persistent backend is available.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// SetMany stores every entry under a single lock.
func (m *MemoryKV) SetMany(_ context.Context, entries map[string][]byte) error {
	copied := make(map[string][]byte, len(entries))
	for k, v := range entries {
		copied[k] = append([]byte(nil), v...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	maps.Copy(m.data, copied)
	return nil
}
