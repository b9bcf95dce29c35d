// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// state.go stores admin state documents (the category tree, the product
// collection) in Valkey. Multi-key writes go through MULTI/EXEC so a
// category rename and its product cascade land together.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultStatePrefix is the Valkey key prefix for admin state documents.
const DefaultStatePrefix = "cheonwon:"

// StateStore is a document store backed by Valkey. Documents never expire.
type StateStore struct {
	client *redis.Client
	prefix string
}

// NewStateStore creates a state store backed by the given Valkey client.
func NewStateStore(client *redis.Client, prefix string) *StateStore {
	if prefix == "" {
		prefix = DefaultStatePrefix
	}
	return &StateStore{client: client, prefix: prefix}
}

// Get returns the document stored under key, or nil on a miss.
func (s *StateStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("valkey get %q: %w", key, err)
	}
	return val, nil
}

// SetMany writes every entry in a single MULTI/EXEC transaction.
func (s *StateStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, s.prefix+k, v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("valkey set %d keys: %w", len(entries), err)
	}
	return nil
}
