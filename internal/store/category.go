// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"cheonwon/internal/category"
	"cheonwon/internal/models"
)

// Storage keys. They match the keys the storefront admin has always used,
// so previously persisted data keeps loading.
const (
	TreeKey     = "categories"
	ProductsKey = "products"
)

// CategoryStore persists the category tree and the product collection.
// Missing or corrupt data reads as nil so callers fall back to defaults.
type CategoryStore struct {
	kv KV
}

// NewCategoryStore returns a new CategoryStore backed by kv.
func NewCategoryStore(kv KV) *CategoryStore {
	return &CategoryStore{kv: kv}
}

// ErrUnreadable is returned by ReadTree and ReadProducts when the backend
// could not be read. It is distinct from "nothing stored": callers must not
// write defaults over data they failed to read.
var ErrUnreadable = errors.New("stored state could not be read")

// ReadTree returns the persisted tree, migrating the legacy flat format if
// needed. It returns (nil, nil) when nothing usable is stored, including
// when the stored tree normalizes to zero nodes, and ErrUnreadable when
// the backend fails.
func (s *CategoryStore) ReadTree(ctx context.Context) ([]category.Node, error) {
	data, err := s.kv.Get(ctx, TreeKey)
	if err != nil {
		return nil, fmt.Errorf("%w: category tree: %v", ErrUnreadable, err)
	}
	if data == nil {
		return nil, nil
	}

	decoded := category.Decode(data)
	switch decoded.Kind {
	case category.KindUnrecognized:
		slog.Warn("stored category tree is unreadable, ignoring", "bytes", len(data))
		return nil, nil
	case category.KindMigrated:
		slog.Info("migrated legacy category list", "nodes", len(decoded.Nodes))
	}

	if len(decoded.Nodes) == 0 {
		return nil, nil
	}
	return decoded.Nodes, nil
}

// LoadTree is ReadTree with backend failures logged and reported as nil.
func (s *CategoryStore) LoadTree(ctx context.Context) []category.Node {
	tree, err := s.ReadTree(ctx)
	if err != nil {
		slog.Warn("load category tree failed", "error", err)
		return nil
	}
	return tree
}

// SaveTree normalizes and stores the tree.
func (s *CategoryStore) SaveTree(ctx context.Context, tree []category.Node) error {
	data, err := encodeTree(tree)
	if err != nil {
		return err
	}
	if err := s.kv.SetMany(ctx, map[string][]byte{TreeKey: data}); err != nil {
		return fmt.Errorf("save category tree: %w", err)
	}
	return nil
}

// ReadProducts returns the persisted products. It returns (nil, nil) when
// none are stored or the stored data is corrupt, and ErrUnreadable when
// the backend fails.
func (s *CategoryStore) ReadProducts(ctx context.Context) ([]models.Product, error) {
	data, err := s.kv.Get(ctx, ProductsKey)
	if err != nil {
		return nil, fmt.Errorf("%w: products: %v", ErrUnreadable, err)
	}
	if data == nil {
		return nil, nil
	}

	products, err := models.DecodeProducts(data)
	if err != nil {
		slog.Warn("stored products are unreadable, ignoring", "error", err)
		return nil, nil
	}
	return products, nil
}

// LoadProducts is ReadProducts with backend failures logged and reported
// as nil.
func (s *CategoryStore) LoadProducts(ctx context.Context) []models.Product {
	products, err := s.ReadProducts(ctx)
	if err != nil {
		slog.Warn("load products failed", "error", err)
		return nil
	}
	return products
}

// SaveProducts replaces the stored product collection.
func (s *CategoryStore) SaveProducts(ctx context.Context, products []models.Product) error {
	data, err := encodeProducts(products)
	if err != nil {
		return err
	}
	if err := s.kv.SetMany(ctx, map[string][]byte{ProductsKey: data}); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	return nil
}

// SaveAll stores the tree and the products together in one atomic write.
// Used by category renames, whose cascade touches both.
func (s *CategoryStore) SaveAll(ctx context.Context, tree []category.Node, products []models.Product) error {
	treeData, err := encodeTree(tree)
	if err != nil {
		return err
	}
	productData, err := encodeProducts(products)
	if err != nil {
		return err
	}

	err = s.kv.SetMany(ctx, map[string][]byte{
		TreeKey:     treeData,
		ProductsKey: productData,
	})
	if err != nil {
		return fmt.Errorf("save categories and products: %w", err)
	}
	return nil
}

func encodeTree(tree []category.Node) ([]byte, error) {
	data, err := json.Marshal(category.NormalizeTree(tree))
	if err != nil {
		return nil, fmt.Errorf("encode category tree: %w", err)
	}
	return data, nil
}

func encodeProducts(products []models.Product) ([]byte, error) {
	if products == nil {
		products = []models.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("encode products: %w", err)
	}
	return data, nil
}
