// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog owns the live category tree and product collection for
// the admin. It applies user edits through the category package, enforces
// the delete policy, cascades renames into products, and persists each
// change before making it visible.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cheonwon/internal/category"
	"cheonwon/internal/models"
	"cheonwon/internal/store"
)

// Errors returned by Service in addition to the category package errors.
var (
	ErrPersist         = errors.New("changes could not be saved")
	ErrProductNotFound = errors.New("product not found")
)

// ChangeLogger records applied category changes. Logging is best-effort.
type ChangeLogger interface {
	Log(ctx context.Context, c models.CategoryChange)
}

// RenameOutcome describes an applied rename and its product cascade.
type RenameOutcome struct {
	Node            category.Node `json:"node"`
	OldValue        string        `json:"oldValue"`
	NewValue        string        `json:"newValue"`
	UpdatedProducts int           `json:"updatedProducts"`
}

// Service holds the admin's category tree and products. All methods are
// safe for concurrent use; mutations are serialized.
type Service struct {
	mu         sync.Mutex
	store      *store.CategoryStore
	changes    ChangeLogger
	seed       []category.Node
	now        func() time.Time
	tree       []category.Node
	products   []models.Product
	memoryOnly bool
}

// Option configures a Service.
type Option func(*Service)

// WithSeed sets the tree used when nothing is stored yet.
func WithSeed(tree []category.Node) Option {
	return func(s *Service) {
		if len(tree) > 0 {
			s.seed = category.NormalizeTree(tree)
		}
	}
}

// WithChangeLog records every applied change to l.
func WithChangeLog(l ChangeLogger) Option {
	return func(s *Service) { s.changes = l }
}

// WithClock overrides the time source used for product timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service persisting through st. Call Load before use.
func New(st *store.CategoryStore, opts ...Option) *Service {
	s := &Service{
		store:    st,
		seed:     category.DefaultTree(),
		now:      time.Now,
		tree:     []category.Node{},
		products: []models.Product{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the tree and products from storage, falling back to the seed
// tree and an empty product list. When storage cannot be read, or cannot
// accept the seed, the service keeps running in memory-only mode and never
// writes over what is stored.
func (s *Service) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { observeTree(s.tree, s.memoryOnly) }()

	s.memoryOnly = false
	products, productsErr := s.store.ReadProducts(ctx)
	tree, treeErr := s.store.ReadTree(ctx)

	s.products = products
	if s.products == nil {
		s.products = []models.Product{}
	}

	if err := errors.Join(treeErr, productsErr); err != nil {
		s.memoryOnly = true
		s.tree = tree
		if s.tree == nil {
			s.tree = category.Clone(s.seed)
		}
		slog.Warn("storage unreadable, categories will not be persisted this session", "error", err)
		return
	}

	if tree != nil {
		s.tree = tree
		slog.Info("category tree loaded", "nodes", len(category.Flatten(s.tree)), "products", len(s.products))
		return
	}

	s.tree = category.Clone(s.seed)
	if err := s.store.SaveTree(ctx, s.tree); err != nil {
		s.memoryOnly = true
		slog.Warn("storage unavailable, categories will not be persisted this session", "error", err)
		return
	}
	slog.Info("category tree seeded", "nodes", len(s.tree))
}

// SetMemoryOnly stops all persistence for the rest of the session.
func (s *Service) SetMemoryOnly() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memoryOnly = true
	observeTree(s.tree, s.memoryOnly)
}

// MemoryOnly reports whether changes are being kept in memory only.
func (s *Service) MemoryOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memoryOnly
}

// persist runs save unless the service is in memory-only mode.
func (s *Service) persist(save func() error) error {
	if s.memoryOnly {
		return nil
	}
	if err := save(); err != nil {
		slog.Error("persist category change failed", "error", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

func (s *Service) logChange(ctx context.Context, c models.CategoryChange) {
	if s.changes != nil {
		s.changes.Log(ctx, c)
	}
}

// Tree returns a copy of the current tree.
func (s *Service) Tree() []category.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return category.Clone(s.tree)
}

// Rows returns the category management table: every node in display
// order with its usage count and whether it may be deleted.
func (s *Service) Rows() []models.CategoryRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := category.Flatten(s.tree)
	counts := category.UsageCounts(paths, s.categoryValues())

	children := make(map[string]int, len(paths))
	for _, p := range paths {
		if p.Depth > 1 {
			children[p.PathIDs[p.Depth-2]]++
		}
	}

	rows := make([]models.CategoryRow, 0, len(paths))
	for _, p := range paths {
		childCount := children[p.ID]
		rows = append(rows, models.CategoryRow{
			Path:       p,
			ChildCount: childCount,
			Usage:      counts[p.ID],
			Deletable:  childCount == 0 && counts[p.ID] == 0,
		})
	}
	return rows
}

// UsageCounts returns the usage count of every node, keyed by id.
func (s *Service) UsageCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return category.UsageCounts(category.Flatten(s.tree), s.categoryValues())
}

func (s *Service) categoryValues() []string {
	values := make([]string, 0, len(s.products))
	for _, p := range s.products {
		values = append(values, p.Category)
	}
	return values
}

// Add creates a category named name under the node reached by
// parentPathIDs (the top level when empty).
func (s *Service) Add(ctx context.Context, parentPathIDs []string, name string) (_ category.Node, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { recordChange(models.CategoryChangeCreate, err) }()

	tree, node, err := category.Insert(s.tree, parentPathIDs, name)
	if err != nil {
		return category.Node{}, err
	}
	if err := s.persist(func() error { return s.store.SaveTree(ctx, tree) }); err != nil {
		return category.Node{}, err
	}
	s.tree = tree
	observeTree(s.tree, s.memoryOnly)

	path, _ := category.Find(tree, node.ID)
	slog.Info("category added", "id", node.ID, "path", path.Value)
	s.logChange(ctx, models.CategoryChange{
		Action:   models.CategoryChangeCreate,
		NodeID:   node.ID,
		NewValue: path.Value,
	})
	return node, nil
}

// Rename renames a category and rewrites the category of every product
// filed under it or one of its descendants. The tree and the rewritten
// products are saved together; if saving fails neither changes.
func (s *Service) Rename(ctx context.Context, nodeID, newName string) (_ RenameOutcome, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { recordChange(models.CategoryChangeRename, err) }()

	res, err := category.Rename(s.tree, nodeID, newName)
	if err != nil {
		return RenameOutcome{}, err
	}
	out := RenameOutcome{Node: res.Node, OldValue: res.OldValue, NewValue: res.NewValue}
	if !res.Changed() {
		return out, nil
	}

	now := s.now()
	products := slices.Clone(s.products)
	for i := range products {
		if value, ok := category.CascadeRename(products[i].Category, res.OldValue, res.NewValue); ok {
			products[i].Category = value
			products[i].UpdatedAt = now
			out.UpdatedProducts++
		}
	}

	err = s.persist(func() error {
		if out.UpdatedProducts == 0 {
			return s.store.SaveTree(ctx, res.Tree)
		}
		return s.store.SaveAll(ctx, res.Tree, products)
	})
	if err != nil {
		return RenameOutcome{}, err
	}
	s.tree = res.Tree
	s.products = products
	renameCascade.Observe(float64(out.UpdatedProducts))

	slog.Info("category renamed",
		"id", nodeID,
		"from", res.OldValue,
		"to", res.NewValue,
		"products_updated", out.UpdatedProducts,
	)
	s.logChange(ctx, models.CategoryChange{
		Action:          models.CategoryChangeRename,
		NodeID:          nodeID,
		OldValue:        res.OldValue,
		NewValue:        res.NewValue,
		ProductsUpdated: out.UpdatedProducts,
	})
	return out, nil
}

// Delete removes a category. It is rejected with category.ErrHasChildren
// or category.ErrInUse unless the node is a leaf no product references.
func (s *Service) Delete(ctx context.Context, nodeID string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { recordChange(models.CategoryChangeDelete, err) }()

	counts := category.UsageCounts(category.Flatten(s.tree), s.categoryValues())
	if err := category.CheckDelete(s.tree, nodeID, counts); err != nil {
		return err
	}

	path, _ := category.Find(s.tree, nodeID)
	tree := category.Delete(s.tree, nodeID)
	if err := s.persist(func() error { return s.store.SaveTree(ctx, tree) }); err != nil {
		return err
	}
	s.tree = tree
	observeTree(s.tree, s.memoryOnly)

	slog.Info("category deleted", "id", nodeID, "path", path.Value)
	s.logChange(ctx, models.CategoryChange{
		Action:   models.CategoryChangeDelete,
		NodeID:   nodeID,
		OldValue: path.Value,
	})
	return nil
}

// Picker returns the cascading picker state for a stored category value.
func (s *Service) Picker(value string) category.PickerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return category.Picker(s.tree, value)
}

// PickerForIDs returns the picker state for an explicit selection.
func (s *Service) PickerForIDs(pathIDs []string) category.PickerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return category.PickerForIDs(s.tree, pathIDs)
}

// Resolve maps a stored category value to its id chain and names.
func (s *Service) Resolve(value string) (pathIDs, pathNames []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pathIDs = category.PathIDsByValue(s.tree, value)
	if pathIDs == nil {
		pathIDs = []string{}
	}
	return pathIDs, category.PathNamesByIDs(s.tree, pathIDs)
}

// Products returns a copy of every product.
func (s *Service) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

// Product returns the product with the given id.
func (s *Service) Product(id string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return models.Product{}, false
	}
	return s.products[i], true
}

func (s *Service) productIndex(id string) int {
	return slices.IndexFunc(s.products, func(p models.Product) bool { return p.ID == id })
}

// SaveProduct creates p when its id is empty or unknown, and replaces the
// existing product otherwise. The category value is stored as given.
func (s *Service) SaveProduct(ctx context.Context, p models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Status == "" {
		p.Status = models.ProductStatusOnSale
	}
	p.UpdatedAt = now

	products := slices.Clone(s.products)
	if i := s.productIndex(p.ID); p.ID != "" && i >= 0 {
		p.CreatedAt = products[i].CreatedAt
		products[i] = p
	} else {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.CreatedAt = now
		products = append(products, p)
	}

	if err := s.persist(func() error { return s.store.SaveProducts(ctx, products) }); err != nil {
		return models.Product{}, err
	}
	s.products = products
	return p, nil
}

// DeleteProduct removes the product with the given id.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return ErrProductNotFound
	}
	products := slices.Delete(slices.Clone(s.products), i, i+1)

	if err := s.persist(func() error { return s.store.SaveProducts(ctx, products) }); err != nil {
		return err
	}
	s.products = products
	return nil
}
