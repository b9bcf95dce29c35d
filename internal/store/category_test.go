// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cheonwon/internal/category"
	"cheonwon/internal/models"
)

// failingKV is a KV whose every operation fails.
type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("storage unavailable")
}

func (failingKV) SetMany(context.Context, map[string][]byte) error {
	return errors.New("storage unavailable")
}

func seedKV(t *testing.T, key, value string) *MemoryKV {
	t.Helper()
	kv := NewMemoryKV()
	require.NoError(t, kv.SetMany(context.Background(), map[string][]byte{key: []byte(value)}))
	return kv
}

func TestCategoryStore_LoadTree(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		kv        KV
		wantNames []string
	}{
		{name: "absent", kv: NewMemoryKV(), wantNames: nil},
		{name: "legacy", kv: seedKV(t, TreeKey, `["차량용품", "뷰티"]`), wantNames: []string{"차량용품", "뷰티"}},
		{name: "canonical", kv: seedKV(t, TreeKey, `[{"id":"a","name":"생활용품","children":[]}]`), wantNames: []string{"생활용품"}},
		{name: "empty array", kv: seedKV(t, TreeKey, `[]`), wantNames: nil},
		{name: "all invalid", kv: seedKV(t, TreeKey, `[{"name":""},{"id":"x"}]`), wantNames: nil},
		{name: "corrupt json", kv: seedKV(t, TreeKey, `[{"name":`), wantNames: nil},
		{name: "wrong shape", kv: seedKV(t, TreeKey, `{"name":"A"}`), wantNames: nil},
		{name: "io failure", kv: failingKV{}, wantNames: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := NewCategoryStore(tt.kv).LoadTree(ctx)
			if tt.wantNames == nil {
				assert.Nil(t, tree)
				return
			}
			var names []string
			for _, n := range tree {
				names = append(names, n.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestCategoryStore_SaveTreeNormalizes(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewCategoryStore(kv)

	dirty := []category.Node{
		{ID: "a", Name: " 차량용품 "},
		{ID: "b", Name: "차량용품"},
		{Name: ""},
		{ID: "c", Name: "생활용품", Children: []category.Node{
			{ID: "d", Name: "욕실", Children: []category.Node{
				{ID: "e", Name: "수건", Children: []category.Node{
					{ID: "f", Name: "호텔수건", Children: []category.Node{
						{ID: "g", Name: "too deep"},
					}},
				}},
			}},
		}},
	}
	require.NoError(t, s.SaveTree(ctx, dirty))

	raw, err := kv.Get(ctx, TreeKey)
	require.NoError(t, err)

	var stored []category.Node
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, "차량용품", stored[0].Name)
	assert.Equal(t, "a", stored[0].ID)
	assert.NotContains(t, string(raw), "too deep")

	assert.Equal(t, stored, s.LoadTree(ctx))
}

func TestCategoryStore_Products(t *testing.T) {
	ctx := context.Background()
	s := NewCategoryStore(NewMemoryKV())

	assert.Nil(t, s.LoadProducts(ctx))

	products := []models.Product{
		{ID: "p1", Name: "방향제", Category: "차량용품 > 방향제", Images: []string{}, Tags: []string{}, Status: models.ProductStatusOnSale},
	}
	require.NoError(t, s.SaveProducts(ctx, products))
	assert.Equal(t, products, s.LoadProducts(ctx))

	require.NoError(t, s.SaveProducts(ctx, nil))
	got := s.LoadProducts(ctx)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCategoryStore_LoadProductsCorrupt(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, NewCategoryStore(seedKV(t, ProductsKey, `{"oops"`)).LoadProducts(ctx))
	assert.Nil(t, NewCategoryStore(failingKV{}).LoadProducts(ctx))
}

func TestCategoryStore_ReadDistinguishesFailure(t *testing.T) {
	ctx := context.Background()

	tree, err := NewCategoryStore(failingKV{}).ReadTree(ctx)
	assert.ErrorIs(t, err, ErrUnreadable)
	assert.Nil(t, tree)

	products, err := NewCategoryStore(failingKV{}).ReadProducts(ctx)
	assert.ErrorIs(t, err, ErrUnreadable)
	assert.Nil(t, products)

	empty := NewCategoryStore(NewMemoryKV())
	tree, err = empty.ReadTree(ctx)
	assert.NoError(t, err)
	assert.Nil(t, tree)
	products, err = empty.ReadProducts(ctx)
	assert.NoError(t, err)
	assert.Nil(t, products)

	corrupt := NewCategoryStore(seedKV(t, ProductsKey, `{"oops"`))
	products, err = corrupt.ReadProducts(ctx)
	assert.NoError(t, err, "corrupt data is not a read failure")
	assert.Nil(t, products)
}

func TestCategoryStore_SaveAll(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewCategoryStore(kv)

	tree := category.DefaultTree()
	products := []models.Product{{ID: "p1", Category: "뷰티", Images: []string{}, Tags: []string{}, Status: models.ProductStatusOnSale}}
	require.NoError(t, s.SaveAll(ctx, tree, products))

	assert.Equal(t, tree, s.LoadTree(ctx))
	assert.Equal(t, products, s.LoadProducts(ctx))

	err := NewCategoryStore(failingKV{}).SaveAll(ctx, tree, products)
	assert.Error(t, err)
}
