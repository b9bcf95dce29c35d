// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against an in-memory store behind a chi router laid out
// like the production one.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"cheonwon/internal/catalog"
	"cheonwon/internal/category"
	"cheonwon/internal/models"
	"cheonwon/internal/store"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// flakyKV fails writes while failWrites is set.
type flakyKV struct {
	*store.MemoryKV
	failWrites bool
}

func (f *flakyKV) SetMany(ctx context.Context, entries map[string][]byte) error {
	if f.failWrites {
		return errors.New("write failed")
	}
	return f.MemoryKV.SetMany(ctx, entries)
}

// fakeChanges is an in-memory ChangeLister.
type fakeChanges struct {
	changes []models.CategoryChange
	err     error
	limit   int
}

func (f *fakeChanges) Recent(_ context.Context, limit int) ([]models.CategoryChange, error) {
	f.limit = limit
	return f.changes, f.err
}

// testEnv bundles the handler under test with its backing state.
type testEnv struct {
	router chi.Router
	svc    *catalog.Service
	kv     *flakyKV
}

// sampleTree is 차량용품 > 방향제 > 고체형, plus 생활용품.
func sampleTree() []category.Node {
	return []category.Node{
		{ID: "car", Name: "차량용품", Children: []category.Node{
			{ID: "fragrance", Name: "방향제", Children: []category.Node{
				{ID: "solid", Name: "고체형", Children: []category.Node{}},
			}},
		}},
		{ID: "living", Name: "생활용품", Children: []category.Node{}},
	}
}

func sampleProduct(id, cat string) models.Product {
	return models.Product{
		ID: id, Name: "상품 " + id, Price: 1000, OriginalPrice: 2000, Stock: 3,
		Category: cat, Images: []string{}, Tags: []string{}, Status: models.ProductStatusOnSale,
		CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}
}

func newTestEnv(t *testing.T, changes ChangeLister, products ...models.Product) *testEnv {
	t.Helper()
	ctx := context.Background()

	kv := &flakyKV{MemoryKV: store.NewMemoryKV()}
	st := store.NewCategoryStore(kv)
	require.NoError(t, st.SaveAll(ctx, sampleTree(), products))

	svc := catalog.New(st, catalog.WithClock(func() time.Time { return fixedNow }))
	svc.Load(ctx)

	admin := NewAdmin(svc, changes)
	r := chi.NewRouter()
	r.Route("/admin", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", admin.CategoriesList)
			r.Post("/", admin.CategoryCreate)
			r.Get("/tree", admin.CategoriesTree)
			r.Get("/picker", admin.CategoryPicker)
			r.Get("/resolve", admin.CategoryResolve)
			r.Get("/changes", admin.CategoryChanges)
			r.Put("/{id}", admin.CategoryRename)
			r.Delete("/{id}", admin.CategoryDelete)
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", admin.ProductsList)
			r.Post("/", admin.ProductCreate)
			r.Get("/{id}", admin.ProductGet)
			r.Put("/{id}", admin.ProductUpdate)
			r.Delete("/{id}", admin.ProductDelete)
		})
	})

	return &testEnv{router: r, svc: svc, kv: kv}
}

// do sends a request with an optional JSON body. A string body is sent
// verbatim; anything else is marshaled.
func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a recorded JSON response into T.
func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}
