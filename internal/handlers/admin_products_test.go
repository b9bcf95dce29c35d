// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cheonwon/internal/models"
)

func TestProductsList(t *testing.T) {
	env := newTestEnv(t, nil,
		sampleProduct("p1", "차량용품 > 방향제"),
		sampleProduct("p2", "차량용품"),
		sampleProduct("p3", "차량용품세트"),
		sampleProduct("p4", ""),
	)

	t.Run("all", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/admin/products", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decode[[]models.Product](t, rr), 4)
	})

	t.Run("filtered by category subtree", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/admin/products?category=%EC%B0%A8%EB%9F%89%EC%9A%A9%ED%92%88", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var ids []string
		for _, p := range decode[[]models.Product](t, rr) {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"p1", "p2"}, ids)
	})
}

func TestProductResponses_SaleFlags(t *testing.T) {
	soldOut := sampleProduct("p2", "생활용품")
	soldOut.Stock = 0
	env := newTestEnv(t, nil, sampleProduct("p1", "생활용품"), soldOut)

	rr := env.do(t, http.MethodGet, "/admin/products/p1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, true, body["onSale"])
	assert.Equal(t, float64(50), body["discountRate"])
	assert.Equal(t, "p1", body["id"])

	rr = env.do(t, http.MethodGet, "/admin/products", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]map[string]any](t, rr)
	require.Len(t, list, 2)
	assert.Equal(t, false, list[1]["onSale"])
}

func TestProductGet(t *testing.T) {
	env := newTestEnv(t, nil, sampleProduct("p1", "생활용품"))

	rr := env.do(t, http.MethodGet, "/admin/products/p1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "생활용품", decode[models.Product](t, rr).Category)

	rr = env.do(t, http.MethodGet, "/admin/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProductCreate(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodPost, "/admin/products", map[string]any{
		"id":            "client-chosen",
		"name":          " <b>세차 타월</b> ",
		"price":         1000,
		"originalPrice": "2,000",
		"stock":         10,
		"category":      "차량용품 > 없는 카테고리",
		"tags":          []string{"신상", " "},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	p := decode[models.Product](t, rr)
	assert.NotEqual(t, "client-chosen", p.ID)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "세차 타월", p.Name)
	assert.Equal(t, 2000, p.OriginalPrice)
	assert.Equal(t, "차량용품 > 없는 카테고리", p.Category, "category is stored as given")
	assert.Equal(t, []string{"신상"}, p.Tags)
	assert.Equal(t, []string{}, p.Images)
	assert.Equal(t, models.ProductStatusOnSale, p.Status)
	assert.Equal(t, fixedNow, p.CreatedAt.UTC())

	stored, ok := env.svc.Product(p.ID)
	require.True(t, ok)
	assert.Equal(t, p.Name, stored.Name)
}

func TestProductCreate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing name", map[string]any{"price": 1000}, http.StatusUnprocessableEntity},
		{"negative stock", map[string]any{"name": "x", "stock": -1}, http.StatusUnprocessableEntity},
		{"bad status", map[string]any{"name": "x", "status": "draft"}, http.StatusUnprocessableEntity},
		{"not an object", `"x"`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			rr := env.do(t, http.MethodPost, "/admin/products", tt.body)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
			assert.Empty(t, env.svc.Products())
		})
	}
}

func TestProductUpdate(t *testing.T) {
	env := newTestEnv(t, nil, sampleProduct("p1", "생활용품"))

	rr := env.do(t, http.MethodPut, "/admin/products/p1", map[string]any{
		"name": "새 이름", "price": 1000, "stock": 0, "category": "차량용품 > 방향제", "status": "sold_out",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	p := decode[models.Product](t, rr)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "새 이름", p.Name)
	assert.Equal(t, "차량용품 > 방향제", p.Category)
	assert.Equal(t, models.ProductStatusSoldOut, p.Status)

	rr = env.do(t, http.MethodPut, "/admin/products/nope", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProductWrites_PersistFailure(t *testing.T) {
	env := newTestEnv(t, nil, sampleProduct("p1", "생활용품"))
	env.kv.failWrites = true

	rr := env.do(t, http.MethodPost, "/admin/products", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = env.do(t, http.MethodDelete, "/admin/products/p1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	assert.Len(t, env.svc.Products(), 1)
}

func TestProductDelete(t *testing.T) {
	env := newTestEnv(t, nil, sampleProduct("p1", "생활용품"))

	rr := env.do(t, http.MethodDelete, "/admin/products/p1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, env.svc.Products())

	rr = env.do(t, http.MethodDelete, "/admin/products/p1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
