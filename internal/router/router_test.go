// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cheonwon/internal/catalog"
	"cheonwon/internal/handlers"
	"cheonwon/internal/middleware"
	"cheonwon/internal/store"
)

func testAdmin(t *testing.T) *handlers.Admin {
	t.Helper()
	svc := catalog.New(store.NewCategoryStore(store.NewMemoryKV()))
	svc.Load(context.Background())
	return handlers.NewAdmin(svc, nil)
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	healthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRoutes(t *testing.T) {
	r := New(testAdmin(t), Options{})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/admin/categories", http.StatusOK},
		{http.MethodGet, "/admin/categories/tree", http.StatusOK},
		{http.MethodGet, "/admin/categories/picker?value=x", http.StatusOK},
		{http.MethodGet, "/admin/categories/resolve?value=x", http.StatusOK},
		{http.MethodGet, "/admin/categories/changes", http.StatusOK},
		{http.MethodDelete, "/admin/categories/missing", http.StatusNotFound},
		{http.MethodGet, "/admin/products", http.StatusOK},
		{http.MethodGet, "/admin/products/missing", http.StatusNotFound},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
		{http.MethodPatch, "/admin/categories", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.want, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
			assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestAdminRequiresToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	r := New(testAdmin(t), Options{Auth: middleware.NewTokenAuth(string(hash))})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/categories", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/categories", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code, "health stays public")
}

func TestAdminWritesAreRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, time.Minute)
	defer limiter.Stop()
	r := New(testAdmin(t), Options{Limiter: limiter})

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(`{"name":"문구"}`))
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusCreated, post())
	assert.Equal(t, http.StatusTooManyRequests, post())
}

func TestMetricsEndpoint(t *testing.T) {
	r := New(testAdmin(t), Options{})

	// Generate one routed request so the HTTP counters have a sample.
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "cheonwon_http_requests_total")
	assert.Contains(t, body, "cheonwon_category_nodes")
}
