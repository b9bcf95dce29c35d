// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// admin API. Admin routes are grouped under /admin with their own
// middleware stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cheonwon/internal/handlers"
	"cheonwon/internal/middleware"
)

// Options configures the optional admin middleware.
type Options struct {
	// Auth guards /admin when set.
	Auth *middleware.TokenAuth
	// Limiter rate-limits writes under /admin when set.
	Limiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(admin *handlers.Admin, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusNotFound, `{"error":"Not Found"}`)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusMethodNotAllowed, `{"error":"Method Not Allowed"}`)
	})

	// Health check, no auth.
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/admin", func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth.Require)
		}
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}

		// Categories
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

		// Products
		r.Route("/products", func(r chi.Router) {
			r.Get("/", admin.ProductsList)
			r.Post("/", admin.ProductCreate)
			r.Get("/{id}", admin.ProductGet)
			r.Put("/{id}", admin.ProductUpdate)
			r.Delete("/{id}", admin.ProductDelete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, `{"status":"ok"}`)
}

func writeStatus(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
