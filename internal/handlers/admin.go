// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the 천원마켓 admin API.
// Handlers are grouped by concern (categories, products) and receive
// their dependencies through the Admin struct. Every response is JSON.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"cheonwon/internal/catalog"
	"cheonwon/internal/models"
)

// maxBodyBytes caps the size of decoded request bodies.
const maxBodyBytes = 1 << 20

// ChangeLister lists recent category changes, newest first.
type ChangeLister interface {
	Recent(ctx context.Context, limit int) ([]models.CategoryChange, error)
}

// Admin groups all admin API handlers and their dependencies.
type Admin struct {
	catalog *catalog.Service
	changes ChangeLister
}

// NewAdmin creates a new Admin handler group. changes may be nil when no
// change log is configured.
func NewAdmin(svc *catalog.Service, changes ChangeLister) *Admin {
	return &Admin{catalog: svc, changes: changes}
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads a size-limited JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		msg := "Invalid JSON body."
		if errors.Is(err, io.EOF) {
			msg = "Request body is required."
		}
		writeError(w, http.StatusBadRequest, msg)
		return false
	}
	return true
}

// writePersistError reports a failed save. The in-memory state is
// unchanged when this happens.
func writePersistError(w http.ResponseWriter, err error) {
	slog.Error("save failed", "error", err)
	writeError(w, http.StatusServiceUnavailable, catalog.ErrPersist.Error())
}
