// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	serve := func(header string) (ctxID, respID string) {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxID = RequestIDFromCtx(r.Context())
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(RequestIDHeader, header)
		}
		rr := httptest.NewRecorder()
		RequestID(inner).ServeHTTP(rr, req)
		return ctxID, rr.Header().Get(RequestIDHeader)
	}

	t.Run("generates an id", func(t *testing.T) {
		ctxID, respID := serve("")
		assert.Equal(t, ctxID, respID)
		_, err := uuid.Parse(respID)
		assert.NoError(t, err)
	})

	t.Run("reuses caller id", func(t *testing.T) {
		ctxID, respID := serve("abc-123")
		assert.Equal(t, "abc-123", ctxID)
		assert.Equal(t, "abc-123", respID)
	})

	t.Run("replaces unsafe caller id", func(t *testing.T) {
		for _, bad := range []string{"has space", strings.Repeat("x", 65), "탭"} {
			ctxID, _ := serve(bad)
			assert.NotEqual(t, bad, ctxID)
		}
	})
}

func TestRequestIDFromCtxEmpty(t *testing.T) {
	assert.Empty(t, RequestIDFromCtx(context.Background()))
}
