// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// TokenAuth guards the admin API with a bearer token checked against a
// bcrypt hash. The digest of the last accepted token is remembered so a
// busy admin screen does not pay the bcrypt cost on every request.
type TokenAuth struct {
	hash []byte

	mu       sync.Mutex
	accepted [sha256.Size]byte
	hasValid bool
}

// NewTokenAuth creates a TokenAuth for the given bcrypt hash.
func NewTokenAuth(hash string) *TokenAuth {
	return &TokenAuth{hash: []byte(hash)}
}

// HashToken returns the bcrypt hash of an admin token.
func HashToken(token string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// valid reports whether token matches the configured hash.
func (a *TokenAuth) valid(token string) bool {
	if token == "" {
		return false
	}
	digest := sha256.Sum256([]byte(token))

	a.mu.Lock()
	cached := a.hasValid && subtle.ConstantTimeCompare(digest[:], a.accepted[:]) == 1
	a.mu.Unlock()
	if cached {
		return true
	}

	if bcrypt.CompareHashAndPassword(a.hash, []byte(token)) != nil {
		return false
	}

	a.mu.Lock()
	a.accepted = digest
	a.hasValid = true
	a.mu.Unlock()
	return true
}

// bearerToken extracts the token from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Require returns 401 for requests without a valid bearer token.
func (a *TokenAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.valid(bearerToken(r)) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}
