// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"net/http"
)

// AdminKeyHeader carries the admin key on admin routes
const AdminKeyHeader = "X-Admin-Key"

var (
	ErrMissingAdminKey = errors.New("admin key required")
	ErrInvalidAdminKey = errors.New("invalid admin key")
)

// digest hashes a key so the comparison below works on equal-length input
func digest(key string) []byte {
	sum := sha256.Sum256([]byte(key))
	return sum[:]
}

// ValidateAdminKey checks the provided key against the configured one
// in constant time
func ValidateAdminKey(provided, expected string) error {
	if provided == "" {
		return ErrMissingAdminKey
	}
	if expected == "" || !hmac.Equal(digest(provided), digest(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// AdminKeyFromRequest reads the admin key header, accepting a bearer token
// as a fallback for clients that can't set custom headers
func AdminKeyFromRequest(r *http.Request) string {
	if key := r.Header.Get(AdminKeyHeader); key != "" {
		return key
	}
	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
