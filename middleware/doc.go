// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Each request gets an ID (a UUID, or the caller's X-Request-ID) that is
echoed in the response header and attached to both log lines. Completion
lines carry status and duration_ms. Handlers can read the ID with
RequestID(r.Context()).

# CORS Middleware

Enable cross-origin requests for browser wallets:

	handler := middleware.CORS(cfg.AllowedOrigins, mux)

Built on github.com/rs/cors. Allows GET, POST and OPTIONS with headers
Content-Type, Authorization, X-Admin-Key and X-Request-ID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, models.KindInvalidAddress, "message")

Parse JSON request bodies:

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.KindMalformedRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
