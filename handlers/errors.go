// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/chainvote/contract"
	"github.com/danielhkuo/chainvote/middleware"
	"github.com/danielhkuo/chainvote/models"
)

// classifyChainError maps a contract error to its status and kind
func classifyChainError(err error) (int, string) {
	switch {
	case errors.Is(err, contract.ErrInvalidInput):
		return http.StatusBadRequest, models.KindInvalidInput
	case errors.Is(err, contract.ErrNotFound):
		return http.StatusNotFound, models.KindNotFound
	case errors.Is(err, contract.ErrUnsupported):
		return http.StatusNotImplemented, models.KindUnsupported
	case errors.Is(err, contract.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, models.KindUpstreamTimeout
	case errors.Is(err, contract.ErrTransactionReverted):
		return http.StatusBadGateway, models.KindTransactionReverted
	case errors.Is(err, contract.ErrContractUnavailable):
		return http.StatusBadGateway, models.KindContractUnavailable
	case errors.Is(err, contract.ErrSignerUnavailable):
		return http.StatusServiceUnavailable, models.KindSignerUnavailable
	default:
		return http.StatusInternalServerError, models.KindInternal
	}
}

// chainError logs a failed chain operation once and writes the mapped
// response. The client only sees msg, never the upstream error text.
func chainError(w http.ResponseWriter, r *http.Request, err error, msg string) string {
	status, kind := classifyChainError(err)

	attrs := []any{
		"error", err,
		"kind", kind,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.RequestID(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		slog.Error(msg, attrs...)
	} else {
		slog.Warn(msg, attrs...)
	}

	middleware.ErrorResponse(w, status, kind, msg)
	return kind
}

func validationFailed(w http.ResponseWriter, verr *validationError) {
	middleware.ErrorResponse(w, http.StatusBadRequest, verr.kind, verr.message)
}
