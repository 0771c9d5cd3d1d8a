// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/reaction"
	"github.com/tomtom215/wayfarer/internal/store"
)

// Error codes for API responses
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS"
	ErrCodeInternalError   = "INTERNAL_ERROR"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// Client-facing messages. Storage details never reach the client.
const (
	msgNotFound    = "Experience not found"
	msgServerError = "Server error"
)

// respondServiceError maps store and reaction errors onto HTTP responses:
// not found is 404, invalid input is 400 and everything else is a 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, reaction.ErrNotFound), errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, msgNotFound)
	case errors.Is(err, reaction.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, invalidInputMessage(err))
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("operation", op).Msg("Request failed")
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, msgServerError)
	}
}

// invalidInputMessage strips the sentinel prefix: "invalid input: userId is
// required" becomes "userId is required".
func invalidInputMessage(err error) string {
	if rest, ok := strings.CutPrefix(err.Error(), reaction.ErrInvalidInput.Error()+": "); ok && rest != "" {
		return rest
	}
	return err.Error()
}
