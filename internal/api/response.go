// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
)

// respondJSON writes data as JSON. Reaction counts change constantly, so
// API responses are never cached.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError writes the shared error shape. message is a string, or a
// []string for validation failures.
func respondError(w http.ResponseWriter, status int, code string, message interface{}) {
	respondJSON(w, status, &models.ErrorResponse{
		Success: false,
		Code:    code,
		Error:   message,
	})
}

// respondValidationError writes 400 with one message per failed rule.
func respondValidationError(w http.ResponseWriter, messages []string) {
	respondError(w, http.StatusBadRequest, ErrCodeValidation, messages)
}
