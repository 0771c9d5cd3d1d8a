// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "Tourism Experiences API"

// readyTimeout bounds the store ping of the readiness probe.
const readyTimeout = 2 * time.Second

// Health handles health check requests
//
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.HealthResponse{
		Status:    "ok",
		Service:   ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.ProbeResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.ProbeResponse{
		Status: "alive",
		Checks: map[string]string{"uptime": time.Since(h.startTime).Round(time.Second).String()},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only when the record store answers
//
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} models.ProbeResponse "Service is ready"
// @Failure 503 {object} models.ProbeResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := map[string]string{"store": "ok"}
	status, code := "ready", http.StatusOK

	if h.store == nil {
		checks["store"] = "not configured"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else if err := h.store.Ping(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		checks["store"] = "unavailable"
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	if h.wsHub != nil {
		checks["websocket_clients"] = strconv.Itoa(h.wsHub.GetClientCount())
	}

	respondJSON(w, code, &models.ProbeResponse{Status: status, Checks: checks})
}
