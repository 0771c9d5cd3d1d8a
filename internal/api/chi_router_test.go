// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/wayfarer/internal/models"
)

func TestRouter_NotFound(t *testing.T) {
	env := setupTestEnv(t, testConfig())

	rec := env.do(t, http.MethodGet, "/api/nothing-here", "")
	expectStatus(t, rec, http.StatusNotFound)
	resp := decode[models.ErrorResponse](t, rec)
	if resp.Success || resp.Error != "Route not found" {
		t.Errorf("response = %+v", resp)
	}
}

func TestRouter_SecurityAndCacheHeaders(t *testing.T) {
	env := setupTestEnv(t, testConfig())

	rec := env.do(t, http.MethodGet, "/api/experiences", "")
	expectStatus(t, rec, http.StatusOK)

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
		"Content-Type":           "application/json; charset=utf-8",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	env := setupTestEnv(t, testConfig())

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost:3000", true},
		{"https://evil.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/experiences/abc/like", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPut)
			req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Client-ID")
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)

			got := rec.Header().Get("Access-Control-Allow-Origin")
			if tt.allowed && got != tt.origin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.origin)
			}
			if !tt.allowed && got != "" {
				t.Errorf("Allow-Origin = %q for a foreign origin", got)
			}
		})
	}
}

func TestRouter_SubmitRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitDisabled = false
	cfg.Security.RateLimitReqs = 100
	cfg.Security.RateLimitWindow = time.Minute
	cfg.Security.SubmitLimitReqs = 2
	cfg.Security.SubmitLimitWindow = 15 * time.Minute
	env := setupTestEnv(t, cfg)

	for i := 0; i < 2; i++ {
		expectStatus(t, env.do(t, http.MethodPost, "/api/experiences", validSubmission), http.StatusCreated)
	}

	rec := env.do(t, http.MethodPost, "/api/experiences", validSubmission)
	expectStatus(t, rec, http.StatusTooManyRequests)
	resp := decode[models.ErrorResponse](t, rec)
	if resp.Code != ErrCodeTooManyRequests || resp.Error != msgTooManySubmissions {
		t.Errorf("response = %+v", resp)
	}

	// reads use the general limiter
	expectStatus(t, env.do(t, http.MethodGet, "/api/experiences", ""), http.StatusOK)
}

func TestRouter_GeneralRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitDisabled = false
	cfg.Security.RateLimitReqs = 3
	cfg.Security.RateLimitWindow = time.Minute
	env := setupTestEnv(t, cfg)

	for i := 0; i < 3; i++ {
		expectStatus(t, env.do(t, http.MethodGet, "/api/experiences", ""), http.StatusOK)
	}
	rec := env.do(t, http.MethodGet, "/api/experiences", "")
	expectStatus(t, rec, http.StatusTooManyRequests)
	if msg := decode[models.ErrorResponse](t, rec).Error; msg != msgTooManyRequests {
		t.Errorf("error = %v", msg)
	}

	// health probes are never limited
	expectStatus(t, env.do(t, http.MethodGet, "/health", ""), http.StatusOK)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	env := setupTestEnv(t, testConfig())
	env.do(t, http.MethodGet, "/api/experiences", "")

	rec := env.do(t, http.MethodGet, "/metrics", "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "wayfarer_api_requests_total") {
		t.Error("metrics output is missing wayfarer_api_requests_total")
	}
}

func TestRouter_WebSocketWithoutHub(t *testing.T) {
	env := setupTestEnv(t, testConfig())

	rec := env.do(t, http.MethodGet, "/ws", "")
	expectStatus(t, rec, http.StatusServiceUnavailable)
}

func TestCheckWebSocketOrigin(t *testing.T) {
	h := &Handler{config: testConfig()}

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"allowed", "http://localhost:3000", true},
		{"foreign", "https://evil.example", false},
		{"missing", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := h.checkWebSocketOrigin(req); got != tt.want {
				t.Errorf("checkWebSocketOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}

	wildcard := testConfig()
	wildcard.Security.CORSOrigins = []string{"*"}
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	if !(&Handler{config: wildcard}).checkWebSocketOrigin(req) {
		t.Error("wildcard origin rejected")
	}
}
