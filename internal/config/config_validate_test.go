// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "PORT"},
		{"empty db path", func(c *Config) { c.Storage.Path = "" }, "DB_PATH"},
		{"empty db path in memory", func(c *Config) { c.Storage.Path = ""; c.Storage.InMemory = true }, ""},
		{"bad discard ratio", func(c *Config) { c.Storage.GCDiscardRatio = 1 }, "DB_GC_DISCARD_RATIO"},
		{"negative conflict backoff", func(c *Config) { c.Storage.ConflictBackoff = -time.Millisecond }, "DB_CONFLICT_BACKOFF"},
		{"max page below default", func(c *Config) { c.API.MaxPageSize = 5 }, "API_MAX_PAGE_SIZE"},
		{"no cors origins", func(c *Config) { c.Security.CORSOrigins = nil }, "CORS_ORIGINS"},
		{"relative cors origin", func(c *Config) { c.Security.CORSOrigins = []string{"localhost"} }, "absolute URL"},
		{"wildcard in production", func(c *Config) {
			c.Security.CORSOrigins = []string{"*"}
			c.Server.Environment = "production"
		}, "not allowed"},
		{"wildcard in development", func(c *Config) { c.Security.CORSOrigins = []string{"*"} }, ""},
		{"zero submit limit", func(c *Config) { c.Security.SubmitLimitReqs = 0 }, "SUBMIT_LIMIT"},
		{"zero limit but disabled", func(c *Config) {
			c.Security.SubmitLimitReqs = 0
			c.Security.RateLimitDisabled = true
		}, ""},
		{"anonymous mode", func(c *Config) { c.Reactions.AnonymousMode = "allow" }, "ANONYMOUS_MODE"},
		{"queue size", func(c *Config) { c.Realtime.QueueSize = 0 }, "REALTIME_QUEUE_SIZE"},
		{"broker type", func(c *Config) { c.Broker.Type = "kafka" }, "BROKER_TYPE"},
		{"nats without url", func(c *Config) {
			c.Broker.Type = BrokerNATS
			c.Broker.NATS.URL = ""
		}, "NATS_URL"},
		{"embedded nats ignores url", func(c *Config) {
			c.Broker.Type = BrokerNATS
			c.Broker.NATS.URL = ""
			c.Broker.NATS.EmbeddedServer = true
		}, ""},
		{"breaker threshold", func(c *Config) { c.Broker.CircuitBreaker.FailureThreshold = 0 }, "BREAKER_FAILURE_THRESHOLD"},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "0.0.0.0", Port: 5002}
	if got := s.Addr(); got != "0.0.0.0:5002" {
		t.Errorf("Addr() = %q", got)
	}
}
