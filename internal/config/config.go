// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package config loads Wayfarer configuration from defaults, an optional YAML
// file and environment variables (highest priority), using Koanf v2.
package config

import (
	"net"
	"strconv"
	"time"
)

// Anonymous reaction policies for ReactionsConfig.AnonymousMode.
const (
	// AnonymousReject rejects like and view calls without a user id.
	AnonymousReject = "reject"
	// AnonymousCount counts anonymous views as unconditional increments.
	AnonymousCount = "count"
)

// Broker backends for BrokerConfig.Type.
const (
	BrokerMemory = "memory"
	BrokerNATS   = "nats"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	Reactions ReactionsConfig `koanf:"reactions"`
	Realtime  RealtimeConfig  `koanf:"realtime"`
	Broker    BrokerConfig    `koanf:"broker"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// StorageConfig holds the BadgerDB record store settings.
type StorageConfig struct {
	Path string `koanf:"path"`
	// InMemory keeps all data in RAM; nothing survives a restart.
	InMemory bool `koanf:"in_memory"`
	// ConflictRetries bounds retries of a transaction that hit a write conflict.
	ConflictRetries int `koanf:"conflict_retries"`
	// ConflictBackoff is the base delay before the first retry. It doubles per
	// attempt up to 100ms and is fully jittered.
	ConflictBackoff time.Duration `koanf:"conflict_backoff"`
	GCInterval      time.Duration `koanf:"gc_interval"`
	GCDiscardRatio  float64       `koanf:"gc_discard_ratio"`
}

// APIConfig holds pagination settings for the experience listing.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	SubmitLimitReqs   int           `koanf:"submit_limit_reqs"`
	SubmitLimitWindow time.Duration `koanf:"submit_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// ReactionsConfig controls like/view policy.
type ReactionsConfig struct {
	// AnonymousMode is AnonymousReject or AnonymousCount.
	AnonymousMode string `koanf:"anonymous_mode"`
}

// RealtimeConfig controls websocket fan-out behaviour.
type RealtimeConfig struct {
	// EchoSuppression skips the connection that triggered a like or view
	// when it identified itself with X-Client-ID.
	EchoSuppression bool `koanf:"echo_suppression"`
	// QueueSize bounds pending outbound events before new ones are dropped.
	QueueSize int `koanf:"queue_size"`
	// ClientMessageRate and ClientMessageBurst throttle inbound websocket
	// messages per connection.
	ClientMessageRate  float64 `koanf:"client_message_rate"`
	ClientMessageBurst int     `koanf:"client_message_burst"`
}

// BrokerConfig selects the pub/sub backend carrying fan-out events.
type BrokerConfig struct {
	Type           string               `koanf:"type"`
	Topic          string               `koanf:"topic"`
	NATS           NATSConfig           `koanf:"nats"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// NATSConfig is used when Broker.Type is "nats".
type NATSConfig struct {
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	// Host and Port are the embedded server listen address.
	Host          string        `koanf:"host"`
	Port          int           `koanf:"port"`
	MaxReconnects int           `koanf:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait"`
}

// CircuitBreakerConfig guards broker publishes.
type CircuitBreakerConfig struct {
	FailureThreshold uint32        `koanf:"failure_threshold"`
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration with precedence env > file > defaults.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
