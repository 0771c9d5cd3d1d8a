// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateReactions(); err != nil {
		return err
	}
	if err := c.validateRealtime(); err != nil {
		return err
	}
	if err := c.validateBroker(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateStorage() error {
	if !c.Storage.InMemory && strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("DB_PATH is required when DB_IN_MEMORY=false")
	}
	if c.Storage.ConflictRetries < 0 {
		return fmt.Errorf("DB_CONFLICT_RETRIES must not be negative")
	}
	if c.Storage.ConflictBackoff < 0 {
		return fmt.Errorf("DB_CONFLICT_BACKOFF must not be negative")
	}
	if c.Storage.GCDiscardRatio <= 0 || c.Storage.GCDiscardRatio >= 1 {
		return fmt.Errorf("DB_GC_DISCARD_RATIO must be between 0 and 1 (exclusive)")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must be >= API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS (or FRONTEND_URL) must list at least one origin")
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			if c.Server.Environment == "production" {
				return fmt.Errorf("CORS_ORIGINS=* is not allowed when ENVIRONMENT=production")
			}
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS origin %q must be an absolute URL", origin)
		}
	}
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 || c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	if c.Security.SubmitLimitReqs < 1 || c.Security.SubmitLimitWindow <= 0 {
		return fmt.Errorf("SUBMIT_LIMIT_REQUESTS and SUBMIT_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateReactions() error {
	switch c.Reactions.AnonymousMode {
	case AnonymousReject, AnonymousCount:
		return nil
	}
	return fmt.Errorf("ANONYMOUS_MODE must be %q or %q, got %q",
		AnonymousReject, AnonymousCount, c.Reactions.AnonymousMode)
}

func (c *Config) validateRealtime() error {
	if c.Realtime.QueueSize < 1 {
		return fmt.Errorf("REALTIME_QUEUE_SIZE must be at least 1")
	}
	if c.Realtime.ClientMessageRate <= 0 || c.Realtime.ClientMessageBurst < 1 {
		return fmt.Errorf("WS_CLIENT_MESSAGE_RATE and WS_CLIENT_MESSAGE_BURST must be positive")
	}
	return nil
}

func (c *Config) validateBroker() error {
	if strings.TrimSpace(c.Broker.Topic) == "" {
		return fmt.Errorf("BROKER_TOPIC is required")
	}
	if c.Broker.CircuitBreaker.FailureThreshold == 0 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be at least 1")
	}

	switch c.Broker.Type {
	case BrokerMemory:
		return nil
	case BrokerNATS:
		if c.Broker.NATS.EmbeddedServer {
			if c.Broker.NATS.Port < 1 || c.Broker.NATS.Port > 65535 {
				return fmt.Errorf("NATS_PORT must be between 1 and 65535 when NATS_EMBEDDED=true")
			}
			return nil
		}
		if c.Broker.NATS.URL == "" {
			return fmt.Errorf("NATS_URL is required when BROKER_TYPE=nats")
		}
		if u, err := url.Parse(c.Broker.NATS.URL); err != nil || u.Scheme == "" {
			return fmt.Errorf("NATS_URL %q is invalid", c.Broker.NATS.URL)
		}
		return nil
	default:
		return fmt.Errorf("BROKER_TYPE must be %q or %q, got %q", BrokerMemory, BrokerNATS, c.Broker.Type)
	}
}

var (
	validLogLevels  = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "console": true}
)

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be json or console")
	}
	return nil
}
