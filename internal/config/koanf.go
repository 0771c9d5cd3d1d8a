// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/wayfarer/config.yaml",
	"/etc/wayfarer/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5002,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Storage: StorageConfig{
			Path:            "./data/experiences",
			InMemory:        false,
			ConflictRetries: 10,
			ConflictBackoff: 2 * time.Millisecond,
			GCInterval:      10 * time.Minute,
			GCDiscardRatio:  0.5,
		},
		API: APIConfig{
			DefaultPageSize: 12,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"http://localhost:3000"},
			RateLimitReqs:     100,
			RateLimitWindow:   15 * time.Minute,
			SubmitLimitReqs:   5,
			SubmitLimitWindow: 15 * time.Minute,
			RateLimitDisabled: false,
		},
		Reactions: ReactionsConfig{
			AnonymousMode: AnonymousReject,
		},
		Realtime: RealtimeConfig{
			EchoSuppression:    true,
			QueueSize:          256,
			ClientMessageRate:  5,
			ClientMessageBurst: 10,
		},
		Broker: BrokerConfig{
			Type:  BrokerMemory,
			Topic: "experiences",
			NATS: NATSConfig{
				URL:            "nats://127.0.0.1:4222",
				EmbeddedServer: false,
				Host:           "127.0.0.1",
				Port:           4222,
				MaxReconnects:  -1,
				ReconnectWait:  2 * time.Second,
			},
			CircuitBreaker: CircuitBreakerConfig{
				FailureThreshold: 5,
				MaxRequests:      1,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf layers struct defaults, the optional YAML file and mapped
// environment variables, then validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// PORT and FRONTEND_URL are the names existing deployments already set.
var envMappings = map[string]string{
	"port":             "server.port",
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"db_path":             "storage.path",
	"db_in_memory":        "storage.in_memory",
	"db_conflict_retries": "storage.conflict_retries",
	"db_conflict_backoff": "storage.conflict_backoff",
	"db_gc_interval":      "storage.gc_interval",
	"db_gc_discard_ratio": "storage.gc_discard_ratio",

	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	"frontend_url":          "security.cors_origins",
	"cors_origins":          "security.cors_origins",
	"rate_limit_requests":   "security.rate_limit_reqs",
	"rate_limit_window":     "security.rate_limit_window",
	"submit_limit_requests": "security.submit_limit_reqs",
	"submit_limit_window":   "security.submit_limit_window",
	"disable_rate_limit":    "security.rate_limit_disabled",

	"anonymous_mode":          "reactions.anonymous_mode",
	"echo_suppression":        "realtime.echo_suppression",
	"realtime_queue_size":     "realtime.queue_size",
	"ws_client_message_rate":  "realtime.client_message_rate",
	"ws_client_message_burst": "realtime.client_message_burst",

	"broker_type":               "broker.type",
	"broker_topic":              "broker.topic",
	"nats_url":                  "broker.nats.url",
	"nats_embedded":             "broker.nats.embedded_server",
	"nats_host":                 "broker.nats.host",
	"nats_port":                 "broker.nats.port",
	"nats_max_reconnects":       "broker.nats.max_reconnects",
	"nats_reconnect_wait":       "broker.nats.reconnect_wait",
	"breaker_failure_threshold": "broker.circuit_breaker.failure_threshold",
	"breaker_timeout":           "broker.circuit_breaker.timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc returns "" for unmapped variables so unrelated
// environment does not leak into configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
