// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Command server runs the Wayfarer API.

Wayfarer stores user-submitted tourism experiences (hotels, trips, flights,
tours, events) and lets visitors like and view them. Every new submission and
every like or view change is pushed to connected browsers over a websocket.

# Startup order

 1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
 2. Logging: zerolog, level and format from configuration
 3. Record store: BadgerDB at DB_PATH (or in memory with DB_IN_MEMORY=true)
 4. Broker: in-process gochannel, or NATS (external or embedded)
 5. Realtime: websocket hub, event dispatcher, broker-to-hub bridge
 6. HTTP: chi router with CORS, rate limiting, metrics and Swagger UI
 7. Supervisor tree: every long-lived component above runs under suture

# Configuration

Common environment variables:

	PORT=5002                           listen port
	FRONTEND_URL=http://localhost:3000  allowed CORS and websocket origin(s)
	DB_PATH=./data/experiences          BadgerDB directory
	BROKER_TYPE=memory|nats             event transport
	NATS_URL=nats://127.0.0.1:4222      external NATS server
	NATS_EMBEDDED=true                  run NATS inside the process
	ANONYMOUS_MODE=reject|count         views without a userId
	LOG_LEVEL=info LOG_FORMAT=json

Several instances behind a load balancer share realtime events when they use
the same NATS server; the in-memory broker only reaches clients of its own
process.

# Endpoints

	GET  /health, /health/live, /health/ready
	GET  /api/experiences               list approved experiences
	POST /api/experiences               submit an experience
	GET  /api/experiences/{id}
	PUT  /api/experiences/{id}/like     toggle a like
	PUT  /api/experiences/{id}/view     record a view
	GET  /api/experiences/{id}/liked/{userId}
	GET  /api/experiences/{id}/viewed/{userId}
	GET  /ws                            realtime updates
	GET  /metrics                       Prometheus
	GET  /swagger/index.html            API docs

# Signals

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains for
SHUTDOWN_TIMEOUT, websocket clients are closed, queued events are flushed to
the broker and the store is closed last.
*/
package main
