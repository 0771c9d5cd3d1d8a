// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package supervisor runs Wayfarer's long-lived components under a suture v4
supervision tree.

# Layers

	wayfarer (root)
	├── data-layer
	│   └── store-gc            periodic Badger value log GC
	├── messaging-layer
	│   ├── nats-server         embedded NATS (optional)
	│   ├── websocket-hub       client registry and fan-out
	│   ├── event-dispatcher    reaction and submission events -> broker
	│   └── event-bridge        broker -> websocket hub
	└── api-layer
	    └── http-server         chi router

Each layer is its own supervisor, so restarts stay local: if the NATS
connection drops, the dispatcher and bridge are restarted with backoff while
the HTTP server keeps serving requests. Reaction changes are committed before
any event is published, so a broker outage only delays or drops realtime
notifications.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(services.NewStoreGCService(st, cfg.Storage.GCInterval))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(dispatcher)
	tree.AddMessagingService(bridge)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	err = tree.Serve(ctx) // blocks until ctx is canceled

# Failure handling

FailureThreshold failures (decaying at FailureDecay per second) put a
supervisor into backoff for FailureBackoff. Services stopping slower than
ShutdownTimeout are abandoned and reported by UnstoppedServiceReport.

Supervisor events are logged through sutureslog using the slog handler from
internal/logging, so they share the zerolog output.

# See Also

  - internal/supervisor/services: suture.Service adapters
  - github.com/thejerf/suture/v4
*/
package supervisor
