// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package services adapts Wayfarer components to suture.Service.

	type Service interface {
	    Serve(ctx context.Context) error
	}

Available adapters:

  - HTTPServerService: ListenAndServe/Shutdown with a draining timeout
  - WebSocketHubService: the hub's RunWithContext loop
  - NATSServerService: watches and finally shuts down the embedded NATS server
  - StoreGCService: periodic Badger value log GC

The event dispatcher and bridge from internal/eventbus already implement
Serve and are added to the tree directly.

# Return values

	nil        -> stopped cleanly, not restarted
	error      -> crashed, restarted with backoff
	ctx.Err()  -> shutdown requested

Each adapter implements fmt.Stringer; suture uses the name in its log events.
*/
package services
