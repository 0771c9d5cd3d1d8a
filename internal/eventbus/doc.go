// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package eventbus fans realtime experience events out to every connected
// websocket client, across all running instances.
//
// Request handlers hand events to a Dispatcher, which queues them without
// blocking and publishes them in the background through a circuit breaker
// into a Watermill publisher. A Bridge on every instance subscribes to the
// same topic and forwards each event to the local websocket hub:
//
//	handler ──► Dispatcher ──► Watermill topic ──► Bridge ──► websocket.Hub
//	            (queue, breaker)  (gochannel or NATS)          (room members)
//
// Delivery is best effort and at most once. Nothing is persisted, retried or
// acknowledged end to end; an event that cannot be queued or published is
// logged and counted, and the request that caused it still succeeds.
//
// # Backends
//
//   - memory: Watermill's gochannel, for single-instance deployments
//   - nats: watermill-nats over core NATS with JetStream disabled and no queue
//     group, so every instance receives every event. An embedded NATS server
//     can be started for development.
//
// # Echo suppression
//
// Each envelope carries an optional originId, the websocket client id of the
// connection that caused the change. The Bridge passes it to the hub as the
// excluded recipient, so "everyone except the sender" works the same way
// whichever instance the sender is connected to.
package eventbus
