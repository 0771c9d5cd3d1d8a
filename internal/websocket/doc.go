// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package websocket pushes realtime experience events to browsers.

The package implements a hub-and-spoke pattern with gorilla/websocket:

	┌──────────┐
	│   Hub    │ ← Broadcasts to members of experiences-room
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│          │         │         │
	│ Client1  │ Client2 │ Client3 │ Client4
	│ (joined) │ (joined)│         │ (joined)
	└──────────┴─────────┴─────────┘

Each client has two goroutines:
  - readPump: handles control messages, throttled per client
  - writePump: writes queued messages and keepalive pings

Protocol:

On connect the server sends

	{"type":"connected","data":{"clientId":"<uuid>"}}

The browser joins the room before receiving events:

	{"type":"join-experiences-room"}  → {"type":"joined-experiences-room","data":{"room":"experiences-room"}}
	{"type":"leave-experiences-room"} → {"type":"left-experiences-room","data":{"room":"experiences-room"}}
	{"type":"ping"}                   → {"type":"pong"}

Any other message is answered with {"type":"error","data":{"message":"..."}}.
Clients never publish domain events over the socket; reactions go through
the HTTP API, which sends the resulting event through the eventbus.

Room members receive new-experience, experience-like-updated and
experience-view-updated messages. A broadcast can exclude one client id,
which is how a client's own like or view is kept from echoing back to it.

Slow clients whose send buffer fills up are disconnected rather than
allowed to stall the hub.
*/
package websocket
