// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package api provides the HTTP layer for Wayfarer.

Routes:

	GET  /api/experiences                     approved experiences, paginated
	GET  /api/experiences/{id}                one experience
	POST /api/experiences                     submit an experience
	PUT  /api/experiences/{id}/like           toggle a like
	PUT  /api/experiences/{id}/view           register a view
	GET  /api/experiences/{id}/liked/{userId} like membership
	GET  /api/experiences/{id}/viewed/{userId} view membership
	GET  /ws                                  realtime websocket
	GET  /health, /health/live, /health/ready
	GET  /metrics                             Prometheus
	GET  /swagger/*                           API documentation

Handlers never touch reaction state directly: likes and views go through
reaction.Engine, and the resulting transitions are announced through an
EventPublisher (the eventbus dispatcher in production). A failed announcement
is logged and never changes the HTTP response.

A browser that sends the client id it received over the websocket in the
X-Client-ID header does not get its own like or view echoed back, as long as
realtime.echo_suppression is enabled.

Usage Example:

	handler := api.NewHandler(st, engine, dispatcher, hub, cfg)
	router := api.NewRouter(handler, cfg)
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}

Error responses share one shape:

	{"success": false, "code": "NOT_FOUND", "error": "Experience not found"}
*/
package api
