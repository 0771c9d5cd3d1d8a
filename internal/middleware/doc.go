// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package middleware provides HTTP middleware shared by every Wayfarer route.

Key Components:

  - Request ID: UUID-based request tracking wired into the logging context
  - Prometheus Metrics: request count, latency and in-flight instrumentation

Both middlewares use the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/api/experiences", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Get("/", handler.ListExperiences)
	})

Metrics are labelled with the chi route pattern ("/api/experiences/{id}/like")
rather than the raw path, so experience ids never become label values.

The response writer wrapper passes http.Hijacker through, so the websocket
upgrade on /ws works behind the metrics middleware.

See Also:

  - internal/api: routes and handlers wrapped by this middleware
  - internal/metrics: Prometheus collector definitions
*/
package middleware
