// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// @title Wayfarer API
// @version 1.0
// @description Share hotel, travel, airline, tour and event experiences and react to them in real time.
// @description
// @description ## Reactions
// @description
// @description Likes toggle per user: the same userId liking twice removes the like.
// @description Views count once per user. Every change is pushed to websocket
// @description clients in the experiences room except the one named by `X-Client-ID`.
// @description
// @description ## Rate Limiting
// @description
// @description 100 requests per 15 minutes per IP on experience routes, 5 submissions per 15 minutes.
// @description Exceeding either returns 429 with code `TOO_MANY_REQUESTS`.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description { "success": false, "code": "NOT_FOUND", "error": "Experience not found" }
// @description ```
// @description Validation failures carry a list of messages in `error`.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/wayfarer/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5002
// @BasePath /
// @schemes http https
//
// @tag.name Health
// @tag.description Liveness and readiness probes
//
// @tag.name Experiences
// @tag.description Submitting, listing and reading experiences
//
// @tag.name Reactions
// @tag.description Likes and views
//
// @tag.name Realtime
// @tag.description WebSocket fan-out of new experiences and reaction counts
package main
