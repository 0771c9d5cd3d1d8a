// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package models

// Response bodies keep the flat {success, ...} shape that existing web
// clients of the experiences API already parse.

// ErrorResponse is returned for every non-2xx response.
//
// Error is a single message, or a list of messages for validation failures:
//
//	{"success": false, "code": "NOT_FOUND", "error": "Experience not found"}
//	{"success": false, "code": "VALIDATION_ERROR", "error": ["Please add a title"]}
type ErrorResponse struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Error   interface{} `json:"error"`
}

// ExperienceListResponse is returned by GET /api/experiences.
type ExperienceListResponse struct {
	Success     bool          `json:"success"`
	Count       int           `json:"count"`
	Total       int           `json:"total"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Data        []*Experience `json:"data"`
}

// ExperienceResponse wraps a single experience.
type ExperienceResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    *Experience `json:"data"`
}

// LikeResponse is returned by PUT /api/experiences/{id}/like.
type LikeResponse struct {
	Success bool `json:"success"`
	Likes   int  `json:"likes"`
	Liked   bool `json:"liked"`
}

// ViewResponse is returned by PUT /api/experiences/{id}/view.
type ViewResponse struct {
	Success   bool `json:"success"`
	Views     int  `json:"views"`
	FirstView bool `json:"firstView"`
}

// LikedResponse is returned by GET /api/experiences/{id}/liked/{userId}.
type LikedResponse struct {
	Success bool `json:"success"`
	Liked   bool `json:"liked"`
}

// ViewedResponse is returned by GET /api/experiences/{id}/viewed/{userId}.
type ViewedResponse struct {
	Success bool `json:"success"`
	Viewed  bool `json:"viewed"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// ProbeResponse is returned by the liveness and readiness probes.
type ProbeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
