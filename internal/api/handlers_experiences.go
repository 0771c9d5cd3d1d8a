// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/validation"
)

// msgSubmitted is returned with a newly created experience.
const msgSubmitted = "Experience submitted successfully!"

// ListExperiences returns a page of approved experiences
//
// @Summary List approved experiences
// @Description Returns approved experiences, newest first by default
// @Tags Experiences
// @Produce json
// @Param type query string false "Experience type, or all" Enums(all, hotel, travel, airline, tour, event, other)
// @Param page query int false "Page number (1-based)" default(1)
// @Param limit query int false "Page size" default(12)
// @Param sort query string false "Sort field, prefix with - for descending" default(-createdAt)
// @Success 200 {object} models.ExperienceListResponse
// @Failure 400 {object} models.ErrorResponse "Invalid query parameter"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/experiences [get]
func (h *Handler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r, h.apiConfig())
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	items, total, err := h.store.List(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, "list", err)
		return
	}

	data := make([]*models.Experience, len(items))
	for i, exp := range items {
		data[i] = exp.Public()
	}

	respondJSON(w, http.StatusOK, &models.ExperienceListResponse{
		Success:     true,
		Count:       len(data),
		Total:       total,
		TotalPages:  totalPages(total, q.Limit),
		CurrentPage: q.Page,
		Data:        data,
	})
}

// GetExperience returns one experience. It never counts a view; clients
// call the view endpoint for that.
//
// @Summary Get an experience
// @Tags Experiences
// @Produce json
// @Param id path string true "Experience ID"
// @Success 200 {object} models.ExperienceResponse
// @Failure 404 {object} models.ErrorResponse "Experience not found"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/experiences/{id} [get]
func (h *Handler) GetExperience(w http.ResponseWriter, r *http.Request) {
	exp, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, "get", err)
		return
	}
	respondJSON(w, http.StatusOK, &models.ExperienceResponse{Success: true, Data: exp.Public()})
}

// CreateExperience stores a new submission and announces it to realtime
// clients.
//
// @Summary Submit an experience
// @Description skillsLearned may be an array or a comma-separated string
// @Tags Experiences
// @Accept json
// @Produce json
// @Param experience body models.CreateExperienceRequest true "New experience"
// @Success 201 {object} models.ExperienceResponse
// @Failure 400 {object} models.ErrorResponse "Validation failed"
// @Failure 429 {object} models.ErrorResponse "Too many submissions"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/experiences [post]
func (h *Handler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExperienceRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondValidationError(w, []string{"Invalid request body: " + err.Error()})
		return
	}

	req.Normalize()
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr.Messages())
		return
	}

	exp, err := h.store.Create(r.Context(), req.ToExperience())
	if err != nil {
		respondServiceError(w, r, "create", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("experience_id", exp.ID).
		Str("type", string(exp.Type)).
		Msg("Experience submitted")

	if h.events != nil {
		if err := h.events.PublishNewRecord(exp); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("experience_id", exp.ID).Msg("Failed to announce new experience")
		}
	}

	respondJSON(w, http.StatusCreated, &models.ExperienceResponse{
		Success: true,
		Message: msgSubmitted,
		Data:    exp.Public(),
	})
}

func (h *Handler) apiConfig() config.APIConfig {
	if h.config == nil {
		return config.APIConfig{DefaultPageSize: 12, MaxPageSize: 100}
	}
	return h.config.API
}
