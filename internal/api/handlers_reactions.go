// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/reaction"
)

// LikeExperience toggles the caller's like
//
// @Summary Toggle a like
// @Description Likes the experience, or removes the like when userId already liked it. Send the websocket clientId as X-Client-ID to avoid receiving your own update.
// @Tags Reactions
// @Accept json
// @Produce json
// @Param id path string true "Experience ID"
// @Param X-Client-ID header string false "Websocket client id of the caller"
// @Param body body models.ReactionRequest true "Reacting user"
// @Success 200 {object} models.LikeResponse
// @Failure 400 {object} models.ErrorResponse "Missing or invalid userId"
// @Failure 404 {object} models.ErrorResponse "Experience not found"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/experiences/{id}/like [put]
func (h *Handler) LikeExperience(w http.ResponseWriter, r *http.Request) {
	req, err := decodeReactionRequest(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}

	tr, err := h.reactions.ToggleLike(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		respondServiceError(w, r, "like", err)
		return
	}

	if h.events != nil && tr.Changed {
		if err := h.events.PublishLikeChanged(h.echoExclusion(r), tr.ExperienceID, tr.NewCount, tr.UserID, tr.Liked()); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("experience_id", tr.ExperienceID).Msg("Failed to announce like")
		}
	}

	respondJSON(w, http.StatusOK, &models.LikeResponse{
		Success: true,
		Likes:   tr.NewCount,
		Liked:   tr.Liked(),
	})
}

// ViewExperience registers the caller's view. Repeat views by the same user
// are not counted and not announced.
//
// @Summary Register a view
// @Tags Reactions
// @Accept json
// @Produce json
// @Param id path string true "Experience ID"
// @Param X-Client-ID header string false "Websocket client id of the caller"
// @Param body body models.ReactionRequest true "Viewing user"
// @Success 200 {object} models.ViewResponse
// @Failure 400 {object} models.ErrorResponse "Missing or invalid userId"
// @Failure 404 {object} models.ErrorResponse "Experience not found"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/experiences/{id}/view [put]
func (h *Handler) ViewExperience(w http.ResponseWriter, r *http.Request) {
	req, err := decodeReactionRequest(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}

	tr, err := h.reactions.RegisterView(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		respondServiceError(w, r, "view", err)
		return
	}

	if h.events != nil && tr.Changed {
		if err := h.events.PublishViewChanged(originClientID(r), tr.ExperienceID, tr.NewCount); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("experience_id", tr.ExperienceID).Msg("Failed to announce view")
		}
	}

	respondJSON(w, http.StatusOK, &models.ViewResponse{
		Success:   true,
		Views:     tr.NewCount,
		FirstView: tr.FirstView(),
	})
}

// CheckLiked reports whether a user has liked an experience
//
// @Summary Check like membership
// @Tags Reactions
// @Produce json
// @Param id path string true "Experience ID"
// @Param userId path string true "User ID"
// @Success 200 {object} models.LikedResponse
// @Failure 404 {object} models.ErrorResponse "Experience not found"
// @Router /api/experiences/{id}/liked/{userId} [get]
func (h *Handler) CheckLiked(w http.ResponseWriter, r *http.Request) {
	liked, err := h.reactions.IsMember(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId"), reaction.KindLike)
	if err != nil {
		respondServiceError(w, r, "liked", err)
		return
	}
	respondJSON(w, http.StatusOK, &models.LikedResponse{Success: true, Liked: liked})
}

// CheckViewed reports whether a user has viewed an experience
//
// @Summary Check view membership
// @Tags Reactions
// @Produce json
// @Param id path string true "Experience ID"
// @Param userId path string true "User ID"
// @Success 200 {object} models.ViewedResponse
// @Failure 404 {object} models.ErrorResponse "Experience not found"
// @Router /api/experiences/{id}/viewed/{userId} [get]
func (h *Handler) CheckViewed(w http.ResponseWriter, r *http.Request) {
	viewed, err := h.reactions.IsMember(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId"), reaction.KindView)
	if err != nil {
		respondServiceError(w, r, "viewed", err)
		return
	}
	respondJSON(w, http.StatusOK, &models.ViewedResponse{Success: true, Viewed: viewed})
}
