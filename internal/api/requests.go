// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/store"
)

// maxBodyBytes bounds request bodies. A submission is a few kilobytes.
const maxBodyBytes = 64 << 10

// clientIDHeader carries the websocket client id used for echo suppression.
const clientIDHeader = "X-Client-ID"

// maxClientIDLength bounds X-Client-ID; real ids are 36 character UUIDs.
const maxClientIDLength = 64

var errEmptyBody = errors.New("request body is empty")

// parseListQuery reads type, page, limit and sort. Missing values take
// their defaults; malformed values are an error.
func parseListQuery(r *http.Request, apiCfg config.APIConfig) (store.ListQuery, error) {
	q := store.ListQuery{
		Status: models.StatusApproved,
		Type:   store.TypeAll,
		Sort:   store.DefaultSort,
		Page:   1,
		Limit:  apiCfg.DefaultPageSize,
	}
	values := r.URL.Query()

	if t := strings.ToLower(strings.TrimSpace(values.Get("type"))); t != "" && t != store.TypeAll {
		if !models.ExperienceType(t).Valid() {
			return q, errors.New("type must be one of all, hotel, travel, airline, tour, event, other")
		}
		q.Type = t
	}

	if v := values.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return q, errors.New("page must be a positive integer")
		}
		q.Page = page
	}

	if v := values.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return q, errors.New("limit must be a positive integer")
		}
		q.Limit = limit
	}
	if apiCfg.MaxPageSize > 0 && q.Limit > apiCfg.MaxPageSize {
		q.Limit = apiCfg.MaxPageSize
	}

	if v := strings.TrimSpace(values.Get("sort")); v != "" {
		if !store.ValidSort(v) {
			return q, errors.New("sort must be one of createdAt, likes, views, title, optionally prefixed with -")
		}
		q.Sort = v
	}
	return q, nil
}

// totalPages is ceil(total / limit).
func totalPages(total, limit int) int {
	if limit <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

// decodeJSONBody decodes a bounded JSON body into dst.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// decodeReactionRequest reads {userId}. An empty body means no user id, so
// the engine decides how to treat the anonymous call.
func decodeReactionRequest(w http.ResponseWriter, r *http.Request) (models.ReactionRequest, error) {
	var req models.ReactionRequest
	if err := decodeJSONBody(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		return req, err
	}
	req.UserID = strings.TrimSpace(req.UserID)
	return req, nil
}

// originClientID returns the websocket client id the request identified
// itself with, or "" when absent or too long.
func originClientID(r *http.Request) string {
	id := strings.TrimSpace(r.Header.Get(clientIDHeader))
	if len(id) > maxClientIDLength {
		return ""
	}
	return id
}

// echoExclusion returns the client id to skip when broadcasting a like, or
// "" when echo suppression is off. View updates always skip their origin.
func (h *Handler) echoExclusion(r *http.Request) string {
	if h.config == nil || !h.config.Realtime.EchoSuppression {
		return ""
	}
	return originClientID(r)
}
