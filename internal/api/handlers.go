// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"context"
	"time"

	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/reaction"
	"github.com/tomtom215/wayfarer/internal/store"
	ws "github.com/tomtom215/wayfarer/internal/websocket"
)

// ExperienceStore is the part of the record store the handlers read and
// write directly. *store.Store implements it.
type ExperienceStore interface {
	Create(ctx context.Context, exp *models.Experience) (*models.Experience, error)
	Get(ctx context.Context, id string) (*models.Experience, error)
	List(ctx context.Context, q store.ListQuery) ([]*models.Experience, int, error)
	Ping(ctx context.Context) error
}

// ReactionEngine applies likes and views. *reaction.Engine implements it.
type ReactionEngine interface {
	ToggleLike(ctx context.Context, experienceID, userID string) (reaction.Transition, error)
	RegisterView(ctx context.Context, experienceID, userID string) (reaction.Transition, error)
	IsMember(ctx context.Context, experienceID, userID string, kind reaction.Kind) (bool, error)
}

// EventPublisher announces committed changes to realtime clients.
// *eventbus.Dispatcher implements it. Errors are logged, never returned to
// the HTTP client.
type EventPublisher interface {
	PublishNewRecord(exp *models.Experience) error
	PublishLikeChanged(excludeClientID, experienceID string, newLikeCount int, userID string, liked bool) error
	PublishViewChanged(excludeClientID, experienceID string, newViewCount int) error
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_experiences.go: list, get and submit
//   - handlers_reactions.go: like, view and membership checks
//   - handlers_health.go: health probes
//   - handlers_websocket.go: realtime upgrade
type Handler struct {
	store     ExperienceStore
	reactions ReactionEngine
	events    EventPublisher
	wsHub     *ws.Hub
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler. events and wsHub may be nil, which
// disables realtime announcements and the websocket endpoint respectively.
//
// Example:
//
//	handler := api.NewHandler(st, reaction.NewEngine(st, cfg.Reactions), dispatcher, hub, cfg)
func NewHandler(st ExperienceStore, reactions ReactionEngine, events EventPublisher, wsHub *ws.Hub, cfg *config.Config) *Handler {
	return &Handler{
		store:     st,
		reactions: reactions,
		events:    events,
		wsHub:     wsHub,
		config:    cfg,
		startTime: time.Now(),
	}
}
