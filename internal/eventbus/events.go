// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package eventbus

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/wayfarer/internal/models"
)

// Event names as seen by websocket clients.
const (
	EventNewExperience = "new-experience"
	EventLikeUpdated   = "experience-like-updated"
	EventViewUpdated   = "experience-view-updated"
)

// Message metadata keys.
const (
	MetadataEventType = "event_type"
	MetadataOriginID  = "origin_id"
)

// NewExperiencePayload announces a newly submitted experience.
type NewExperiencePayload struct {
	Experience *models.Experience `json:"experience"`
	Message    string             `json:"message"`
	Timestamp  time.Time          `json:"timestamp"`
}

// NewExperienceMessage is the notice shown alongside a new experience.
const NewExperienceMessage = "A new experience has been shared!"

// LikeUpdatedPayload carries the like count after a toggle.
type LikeUpdatedPayload struct {
	ExperienceID string    `json:"experienceId"`
	NewLikeCount int       `json:"newLikeCount"`
	UserID       string    `json:"userId"`
	Liked        bool      `json:"liked"`
	Timestamp    time.Time `json:"timestamp"`
}

// ViewUpdatedPayload carries the view count after a first view.
type ViewUpdatedPayload struct {
	ExperienceID string    `json:"experienceId"`
	NewViewCount int       `json:"newViewCount"`
	Timestamp    time.Time `json:"timestamp"`
}

// Envelope is the broker message body.
type Envelope struct {
	Type     string          `json:"type"`
	OriginID string          `json:"originId,omitempty"`
	Data     json.RawMessage `json:"data"`
}

// NewEnvelope encodes payload as the envelope data.
func NewEnvelope(eventType, originID string, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &Envelope{Type: eventType, OriginID: originID, Data: data}, nil
}

// ToMessage wraps the envelope in a Watermill message with a fresh UUID. The
// type and origin are duplicated into metadata for broker-side inspection.
func (e *Envelope) ToMessage() (*message.Message, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	msg := message.NewMessage(uuid.New().String(), body)
	msg.Metadata.Set(MetadataEventType, e.Type)
	if e.OriginID != "" {
		msg.Metadata.Set(MetadataOriginID, e.OriginID)
	}
	return msg, nil
}

// EnvelopeFromMessage decodes a message produced by ToMessage.
func EnvelopeFromMessage(msg *message.Message) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope %s: %w", msg.UUID, err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("envelope %s has no type", msg.UUID)
	}
	if env.OriginID == "" {
		env.OriginID = msg.Metadata.Get(MetadataOriginID)
	}
	return &env, nil
}
