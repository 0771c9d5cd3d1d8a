// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
)

// Broadcaster delivers an event to local websocket clients. The websocket hub
// implements it.
type Broadcaster interface {
	// BroadcastEvent sends {type, data} to every joined client except
	// excludeClientID (empty excludes nobody).
	BroadcastEvent(eventType string, data json.RawMessage, excludeClientID string)
}

// Bridge forwards events from the broker topic to the local hub.
type Bridge struct {
	subscriber message.Subscriber
	topic      string
	target     Broadcaster

	forwarded atomic.Int64
}

// NewBridge returns a bridge from topic on sub to target.
func NewBridge(sub message.Subscriber, topic string, target Broadcaster) *Bridge {
	if topic == "" {
		topic = "experiences"
	}
	return &Bridge{subscriber: sub, topic: topic, target: target}
}

// Serve subscribes and forwards until ctx is done. A closed subscription is
// returned as an error so the supervisor resubscribes.
func (b *Bridge) Serve(ctx context.Context) error {
	msgs, err := b.subscriber.Subscribe(ctx, b.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", b.topic, err)
	}
	logging.Info().Str("topic", b.topic).Msg("Event bridge subscribed")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("event subscription closed")
			}
			b.handle(msg)
		}
	}
}

func (b *Bridge) handle(msg *message.Message) {
	// Realtime events are never redelivered, so every message is acked.
	defer msg.Ack()

	env, err := EnvelopeFromMessage(msg)
	if err != nil {
		metrics.RecordFanoutEvent("unknown", "failed")
		logging.Warn().Err(err).Msg("Dropping malformed event")
		return
	}

	b.target.BroadcastEvent(env.Type, env.Data, env.OriginID)
	b.forwarded.Add(1)
	metrics.RecordFanoutEvent(env.Type, "delivered")
}

// Forwarded returns the number of events handed to the hub.
func (b *Bridge) Forwarded() int64 {
	return b.forwarded.Load()
}

// String implements fmt.Stringer for suture logging.
func (b *Bridge) String() string {
	return "event-bridge"
}
