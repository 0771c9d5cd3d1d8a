// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/models"
)

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	// Topic is the broker topic (NATS subject) events are published to.
	Topic string
	// QueueSize bounds events waiting to be published.
	QueueSize int
	// Breaker guards the publisher.
	Breaker config.CircuitBreakerConfig
}

// Dispatcher publishes realtime events without blocking the caller.
//
// Publish* methods only encode and enqueue. Serve drains the queue into the
// broker. When the queue is full the event is dropped and a *BroadcastError
// is returned for the caller to log.
type Dispatcher struct {
	publisher message.Publisher
	topic     string
	breaker   *gobreaker.CircuitBreaker[interface{}]
	queue     chan *Envelope
	now       func() time.Time

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher returns a dispatcher publishing to pub.
func NewDispatcher(pub message.Publisher, cfg DispatcherConfig) *Dispatcher {
	size := cfg.QueueSize
	if size <= 0 {
		size = 256
	}
	topic := cfg.Topic
	if topic == "" {
		topic = "experiences"
	}
	return &Dispatcher{
		publisher: pub,
		topic:     topic,
		breaker:   NewCircuitBreaker("event-broker", cfg.Breaker),
		queue:     make(chan *Envelope, size),
		now:       time.Now,
	}
}

// PublishLikeChanged announces a like toggle to everyone except exclude.
func (d *Dispatcher) PublishLikeChanged(exclude, experienceID string, newLikeCount int, userID string, liked bool) error {
	return d.publish(EventLikeUpdated, exclude, LikeUpdatedPayload{
		ExperienceID: experienceID,
		NewLikeCount: newLikeCount,
		UserID:       userID,
		Liked:        liked,
		Timestamp:    d.now().UTC(),
	})
}

// PublishViewChanged announces a first view to everyone except exclude.
func (d *Dispatcher) PublishViewChanged(exclude, experienceID string, newViewCount int) error {
	return d.publish(EventViewUpdated, exclude, ViewUpdatedPayload{
		ExperienceID: experienceID,
		NewViewCount: newViewCount,
		Timestamp:    d.now().UTC(),
	})
}

// PublishNewRecord announces a new experience to everyone. The public form
// of the record is sent, so anonymous submitters stay anonymous.
func (d *Dispatcher) PublishNewRecord(exp *models.Experience) error {
	return d.publish(EventNewExperience, "", NewExperiencePayload{
		Experience: exp.Public(),
		Message:    NewExperienceMessage,
		Timestamp:  d.now().UTC(),
	})
}

func (d *Dispatcher) publish(eventType, exclude string, payload any) error {
	env, err := NewEnvelope(eventType, exclude, payload)
	if err != nil {
		metrics.RecordFanoutEvent(eventType, "failed")
		return &BroadcastError{Event: eventType, Err: err}
	}
	return d.enqueue(env)
}

func (d *Dispatcher) enqueue(env *Envelope) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.RecordFanoutEvent(env.Type, "dropped")
		return &BroadcastError{Event: env.Type, Err: ErrDispatcherClosed}
	}

	select {
	case d.queue <- env:
		metrics.UpdateFanoutQueueDepth(len(d.queue))
		return nil
	default:
		metrics.RecordFanoutEvent(env.Type, "dropped")
		return &BroadcastError{Event: env.Type, Err: ErrQueueFull}
	}
}

// Serve publishes queued events until ctx is done. It implements
// suture.Service.
func (d *Dispatcher) Serve(ctx context.Context) error {
	logging.Info().Str("topic", d.topic).Msg("Event dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.drain()
			logging.Info().Msg("Event dispatcher stopped")
			return ctx.Err()
		case env := <-d.queue:
			metrics.UpdateFanoutQueueDepth(len(d.queue))
			d.send(env)
		}
	}
}

// drain publishes whatever is already queued without waiting for more.
func (d *Dispatcher) drain() {
	for {
		select {
		case env := <-d.queue:
			d.send(env)
		default:
			metrics.UpdateFanoutQueueDepth(0)
			return
		}
	}
}

func (d *Dispatcher) send(env *Envelope) {
	msg, err := env.ToMessage()
	if err != nil {
		metrics.RecordFanoutEvent(env.Type, "failed")
		logging.Error().Err(err).Str("event", env.Type).Msg("Failed to encode event")
		return
	}

	_, err = d.breaker.Execute(func() (interface{}, error) {
		return nil, d.publisher.Publish(d.topic, msg)
	})
	if err != nil {
		metrics.RecordFanoutEvent(env.Type, "failed")
		logging.Warn().
			Err(err).
			Str("event", env.Type).
			Str("message_id", msg.UUID).
			Str("breaker_state", d.breaker.State().String()).
			Msg("Failed to publish event")
		return
	}
	metrics.RecordFanoutEvent(env.Type, "published")
}

// Close stops accepting events. Events already queued are still published
// by Serve when its context ends.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// BreakerState returns the publish circuit breaker state name.
func (d *Dispatcher) BreakerState() string {
	return d.breaker.State().String()
}

// QueueLen returns the number of events waiting to be published.
func (d *Dispatcher) QueueLen() int {
	return len(d.queue)
}

// String implements fmt.Stringer for suture logging.
func (d *Dispatcher) String() string {
	return "event-dispatcher"
}
