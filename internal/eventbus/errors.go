// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package eventbus

import (
	"errors"
	"fmt"
)

var (
	// ErrQueueFull is returned when the dispatcher queue has no room.
	ErrQueueFull = errors.New("event queue full")

	// ErrDispatcherClosed is returned after Close.
	ErrDispatcherClosed = errors.New("event dispatcher closed")

	// ErrUnknownBroker is returned for an unsupported broker type.
	ErrUnknownBroker = errors.New("unknown broker type")
)

// BroadcastError reports an event that will not reach subscribers. Callers
// log it; the state change that produced the event has already committed.
type BroadcastError struct {
	Event string
	Err   error
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("broadcast %s: %v", e.Event, e.Err)
}

func (e *BroadcastError) Unwrap() error {
	return e.Err
}
