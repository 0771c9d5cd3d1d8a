// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package reaction

import (
	"errors"
	"fmt"

	"github.com/tomtom215/wayfarer/internal/store"
)

var (
	// ErrNotFound is returned when the experience does not exist.
	ErrNotFound = errors.New("experience not found")

	// ErrInvalidInput is returned for a missing experience id, a missing
	// user id (unless anonymous views are counted) or an unknown kind.
	ErrInvalidInput = errors.New("invalid input")
)

// StorageError reports a failed read or write of the record store. The
// transition did not commit.
type StorageError struct {
	Op           string
	ExperienceID string
	Err          error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("reaction %s on %s: %v", e.Op, e.ExperienceID, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// translate maps store errors onto the engine's error set.
func translate(op, experienceID string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotFound):
		return err
	default:
		return &StorageError{Op: op, ExperienceID: experienceID, Err: err}
	}
}
