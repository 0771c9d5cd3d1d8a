// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no experience has the requested id.
	ErrNotFound = errors.New("experience not found")

	// ErrDuplicateID is returned by Create when the id is already taken.
	ErrDuplicateID = errors.New("experience id already exists")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store is closed")
)

// StorageError wraps every failure of the underlying database other than a
// missing record. Callers map it to a server error; it is not retried above
// the store.
type StorageError struct {
	Op  string
	ID  string
	Err error
}

func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// wrap converts err into a *StorageError unless it is nil, already a
// StorageError or a sentinel the caller must see unchanged.
func wrap(op, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateID) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, ID: id, Err: err}
}
