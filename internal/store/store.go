// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package store persists experiences in an embedded BadgerDB.
//
// Each experience is one JSON value under the key "experience:<id>". Reaction
// updates go through Update, which reads, mutates and writes the record inside
// a single read-write transaction so a concurrent writer either sees the whole
// change or none of it. Badger detects conflicting transactions at commit and
// Update retries them a bounded number of times.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
)

const experienceKeyPrefix = "experience:"

// Store is the Badger-backed record store. It is safe for concurrent use.
type Store struct {
	db              *badger.DB
	conflictRetries int
	conflictBackoff time.Duration
	gcDiscardRatio  float64
	inMemory        bool
	closed          atomic.Bool
}

// Open opens (or creates) the database described by cfg.
func Open(cfg config.StorageConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("storage path is required unless in_memory is set")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	// Badger logs through its own logger; ours covers open/close and GC.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	ratio := cfg.GCDiscardRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.5
	}
	retries := cfg.ConflictRetries
	if retries < 0 {
		retries = 0
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Int("conflict_retries", retries).
		Msg("Record store opened")

	return &Store{
		db:              db,
		conflictRetries: retries,
		conflictBackoff: cfg.ConflictBackoff,
		gcDiscardRatio:  ratio,
		inMemory:        cfg.InMemory,
	}, nil
}

// OpenInMemory opens an empty in-memory store. Intended for tests.
func OpenInMemory() (*Store, error) {
	return Open(config.StorageConfig{InMemory: true, ConflictRetries: 10, ConflictBackoff: time.Millisecond})
}

// Close flushes and closes the database. Calling Close twice is a no-op.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return &StorageError{Op: "close", Err: err}
	}
	logging.Info().Msg("Record store closed")
	return nil
}

// Ping reports whether the database can serve a read transaction.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() || s.db.IsClosed() {
		return &StorageError{Op: "ping", Err: ErrClosed}
	}
	if err := s.db.View(func(txn *badger.Txn) error { return nil }); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

// RunGC rewrites value log files until Badger reports nothing left to reclaim.
// In-memory stores have no value log and return immediately.
func (s *Store) RunGC() error {
	if s.inMemory {
		return nil
	}
	if s.closed.Load() {
		return &StorageError{Op: "gc", Err: ErrClosed}
	}

	rewritten := 0
	for {
		err := s.db.RunValueLogGC(s.gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			metrics.RecordStoreGC("error")
			return &StorageError{Op: "gc", Err: err}
		}
		rewritten++
	}

	if rewritten > 0 {
		metrics.RecordStoreGC("rewritten")
		logging.Debug().Int("files", rewritten).Msg("Value log GC reclaimed space")
	} else {
		metrics.RecordStoreGC("noop")
	}
	return nil
}

func experienceKey(id string) []byte {
	return []byte(experienceKeyPrefix + id)
}

// observe records the latency of op. Not-found results are not failures.
func observe(op string, start time.Time, err error) {
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	metrics.RecordStoreOperation(op, time.Since(start), err)
}
