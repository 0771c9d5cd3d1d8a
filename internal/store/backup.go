// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package store

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/wayfarer/internal/logging"
)

// ErrNotEmpty is returned by Restore when the target store already holds
// experiences.
var ErrNotEmpty = errors.New("store is not empty")

// restorePendingWrites bounds the batch Badger buffers while loading a backup.
const restorePendingWrites = 256

// Backup streams a full snapshot of the store to w in Badger's backup format
// and returns the version it covers. The store stays online while it runs.
func (s *Store) Backup(ctx context.Context, w io.Writer) (version uint64, err error) {
	start := time.Now()
	defer func() { observe("backup", start, err) }()

	if err := ctx.Err(); err != nil {
		return 0, wrap("backup", "", err)
	}
	if s.closed.Load() {
		return 0, &StorageError{Op: "backup", Err: ErrClosed}
	}

	version, err = s.db.Backup(w, 0)
	if err != nil {
		return 0, wrap("backup", "", err)
	}
	logging.Info().Uint64("version", version).Dur("took", time.Since(start)).Msg("Store backup written")
	return version, nil
}

// Restore loads a snapshot written by Backup. The store must be empty so a
// restore never merges two data sets.
func (s *Store) Restore(ctx context.Context, r io.Reader) (err error) {
	start := time.Now()
	defer func() { observe("restore", start, err) }()

	if err := ctx.Err(); err != nil {
		return wrap("restore", "", err)
	}
	if s.closed.Load() {
		return &StorageError{Op: "restore", Err: ErrClosed}
	}

	empty := true
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(experienceKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		it.Rewind()
		empty = !it.Valid()
		return nil
	})
	if err != nil {
		return wrap("restore", "", err)
	}
	if !empty {
		return ErrNotEmpty
	}

	if err := s.db.Load(r, restorePendingWrites); err != nil {
		return wrap("restore", "", err)
	}
	logging.Info().Dur("took", time.Since(start)).Msg("Store restored from backup")
	return nil
}
