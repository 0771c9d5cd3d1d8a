// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/models"
)

// UpdateFunc mutates exp in place and reports whether it changed anything.
// Returning false skips the write. It may run more than once when the
// transaction is retried, so it must not have side effects outside exp.
type UpdateFunc func(exp *models.Experience) (changed bool, err error)

// Update applies fn to the current version of the experience inside one
// read-write transaction and returns the resulting record.
//
// A commit that loses a write conflict is retried with a fresh read up to the
// configured number of times, sleeping a jittered exponential backoff between
// attempts. Errors returned by fn are passed through unchanged and nothing is
// written.
func (s *Store) Update(ctx context.Context, id string, fn UpdateFunc) (result *models.Experience, err error) {
	start := time.Now()
	defer func() { observe("update", start, err) }()

	attempts := s.conflictRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, wrap("update", id, err)
		}

		var fnErr error
		result, err = s.updateOnce(id, fn, &fnErr)
		if fnErr != nil {
			return nil, fnErr
		}
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, badger.ErrConflict) {
			return nil, wrap("update", id, err)
		}

		if attempt == attempts {
			break
		}
		metrics.RecordStoreConflictRetry()
		delay := s.conflictDelay(attempt)
		logging.Debug().
			Str("experience_id", id).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("Write conflict, retrying")

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, wrap("update", id, ctx.Err())
			case <-timer.C:
			}
		}
	}
	return nil, &StorageError{Op: "update", ID: id, Err: fmt.Errorf("gave up after %d attempts: %w", attempts, badger.ErrConflict)}
}

// maxConflictBackoff caps the delay between conflict retries.
const maxConflictBackoff = 100 * time.Millisecond

// conflictDelay returns a random delay in [0, base*2^(attempt-1)], capped at
// maxConflictBackoff.
func (s *Store) conflictDelay(attempt int) time.Duration {
	base := s.conflictBackoff
	if base <= 0 {
		return 0
	}
	ceiling := maxConflictBackoff
	if attempt < 20 {
		if d := base << (attempt - 1); d > 0 && d < ceiling {
			ceiling = d
		}
	}
	return rand.N(ceiling + 1)
}

func (s *Store) updateOnce(id string, fn UpdateFunc, fnErr *error) (*models.Experience, error) {
	var exp *models.Experience
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		exp, err = getExperience(txn, id)
		if err != nil {
			return err
		}

		changed, err := fn(exp)
		if err != nil {
			*fnErr = err
			return err
		}
		if !changed {
			return nil
		}

		data, err := json.Marshal(exp)
		if err != nil {
			return fmt.Errorf("marshal experience: %w", err)
		}
		return txn.Set(experienceKey(id), data)
	})
	return exp, err
}
