// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/wayfarer/internal/models"
)

// Create stores a new experience. It assigns an ID and CreatedAt when they
// are unset and returns the stored copy.
func (s *Store) Create(ctx context.Context, exp *models.Experience) (result *models.Experience, err error) {
	start := time.Now()
	defer func() { observe("create", start, err) }()

	if exp == nil {
		return nil, errors.New("experience cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, wrap("create", exp.ID, err)
	}

	rec := exp.Clone()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Status == "" {
		rec.Status = models.StatusApproved
	}
	if rec.SkillsLearned == nil {
		rec.SkillsLearned = []string{}
	}
	if rec.LikedBy == nil {
		rec.LikedBy = []string{}
	}
	if rec.ViewedBy == nil {
		rec.ViewedBy = []string{}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, wrap("create", rec.ID, fmt.Errorf("marshal experience: %w", err))
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		key := experienceKey(rec.ID)
		_, err := txn.Get(key)
		if err == nil {
			return ErrDuplicateID
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check existing: %w", err)
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return nil, wrap("create", rec.ID, err)
	}
	return rec, nil
}

// Get returns the experience with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (exp *models.Experience, err error) {
	start := time.Now()
	defer func() { observe("get", start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, wrap("get", id, err)
	}

	err = s.db.View(func(txn *badger.Txn) error {
		var getErr error
		exp, getErr = getExperience(txn, id)
		return getErr
	})
	if err != nil {
		return nil, wrap("get", id, err)
	}
	return exp, nil
}

// Put writes exp unconditionally, replacing any stored version. It is meant
// for maintenance tools; request paths use Create and Update.
func (s *Store) Put(ctx context.Context, exp *models.Experience) (err error) {
	start := time.Now()
	defer func() { observe("put", start, err) }()

	if exp == nil || exp.ID == "" {
		return errors.New("experience with an id is required")
	}
	if err := ctx.Err(); err != nil {
		return wrap("put", exp.ID, err)
	}

	data, err := json.Marshal(exp)
	if err != nil {
		return wrap("put", exp.ID, fmt.Errorf("marshal experience: %w", err))
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(experienceKey(exp.ID), data)
	})
	return wrap("put", exp.ID, err)
}

// ForEach calls fn for every stored experience in key order. Iteration stops
// at the first error from fn or when ctx is done. fn must not call back into
// the store's write methods.
func (s *Store) ForEach(ctx context.Context, fn func(*models.Experience) error) (err error) {
	start := time.Now()
	defer func() { observe("foreach", start, err) }()

	err = s.db.View(func(txn *badger.Txn) error {
		return iterate(ctx, txn, fn)
	})
	if err != nil {
		var cbErr *callbackError
		if errors.As(err, &cbErr) {
			return cbErr.err
		}
		return wrap("foreach", "", err)
	}
	return nil
}

// callbackError marks errors returned by a ForEach callback so they reach the
// caller unwrapped.
type callbackError struct{ err error }

func (e *callbackError) Error() string { return e.err.Error() }
func (e *callbackError) Unwrap() error { return e.err }

func iterate(ctx context.Context, txn *badger.Txn, fn func(*models.Experience) error) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := []byte(experienceKeyPrefix)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var exp models.Experience
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &exp)
		}); err != nil {
			return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
		if err := fn(&exp); err != nil {
			return &callbackError{err: err}
		}
	}
	return nil
}

func getExperience(txn *badger.Txn, id string) (*models.Experience, error) {
	item, err := txn.Get(experienceKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get experience: %w", err)
	}

	var exp models.Experience
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &exp)
	}); err != nil {
		return nil, fmt.Errorf("decode experience: %w", err)
	}
	return &exp, nil
}
