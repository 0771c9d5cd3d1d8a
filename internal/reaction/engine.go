// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package reaction implements the like and view state machine for
// experiences.
//
// A like is a toggle: the first call by a user adds them to LikedBy and the
// next removes them. A view is monotone: the first call by a user adds them to
// ViewedBy and every later call is a no-op that writes nothing. After every
// completed call Likes == len(LikedBy) and
// Views == len(ViewedBy) + AnonymousViews.
//
// Calls for the same experience are serialized by a per-experience lock, and
// each read-modify-write commits in a single store transaction, so concurrent
// callers never lose an update. Calls for different experiences run in
// parallel.
package reaction

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/store"
)

// MaxUserIDLength bounds the opaque user identifier.
const MaxUserIDLength = 256

// Kind selects the reaction set.
type Kind string

const (
	KindLike Kind = "like"
	KindView Kind = "view"
)

// Valid reports whether k is KindLike or KindView.
func (k Kind) Valid() bool {
	return k == KindLike || k == KindView
}

// Store is the subset of the record store the engine needs.
type Store interface {
	Get(ctx context.Context, id string) (*models.Experience, error)
	Update(ctx context.Context, id string, fn store.UpdateFunc) (*models.Experience, error)
}

// Transition describes the outcome of one like or view call.
type Transition struct {
	ExperienceID string
	// UserID is empty for an anonymous view.
	UserID string
	Kind   Kind
	// PreviousMembership is whether the user was in the set before the call.
	PreviousMembership bool
	// NewCount is the like or view count after the call.
	NewCount int
	// Changed is false only for a repeat view, which writes nothing and must
	// not be broadcast.
	Changed bool
}

// Liked is the like state after a ToggleLike.
func (t Transition) Liked() bool {
	return t.Kind == KindLike && !t.PreviousMembership
}

// FirstView reports whether a RegisterView counted a new view.
func (t Transition) FirstView() bool {
	return t.Kind == KindView && t.Changed
}

// Engine applies reaction transitions to stored experiences.
type Engine struct {
	store          Store
	locks          *keyedMutex
	countAnonymous bool
}

// NewEngine returns an engine over s. cfg.AnonymousMode decides whether views
// without a user id are rejected or counted.
func NewEngine(s Store, cfg config.ReactionsConfig) *Engine {
	return &Engine{
		store:          s,
		locks:          newKeyedMutex(),
		countAnonymous: cfg.AnonymousMode == config.AnonymousCount,
	}
}

// ToggleLike adds userID to the experience's likes, or removes it when
// already present. The like count never drops below zero.
func (e *Engine) ToggleLike(ctx context.Context, experienceID, userID string) (tr Transition, err error) {
	start := time.Now()
	defer func() { recordOutcome(KindLike, tr, err, start) }()

	experienceID = strings.TrimSpace(experienceID)
	userID = strings.TrimSpace(userID)
	if experienceID == "" {
		return Transition{}, invalidInput("experience id is required")
	}
	if err := checkUserID(userID); err != nil {
		return Transition{}, err
	}

	unlock := e.locks.Lock(experienceID)
	defer unlock()

	tr = Transition{ExperienceID: experienceID, UserID: userID, Kind: KindLike, Changed: true}
	_, err = e.store.Update(ctx, experienceID, func(exp *models.Experience) (bool, error) {
		tr.PreviousMembership = exp.HasLiked(userID)
		if tr.PreviousMembership {
			exp.LikedBy = removeAll(exp.LikedBy, userID)
			exp.Likes = max(0, exp.Likes-1)
		} else {
			exp.LikedBy = append(exp.LikedBy, userID)
			exp.Likes++
		}
		tr.NewCount = exp.Likes
		return true, nil
	})
	if err != nil {
		return Transition{}, translate("like", experienceID, err)
	}

	logging.Ctx(ctx).Debug().
		Str("experience_id", experienceID).
		Str("user_id", logging.SanitizeValue(userID)).
		Bool("liked", tr.Liked()).
		Int("likes", tr.NewCount).
		Msg("Like toggled")
	return tr, nil
}

// RegisterView records that userID viewed the experience. A repeat view
// changes nothing and reports Changed=false. With anonymous counting enabled,
// an empty userID always increments Views and AnonymousViews.
func (e *Engine) RegisterView(ctx context.Context, experienceID, userID string) (tr Transition, err error) {
	start := time.Now()
	defer func() { recordOutcome(KindView, tr, err, start) }()

	experienceID = strings.TrimSpace(experienceID)
	userID = strings.TrimSpace(userID)
	if experienceID == "" {
		return Transition{}, invalidInput("experience id is required")
	}
	anonymous := userID == "" && e.countAnonymous
	if !anonymous {
		if err := checkUserID(userID); err != nil {
			return Transition{}, err
		}
	}

	unlock := e.locks.Lock(experienceID)
	defer unlock()

	tr = Transition{ExperienceID: experienceID, UserID: userID, Kind: KindView}
	_, err = e.store.Update(ctx, experienceID, func(exp *models.Experience) (bool, error) {
		if anonymous {
			exp.AnonymousViews++
			exp.Views++
			tr.NewCount = exp.Views
			tr.Changed = true
			return true, nil
		}

		tr.PreviousMembership = exp.HasViewed(userID)
		tr.NewCount = exp.Views
		if tr.PreviousMembership {
			tr.Changed = false
			return false, nil
		}
		exp.ViewedBy = append(exp.ViewedBy, userID)
		exp.Views++
		tr.NewCount = exp.Views
		tr.Changed = true
		return true, nil
	})
	if err != nil {
		return Transition{}, translate("view", experienceID, err)
	}

	if tr.Changed {
		logging.Ctx(ctx).Debug().
			Str("experience_id", experienceID).
			Bool("anonymous", anonymous).
			Int("views", tr.NewCount).
			Msg("View registered")
	}
	return tr, nil
}

// IsMember reports whether userID is in the like or view set of the
// experience. It never writes.
func (e *Engine) IsMember(ctx context.Context, experienceID, userID string, kind Kind) (bool, error) {
	experienceID = strings.TrimSpace(experienceID)
	userID = strings.TrimSpace(userID)
	if experienceID == "" {
		return false, invalidInput("experience id is required")
	}
	if err := checkUserID(userID); err != nil {
		return false, err
	}
	if !kind.Valid() {
		return false, invalidInput("unknown reaction kind %q", kind)
	}

	exp, err := e.store.Get(ctx, experienceID)
	if err != nil {
		return false, translate("membership", experienceID, err)
	}
	if kind == KindLike {
		return exp.HasLiked(userID), nil
	}
	return exp.HasViewed(userID), nil
}

func checkUserID(userID string) error {
	if userID == "" {
		return invalidInput("userId is required")
	}
	if len(userID) > MaxUserIDLength {
		return invalidInput("userId cannot be more than %d characters", MaxUserIDLength)
	}
	return nil
}

func removeAll(set []string, v string) []string {
	out := set[:0]
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func recordOutcome(kind Kind, tr Transition, err error, start time.Time) {
	var outcome string
	switch {
	case err == nil && kind == KindLike && tr.Liked():
		outcome = "liked"
	case err == nil && kind == KindLike:
		outcome = "unliked"
	case err == nil && tr.Changed && tr.UserID == "":
		outcome = "anonymous_view"
	case err == nil && tr.Changed:
		outcome = "first_view"
	case err == nil:
		outcome = "repeat_view"
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrInvalidInput):
		outcome = "invalid"
	default:
		outcome = "error"
	}
	metrics.RecordReaction(string(kind), outcome, time.Since(start))
}
