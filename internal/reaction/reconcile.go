// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package reaction

import (
	"context"
	"fmt"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
)

// Reconcile restores the counter invariants of exp in place: duplicate and
// empty ids are removed from both sets, Likes becomes len(LikedBy) and Views
// becomes len(ViewedBy) + AnonymousViews. It reports whether anything changed.
func Reconcile(exp *models.Experience) bool {
	changed := false

	liked, dup := dedupe(exp.LikedBy)
	if dup || exp.LikedBy == nil {
		exp.LikedBy = liked
		changed = true
	}
	viewed, dup := dedupe(exp.ViewedBy)
	if dup || exp.ViewedBy == nil {
		exp.ViewedBy = viewed
		changed = true
	}

	if exp.AnonymousViews < 0 {
		exp.AnonymousViews = 0
		changed = true
	}
	if want := len(exp.LikedBy); exp.Likes != want {
		exp.Likes = want
		changed = true
	}
	if want := len(exp.ViewedBy) + exp.AnonymousViews; exp.Views != want {
		exp.Views = want
		changed = true
	}
	return changed
}

func dedupe(ids []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, len(out) != len(ids)
}

// MaintenanceStore is what ReconcileAll needs from the record store.
type MaintenanceStore interface {
	Store
	ForEach(ctx context.Context, fn func(*models.Experience) error) error
}

// ReconcileReport summarizes a ReconcileAll run.
type ReconcileReport struct {
	Scanned  int
	Repaired []string
}

// ReconcileAll scans every experience and repairs counter drift. Each repair
// is applied through Update under the experience lock, so it is safe to run
// against a live engine. With dryRun set nothing is written and Repaired lists
// the records that would change.
func (e *Engine) ReconcileAll(ctx context.Context, s MaintenanceStore, dryRun bool) (ReconcileReport, error) {
	var report ReconcileReport
	var drifted []string

	err := s.ForEach(ctx, func(exp *models.Experience) error {
		report.Scanned++
		if Reconcile(exp.Clone()) {
			drifted = append(drifted, exp.ID)
		}
		return nil
	})
	if err != nil {
		return report, translate("reconcile", "", err)
	}

	if dryRun {
		report.Repaired = drifted
		return report, nil
	}

	for _, id := range drifted {
		if err := e.repair(ctx, id); err != nil {
			return report, err
		}
		report.Repaired = append(report.Repaired, id)
	}

	logging.Info().
		Int("scanned", report.Scanned).
		Int("repaired", len(report.Repaired)).
		Msg("Reaction counters reconciled")
	return report, nil
}

func (e *Engine) repair(ctx context.Context, id string) error {
	unlock := e.locks.Lock(id)
	defer unlock()

	_, err := e.store.Update(ctx, id, func(exp *models.Experience) (bool, error) {
		return Reconcile(exp), nil
	})
	if err != nil {
		return fmt.Errorf("repair %s: %w", id, translate("reconcile", id, err))
	}
	return nil
}
