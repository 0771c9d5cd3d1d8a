// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package store

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/wayfarer/internal/models"
)

// DefaultSort lists newest experiences first.
const DefaultSort = "-createdAt"

// TypeAll disables the type filter.
const TypeAll = "all"

// sortFields maps the public sort names to comparators (ascending).
var sortFields = map[string]func(a, b *models.Experience) int{
	"createdAt": func(a, b *models.Experience) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"likes":     func(a, b *models.Experience) int { return cmp.Compare(a.Likes, b.Likes) },
	"views":     func(a, b *models.Experience) int { return cmp.Compare(a.Views, b.Views) },
	"title":     func(a, b *models.Experience) int { return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)) },
}

// ValidSort reports whether s names a supported sort, with or without the
// leading "-" for descending order.
func ValidSort(s string) bool {
	_, ok := sortFields[strings.TrimPrefix(s, "-")]
	return ok
}

// ListQuery selects a page of experiences.
type ListQuery struct {
	// Status filters by moderation state; empty matches every state.
	Status models.ExperienceStatus
	// Type filters by experience type; empty or TypeAll matches every type.
	Type string
	// Sort is a field name, optionally prefixed with "-" for descending.
	Sort string
	// Page is 1-based.
	Page int
	// Limit is the page size; zero or less returns every match.
	Limit int
}

// List returns one page of matching experiences and the total number of
// matches across all pages.
func (s *Store) List(ctx context.Context, q ListQuery) (items []*models.Experience, total int, err error) {
	start := time.Now()
	defer func() { observe("list", start, err) }()

	var matches []*models.Experience
	err = s.db.View(func(txn *badger.Txn) error {
		return iterate(ctx, txn, func(exp *models.Experience) error {
			if q.matches(exp) {
				matches = append(matches, exp)
			}
			return nil
		})
	})
	if err != nil {
		return nil, 0, wrap("list", "", err)
	}

	sortExperiences(matches, q.Sort)
	total = len(matches)

	if q.Limit <= 0 {
		return matches, total, nil
	}
	page := max(q.Page, 1)
	// Compare in pages before multiplying so a huge page cannot overflow.
	pages := total / q.Limit
	if total%q.Limit != 0 {
		pages++
	}
	if page-1 >= pages {
		return []*models.Experience{}, total, nil
	}
	from := (page - 1) * q.Limit
	to := min(from+q.Limit, total)
	return matches[from:to], total, nil
}

func (q ListQuery) matches(exp *models.Experience) bool {
	if q.Status != "" && exp.Status != q.Status {
		return false
	}
	if q.Type != "" && q.Type != TypeAll && string(exp.Type) != q.Type {
		return false
	}
	return true
}

// sortExperiences orders items by spec; unknown fields fall back to
// DefaultSort. Ties are broken by ID so pages are stable.
func sortExperiences(items []*models.Experience, spec string) {
	if !ValidSort(spec) {
		spec = DefaultSort
	}
	desc := strings.HasPrefix(spec, "-")
	compare := sortFields[strings.TrimPrefix(spec, "-")]

	slices.SortStableFunc(items, func(a, b *models.Experience) int {
		c := compare(a, b)
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
