// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleExperience(title string, typ models.ExperienceType) *models.Experience {
	return &models.Experience{
		Title:       title,
		Type:        typ,
		Duration:    "3 days",
		Location:    "Lisbon",
		Description: "A long enough description of the experience for the record store tests.",
		User:        models.Submitter{Name: "Ana", Role: "Guide"},
		Status:      models.StatusApproved,
	}
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, sampleExperience("Tram 28", models.TypeTour))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create() did not assign an ID")
	}
	if created.CreatedAt.IsZero() {
		t.Error("Create() did not assign CreatedAt")
	}
	if created.LikedBy == nil || created.ViewedBy == nil {
		t.Error("Create() left reaction sets nil")
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Tram 28" || got.Type != models.TypeTour {
		t.Errorf("Get() = %+v, want stored record", got)
	}
}

func TestCreate_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	exp := sampleExperience("First", models.TypeHotel)
	exp.ID = "fixed-id"
	if _, err := s.Create(ctx, exp); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	_, err := s.Create(ctx, exp)
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("second Create() error = %v, want ErrDuplicateID", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	var se *StorageError
	if errors.As(err, &se) {
		t.Error("not found must not be reported as a StorageError")
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	created, err := s.Create(ctx, sampleExperience("Update me", models.TypeEvent))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("changed record is written", func(t *testing.T) {
		got, err := s.Update(ctx, created.ID, func(exp *models.Experience) (bool, error) {
			exp.LikedBy = append(exp.LikedBy, "u1")
			exp.Likes = len(exp.LikedBy)
			return true, nil
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if got.Likes != 1 {
			t.Errorf("Update() likes = %d, want 1", got.Likes)
		}
		stored, _ := s.Get(ctx, created.ID)
		if stored.Likes != 1 || !stored.HasLiked("u1") {
			t.Errorf("stored = %+v, want like persisted", stored)
		}
	})

	t.Run("unchanged record is not written", func(t *testing.T) {
		_, err := s.Update(ctx, created.ID, func(exp *models.Experience) (bool, error) {
			exp.Title = "discarded"
			return false, nil
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		stored, _ := s.Get(ctx, created.ID)
		if stored.Title != "Update me" {
			t.Errorf("title = %q, want unchanged", stored.Title)
		}
	})

	t.Run("callback error aborts", func(t *testing.T) {
		sentinel := errors.New("rejected")
		_, err := s.Update(ctx, created.ID, func(exp *models.Experience) (bool, error) {
			exp.Likes = 99
			return true, sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("Update() error = %v, want callback error", err)
		}
		stored, _ := s.Get(ctx, created.ID)
		if stored.Likes != 1 {
			t.Errorf("likes = %d, want 1 (no partial write)", stored.Likes)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Update(ctx, "missing", func(*models.Experience) (bool, error) {
			t.Error("callback must not run for a missing record")
			return false, nil
		})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}
	})
}

func TestUpdate_ConcurrentWritersAllApply(t *testing.T) {
	s, err := Open(config.StorageConfig{InMemory: true, ConflictRetries: 100})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	created, err := s.Create(ctx, sampleExperience("Busy", models.TypeTravel))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			_, err := s.Update(ctx, created.ID, func(exp *models.Experience) (bool, error) {
				exp.ViewedBy = append(exp.ViewedBy, user)
				exp.Views = len(exp.ViewedBy)
				return true, nil
			})
			if err != nil {
				errs <- err
			}
		}(fmt.Sprintf("user-%d", i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Update() error = %v", err)
	}

	stored, _ := s.Get(ctx, created.ID)
	if stored.Views != writers || len(stored.ViewedBy) != writers {
		t.Errorf("views = %d, viewedBy = %d, want %d", stored.Views, len(stored.ViewedBy), writers)
	}
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	seed := []struct {
		title  string
		typ    models.ExperienceType
		status models.ExperienceStatus
		likes  int
	}{
		{"Alpha", models.TypeHotel, models.StatusApproved, 3},
		{"bravo", models.TypeTour, models.StatusApproved, 10},
		{"Charlie", models.TypeHotel, models.StatusApproved, 0},
		{"Delta", models.TypeHotel, models.StatusPending, 7},
		{"Echo", models.TypeAirline, models.StatusApproved, 1},
	}
	for i, sd := range seed {
		exp := sampleExperience(sd.title, sd.typ)
		exp.Status = sd.status
		exp.Likes = sd.likes
		exp.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if _, err := s.Create(ctx, exp); err != nil {
			t.Fatalf("Create(%s) error = %v", sd.title, err)
		}
	}

	titles := func(items []*models.Experience) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.Title)
		}
		return out
	}

	tests := []struct {
		name      string
		query     ListQuery
		wantTotal int
		want      []string
	}{
		{
			name:      "approved newest first",
			query:     ListQuery{Status: models.StatusApproved},
			wantTotal: 4,
			want:      []string{"Echo", "Charlie", "bravo", "Alpha"},
		},
		{
			name:      "type all is no filter",
			query:     ListQuery{Status: models.StatusApproved, Type: TypeAll, Sort: "createdAt"},
			wantTotal: 4,
			want:      []string{"Alpha", "bravo", "Charlie", "Echo"},
		},
		{
			name:      "type filter",
			query:     ListQuery{Status: models.StatusApproved, Type: "hotel"},
			wantTotal: 2,
			want:      []string{"Charlie", "Alpha"},
		},
		{
			name:      "most liked",
			query:     ListQuery{Status: models.StatusApproved, Sort: "-likes"},
			wantTotal: 4,
			want:      []string{"bravo", "Alpha", "Echo", "Charlie"},
		},
		{
			name:      "title is case insensitive",
			query:     ListQuery{Sort: "title"},
			wantTotal: 5,
			want:      []string{"Alpha", "bravo", "Charlie", "Delta", "Echo"},
		},
		{
			name:      "second page",
			query:     ListQuery{Status: models.StatusApproved, Page: 2, Limit: 3},
			wantTotal: 4,
			want:      []string{"Alpha"},
		},
		{
			name:      "page past the end",
			query:     ListQuery{Status: models.StatusApproved, Page: 5, Limit: 3},
			wantTotal: 4,
			want:      []string{},
		},
		{
			name:      "max int page does not overflow",
			query:     ListQuery{Status: models.StatusApproved, Page: math.MaxInt, Limit: 12},
			wantTotal: 4,
			want:      []string{},
		},
		{
			name:      "max int limit returns everything",
			query:     ListQuery{Status: models.StatusApproved, Page: 1, Limit: math.MaxInt},
			wantTotal: 4,
			want:      []string{"Echo", "Charlie", "bravo", "Alpha"},
		},
		{
			name:      "unknown sort falls back to newest",
			query:     ListQuery{Status: models.StatusApproved, Sort: "bogus", Limit: 1},
			wantTotal: 4,
			want:      []string{"Echo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := s.List(ctx, tt.query)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if total != tt.wantTotal {
				t.Errorf("total = %d, want %d", total, tt.wantTotal)
			}
			if got := titles(items); !slices.Equal(got, tt.want) {
				t.Errorf("titles = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestForEachAndPut(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"One", "Two", "Three"} {
		if _, err := s.Create(ctx, sampleExperience(title, models.TypeOther)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	var seen []*models.Experience
	if err := s.ForEach(ctx, func(exp *models.Experience) error {
		seen = append(seen, exp)
		return nil
	}); err != nil {
		t.Fatalf("ForEach() error = %v", err)
	}
	if len(seen) != 3 {
		t.Fatalf("ForEach visited %d records, want 3", len(seen))
	}

	target := seen[0]
	target.Views = 42
	if err := s.Put(ctx, target); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	stored, _ := s.Get(ctx, target.ID)
	if stored.Views != 42 {
		t.Errorf("views = %d, want 42", stored.Views)
	}

	stop := errors.New("stop")
	calls := 0
	err := s.ForEach(ctx, func(*models.Experience) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("ForEach() = %v after %d calls, want stop after 1", err, calls)
	}
}

func TestPingAndClose(t *testing.T) {
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if err := s.RunGC(); err != nil {
		t.Errorf("RunGC() on in-memory store error = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	err = s.Ping(context.Background())
	var se *StorageError
	if !errors.As(err, &se) || !errors.Is(err, ErrClosed) {
		t.Errorf("Ping() after Close = %v, want StorageError wrapping ErrClosed", err)
	}
}

func TestOpen_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(config.StorageConfig{Path: dir, ConflictRetries: 3, GCDiscardRatio: 0.5})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	created, err := s.Create(ctx, sampleExperience("Persisted", models.TypeTravel))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.RunGC(); err != nil {
		t.Errorf("RunGC() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(config.StorageConfig{Path: dir})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got.Title != "Persisted" {
		t.Errorf("title = %q, want Persisted", got.Title)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(config.StorageConfig{}); err == nil {
		t.Error("Open() without path or in_memory should fail")
	}
}

func TestConflictDelay(t *testing.T) {
	s := &Store{conflictBackoff: 2 * time.Millisecond}
	for attempt := 1; attempt <= 64; attempt++ {
		ceiling := maxConflictBackoff
		if attempt < 7 {
			ceiling = 2 * time.Millisecond << (attempt - 1)
		}
		for i := 0; i < 50; i++ {
			if d := s.conflictDelay(attempt); d < 0 || d > ceiling {
				t.Fatalf("attempt %d: delay %v outside [0, %v]", attempt, d, ceiling)
			}
		}
	}

	if d := (&Store{}).conflictDelay(3); d != 0 {
		t.Errorf("zero base backoff delay = %v, want 0", d)
	}
}
