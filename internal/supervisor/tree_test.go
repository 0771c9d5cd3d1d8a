// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package supervisor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// mockService counts Serve calls and can be told to fail.
type mockService struct {
	name       string
	startCount atomic.Int32
	stopCount  atomic.Int32
	failCount  atomic.Int32

	mu       sync.Mutex
	maxFails int32
	err      error
	stuck    chan struct{} // when set, Serve ignores ctx until closed
}

func newMockService(name string) *mockService {
	return &mockService{name: name}
}

func (m *mockService) Serve(ctx context.Context) error {
	m.startCount.Add(1)
	defer m.stopCount.Add(1)

	m.mu.Lock()
	err, maxFails, stuck := m.err, m.maxFails, m.stuck
	m.mu.Unlock()

	if maxFails > 0 && m.failCount.Add(1) <= maxFails {
		return errors.New("simulated failure")
	}
	if err != nil {
		return err
	}
	if stuck != nil {
		<-stuck
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) setFailCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxFails = int32(n)
}

func (m *mockService) String() string {
	return m.name
}

var _ suture.Service = (*mockService)(nil)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func waitForStart(t *testing.T, svcs ...*mockService) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		started := true
		for _, s := range svcs {
			if s.startCount.Load() < 1 {
				started = false
			}
		}
		if started {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("services did not start")
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("root supervisor is nil")
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want %+v", tree.config, DefaultTreeConfig())
	}

	custom, _ := NewSupervisorTree(nil, TreeConfig{FailureThreshold: 2, ShutdownTimeout: time.Second})
	if custom.config.FailureThreshold != 2 || custom.config.ShutdownTimeout != time.Second {
		t.Errorf("explicit values overwritten: %+v", custom.config)
	}
	if custom.config.FailureDecay != 30 {
		t.Errorf("FailureDecay = %v, want default 30", custom.config.FailureDecay)
	}
}

func TestSupervisorTree_StartsAllLayers(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	gc := newMockService("store-gc")
	hub := newMockService("websocket-hub")
	bridge := newMockService("event-bridge")
	httpSvc := newMockService("http-server")
	tree.AddDataService(gc)
	tree.AddMessagingService(hub)
	tree.AddMessagingService(bridge)
	tree.AddAPIService(httpSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitForStart(t, gc, hub, bridge, httpSvc)
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not shut down")
	}

	for _, s := range []*mockService{gc, hub, bridge, httpSvc} {
		if s.stopCount.Load() != s.startCount.Load() {
			t.Errorf("%s: started %d, stopped %d", s.name, s.startCount.Load(), s.stopCount.Load())
		}
	}
}

func TestSupervisorTree_RestartIsLocalToService(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	bridge := newMockService("event-bridge")
	bridge.setFailCount(3)
	httpSvc := newMockService("http-server")
	tree.AddMessagingService(bridge)
	tree.AddAPIService(httpSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-errCh
	}()

	deadline := time.Now().Add(2 * time.Second)
	for bridge.startCount.Load() < 4 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := bridge.startCount.Load(); got < 4 {
		t.Fatalf("bridge started %d times, want at least 4", got)
	}
	if got := httpSvc.startCount.Load(); got != 1 {
		t.Errorf("http server started %d times, a bridge failure must not restart it", got)
	}
}

func TestSupervisorTree_LogUnstopped(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	tree, _ := NewSupervisorTree(logger, TreeConfig{ShutdownTimeout: 50 * time.Millisecond})

	stuck := newMockService("stuck")
	stuck.stuck = make(chan struct{})
	defer close(stuck.stuck)
	tree.AddAPIService(stuck)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	waitForStart(t, stuck)
	cancel()
	<-errCh

	tree.LogUnstopped()
	if !strings.Contains(buf.String(), "did not stop in time") {
		t.Errorf("log output = %q", buf.String())
	}
}
