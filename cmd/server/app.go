// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/wayfarer/internal/api"
	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/eventbus"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/reaction"
	"github.com/tomtom215/wayfarer/internal/store"
	"github.com/tomtom215/wayfarer/internal/supervisor"
	"github.com/tomtom215/wayfarer/internal/supervisor/services"
	ws "github.com/tomtom215/wayfarer/internal/websocket"
)

// application holds every component main wires together.
type application struct {
	cfg        *config.Config
	store      *store.Store
	natsServer *eventbus.EmbeddedServer
	pubsub     *eventbus.PubSub
	hub        *ws.Hub
	dispatcher *eventbus.Dispatcher
	server     *http.Server
	tree       *supervisor.SupervisorTree
}

// newApplication opens the store and the broker and builds the supervisor
// tree. Nothing is served until run.
func newApplication(cfg *config.Config) (_ *application, err error) {
	app := &application{cfg: cfg}
	defer func() {
		if err != nil {
			app.close()
		}
	}()

	if cfg.Storage.InMemory {
		app.store, err = store.OpenInMemory()
	} else {
		app.store, err = store.Open(cfg.Storage)
	}
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	natsURL := ""
	if cfg.Broker.Type == config.BrokerNATS && cfg.Broker.NATS.EmbeddedServer {
		app.natsServer, err = eventbus.NewEmbeddedServer(cfg.Broker.NATS)
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		natsURL = app.natsServer.ClientURL()
	}

	app.pubsub, err = eventbus.NewPubSub(cfg.Broker, natsURL, eventbus.NewLogger())
	if err != nil {
		return nil, fmt.Errorf("connect event broker: %w", err)
	}
	logging.Info().Str("backend", app.pubsub.Backend).Msg("Event broker connected")

	app.hub = ws.NewHub(ws.HubConfigFrom(cfg.Realtime))
	app.dispatcher = eventbus.NewDispatcher(app.pubsub.Publisher, eventbus.DispatcherConfig{
		Topic:     cfg.Broker.Topic,
		QueueSize: cfg.Realtime.QueueSize,
		Breaker:   cfg.Broker.CircuitBreaker,
	})
	bridge := eventbus.NewBridge(app.pubsub.Subscriber, cfg.Broker.Topic, app.hub)

	engine := reaction.NewEngine(app.store, cfg.Reactions)
	handler := api.NewHandler(app.store, engine, app.dispatcher, app.hub, cfg)
	router := api.NewRouter(handler, cfg)

	app.server = &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	app.tree, err = supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create supervisor tree: %w", err)
	}

	if !cfg.Storage.InMemory {
		app.tree.AddDataService(services.NewStoreGCService(app.store, cfg.Storage.GCInterval))
	}
	if app.natsServer != nil {
		app.tree.AddMessagingService(services.NewNATSServerService(app.natsServer, cfg.Server.ShutdownTimeout))
	}
	app.tree.AddMessagingService(services.NewWebSocketHubService(app.hub))
	app.tree.AddMessagingService(app.dispatcher)
	app.tree.AddMessagingService(bridge)
	app.tree.AddAPIService(services.NewHTTPServerService(app.server, cfg.Server.ShutdownTimeout))

	return app, nil
}

// run serves until ctx is canceled and the tree has stopped.
func (a *application) run(ctx context.Context) error {
	logging.Info().Str("addr", a.server.Addr).Msg("Starting supervisor tree")
	err := a.tree.Serve(ctx)
	a.tree.LogUnstopped()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// close releases what newApplication opened, in reverse order. Safe on a
// partially built application.
func (a *application) close() {
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	if a.pubsub != nil {
		if err := a.pubsub.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing event broker")
		}
	}
	if a.natsServer != nil && a.natsServer.IsRunning() {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		if err := a.natsServer.Shutdown(ctx); err != nil {
			logging.Warn().Err(err).Msg("Error stopping embedded NATS")
		}
		cancel()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing record store")
		}
	}
}
