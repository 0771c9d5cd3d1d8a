// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// RoomExperiences is the only room. Realtime events go to its members.
const RoomExperiences = "experiences-room"

// Message types for WebSocket communication
const (
	// Server to client
	MessageTypeConnected  = "connected"
	MessageTypeRoomJoined = "joined-experiences-room"
	MessageTypeRoomLeft   = "left-experiences-room"
	MessageTypePong       = "pong"
	MessageTypeError      = "error"

	// Client to server
	MessageTypeJoinRoom  = "join-experiences-room"
	MessageTypeLeaveRoom = "leave-experiences-room"
	MessageTypePing      = "ping"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// ConnectedData is sent once per connection. Clients echo ClientID in the
// X-Client-ID header of reaction requests to suppress their own echo.
type ConnectedData struct {
	ClientID string `json:"clientId"`
}

// ErrorData explains a rejected client message.
type ErrorData struct {
	Message string `json:"message"`
}

type outbound struct {
	payload []byte
	exclude string
	kind    string
}

// HubConfig tunes queue sizes and inbound throttling.
type HubConfig struct {
	// BroadcastQueue bounds messages waiting for the hub loop.
	BroadcastQueue int
	// ClientBuffer bounds messages waiting for one client's writer. A client
	// whose buffer is full is disconnected.
	ClientBuffer int
	// MessageRate and MessageBurst throttle inbound messages per client.
	MessageRate  float64
	MessageBurst int
	// RegisterTimeout bounds how long Attach waits for the hub loop.
	RegisterTimeout time.Duration
}

// HubConfigFrom derives hub settings from the realtime configuration.
func HubConfigFrom(cfg config.RealtimeConfig) HubConfig {
	return HubConfig{
		BroadcastQueue: cfg.QueueSize,
		ClientBuffer:   cfg.QueueSize,
		MessageRate:    cfg.ClientMessageRate,
		MessageBurst:   cfg.ClientMessageBurst,
	}
}

func (c HubConfig) withDefaults() HubConfig {
	if c.BroadcastQueue <= 0 {
		c.BroadcastQueue = 256
	}
	if c.ClientBuffer <= 0 {
		c.ClientBuffer = 256
	}
	if c.MessageRate <= 0 {
		c.MessageRate = 5
	}
	if c.MessageBurst <= 0 {
		c.MessageBurst = 10
	}
	if c.RegisterTimeout <= 0 {
		c.RegisterTimeout = 5 * time.Second
	}
	return c
}

// Hub tracks connected clients and the members of the experiences room, and
// delivers broadcasts to room members.
type Hub struct {
	clients    map[*Client]bool
	joined     map[*Client]bool
	broadcast  chan outbound
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
	cfg        HubConfig
}

// NewHub creates a new Hub
func NewHub(cfg HubConfig) *Hub {
	cfg = cfg.withDefaults()
	return &Hub{
		clients:    make(map[*Client]bool),
		joined:     make(map[*Client]bool),
		broadcast:  make(chan outbound, cfg.BroadcastQueue),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		cfg:        cfg,
	}
}

// RunWithContext runs the hub loop until ctx is done, then closes every
// client and returns ctx.Err(). services.WebSocketHubService supervises it.
//
// Lifecycle events are handled before broadcasts so a broadcast never races
// a client that is still being registered.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case out := <-h.broadcast:
			h.broadcastToClients(out)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total, joined := len(h.clients), len(h.joined)
	h.mu.Unlock()

	metrics.SetWSCounts(total, joined)
	logging.Info().Str("client_id", client.id).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		delete(h.joined, client)
		close(client.send)
	}
	total, joined := len(h.clients), len(h.joined)
	h.mu.Unlock()

	if !ok {
		return
	}
	metrics.SetWSCounts(total, joined)
	logging.Info().Str("client_id", client.id).Int("total_clients", total).Msg("websocket client disconnected")
}

// Attach hands client to the hub loop. It returns false when ctx ends or the
// loop does not take the client within RegisterTimeout, e.g. because the hub
// has stopped during shutdown.
func (h *Hub) Attach(ctx context.Context, client *Client) bool {
	timer := time.NewTimer(h.cfg.RegisterTimeout)
	defer timer.Stop()

	select {
	case h.Register <- client:
		return true
	case <-ctx.Done():
	case <-timer.C:
	}
	logging.Warn().Str("client_id", client.id).Msg("websocket client not registered, hub unavailable")
	return false
}

// release unregisters client through the hub loop when it is running and
// directly otherwise, so a reader never blocks on a stopped hub.
func (h *Hub) release(client *Client) {
	select {
	case h.Unregister <- client:
	default:
		h.unregister(client)
	}
}

// Join adds a registered client to the experiences room. Joining twice is
// harmless. It reports whether the client is registered.
func (h *Hub) Join(client *Client) bool {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		h.joined[client] = true
	}
	total, joined := len(h.clients), len(h.joined)
	h.mu.Unlock()

	metrics.SetWSCounts(total, joined)
	return ok
}

// Leave removes client from the experiences room.
func (h *Hub) Leave(client *Client) {
	h.mu.Lock()
	delete(h.joined, client)
	total, joined := len(h.clients), len(h.joined)
	h.mu.Unlock()

	metrics.SetWSCounts(total, joined)
}

// Broadcast queues msg for every room member except the client whose id is
// excludeClientID. It never blocks; when the queue is full the message is
// dropped and false is returned.
func (h *Hub) Broadcast(msg Message, excludeClientID string) bool {
	payload, err := json.Marshal(msg)
	if err != nil {
		logging.Error().Err(err).Str("message_type", msg.Type).Msg("failed to marshal broadcast")
		return false
	}

	select {
	case h.broadcast <- outbound{payload: payload, exclude: excludeClientID, kind: msg.Type}:
		return true
	default:
		metrics.WSErrors.WithLabelValues("broadcast_queue_full").Inc()
		logging.Warn().Str("message_type", msg.Type).Msg("broadcast channel full, dropping message")
		return false
	}
}

// BroadcastEvent forwards a fan-out event to room members. It satisfies the
// eventbus.Broadcaster interface.
func (h *Hub) BroadcastEvent(eventType string, data json.RawMessage, excludeClientID string) {
	h.Broadcast(Message{Type: eventType, Data: data}, excludeClientID)
}

// broadcastToClients delivers in client id order so delivery is reproducible
// in tests. Clients that cannot keep up are disconnected.
func (h *Hub) broadcastToClients(out outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.joined))
	for client := range h.joined {
		if client.id != out.exclude {
			clients = append(clients, client)
		}
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- out.payload:
			metrics.WSMessagesSent.Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		metrics.WSErrors.WithLabelValues("slow_client").Inc()
		logging.Warn().Str("client_id", client.id).Str("message_type", out.kind).Msg("dropping slow websocket client")
		close(client.send)
		delete(h.clients, client)
		delete(h.joined, client)
	}
	if len(toRemove) > 0 {
		metrics.SetWSCounts(len(h.clients), len(h.joined))
	}
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	clear(h.joined)
	metrics.SetWSCounts(0, 0)
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetJoinedCount returns the number of clients in the experiences room.
func (h *Hub) GetJoinedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.joined)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
