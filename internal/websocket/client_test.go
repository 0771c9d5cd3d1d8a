// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// setupWebSocketServer serves the hub the same way the API does
func setupWebSocketServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade connection: %v", err)
			return
		}
		client := NewClient(hub, conn)
		hub.Register <- client
		client.Start()
	}))
	t.Cleanup(server.Close)
	return server
}

// dialWebSocket establishes a WebSocket connection to the test server
func dialWebSocket(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func send(t *testing.T, conn *websocket.Conn, payload string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
}

// connect dials and consumes the connected message, returning the client id.
func connect(t *testing.T, server *httptest.Server) (*websocket.Conn, string) {
	t.Helper()
	conn := dialWebSocket(t, server)
	msg := readMessage(t, conn)
	if msg.Type != MessageTypeConnected {
		t.Fatalf("first message = %q, want %q", msg.Type, MessageTypeConnected)
	}
	data, _ := msg.Data.(map[string]any)
	id, _ := data["clientId"].(string)
	if id == "" {
		t.Fatalf("connected message without clientId: %#v", msg.Data)
	}
	return conn, id
}

func joinRoom(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	send(t, conn, `{"type":"join-experiences-room"}`)
	if msg := readMessage(t, conn); msg.Type != MessageTypeRoomJoined {
		t.Fatalf("join ack = %q", msg.Type)
	}
}

func TestClient_ConnectedMessage(t *testing.T) {
	hub := setupHub(t, HubConfig{})
	server := setupWebSocketServer(t, hub)

	_, first := connect(t, server)
	_, second := connect(t, server)
	if first == second {
		t.Error("client ids must be unique per connection")
	}
	waitFor(t, func() bool { return hub.GetClientCount() == 2 })
}

func TestClient_JoinAndReceive(t *testing.T) {
	hub := setupHub(t, HubConfig{})
	server := setupWebSocketServer(t, hub)

	conn, _ := connect(t, server)
	joinRoom(t, conn)

	hub.BroadcastEvent("new-experience", json.RawMessage(`{"experience":{"id":"exp-1"}}`), "")

	msg := readMessage(t, conn)
	if msg.Type != "new-experience" {
		t.Errorf("type = %q", msg.Type)
	}
}

func TestClient_NotJoinedReceivesNothing(t *testing.T) {
	hub := setupHub(t, HubConfig{})
	server := setupWebSocketServer(t, hub)

	conn, _ := connect(t, server)
	hub.BroadcastEvent("new-experience", json.RawMessage(`{}`), "")

	// ping is answered in order, so a pong first means nothing else was queued
	send(t, conn, `{"type":"ping"}`)
	if msg := readMessage(t, conn); msg.Type != MessageTypePong {
		t.Errorf("got %q before pong", msg.Type)
	}
}

func TestClient_EchoSuppression(t *testing.T) {
	hub := setupHub(t, HubConfig{})
	server := setupWebSocketServer(t, hub)

	liker, likerID := connect(t, server)
	watcher, _ := connect(t, server)
	joinRoom(t, liker)
	joinRoom(t, watcher)

	hub.BroadcastEvent("experience-like-updated", json.RawMessage(`{"experienceId":"exp-1","newLikeCount":1}`), likerID)

	if msg := readMessage(t, watcher); msg.Type != "experience-like-updated" {
		t.Errorf("watcher got %q", msg.Type)
	}
	send(t, liker, `{"type":"ping"}`)
	if msg := readMessage(t, liker); msg.Type != MessageTypePong {
		t.Errorf("originating client received %q", msg.Type)
	}
}

func TestClient_Leave(t *testing.T) {
	hub := setupHub(t, HubConfig{})
	server := setupWebSocketServer(t, hub)

	conn, _ := connect(t, server)
	joinRoom(t, conn)
	send(t, conn, `{"type":"leave-experiences-room"}`)
	if msg := readMessage(t, conn); msg.Type != MessageTypeRoomLeft {
		t.Fatalf("leave ack = %q", msg.Type)
	}
	if hub.GetJoinedCount() != 0 {
		t.Errorf("joined = %d", hub.GetJoinedCount())
	}
}

func TestClient_RejectsUnknownMessages(t *testing.T) {
	hub := setupHub(t, HubConfig{})
	server := setupWebSocketServer(t, hub)
	conn, _ := connect(t, server)

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"unknown type", `{"type":"like-experience"}`, "Unsupported message type: like-experience"},
		{"not json", `hello`, "Invalid message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			send(t, conn, tt.payload)
			msg := readMessage(t, conn)
			if msg.Type != MessageTypeError {
				t.Fatalf("type = %q, want error", msg.Type)
			}
			data, _ := msg.Data.(map[string]any)
			if data["message"] != tt.want {
				t.Errorf("message = %v, want %q", data["message"], tt.want)
			}
		})
	}
}

func TestClient_RateLimited(t *testing.T) {
	hub := setupHub(t, HubConfig{MessageRate: 0.001, MessageBurst: 2})
	server := setupWebSocketServer(t, hub)
	conn, _ := connect(t, server)

	for i := 0; i < 3; i++ {
		send(t, conn, `{"type":"ping"}`)
	}
	readMessage(t, conn)
	readMessage(t, conn)
	msg := readMessage(t, conn)
	if msg.Type != MessageTypeError {
		t.Errorf("third message type = %q, want error", msg.Type)
	}
}

func TestClient_DisconnectUnregisters(t *testing.T) {
	hub := setupHub(t, HubConfig{})
	server := setupWebSocketServer(t, hub)

	conn, _ := connect(t, server)
	waitFor(t, func() bool { return hub.GetClientCount() == 1 })
	_ = conn.Close()
	waitFor(t, func() bool { return hub.GetClientCount() == 0 })
}

func TestClientConstants(t *testing.T) {
	if pingPeriod >= pongWait {
		t.Errorf("pingPeriod %v must be shorter than pongWait %v", pingPeriod, pongWait)
	}
	if maxMessageSize != 4096 {
		t.Errorf("maxMessageSize = %d", maxMessageSize)
	}
}
