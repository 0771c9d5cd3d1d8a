// Wayfarer - Tourism Experience Sharing with Real-Time Reactions
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package websocket

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // client messages are tiny control frames
)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	// id is a UUID shared with the browser in the connected message.
	id      string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

// NewClient creates a new Client with a fresh UUID
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:      uuid.New().String(),
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, hub.cfg.ClientBuffer),
		limiter: rate.NewLimiter(rate.Limit(hub.cfg.MessageRate), hub.cfg.MessageBurst),
	}
}

// ID returns the client id sent to the browser.
func (c *Client) ID() string {
	return c.id
}

// reply queues a message for this client only. It reports false when the
// buffer is full.
func (c *Client) reply(msg Message) bool {
	payload, err := json.Marshal(msg)
	if err != nil {
		logging.Error().Err(err).Str("message_type", msg.Type).Msg("failed to marshal reply")
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// inbound is the only shape accepted from clients.
type inbound struct {
	Type string `json:"type"`
}

// readPump handles control messages from the browser. Clients cannot publish
// events; anything other than room membership and ping is answered with an
// error message.
func (c *Client) readPump() {
	defer func() {
		c.hub.release(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Str("client_id", c.id).Msg("unexpected websocket close error")
			}
			break
		}
		metrics.WSMessagesReceived.Inc()

		if !c.limiter.Allow() {
			metrics.WSErrors.WithLabelValues("rate_limited").Inc()
			c.reply(Message{Type: MessageTypeError, Data: ErrorData{Message: "Too many messages"}})
			continue
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			metrics.WSErrors.WithLabelValues("invalid_message").Inc()
			c.reply(Message{Type: MessageTypeError, Data: ErrorData{Message: "Invalid message"}})
			continue
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg inbound) {
	switch msg.Type {
	case MessageTypeJoinRoom:
		if c.hub.Join(c) {
			c.reply(Message{Type: MessageTypeRoomJoined, Data: map[string]string{"room": RoomExperiences}})
		}
	case MessageTypeLeaveRoom:
		c.hub.Leave(c)
		c.reply(Message{Type: MessageTypeRoomLeft, Data: map[string]string{"room": RoomExperiences}})
	case MessageTypePing:
		c.reply(Message{Type: MessageTypePong})
	default:
		metrics.WSErrors.WithLabelValues("unknown_type").Inc()
		c.reply(Message{Type: MessageTypeError, Data: ErrorData{Message: "Unsupported message type: " + logging.SanitizeValue(msg.Type)}})
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logging.Debug().Err(err).Str("client_id", c.id).Msg("failed to write message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start sends the connected message and begins reading and writing. Call it
// after the client has been registered with the hub.
func (c *Client) Start() {
	c.reply(Message{Type: MessageTypeConnected, Data: ConnectedData{ClientID: c.id}})
	go c.writePump()
	go c.readPump()
}
