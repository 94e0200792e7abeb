/*
Package api
File: hub.go
Description:
    The WebSocket Hub keeps every connected presentation client in sync with
    the engine.

    It maintains a registry of active clients and a broadcast channel. After
    every command and every heartbeat the server pushes a fresh state envelope
    through the Hub, which writes it to every client socket. Clients may also
    send commands (click, buy_upgrade, reset, sync) over the same socket.

    Architecture:
    - Hub: owns the client registry; only Run touches it.
    - Client: one browser or terminal connection.
    - ServeWs: upgrades a GET request to a WebSocket and registers the client.
*/

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/everforgeworks/knowledge-clicker/internal/platform/logger"
	"github.com/everforgeworks/knowledge-clicker/internal/platform/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
)

// CommandHandler is invoked for every inbound envelope, on the client's read goroutine.
type CommandHandler func(c *Client, env Envelope)

// Client represents a single connected player tab or terminal.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered outbound frames, closed by the Hub on unregister
}

type directMessage struct {
	client *Client
	frame  []byte
}

// Hub maintains the set of active clients and broadcasts frames to them.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	handler  CommandHandler
	upgrader websocket.Upgrader
	log      *logger.Logger
	metrics  *metrics.Collector
}

// NewHub creates a Hub. allowedOrigin "*" accepts connections from any origin.
func NewHub(allowedOrigin string, log *logger.Logger, m *metrics.Collector) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		direct:     make(chan directMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
		metrics:    m,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return allowedOrigin == "*" || r.Header.Get("Origin") == allowedOrigin
		},
	}
	return h
}

// SetHandler installs the inbound command handler. Call before Run.
func (h *Hub) SetHandler(fn CommandHandler) {
	h.handler = fn
}

// Run is the main event loop for the Hub. It blocks until the context is
// cancelled, so it must be run in a goroutine: `go hub.Run(ctx)`
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for client := range h.clients {
			close(client.send)
			delete(h.clients, client)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true
			h.metrics.RecordWSConnection(1)
			h.log.Event("WS_CONNECT", client.ID, "client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.log.Event("WS_DISCONNECT", client.ID, "client unregistered")
			}

		case frame := <-h.broadcast:
			for client := range h.clients {
				h.deliver(client, frame)
			}

		case msg := <-h.direct:
			if _, ok := h.clients[msg.client]; ok {
				h.deliver(msg.client, msg.frame)
			}
		}
	}
}

// deliver queues a frame for one client, dropping clients whose buffer is full.
func (h *Hub) deliver(client *Client, frame []byte) {
	select {
	case client.send <- frame:
		h.metrics.RecordWSMessage(false)
	default:
		h.log.Warnf("WS: dropping slow client %s", client.ID)
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.metrics.RecordWSConnection(-1)
}

// Broadcast sends a typed message to every connected client.
func (h *Hub) Broadcast(t string, payload any) error {
	frame, err := Encode(t, payload)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- frame:
	case <-h.done:
	}
	return nil
}

// Send delivers a typed message to a single client.
func (h *Hub) Send(c *Client, t string, payload any) error {
	frame, err := Encode(t, payload)
	if err != nil {
		return err
	}
	select {
	case h.direct <- directMessage{client: c, frame: frame}:
	case <-h.done:
	}
	return nil
}

// ServeWs handles the HTTP request that initiates a WebSocket connection.
// welcome frames are queued before the pumps start so they arrive first.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, welcome ...[]byte) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.metrics.RecordWSError()
		h.log.Warnf("WS upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	if frame, err := Encode(MsgWelcome, WelcomePayload{ClientID: client.ID}); err == nil {
		client.send <- frame
	}
	for _, frame := range welcome {
		client.send <- frame
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	// Separate goroutines so one slow client never blocks the Hub.
	go client.writePump()
	go client.readPump()
}

// readPump pumps inbound envelopes from the connection to the command handler.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.metrics.RecordWSError()
				c.hub.log.Warnf("WS error from %s: %v", c.ID, err)
			}
			return
		}
		c.hub.metrics.RecordWSMessage(true)

		env, err := DecodeEnvelope(message)
		if err != nil {
			c.hub.Send(c, MsgError, ErrorPayload{Code: "bad_request", Message: err.Error()})
			continue
		}
		if c.hub.handler != nil {
			c.hub.handler(c, env)
		}
	}
}

// writePump pumps frames from the hub to the connection and keeps it alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
