package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/micro-watch/host-presence/internal/model"
)

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func newWSClient(conn *websocket.Conn) *wsClient {
	c := &wsClient{conn: conn, send: make(chan []byte, 16)}
	go c.writePump()
	return c
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *wsClient) close() {
	close(c.send)
}

type wsMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub is the WebSocket surface: it receives engine callbacks and
// broadcasts them to connected clients. A slow client drops frames
// rather than blocking the engine's goroutine.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*wsClient]bool
	last    model.Presence
	hasLast bool
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*wsClient]bool),
	}
}

// OnStateChanged implements surface.Surface.
func (h *Hub) OnStateChanged(p model.Presence) {
	h.mu.Lock()
	h.last = p
	h.hasLast = true
	h.mu.Unlock()
	h.broadcast(wsMessage{Type: "state", Payload: p})
}

// OnTransition implements surface.Surface.
func (h *Hub) OnTransition(e model.Transition) {
	h.broadcast(wsMessage{Type: "transition", Payload: e})
}

// OnFatalError implements surface.Surface.
func (h *Hub) OnFatalError(err error) {
	h.broadcast(wsMessage{Type: "fatal", Payload: map[string]string{"error": err.Error()}})
}

func (h *Hub) broadcast(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client too slow, drop the frame.
		}
	}
}

// ServeWS upgrades the connection and streams state snapshots and
// transitions. The client receives the last known state on connect.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := newWSClient(conn)

	h.mu.Lock()
	h.clients[c] = true
	last, hasLast := h.last, h.hasLast
	h.mu.Unlock()

	if hasLast {
		if data, err := json.Marshal(wsMessage{Type: "state", Payload: last}); err == nil {
			select {
			case c.send <- data:
			default:
			}
		}
	}

	go func() {
		defer h.remove(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}
