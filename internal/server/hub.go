// internal/server/hub.go
package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Messages pushed to preview pages.
const (
	ReloadMessage = "reload"
	// ErrorPrefix starts a message carrying a failed rebuild's error text.
	ErrorPrefix = "error:"
)

const (
	sendBuffer   = 4
	writeTimeout = 5 * time.Second
)

// The preview server only listens locally, so any origin is accepted.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  512,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// writeLoop drains send until it is closed, then closes the connection.
func (c *client) writeLoop() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Hub fans rebuild notifications out to connected preview pages. A client
// whose queue is full is dropped rather than blocking the rebuild loop.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	log     *zap.Logger
}

func newHub(log *zap.Logger) *Hub {
	return &Hub{clients: make(map[*client]struct{}), log: log}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	h.log.Debug("preview client connected", zap.Int("clients", len(h.clients)))
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

// drop must be called with mu held.
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.log.Debug("preview client gone", zap.Int("clients", len(h.clients)))
}

func (h *Hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues msg for every client.
func (h *Hub) Broadcast(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- []byte(msg):
		default:
			h.log.Debug("preview client too slow, dropping")
			h.drop(c)
		}
	}
}

// BroadcastError tells preview pages that the last rebuild failed.
func (h *Hub) BroadcastError(err error) {
	h.Broadcast(ErrorPrefix + strings.TrimSpace(err.Error()))
}

// serveWs upgrades the request and reads until the peer goes away. Pages
// never send anything; reading is only how a closed tab is noticed.
func (h *Hub) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(c)
	go c.writeLoop()
	defer h.remove(c)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
