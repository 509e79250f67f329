package emulator

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"irconsole/internal/logger"
)

const hubWriteWait = 10 * time.Second

// Hub fans push events out to every connected websocket client. Unlike the
// console side, handlers here run on concurrent goroutines, so the client
// set is mutex-guarded.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	log     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool), log: log}
}

// Add registers a connection for broadcasts.
func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

// Remove drops a connection; safe to call twice.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Count reports connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast writes v as a JSON text frame to every client. Clients that fail
// the write are dropped and closed.
func (h *Hub) Broadcast(v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(hubWriteWait))
		if err := conn.WriteJSON(v); err != nil {
			h.log.Infow("ws_broadcast_failed", "err", err)
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}

// Send writes v to a single client with the usual deadline. It shares the
// hub lock with Broadcast: a connection must never have two concurrent
// writers, and acks from handler goroutines would otherwise race the
// simulator's broadcasts.
func (h *Hub) Send(conn *websocket.Conn, v any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(hubWriteWait))
	return conn.WriteJSON(v)
}
