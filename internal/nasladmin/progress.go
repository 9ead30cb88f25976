package nasladmin

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nasl-runtime/naslrun/internal/naslfeed"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

// ProgressEvent is one naslfeed.Result rendered for the websocket
// stream — plain strings rather than an error value, since it crosses
// the wire as JSON.
type ProgressEvent struct {
	Path     string `json:"path"`
	ExitCode int64  `json:"exit_code,omitempty"`
	Error    string `json:"error,omitempty"`
	Done     bool   `json:"done"`
}

// EventFromResult converts one update iteration into a ProgressEvent.
func EventFromResult(r naslfeed.Result) ProgressEvent {
	ev := ProgressEvent{Path: r.Path, ExitCode: r.ExitCode}
	if r.Err != nil {
		ev.Error = r.Err.Error()
	}
	return ev
}

// ProgressHub broadcasts update/transpile progress to every connected
// websocket client — a scoped-down version of the teacher's
// chat-room Hub (no rooms, no inbound message routing: this stream is
// server-to-client only).
type ProgressHub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewProgressHub builds an empty hub.
func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the connection and registers it for broadcasts
// until the peer disconnects.
func (h *ProgressHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	defer h.remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends ev to every connected client, dropping any that error
// out (the peer is assumed gone and is unregistered).
func (h *ProgressHub) Broadcast(ev ProgressEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(c)
		}
	}
}

func (h *ProgressHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}
