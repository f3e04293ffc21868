// Package ui provides the WebSocket subtitle feed consumed by the overlay
// renderer: live line updates and committed entries are fanned out to every
// connected client.
package ui

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/zaid-24/RealTime-Meet-Translator/internal/models"
	"github.com/zaid-24/RealTime-Meet-Translator/internal/observability/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Overlay clients connect from the local machine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub manages subtitle feed connections.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan any
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.RWMutex
	log        zerolog.Logger
	metrics    *metrics.Metrics
}

// NewHub creates a hub. Run must be started for broadcasts to flow.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan any, 100),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		log:        log,
		metrics:    metrics.DefaultMetrics,
	}
}

// Run pumps registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.metrics.RecordFeedClientConnect()
			h.log.Info().Int("total", total).Msg("Feed client connected")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				h.metrics.RecordFeedClientDisconnect()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info().Int("total", total).Msg("Feed client disconnected")

		case event := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.clients {
				if err := conn.WriteJSON(event); err != nil {
					h.log.Debug().Err(err).Msg("Feed write failed, dropping client")
					go func(c *websocket.Conn) { h.unregister <- c }(conn)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastLive fans a live update out to all clients. Non-blocking: when
// the buffer is full the update is dropped, a newer one follows shortly.
func (h *Hub) BroadcastLive(ev models.LiveUpdate) {
	select {
	case h.broadcast <- ev:
	default:
	}
}

// BroadcastEntry fans a committed entry out to all clients.
func (h *Hub) BroadcastEntry(ev models.CommittedEntry) {
	select {
	case h.broadcast <- ev:
	default:
		h.log.Warn().Uint64("entryId", ev.EntryID).Msg("Feed buffer full, committed entry dropped")
	}
}

// Handler upgrades GET requests to the subtitle feed.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Error().Err(err).Msg("Feed upgrade failed")
			return
		}
		h.register <- conn

		// Reads are discarded; the loop exists to detect disconnect.
		go func() {
			defer func() { h.unregister <- conn }()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
