// Package hub delivers notifications to WebSocket subscribers grouped by owner.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fundsio/funds/internal/http/respond"
	"github.com/fundsio/funds/internal/notification"
)

const (
	sendBuffer = 16
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Authenticator resolves the owner of an incoming subscription request.
type Authenticator func(r *http.Request) (uuid.UUID, error)

type client struct {
	ownerID uuid.UUID
	conn    *websocket.Conn
	send    chan []byte
}

// Hub keeps one room per owner. Publish never blocks: a subscriber whose
// buffer is full misses the push and can refetch from the REST API.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[uuid.UUID]map[*client]struct{}
	auth     Authenticator
	upgrader websocket.Upgrader
}

func New(auth Authenticator, allowedOrigins []string) *Hub {
	h := &Hub{
		rooms: make(map[uuid.UUID]map[*client]struct{}),
		auth:  auth,
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(allowedOrigins, "*") {
				return true
			}

			return slices.Contains(allowedOrigins, origin)
		},
	}

	return h
}

func (h *Hub) Publish(ctx context.Context, ownerID uuid.UUID, n *notification.Notification) {
	payload, err := json.Marshal(notification.NewEvent(n))
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode notification event", "error", err, "notification_id", n.ID)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[ownerID] {
		select {
		case c.send <- payload:
		default:
			slog.WarnContext(ctx, "dropping notification push for slow subscriber", "owner_id", ownerID, "notification_id", n.ID)
		}
	}
}

// Subscribers returns the number of live connections for the owner.
func (h *Hub) Subscribers(ownerID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[ownerID])
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ownerID, err := h.auth(r)
	if err != nil {
		respond.Message(w, http.StatusUnauthorized, "Token is not valid")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{ownerID: ownerID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.ownerID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[c.ownerID] = room
	}

	room[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.ownerID]
	if !ok {
		return
	}

	if _, ok := room[c]; !ok {
		return
	}

	delete(room, c)
	close(c.send)

	if len(room) == 0 {
		delete(h.rooms, c.ownerID)
	}
}

// readPump discards inbound frames; it exists to process pongs and to
// notice when the peer goes away.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
