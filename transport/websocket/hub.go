// Package websocket implements the connection registry over gorilla
// websockets: per-room connection sets, unicast/broadcast delivery, and the
// client read/write pumps.
package websocket

import (
	"log"
	"sync"

	"github.com/LilConsul/actPoly-monopoly/game/session"
	"github.com/google/uuid"
)

// Hub tracks live connections grouped by room id. It implements
// session.Registry. Delivery is best effort: a dead handle is logged and
// skipped, never blocking delivery to the rest of the room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[session.Connection]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uuid.UUID]map[session.Connection]bool)}
}

// Admit registers a connection under roomID, creating the room's connection
// set if absent. If the same player already holds a connection in the room,
// the old one is closed and replaced.
func (h *Hub) Admit(roomID uuid.UUID, conn session.Connection) {
	var replaced session.Connection

	h.mu.Lock()
	clients := h.rooms[roomID]
	if clients == nil {
		clients = make(map[session.Connection]bool)
		h.rooms[roomID] = clients
	}
	for existing := range clients {
		if existing.UserID() == conn.UserID() {
			replaced = existing
			delete(clients, existing)
			break
		}
	}
	clients[conn] = true
	total := len(clients)
	h.mu.Unlock()

	if replaced != nil {
		replaced.Close()
		log.Printf("websocket: replaced connection for user %d in room %s", conn.UserID(), roomID)
	}
	log.Printf("websocket: connection admitted to room %s (clients: %d)", roomID, total)
}

// Remove deregisters a connection and reports whether it was registered. An
// empty room's connection set is discarded.
func (h *Hub) Remove(roomID uuid.UUID, conn session.Connection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[roomID]
	if !ok || !clients[conn] {
		return false
	}
	delete(clients, conn)
	if len(clients) == 0 {
		delete(h.rooms, roomID)
	}
	return true
}

// Count returns the number of live connections in a room.
func (h *Hub) Count(roomID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Unicast delivers to exactly one connection.
func (h *Hub) Unicast(conn session.Connection, payload []byte) error {
	return conn.Send(payload)
}

// Broadcast delivers to every connection in the room, in arbitrary order.
// No-op on an unknown room.
func (h *Hub) Broadcast(roomID uuid.UUID, payload []byte) {
	h.BroadcastExcept(roomID, payload, nil)
}

// BroadcastExcept is Broadcast skipping one connection, used for join notices
// so the joiner does not receive its own join event echoed.
func (h *Hub) BroadcastExcept(roomID uuid.UUID, payload []byte, except session.Connection) {
	h.mu.RLock()
	clients := make([]session.Connection, 0, len(h.rooms[roomID]))
	for conn := range h.rooms[roomID] {
		if conn != except {
			clients = append(clients, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range clients {
		if err := conn.Send(payload); err != nil {
			log.Printf("websocket: dropping message for user %d in room %s: %v", conn.UserID(), roomID, err)
		}
	}
}
