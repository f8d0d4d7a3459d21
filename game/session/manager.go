package session

import (
	"sync"
	"time"

	"github.com/LilConsul/actPoly-monopoly/game/board"
	"github.com/LilConsul/actPoly-monopoly/game/engine"
	"github.com/google/uuid"
)

// Manager is the process-wide registry of rooms. Insertion and removal are
// concurrency-safe; at most one Room instance exists per id at any time.
type Manager struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]*Room
}

func NewManager() *Manager {
	return &Manager{rooms: make(map[uuid.UUID]*Room)}
}

// Get retrieves a room by id.
func (m *Manager) Get(id uuid.UUID) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	return room, ok
}

// GetOrCreate returns the room for id, creating it with the given board
// layout if absent. The second result reports whether a new room was created.
// Two racing first connects observe the same single Room.
func (m *Manager) GetOrCreate(id uuid.UUID, layout *board.Layout) (*Room, bool) {
	m.mu.RLock()
	room, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok {
		return room, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok := m.rooms[id]; ok {
		return room, false
	}
	room = newRoom(id, layout)
	m.rooms[id] = room
	return room, true
}

// Delete removes a room from the registry.
func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	delete(m.rooms, id)
	m.mu.Unlock()
}

// List returns all current rooms.
func (m *Manager) List() []*Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		out = append(out, room)
	}
	return out
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// CleanupIdle removes rooms that never started, have no connections, and have
// been inactive beyond maxAge. Started rooms are exempt so players can
// reconnect. Returns the number of rooms removed.
func (m *Manager) CleanupIdle(maxAge time.Duration, connections func(uuid.UUID) int) int {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, room := range m.rooms {
		room.mu.Lock()
		idle := room.state.Phase() != engine.PhaseStarted && room.lastActive.Before(cutoff)
		room.mu.Unlock()
		if idle && connections(id) == 0 {
			delete(m.rooms, id)
			removed++
		}
	}
	return removed
}
