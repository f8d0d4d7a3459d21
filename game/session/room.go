// Package session owns the live game rooms: the registry of room state, the
// coordinator that serializes player actions against it, and the contracts
// the transport layer plugs into.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/LilConsul/actPoly-monopoly/game/board"
	"github.com/LilConsul/actPoly-monopoly/game/engine"
	"github.com/google/uuid"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	// ErrDeliveryFailed marks a single dead recipient. Non-fatal: logged,
	// skipped, never rolls back the state change that triggered the send.
	ErrDeliveryFailed = errors.New("delivery failed")
)

// Room pairs a room id with its game state and the board snapshot fetched at
// creation. All state mutation happens under mu; one in-flight action at a
// time per room, rooms fully parallel with each other.
type Room struct {
	ID    uuid.UUID
	mu    sync.Mutex
	state *engine.RoomState
	board *board.Layout

	createdAt  time.Time
	lastActive time.Time
}

func newRoom(id uuid.UUID, layout *board.Layout) *Room {
	now := time.Now()
	return &Room{
		ID:         id,
		state:      engine.NewRoomState(layout.Len()),
		board:      layout,
		createdAt:  now,
		lastActive: now,
	}
}

func (r *Room) touch() { r.lastActive = time.Now() }

// Info is a read-only room summary for the HTTP and ops surfaces.
type Info struct {
	ID          uuid.UUID               `json:"id"`
	Board       string                  `json:"board"`
	Phase       string                  `json:"phase"`
	Seats       []engine.PlayerIdentity `json:"seats"`
	CurrentTurn int                     `json:"current_turn"`
	Connections int                     `json:"connections"`
	CreatedAt   time.Time               `json:"created_at"`
	LastActive  time.Time               `json:"last_active"`
}

func (r *Room) info(connections int) Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Info{
		ID:          r.ID,
		Board:       r.board.Name,
		Phase:       r.state.Phase().String(),
		Seats:       r.state.Seats(),
		CurrentTurn: r.state.CurrentTurn(),
		Connections: connections,
		CreatedAt:   r.createdAt,
		LastActive:  r.lastActive,
	}
}
