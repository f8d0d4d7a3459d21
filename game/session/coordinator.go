package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/LilConsul/actPoly-monopoly/auth"
	"github.com/LilConsul/actPoly-monopoly/game/board"
	"github.com/LilConsul/actPoly-monopoly/game/engine"
	"github.com/LilConsul/actPoly-monopoly/game/protocol"
	"github.com/google/uuid"
)

// Connection is one live transport connection, bound to a single room and
// player for its lifetime. Send must not block: it enqueues or fails with
// ErrDeliveryFailed.
type Connection interface {
	UserID() int64
	Send(payload []byte) error
	Close()
}

// Registry tracks live connections grouped by room. All operations except
// Admit are no-ops on an unknown room id. A player holds at most one active
// connection per room; Admit replaces any previous one.
type Registry interface {
	Admit(roomID uuid.UUID, conn Connection)
	// Remove deregisters conn and reports whether it was the registered
	// handle. A connection replaced by a reconnect returns false.
	Remove(roomID uuid.UUID, conn Connection) bool
	Count(roomID uuid.UUID) int
	Unicast(conn Connection, payload []byte) error
	Broadcast(roomID uuid.UUID, payload []byte)
	BroadcastExcept(roomID uuid.UUID, payload []byte, except Connection)
}

// BoardSource fetches the immutable board layout new rooms start from.
type BoardSource interface {
	BoardLayout(ctx context.Context) (*board.Layout, error)
}

// Coordinator validates and applies player actions against room state and
// pushes the resulting notices through the connection registry. It owns the
// room lifecycle: waiting -> started -> finished.
type Coordinator struct {
	registry  Registry
	rooms     *Manager
	boards    BoardSource
	directory auth.Directory
	dice      engine.Roller
}

func NewCoordinator(registry Registry, rooms *Manager, boards BoardSource, directory auth.Directory) *Coordinator {
	return &Coordinator{
		registry:  registry,
		rooms:     rooms,
		boards:    boards,
		directory: directory,
		dice:      engine.NewRoller(),
	}
}

// SetRoller swaps the dice roller. Used by tests and replays.
func (c *Coordinator) SetRoller(r engine.Roller) { c.dice = r }

// Rooms exposes the room registry for read-only surfaces.
func (c *Coordinator) Rooms() *Manager { return c.rooms }

// RoomInfo returns a read-only summary of one room.
func (c *Coordinator) RoomInfo(id uuid.UUID) (Info, error) {
	room, ok := c.rooms.Get(id)
	if !ok {
		return Info{}, ErrRoomNotFound
	}
	return room.info(c.registry.Count(id)), nil
}

// ListRooms returns summaries of all live rooms.
func (c *Coordinator) ListRooms() []Info {
	rooms := c.rooms.List()
	out := make([]Info, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, room.info(c.registry.Count(room.ID)))
	}
	return out
}

// Connect admits a connection into a room. The room is created lazily on the
// first connect, fetching the board layout once. New players are seated in
// join order with their display name resolved and cached; reconnecting
// players keep their seat. The joiner always receives a full snapshot; other
// members get a join notice only when a seat was newly taken.
//
// A non-nil error means the connection was refused: the rejection notice has
// already been unicast and the caller should close the connection.
func (c *Coordinator) Connect(ctx context.Context, roomID uuid.UUID, conn Connection) error {
	room, ok := c.rooms.Get(roomID)
	if !ok {
		layout, err := c.boards.BoardLayout(ctx)
		if err != nil {
			c.reject(conn, protocol.ReasonUnknownRoom, "board layout unavailable")
			return fmt.Errorf("fetch board layout: %w", err)
		}
		room, _ = c.rooms.GetOrCreate(roomID, layout)
	}

	userID := conn.UserID()

	// Resolve the display name before taking the room lock; the lookup is
	// idempotent and must not be held under serialization.
	name, err := c.directory.Username(ctx, userID)
	if err != nil {
		log.Printf("session: username lookup for user %d failed: %v", userID, err)
		name = fmt.Sprintf("Player #%d", userID)
	}

	room.mu.Lock()
	joined := false
	if !room.state.IsSeated(userID) {
		if phase := room.state.Phase(); phase != engine.PhaseWaiting {
			room.mu.Unlock()
			c.reject(conn, protocol.ReasonRoomStarted, "game already started")
			return engine.ErrRoomStarted
		}
		if room.state.SeatCount() >= engine.MaxSeats {
			room.mu.Unlock()
			c.reject(conn, protocol.ReasonRoomFull, "room is full")
			return engine.ErrRoomFull
		}
		if err := room.state.Seat(engine.PlayerIdentity{UserID: userID, DisplayName: name}); err != nil {
			room.mu.Unlock()
			c.reject(conn, reasonFor(err), err.Error())
			return err
		}
		joined = true
	}
	c.registry.Admit(roomID, conn)
	room.touch()
	snapshot := protocol.NewSnapshot(room.board, room.state.Snapshot())
	room.mu.Unlock()

	c.unicast(conn, snapshot)
	if joined {
		c.broadcastExcept(roomID, conn, protocol.Notice{Event: "joined", Message: name + " joined"})
		log.Printf("session: user %d (%s) joined room %s", userID, name, roomID)
	} else {
		log.Printf("session: user %d reconnected to room %s", userID, roomID)
	}
	return nil
}

// Disconnect cleans up after a connection's receive loop ends. Pre-game
// dropouts free their seat; mid-game the seat is retained for reconnection.
// The last connection leaving a room that is not running destroys the room.
func (c *Coordinator) Disconnect(roomID uuid.UUID, conn Connection) {
	if !c.registry.Remove(roomID, conn) {
		// Already replaced by a reconnect, or never admitted.
		return
	}
	room, ok := c.rooms.Get(roomID)
	if !ok {
		return
	}

	userID := conn.UserID()

	room.mu.Lock()
	name := fmt.Sprintf("Player #%d", userID)
	if player, ok := room.state.Player(userID); ok {
		name = player.DisplayName
	}
	if room.state.Phase() == engine.PhaseWaiting {
		if err := room.state.Unseat(userID); err != nil && !errors.Is(err, engine.ErrNotSeated) {
			log.Printf("session: unseat user %d in room %s: %v", userID, roomID, err)
		}
	}
	phase := room.state.Phase()
	room.touch()
	room.mu.Unlock()

	if c.registry.Count(roomID) == 0 && phase != engine.PhaseStarted {
		c.rooms.Delete(roomID)
		log.Printf("session: room %s destroyed (empty, %s)", roomID, phase)
		return
	}

	c.broadcast(roomID, protocol.Notice{Event: "left", Message: name + " left"})
	log.Printf("session: user %d left room %s", userID, roomID)
}

// HandleMessage decodes one inbound frame and dispatches it. Every failure is
// recovered locally: the sender gets a rejection notice, the room state stays
// untouched, and the processing loop continues.
func (c *Coordinator) HandleMessage(roomID uuid.UUID, conn Connection, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		c.reject(conn, protocol.ReasonInvalidAction, err.Error())
		return
	}

	room, ok := c.rooms.Get(roomID)
	if !ok {
		c.reject(conn, protocol.ReasonUnknownRoom, "unknown room")
		return
	}

	switch msg.Type {
	case protocol.TypeChat:
		c.handleChat(room, conn, msg.Chat)
	case protocol.TypeGame:
		if !msg.Action.Known() {
			// Permissive-ignore policy for unrecognized action kinds.
			log.Printf("session: ignoring unknown action %q in room %s", msg.Action, roomID)
			return
		}
		switch msg.Action {
		case protocol.ActionStart:
			c.handleStart(room, conn)
		case protocol.ActionRoll:
			c.handleRoll(room, conn)
		}
	}
}

func (c *Coordinator) handleStart(room *Room, conn Connection) {
	userID := conn.UserID()

	room.mu.Lock()
	if !room.state.IsSeated(userID) {
		room.mu.Unlock()
		c.reject(conn, protocol.ReasonNotSeated, "take a seat first")
		return
	}
	err := room.state.Start()
	room.touch()
	room.mu.Unlock()

	if err != nil {
		c.reject(conn, reasonFor(err), err.Error())
		return
	}
	c.broadcast(room.ID, protocol.Notice{Event: "started", Message: "Game started"})
	log.Printf("session: room %s started", room.ID)
}

func (c *Coordinator) handleRoll(room *Room, conn Connection) {
	d1, d2 := c.dice.Roll()

	room.mu.Lock()
	result, err := room.state.ApplyRoll(conn.UserID(), d1, d2)
	room.touch()
	room.mu.Unlock()

	if err != nil {
		c.reject(conn, reasonFor(err), err.Error())
		return
	}

	message := fmt.Sprintf("%s rolled %d and %d, moving from %d to %d",
		result.Player.DisplayName, result.Die1, result.Die2, result.From, result.To)
	if result.Doubles {
		message += "; doubles, roll again"
	}
	c.broadcast(room.ID, protocol.RollNotice{Event: "roll", Roll: result, Message: message})
}

func (c *Coordinator) handleChat(room *Room, conn Connection, text string) {
	userID := conn.UserID()

	room.mu.Lock()
	name := fmt.Sprintf("Player #%d", userID)
	if player, ok := room.state.Player(userID); ok {
		name = player.DisplayName
	}
	room.mu.Unlock()

	c.broadcast(room.ID, protocol.Notice{Event: "chat", Message: name + ": " + text})
}

// Finish ends a running game and notifies the room. The room itself is
// destroyed once its last connection leaves.
func (c *Coordinator) Finish(roomID uuid.UUID) error {
	room, ok := c.rooms.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	err := room.state.Finish()
	room.touch()
	room.mu.Unlock()

	if err != nil {
		return err
	}
	c.broadcast(roomID, protocol.Notice{Event: "finished", Message: "Game over"})
	log.Printf("session: room %s finished", roomID)
	return nil
}

func (c *Coordinator) reject(conn Connection, reason, message string) {
	c.unicast(conn, protocol.NewRejection(reason, message))
}

func (c *Coordinator) unicast(conn Connection, content any) {
	data, err := protocol.NewEnvelope(content).Marshal()
	if err != nil {
		log.Printf("session: marshal unicast: %v", err)
		return
	}
	if err := c.registry.Unicast(conn, data); err != nil {
		log.Printf("session: unicast to user %d: %v", conn.UserID(), err)
	}
}

func (c *Coordinator) broadcast(roomID uuid.UUID, content any) {
	data, err := protocol.NewEnvelope(content).Marshal()
	if err != nil {
		log.Printf("session: marshal broadcast: %v", err)
		return
	}
	c.registry.Broadcast(roomID, data)
}

func (c *Coordinator) broadcastExcept(roomID uuid.UUID, except Connection, content any) {
	data, err := protocol.NewEnvelope(content).Marshal()
	if err != nil {
		log.Printf("session: marshal broadcast: %v", err)
		return
	}
	c.registry.BroadcastExcept(roomID, data, except)
}

// reasonFor maps engine errors to wire rejection reasons.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, engine.ErrRoomFull):
		return protocol.ReasonRoomFull
	case errors.Is(err, engine.ErrRoomStarted):
		return protocol.ReasonRoomStarted
	case errors.Is(err, engine.ErrRoomFinished):
		return protocol.ReasonFinished
	case errors.Is(err, engine.ErrNotStarted):
		return protocol.ReasonNotStarted
	case errors.Is(err, engine.ErrNotEnoughPlayers):
		return protocol.ReasonNotEnough
	case errors.Is(err, engine.ErrNotSeated):
		return protocol.ReasonNotSeated
	case errors.Is(err, engine.ErrNotYourTurn):
		return protocol.ReasonNotYourTurn
	default:
		return protocol.ReasonInvalidAction
	}
}
