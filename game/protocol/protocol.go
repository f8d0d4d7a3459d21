// Package protocol defines the wire contract for the game WebSocket: the
// inbound message variants accepted from clients and the outbound envelope
// every notice is wrapped in.
package protocol

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/LilConsul/actPoly-monopoly/game/board"
	"github.com/LilConsul/actPoly-monopoly/game/engine"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

// Message type discriminators on the wire.
const (
	TypeGame = "game"
	TypeChat = "chat"
)

// Action is a game action requested by a client. The set is closed; anything
// else is ignored by policy rather than rejected.
type Action string

const (
	ActionStart Action = "start"
	ActionRoll  Action = "roll"
)

// Known reports whether the action is part of the dispatch table.
func (a Action) Known() bool {
	switch a {
	case ActionStart, ActionRoll:
		return true
	}
	return false
}

// Inbound is the raw shape read off the socket before validation.
type Inbound struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// Message is the validated, tagged form of an inbound frame. Exactly one of
// Action or Chat is meaningful, selected by Type.
type Message struct {
	Type   string
	Action Action
	Chat   string
}

// Decode validates a raw frame into a Message. Game content must be a JSON
// string naming an action; chat content must be a JSON string. Unknown action
// names pass through with Known() == false so the dispatcher can drop them.
func Decode(data []byte) (Message, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Message{}, ErrMalformed
	}

	switch in.Type {
	case TypeGame:
		var action string
		if err := json.Unmarshal(in.Content, &action); err != nil {
			return Message{}, ErrMalformed
		}
		return Message{Type: TypeGame, Action: Action(action)}, nil
	case TypeChat:
		var text string
		if err := json.Unmarshal(in.Content, &text); err != nil {
			return Message{}, ErrMalformed
		}
		return Message{Type: TypeChat, Chat: text}, nil
	default:
		return Message{}, ErrUnknownType
	}
}

// Envelope is the outbound wire format: {content, type, timestamp} with the
// timestamp in unix seconds at send time.
type Envelope struct {
	Content   any    `json:"content"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// NewEnvelope wraps content in a game envelope stamped with the current time.
func NewEnvelope(content any) Envelope {
	return Envelope{Content: content, Type: TypeGame, Timestamp: time.Now().Unix()}
}

// Marshal encodes the envelope for the socket.
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Rejection reason codes. Tests and clients distinguish the phase guard from
// the capacity guard on connect.
const (
	ReasonRoomFull      = "room_full"
	ReasonRoomStarted   = "room_started"
	ReasonInvalidAction = "invalid_action"
	ReasonNotYourTurn   = "not_your_turn"
	ReasonNotStarted    = "not_started"
	ReasonNotEnough     = "not_enough_players"
	ReasonNotSeated     = "not_seated"
	ReasonUnknownRoom   = "unknown_room"
	ReasonFinished      = "finished"
)

// Snapshot is the full room state sent to every newly admitted connection.
type Snapshot struct {
	Event string          `json:"event"`
	Board *board.Layout   `json:"board"`
	State engine.Snapshot `json:"state"`
}

// NewSnapshot builds a snapshot payload.
func NewSnapshot(layout *board.Layout, state engine.Snapshot) Snapshot {
	return Snapshot{Event: "snapshot", Board: layout, State: state}
}

// Notice is a human-readable room event: joins, leaves, chat, game start and
// end.
type Notice struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

// RollNotice reports an applied dice roll to the whole room.
type RollNotice struct {
	Event   string            `json:"event"`
	Roll    engine.RollResult `json:"roll"`
	Message string            `json:"message"`
}

// Rejection is unicast to the requester when an action or connect attempt is
// refused. It is never broadcast.
type Rejection struct {
	Event   string `json:"event"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// NewRejection builds a rejection payload.
func NewRejection(reason, message string) Rejection {
	return Rejection{Event: "rejected", Reason: reason, Message: message}
}
