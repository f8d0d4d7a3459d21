package engine

import "errors"

// MaxSeats is the hard cap on players per room.
const MaxSeats = 4

var (
	ErrRoomFull         = errors.New("room is full")
	ErrRoomStarted      = errors.New("game already started")
	ErrRoomFinished     = errors.New("game already finished")
	ErrNotStarted       = errors.New("game not started")
	ErrNotEnoughPlayers = errors.New("at least two players required")
	ErrNotSeated        = errors.New("player is not seated")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidDice      = errors.New("dice values out of range")
)

// Phase is the lifecycle stage of a room. Transitions are monotonic:
// Waiting -> Started -> Finished.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseStarted
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseStarted:
		return "started"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// PlayerIdentity identifies a seated player. The display name is resolved
// once at seat time and cached for the lifetime of the room.
type PlayerIdentity struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// RollResult describes one applied dice roll.
type RollResult struct {
	Player  PlayerIdentity `json:"player"`
	Die1    int            `json:"die1"`
	Die2    int            `json:"die2"`
	From    int            `json:"from"`
	To      int            `json:"to"`
	Doubles bool           `json:"doubles"`
	// NextTurn is the seat index holding the turn after this roll.
	NextTurn int `json:"next_turn"`
}

// Snapshot is the full state handed to a newly admitted connection so it can
// render the room without replaying history.
type Snapshot struct {
	Phase       string           `json:"phase"`
	Seats       []PlayerIdentity `json:"seats"`
	Positions   map[int64]int    `json:"positions"`
	CurrentTurn int              `json:"current_turn"`
}
