package engine

// RoomState is the mutable per-room game state: seated players in turn order,
// board positions, and the lifecycle phase. It is not safe for concurrent use;
// callers serialize access per room.
type RoomState struct {
	phase       Phase
	seats       []PlayerIdentity
	positions   map[int64]int
	currentTurn int
	boardLen    int
}

// NewRoomState creates a waiting room for a board with boardLen tiles.
func NewRoomState(boardLen int) *RoomState {
	return &RoomState{
		phase:     PhaseWaiting,
		positions: make(map[int64]int),
		boardLen:  boardLen,
	}
}

func (s *RoomState) Phase() Phase { return s.phase }

// BoardLen returns the number of tiles positions wrap around.
func (s *RoomState) BoardLen() int { return s.boardLen }

// Seats returns the seated players in turn order.
func (s *RoomState) Seats() []PlayerIdentity {
	out := make([]PlayerIdentity, len(s.seats))
	copy(out, s.seats)
	return out
}

func (s *RoomState) SeatCount() int { return len(s.seats) }

// IsSeated reports whether the user holds a seat in this room.
func (s *RoomState) IsSeated(userID int64) bool {
	for _, p := range s.seats {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// Position returns the user's tile index, zero if not seated.
func (s *RoomState) Position(userID int64) int {
	return s.positions[userID]
}

// Positions returns a copy of the userID -> tile index mapping.
func (s *RoomState) Positions() map[int64]int {
	out := make(map[int64]int, len(s.positions))
	for id, pos := range s.positions {
		out[id] = pos
	}
	return out
}

// Seat appends a player to the turn order. Seats can only be taken while the
// room is waiting and below capacity. Seating an already seated user is a
// no-op so a reconnect racing a join stays harmless.
func (s *RoomState) Seat(p PlayerIdentity) error {
	switch s.phase {
	case PhaseStarted:
		return ErrRoomStarted
	case PhaseFinished:
		return ErrRoomFinished
	}
	if len(s.seats) >= MaxSeats {
		return ErrRoomFull
	}
	if s.IsSeated(p.UserID) {
		return nil
	}
	s.seats = append(s.seats, p)
	s.positions[p.UserID] = 0
	return nil
}

// Unseat frees a seat. Only allowed before the game starts; once started the
// seat is retained so the player can reconnect into the same turn slot.
func (s *RoomState) Unseat(userID int64) error {
	if s.phase != PhaseWaiting {
		return ErrRoomStarted
	}
	for i, p := range s.seats {
		if p.UserID == userID {
			s.seats = append(s.seats[:i], s.seats[i+1:]...)
			delete(s.positions, userID)
			return nil
		}
	}
	return ErrNotSeated
}

// Player returns the cached identity for a seated user.
func (s *RoomState) Player(userID int64) (PlayerIdentity, bool) {
	for _, p := range s.seats {
		if p.UserID == userID {
			return p, true
		}
	}
	return PlayerIdentity{}, false
}

// CurrentPlayer returns the turn holder. Only meaningful while started.
func (s *RoomState) CurrentPlayer() (PlayerIdentity, bool) {
	if s.phase != PhaseStarted || s.currentTurn >= len(s.seats) {
		return PlayerIdentity{}, false
	}
	return s.seats[s.currentTurn], true
}

func (s *RoomState) CurrentTurn() int { return s.currentTurn }

// Start transitions Waiting -> Started. Requires at least two seated players.
func (s *RoomState) Start() error {
	switch s.phase {
	case PhaseStarted:
		return ErrRoomStarted
	case PhaseFinished:
		return ErrRoomFinished
	}
	if len(s.seats) < 2 {
		return ErrNotEnoughPlayers
	}
	s.phase = PhaseStarted
	s.currentTurn = 0
	return nil
}

// ApplyRoll validates that the requester holds the turn, advances their board
// position by d1+d2 modulo the board length, and rotates the turn. Doubles
// grant the same player another roll, per the conventional rule.
func (s *RoomState) ApplyRoll(userID int64, d1, d2 int) (RollResult, error) {
	if s.phase != PhaseStarted {
		if s.phase == PhaseFinished {
			return RollResult{}, ErrRoomFinished
		}
		return RollResult{}, ErrNotStarted
	}
	if d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
		return RollResult{}, ErrInvalidDice
	}
	player, seated := s.Player(userID)
	if !seated {
		return RollResult{}, ErrNotSeated
	}
	if s.seats[s.currentTurn].UserID != userID {
		return RollResult{}, ErrNotYourTurn
	}

	from := s.positions[userID]
	to := (from + d1 + d2) % s.boardLen
	s.positions[userID] = to

	doubles := d1 == d2
	if !doubles {
		s.currentTurn = (s.currentTurn + 1) % len(s.seats)
	}

	return RollResult{
		Player:   player,
		Die1:     d1,
		Die2:     d2,
		From:     from,
		To:       to,
		Doubles:  doubles,
		NextTurn: s.currentTurn,
	}, nil
}

// Finish transitions Started -> Finished. Terminal.
func (s *RoomState) Finish() error {
	switch s.phase {
	case PhaseWaiting:
		return ErrNotStarted
	case PhaseFinished:
		return ErrRoomFinished
	}
	s.phase = PhaseFinished
	return nil
}

// Snapshot captures the room state for a newly admitted connection.
func (s *RoomState) Snapshot() Snapshot {
	return Snapshot{
		Phase:       s.phase.String(),
		Seats:       s.Seats(),
		Positions:   s.Positions(),
		CurrentTurn: s.currentTurn,
	}
}
