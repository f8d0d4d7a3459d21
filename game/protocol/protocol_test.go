package protocol

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LilConsul/actPoly-monopoly/game/board"
	"github.com/LilConsul/actPoly-monopoly/game/engine"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Message
		wantErr error
	}{
		{
			name: "start action",
			data: `{"type": "game", "content": "start"}`,
			want: Message{Type: TypeGame, Action: ActionStart},
		},
		{
			name: "roll action",
			data: `{"type": "game", "content": "roll"}`,
			want: Message{Type: TypeGame, Action: ActionRoll},
		},
		{
			name: "unknown action passes through",
			data: `{"type": "game", "content": "trade"}`,
			want: Message{Type: TypeGame, Action: Action("trade")},
		},
		{
			name: "chat",
			data: `{"type": "chat", "content": "hello there"}`,
			want: Message{Type: TypeChat, Chat: "hello there"},
		},
		{
			name:    "not json",
			data:    `roll`,
			wantErr: ErrMalformed,
		},
		{
			name:    "game content not a string",
			data:    `{"type": "game", "content": {"action": "roll"}}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "chat content not a string",
			data:    `{"type": "chat", "content": 7}`,
			wantErr: ErrMalformed,
		},
		{
			name:    "unknown type",
			data:    `{"type": "lobby", "content": "hi"}`,
			wantErr: ErrUnknownType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() failed: %v", err)
			}
			if msg != tt.want {
				t.Errorf("Decode() = %+v, want %+v", msg, tt.want)
			}
		})
	}
}

func TestActionKnown(t *testing.T) {
	if !ActionStart.Known() || !ActionRoll.Known() {
		t.Error("start and roll must be known actions")
	}
	if Action("trade").Known() {
		t.Error("trade should not be a known action")
	}
	if Action("").Known() {
		t.Error("empty action should not be known")
	}
}

func TestEnvelope(t *testing.T) {
	before := time.Now().Unix()
	data, err := NewEnvelope(NewRejection(ReasonNotYourTurn, "wait for it")).Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	after := time.Now().Unix()

	var decoded struct {
		Content struct {
			Event   string `json:"event"`
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"content"`
		Type      string `json:"type"`
		Timestamp int64  `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	if decoded.Type != TypeGame {
		t.Errorf("envelope type = %s, want game", decoded.Type)
	}
	if decoded.Timestamp < before || decoded.Timestamp > after {
		t.Errorf("timestamp %d outside [%d, %d]", decoded.Timestamp, before, after)
	}
	if decoded.Content.Event != "rejected" || decoded.Content.Reason != ReasonNotYourTurn {
		t.Errorf("unexpected content: %+v", decoded.Content)
	}
}

func TestSnapshotPayload(t *testing.T) {
	layout := board.ClassicLayout()
	state := engine.NewRoomState(layout.Len())
	state.Seat(engine.PlayerIdentity{UserID: 1, DisplayName: "alice"})

	snap := NewSnapshot(layout, state.Snapshot())
	data, err := NewEnvelope(snap).Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded struct {
		Content struct {
			Event string `json:"event"`
			Board struct {
				Tiles []json.RawMessage `json:"tiles"`
			} `json:"board"`
			State struct {
				Phase string `json:"phase"`
				Seats []struct {
					UserID      int64  `json:"user_id"`
					DisplayName string `json:"display_name"`
				} `json:"seats"`
			} `json:"state"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}

	if decoded.Content.Event != "snapshot" {
		t.Errorf("event = %s, want snapshot", decoded.Content.Event)
	}
	if len(decoded.Content.Board.Tiles) != 40 {
		t.Errorf("snapshot carries %d tiles, want 40", len(decoded.Content.Board.Tiles))
	}
	if decoded.Content.State.Phase != "waiting" {
		t.Errorf("snapshot phase = %s, want waiting", decoded.Content.State.Phase)
	}
	if len(decoded.Content.State.Seats) != 1 || decoded.Content.State.Seats[0].DisplayName != "alice" {
		t.Errorf("unexpected seats: %+v", decoded.Content.State.Seats)
	}
}
