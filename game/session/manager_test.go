package session

import (
	"testing"
	"time"

	"github.com/LilConsul/actPoly-monopoly/game/board"
	"github.com/LilConsul/actPoly-monopoly/game/engine"
	"github.com/google/uuid"
)

func TestManagerGetOrCreate(t *testing.T) {
	m := NewManager()
	layout := board.ClassicLayout()
	id := uuid.New()

	room, created := m.GetOrCreate(id, layout)
	if !created {
		t.Error("first GetOrCreate did not report creation")
	}
	again, created := m.GetOrCreate(id, layout)
	if created {
		t.Error("second GetOrCreate reported creation")
	}
	if room != again {
		t.Error("GetOrCreate returned distinct rooms for one id")
	}
	if m.Count() != 1 {
		t.Errorf("room count = %d, want 1", m.Count())
	}

	got, ok := m.Get(id)
	if !ok || got != room {
		t.Error("Get did not return the created room")
	}

	m.Delete(id)
	if _, ok := m.Get(id); ok {
		t.Error("room survives Delete")
	}
}

func TestManagerCleanupIdle(t *testing.T) {
	m := NewManager()
	layout := board.ClassicLayout()

	stale := uuid.New()
	fresh := uuid.New()
	running := uuid.New()
	occupied := uuid.New()

	for _, id := range []uuid.UUID{stale, fresh, running, occupied} {
		m.GetOrCreate(id, layout)
	}

	old := time.Now().Add(-2 * time.Hour)
	for _, id := range []uuid.UUID{stale, running, occupied} {
		room, _ := m.Get(id)
		room.mu.Lock()
		room.lastActive = old
		room.mu.Unlock()
	}

	runningRoom, _ := m.Get(running)
	runningRoom.mu.Lock()
	runningRoom.state.Seat(engine.PlayerIdentity{UserID: 1, DisplayName: "p1"})
	runningRoom.state.Seat(engine.PlayerIdentity{UserID: 2, DisplayName: "p2"})
	runningRoom.state.Start()
	runningRoom.mu.Unlock()

	connections := func(id uuid.UUID) int {
		if id == occupied {
			return 1
		}
		return 0
	}

	removed := m.CleanupIdle(time.Hour, connections)
	if removed != 1 {
		t.Errorf("removed %d rooms, want 1", removed)
	}
	if _, ok := m.Get(stale); ok {
		t.Error("stale empty room survived cleanup")
	}
	if _, ok := m.Get(fresh); !ok {
		t.Error("fresh room was cleaned up")
	}
	if _, ok := m.Get(running); !ok {
		t.Error("running room was cleaned up")
	}
	if _, ok := m.Get(occupied); !ok {
		t.Error("occupied room was cleaned up")
	}
}
