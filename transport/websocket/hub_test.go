package websocket

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

// stubConn is a minimal session.Connection for hub bookkeeping tests.
type stubConn struct {
	userID int64

	mu     sync.Mutex
	sent   [][]byte
	closed bool
}

func (c *stubConn) UserID() int64 { return c.userID }

func (c *stubConn) Send(payload []byte) error {
	c.mu.Lock()
	c.sent = append(c.sent, payload)
	c.mu.Unlock()
	return nil
}

func (c *stubConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *stubConn) received() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func TestHubAdmitRemove(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	a := &stubConn{userID: 1}
	b := &stubConn{userID: 2}
	hub.Admit(roomID, a)
	hub.Admit(roomID, b)

	if hub.Count(roomID) != 2 {
		t.Errorf("count = %d, want 2", hub.Count(roomID))
	}

	if !hub.Remove(roomID, a) {
		t.Error("Remove returned false for a registered connection")
	}
	if hub.Remove(roomID, a) {
		t.Error("second Remove returned true")
	}
	if hub.Count(roomID) != 1 {
		t.Errorf("count after remove = %d, want 1", hub.Count(roomID))
	}

	hub.Remove(roomID, b)
	if hub.Count(roomID) != 0 {
		t.Errorf("count after draining = %d, want 0", hub.Count(roomID))
	}
}

func TestHubReplacesSameUser(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	old := &stubConn{userID: 1}
	hub.Admit(roomID, old)

	fresh := &stubConn{userID: 1}
	hub.Admit(roomID, fresh)

	if hub.Count(roomID) != 1 {
		t.Errorf("count = %d, want 1 after replacement", hub.Count(roomID))
	}
	if !old.closed {
		t.Error("replaced connection was not closed")
	}
	if hub.Remove(roomID, old) {
		t.Error("replaced connection still registered")
	}
	if !hub.Remove(roomID, fresh) {
		t.Error("replacement connection not registered")
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	a := &stubConn{userID: 1}
	b := &stubConn{userID: 2}
	c := &stubConn{userID: 3}
	hub.Admit(roomID, a)
	hub.Admit(roomID, b)
	hub.Admit(roomID, c)

	hub.Broadcast(roomID, []byte("all"))
	for _, conn := range []*stubConn{a, b, c} {
		if conn.received() != 1 {
			t.Errorf("user %d received %d messages, want 1", conn.userID, conn.received())
		}
	}

	hub.BroadcastExcept(roomID, []byte("others"), b)
	if a.received() != 2 || c.received() != 2 {
		t.Error("BroadcastExcept skipped the wrong connections")
	}
	if b.received() != 1 {
		t.Errorf("excluded connection received %d messages, want 1", b.received())
	}
}

func TestHubUnknownRoom(t *testing.T) {
	hub := NewHub()
	unknown := uuid.New()
	conn := &stubConn{userID: 1}

	if hub.Count(unknown) != 0 {
		t.Error("unknown room reports connections")
	}
	if hub.Remove(unknown, conn) {
		t.Error("Remove on unknown room returned true")
	}
	hub.Broadcast(unknown, []byte("into the void"))
	if conn.received() != 0 {
		t.Error("broadcast to unknown room reached a connection")
	}
}
