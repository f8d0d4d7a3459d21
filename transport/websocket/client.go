package websocket

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/LilConsul/actPoly-monopoly/game/session"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Client is one live connection handle: bound to a single room and player
// identity for its lifetime. It implements session.Connection.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	roomID uuid.UUID
	userID int64

	mu     sync.Mutex
	closed bool
}

func (c *Client) UserID() int64 { return c.userID }

// Send enqueues a payload for the write pump. It never blocks: a full or
// closed queue fails with ErrDeliveryFailed.
func (c *Client) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("%w: connection closed", session.ErrDeliveryFailed)
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return fmt.Errorf("%w: send queue full", session.ErrDeliveryFailed)
	}
}

// Close shuts the send queue; the write pump flushes what is pending, sends
// a close frame, and closes the socket.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ServeWS upgrades an authenticated request and hands the connection to the
// coordinator. The bearer credential must already be validated; userID is the
// identity it resolved to.
func ServeWS(hub *Hub, coordinator *session.Coordinator, w http.ResponseWriter, r *http.Request, roomID uuid.UUID, userID int64) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket: upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, 256),
		roomID: roomID,
		userID: userID,
	}
	go client.writePump()

	if err := coordinator.Connect(r.Context(), roomID, client); err != nil {
		// The rejection notice is already queued; flush and close.
		client.Close()
		return
	}

	go client.readPump(coordinator)
}

// readPump pumps inbound frames to the coordinator. A read failure cancels
// only this connection's loop and triggers disconnect cleanup; other
// connections and in-flight actions are untouched.
func (c *Client) readPump(coordinator *session.Coordinator) {
	defer func() {
		coordinator.Disconnect(c.roomID, c)
		c.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket: read error in room %s: %v", c.roomID, err)
			}
			return
		}
		coordinator.HandleMessage(c.roomID, c, data)
	}
}

// writePump pumps queued payloads to the socket and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
