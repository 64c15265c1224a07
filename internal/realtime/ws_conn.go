package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/rajveergoudxd/VextraLabs/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// WebSocketConn implements Conn over a gorilla/websocket connection.
type WebSocketConn struct {
	id     string
	userID uint
	conn   *websocket.Conn

	send    chan models.Frame
	inbound chan models.Frame

	mu     sync.Mutex
	closed bool
}

func NewWebSocketConn(userID uint, conn *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{
		id:      uuid.New().String(),
		userID:  userID,
		conn:    conn,
		send:    make(chan models.Frame, sendBufferSize),
		inbound: make(chan models.Frame),
	}
}

func (c *WebSocketConn) ID() string                   { return c.id }
func (c *WebSocketConn) UserID() uint                 { return c.userID }
func (c *WebSocketConn) Inbound() <-chan models.Frame { return c.inbound }

// Send enqueues a frame for the write pump. A full buffer counts as a dead
// peer rather than a reason to block the caller.
func (c *WebSocketConn) Send(frame models.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Run starts the read and write pumps.
func (c *WebSocketConn) Run() {
	go c.writePump()
	go c.readPump()
}

// Close stops the write pump, which closes the socket on its way out; the
// read pump then fails its read and winds down too.
func (c *WebSocketConn) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

func (c *WebSocketConn) readPump() {
	defer func() {
		close(c.inbound)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading from connection %s: %v", c.id, err)
			}
			break
		}

		var frame models.Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Printf("Error decoding frame from user %d: %v", c.userID, err)
			continue
		}

		c.inbound <- frame
	}
}

func (c *WebSocketConn) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(frame)
			if err != nil {
				log.Printf("Error encoding frame for user %d: %v", c.userID, err)
				continue
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			if err := w.Close(); err != nil {
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
