package realtime

import (
	"errors"

	"github.com/rajveergoudxd/VextraLabs/internal/models"
)

// Send errors. Both mean the recipient is effectively gone; callers log and
// move on, they never propagate delivery failures into the sender's flow.
var (
	ErrConnClosed     = errors.New("connection closed")
	ErrSendBufferFull = errors.New("send buffer full")
)

// Conn is one live bidirectional connection. It abstracts the underlying
// transport so the registries and sessions can be exercised in tests without
// a real socket. A Conn is owned by exactly one registry entry at a time.
type Conn interface {
	// ID returns the connection's own identity, distinct from the user id.
	// Registries compare it to tell a superseded connection from its
	// replacement for the same user.
	ID() string
	// UserID returns the authenticated owner of the connection.
	UserID() uint

	// Inbound returns the channel of decoded frames read from the peer.
	// It is closed when the peer disconnects or the read side fails.
	Inbound() <-chan models.Frame
	// Send enqueues an outbound frame. It never blocks: a closed connection
	// or a full buffer returns an error immediately.
	Send(frame models.Frame) error

	// Run starts the transport pumps.
	Run()
	// Close shuts the connection down; safe to call more than once.
	Close()
}
