package realtime

import (
	"log"
	"sync"

	"github.com/rajveergoudxd/VextraLabs/internal/models"
)

// RoomRegistry tracks the live chat connections of every conversation:
// conversation id -> user id -> connection. At most one connection per
// (conversation, user) pair; a later registration supersedes the earlier one.
type RoomRegistry struct {
	mu    sync.Mutex
	rooms map[uint]map[uint]Conn
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms: make(map[uint]map[uint]Conn),
	}
}

// Register stores conn in the conversation's room. If the user already had a
// connection there, it is returned so the caller — who owns the sockets —
// can close it; the registry itself never closes connections.
func (r *RoomRegistry) Register(conversationID, userID uint, conn Conn) (superseded Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[conversationID]
	if !ok {
		room = make(map[uint]Conn)
		r.rooms[conversationID] = room
	}
	superseded = room[userID]
	room[userID] = conn
	log.Printf("User %d joined conversation %d", userID, conversationID)
	return superseded
}

// Unregister removes the user's entry, but only if conn is still the current
// registrant; a superseded connection cleaning up after itself must not evict
// its replacement. It reports whether an entry was removed. Empty rooms are
// deleted so the map does not grow without bound.
func (r *RoomRegistry) Unregister(conversationID, userID uint, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[conversationID]
	if !ok {
		return false
	}
	current, ok := room[userID]
	if !ok || current.ID() != conn.ID() {
		return false
	}
	delete(room, userID)
	if len(room) == 0 {
		delete(r.rooms, conversationID)
	}
	log.Printf("User %d left conversation %d", userID, conversationID)
	return true
}

// SendTo delivers a frame to one user in the conversation. An absent
// recipient is a no-op: they are simply offline. A failed send is logged and
// swallowed.
func (r *RoomRegistry) SendTo(conversationID, userID uint, frame models.Frame) {
	r.mu.Lock()
	conn, ok := r.rooms[conversationID][userID]
	r.mu.Unlock()
	if !ok {
		return
	}
	if err := conn.Send(frame); err != nil {
		log.Printf("ERROR: Failed to send to user %d in conversation %d: %v", userID, conversationID, err)
	}
}

// Broadcast delivers a frame to every connection in the conversation except
// excludeUserID (0 excludes no one). Recipients are snapshotted under the
// lock and written to afterwards; one failing recipient never blocks the
// rest, the failure is logged and skipped.
func (r *RoomRegistry) Broadcast(conversationID uint, frame models.Frame, excludeUserID uint) {
	r.mu.Lock()
	recipients := make([]Conn, 0, len(r.rooms[conversationID]))
	for userID, conn := range r.rooms[conversationID] {
		if excludeUserID != 0 && userID == excludeUserID {
			continue
		}
		recipients = append(recipients, conn)
	}
	r.mu.Unlock()

	for _, conn := range recipients {
		if err := conn.Send(frame); err != nil {
			log.Printf("ERROR: Failed to broadcast to user %d in conversation %d: %v", conn.UserID(), conversationID, err)
		}
	}
}

// OnlineUserIDs returns who currently holds a connection in the conversation.
func (r *RoomRegistry) OnlineUserIDs(conversationID uint) []uint {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uint, 0, len(r.rooms[conversationID]))
	for userID := range r.rooms[conversationID] {
		ids = append(ids, userID)
	}
	return ids
}
