package realtime

import (
	"log"

	"github.com/rajveergoudxd/VextraLabs/internal/models"
	"github.com/rajveergoudxd/VextraLabs/internal/storage"
)

// PresenceSession drives one global-presence connection: register with the
// follower snapshot, send the initial list of online followees, then answer
// heartbeats until the peer goes away.
type PresenceSession struct {
	conn     Conn
	user     models.UserSummary
	presence *PresenceRegistry
	store    storage.Storage
}

func NewPresenceSession(conn Conn, user models.UserSummary, presence *PresenceRegistry, store storage.Storage) *PresenceSession {
	return &PresenceSession{
		conn:     conn,
		user:     user,
		presence: presence,
		store:    store,
	}
}

// Run blocks until the connection closes. Deferred cleanup guarantees the
// registry entry is released on every exit path.
func (s *PresenceSession) Run() {
	followerIDs, err := s.store.GetFollowerIDs(s.user.ID)
	if err != nil {
		log.Printf("ERROR: Closing presence connection for user %d, follower lookup failed: %v", s.user.ID, err)
		s.conn.Close()
		// The read pump may be parked delivering a frame; consume until it
		// observes the close and shuts the channel, or it leaks.
		for range s.conn.Inbound() {
		}
		return
	}

	s.presence.Connect(s.user, s.conn, followerIDs)

	defer func() {
		s.conn.Close()
		s.presence.Disconnect(s.user, s.conn)
	}()

	s.sendInitialOnlineList()

	for frame := range s.conn.Inbound() {
		if frame.Type == models.FrameTypeHeartbeat {
			if err := s.conn.Send(models.Frame{Type: models.FrameTypeHeartbeatAck}); err != nil {
				log.Printf("ERROR: Failed to ack heartbeat for user %d: %v", s.user.ID, err)
			}
		}
		// Everything else inbound is ignored.
	}
}

// sendInitialOnlineList tells the new connection which of their followees are
// online right now. A failed lookup degrades to no list rather than a close.
func (s *PresenceSession) sendInitialOnlineList() {
	followingIDs, err := s.store.GetFollowingIDs(s.user.ID)
	if err != nil {
		log.Printf("ERROR: Failed to load followees of user %d for initial list: %v", s.user.ID, err)
		return
	}

	onlineIDs := s.presence.OnlineSubsetOf(followingIDs)
	users, err := s.store.GetUserSummaries(onlineIDs)
	if err != nil {
		log.Printf("ERROR: Failed to load online followee profiles for user %d: %v", s.user.ID, err)
		return
	}

	event := models.InitialOnlineListEvent{OnlineUsers: users}
	if err := s.conn.Send(models.NewFrame(models.FrameTypeInitialOnlineList, event)); err != nil {
		log.Printf("ERROR: Failed to send initial online list to user %d: %v", s.user.ID, err)
	}
}
