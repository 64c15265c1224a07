package realtime

import (
	"log"
	"sync"

	"github.com/rajveergoudxd/VextraLabs/internal/models"
)

// PresenceMirror receives best-effort copies of online/offline transitions
// so services outside this process can read presence state. Failures are
// logged and ignored; the registry's own maps stay authoritative.
type PresenceMirror interface {
	SetOnline(userID uint) error
	SetOffline(userID uint) error
}

// PresenceRegistry tracks which users hold a presence connection anywhere in
// the process and caches each connected user's follower set for targeted
// broadcasts.
//
// Connections are reference-counted per user: a user goes Online when their
// first connection registers and Offline when their last one unregisters, so
// a second device neither re-announces the user nor knocks them offline when
// it disconnects.
//
// The follower cache is a snapshot taken at connect time. Follows made or
// broken while the user stays connected are not reflected until reconnect —
// an accepted staleness, not an oversight.
type PresenceRegistry struct {
	mu sync.Mutex
	// conns is keyed user id -> connection id -> connection.
	conns map[uint]map[string]Conn
	// followers holds the connect-time follower snapshot per connected user.
	followers map[uint][]uint

	mirror PresenceMirror
}

// NewPresenceRegistry creates a registry. mirror may be nil.
func NewPresenceRegistry(mirror PresenceMirror) *PresenceRegistry {
	return &PresenceRegistry{
		conns:     make(map[uint]map[string]Conn),
		followers: make(map[uint][]uint),
		mirror:    mirror,
	}
}

// Connect registers the connection and stores followerIDs as the user's
// follower cache. If this is the user's first connection, their followers
// are told the user came online.
func (p *PresenceRegistry) Connect(user models.UserSummary, conn Conn, followerIDs []uint) {
	p.mu.Lock()
	conns, ok := p.conns[user.ID]
	if !ok {
		conns = make(map[string]Conn)
		p.conns[user.ID] = conns
	}
	wasOffline := len(conns) == 0
	conns[conn.ID()] = conn
	p.followers[user.ID] = followerIDs
	p.mu.Unlock()

	log.Printf("User %d connected to presence (%d followers cached)", user.ID, len(followerIDs))

	if wasOffline {
		p.mirrorOnline(user.ID, true)
		p.BroadcastPresenceChange(user, true)
	}
}

// Disconnect removes the connection. When it was the user's last one, the
// cached follower set is read, the cache dropped, and followers are told the
// user went offline.
func (p *PresenceRegistry) Disconnect(user models.UserSummary, conn Conn) {
	p.mu.Lock()
	conns, ok := p.conns[user.ID]
	if !ok {
		p.mu.Unlock()
		return
	}
	if _, ok := conns[conn.ID()]; !ok {
		p.mu.Unlock()
		return
	}
	delete(conns, conn.ID())
	nowOffline := len(conns) == 0
	var followerIDs []uint
	if nowOffline {
		delete(p.conns, user.ID)
		// Snapshot and drop the cache in the same critical section. A
		// reconnect landing between unlock and broadcast stores a fresh
		// cache; a stale delete here afterwards would wipe it and the
		// reconnected user's final disconnect would reach nobody.
		followerIDs = p.followers[user.ID]
		delete(p.followers, user.ID)
	}
	p.mu.Unlock()

	log.Printf("User %d disconnected from presence", user.ID)

	if nowOffline {
		p.mirrorOnline(user.ID, false)
		p.broadcastToFollowers(followerIDs, user, false)
	}
}

// IsOnline reports whether the user holds at least one presence connection.
func (p *PresenceRegistry) IsOnline(userID uint) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns[userID]) > 0
}

// OnlineSubsetOf intersects candidateIDs with the live presence set.
func (p *PresenceRegistry) OnlineSubsetOf(candidateIDs []uint) []uint {
	p.mu.Lock()
	defer p.mu.Unlock()

	online := make([]uint, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		if len(p.conns[id]) > 0 {
			online = append(online, id)
		}
	}
	return online
}

// BroadcastPresenceChange delivers a presence_change event to every cached
// follower of the user who is currently connected. Followers who are offline
// are skipped, not queued.
func (p *PresenceRegistry) BroadcastPresenceChange(user models.UserSummary, isOnline bool) {
	p.mu.Lock()
	followerIDs := p.followers[user.ID]
	p.mu.Unlock()
	p.broadcastToFollowers(followerIDs, user, isOnline)
}

// broadcastToFollowers fans the event out to the given followers. Recipient
// connections are snapshotted under the lock; sends happen outside it and
// individual failures are logged only.
func (p *PresenceRegistry) broadcastToFollowers(followerIDs []uint, user models.UserSummary, isOnline bool) {
	p.mu.Lock()
	var recipients []Conn
	for _, followerID := range followerIDs {
		for _, conn := range p.conns[followerID] {
			recipients = append(recipients, conn)
		}
	}
	p.mu.Unlock()

	frame := models.NewFrame(models.FrameTypePresenceChange, models.PresenceChangeEvent{
		UserID:         user.ID,
		IsOnline:       isOnline,
		Username:       user.Username,
		FullName:       user.FullName,
		ProfilePicture: user.ProfilePicture,
	})

	for _, conn := range recipients {
		if err := conn.Send(frame); err != nil {
			log.Printf("ERROR: Failed to send presence change to user %d: %v", conn.UserID(), err)
		}
	}
}

func (p *PresenceRegistry) mirrorOnline(userID uint, online bool) {
	if p.mirror == nil {
		return
	}
	var err error
	if online {
		err = p.mirror.SetOnline(userID)
	} else {
		err = p.mirror.SetOffline(userID)
	}
	if err != nil {
		log.Printf("WARNING: Presence mirror update for user %d failed: %v", userID, err)
	}
}
