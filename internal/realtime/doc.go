// Package realtime is the live-delivery core of the backend: per-conversation
// chat fan-out (messages, read receipts, typing indicators) and global
// presence tracking with follower-targeted online/offline broadcasts.
//
// The two registries keep deliberately separate notions of "online". The
// RoomRegistry tracks who holds a chat connection inside one conversation and
// drives the room-scoped online_status events; the PresenceRegistry tracks
// who holds a presence connection anywhere and drives presence_change events
// to followers. A user chatting without a presence socket is online in the
// room and offline globally. The two are never reconciled.
//
// Both registries are shared mutable state touched by every connection
// goroutine and are guarded by a mutex each. Broadcasts snapshot their
// recipient set under the lock and perform all sends after releasing it, so
// one slow or dead recipient never stalls registration of unrelated
// connections. A failed send is logged and skipped, never propagated.
package realtime
