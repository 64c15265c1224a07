package handler

import (
	"github.com/rajveergoudxd/VextraLabs/internal/auth"
	"github.com/rajveergoudxd/VextraLabs/internal/realtime"
	"github.com/rajveergoudxd/VextraLabs/internal/storage"
)

// Handler holds the realtime registries and their collaborators for the HTTP
// and websocket endpoints.
type Handler struct {
	Rooms    *realtime.RoomRegistry
	Presence *realtime.PresenceRegistry
	Store    storage.Storage
	Auth     *auth.Gate
}

func NewHandler(rooms *realtime.RoomRegistry, presence *realtime.PresenceRegistry, store storage.Storage, gate *auth.Gate) *Handler {
	return &Handler{
		Rooms:    rooms,
		Presence: presence,
		Store:    store,
		Auth:     gate,
	}
}
