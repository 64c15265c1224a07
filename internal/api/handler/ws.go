package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/rajveergoudxd/VextraLabs/internal/models"
	"github.com/rajveergoudxd/VextraLabs/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Websocket close codes agreed with the clients.
const (
	CloseInvalidToken   = 4001
	CloseNotParticipant = 4004
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeChatWS upgrades the connection and runs a chat session for one
// conversation. The bearer token arrives as a query parameter because
// browser websocket clients cannot set headers.
//
// GET /api/v1/ws/chat/:conversation_id?token={jwt}
func (h *Handler) ServeChatWS(c *gin.Context) {
	conversationID, err := strconv.ParseUint(c.Param("conversation_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation id"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ERROR: Websocket upgrade failed: %v", err)
		return
	}

	user, ok := h.resolveUser(conn, c.Query("token"))
	if !ok {
		return
	}

	isParticipant, err := h.Store.IsParticipant(uint(conversationID), user.ID)
	if err != nil {
		log.Printf("ERROR: Participant check failed for user %d in conversation %d: %v", user.ID, conversationID, err)
		closeWithCode(conn, websocket.CloseInternalServerErr, "Internal error")
		return
	}
	if !isParticipant {
		closeWithCode(conn, CloseNotParticipant, "Not a participant")
		return
	}

	ws := realtime.NewWebSocketConn(user.ID, conn)
	session := realtime.NewChatSession(ws, user.Summary(), uint(conversationID), h.Rooms, h.Store)

	ws.Run()
	session.Run()
}

// ServePresenceWS upgrades the connection and runs a global-presence session.
//
// GET /api/v1/presence/ws?token={jwt}
func (h *Handler) ServePresenceWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ERROR: Websocket upgrade failed: %v", err)
		return
	}

	user, ok := h.resolveUser(conn, c.Query("token"))
	if !ok {
		return
	}

	ws := realtime.NewWebSocketConn(user.ID, conn)
	session := realtime.NewPresenceSession(ws, user.Summary(), h.Presence, h.Store)

	ws.Run()
	session.Run()
}

// resolveUser validates the token and loads an active user. On failure the
// socket is closed with 4001 and false is returned; the upgrade has already
// happened, so a proper close frame is the only way to signal the client.
func (h *Handler) resolveUser(conn *websocket.Conn, token string) (*models.User, bool) {
	userID, err := h.Auth.VerifyToken(token)
	if err != nil {
		closeWithCode(conn, CloseInvalidToken, "Invalid token")
		return nil, false
	}
	user, err := h.Store.GetUserByID(userID)
	if err != nil || user == nil || !user.IsActive {
		closeWithCode(conn, CloseInvalidToken, "Invalid token")
		return nil, false
	}
	return user, true
}

func closeWithCode(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	conn.Close()
}
