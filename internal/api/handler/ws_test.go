package handler_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rajveergoudxd/VextraLabs/internal/api/handler"
	"github.com/rajveergoudxd/VextraLabs/internal/auth"
	"github.com/rajveergoudxd/VextraLabs/internal/models"
	"github.com/rajveergoudxd/VextraLabs/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, store *MockStore) (*httptest.Server, *auth.Gate) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gate := auth.NewGate("test-secret", time.Hour)
	h := handler.NewHandler(realtime.NewRoomRegistry(), realtime.NewPresenceRegistry(nil), store, gate)

	r := gin.New()
	r.GET("/api/v1/ws/chat/:conversation_id", h.ServeChatWS)
	r.GET("/api/v1/presence/ws", h.ServePresenceWS)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, gate
}

func dialChat(t *testing.T, server *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws/chat/7?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// closeCode reads until the server closes the socket and returns the close code.
func closeCode(t *testing.T, conn *websocket.Conn) int {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	return closeErr.Code
}

func TestServeChatWS_InvalidTokenCloses4001(t *testing.T) {
	server, _ := newTestServer(t, new(MockStore))

	conn := dialChat(t, server, "not-a-token")

	assert.Equal(t, handler.CloseInvalidToken, closeCode(t, conn))
}

func TestServeChatWS_InactiveUserCloses4001(t *testing.T) {
	store := new(MockStore)
	store.On("GetUserByID", uint(1)).Return(&models.User{ID: 1, IsActive: false}, nil)

	server, gate := newTestServer(t, store)
	token, err := gate.GenerateToken(1)
	require.NoError(t, err)

	conn := dialChat(t, server, token)

	assert.Equal(t, handler.CloseInvalidToken, closeCode(t, conn))
}

func TestServeChatWS_NonParticipantCloses4004(t *testing.T) {
	store := new(MockStore)
	store.On("GetUserByID", uint(1)).Return(&models.User{ID: 1, IsActive: true}, nil)
	store.On("IsParticipant", uint(7), uint(1)).Return(false, nil)

	server, gate := newTestServer(t, store)
	token, err := gate.GenerateToken(1)
	require.NoError(t, err)

	conn := dialChat(t, server, token)

	assert.Equal(t, handler.CloseNotParticipant, closeCode(t, conn))
}

func TestServeChatWS_ParticipantCheckErrorClosesInternal(t *testing.T) {
	store := new(MockStore)
	store.On("GetUserByID", uint(1)).Return(&models.User{ID: 1, IsActive: true}, nil)
	store.On("IsParticipant", uint(7), uint(1)).Return(false, assert.AnError)

	server, gate := newTestServer(t, store)
	token, err := gate.GenerateToken(1)
	require.NoError(t, err)

	conn := dialChat(t, server, token)

	// A storage failure is not a membership verdict; the client must not be
	// told it is excluded from the conversation.
	assert.Equal(t, websocket.CloseInternalServerErr, closeCode(t, conn))
}
