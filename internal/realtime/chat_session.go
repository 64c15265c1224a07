package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/rajveergoudxd/VextraLabs/internal/models"
	"github.com/rajveergoudxd/VextraLabs/internal/storage"
)

// ChatSession drives one chat connection through its lifetime: register in
// the room, announce the user, consume frames until the peer goes away, then
// unregister and announce the departure. Authentication and participant
// checks happen before a session is constructed.
type ChatSession struct {
	conn           Conn
	user           models.UserSummary
	conversationID uint
	rooms          *RoomRegistry
	store          storage.Storage
}

func NewChatSession(conn Conn, user models.UserSummary, conversationID uint, rooms *RoomRegistry, store storage.Storage) *ChatSession {
	return &ChatSession{
		conn:           conn,
		user:           user,
		conversationID: conversationID,
		rooms:          rooms,
		store:          store,
	}
}

// Run blocks until the connection closes. The deferred cleanup always runs,
// so no exit path can leak a registry entry.
func (s *ChatSession) Run() {
	superseded := s.rooms.Register(s.conversationID, s.user.ID, s.conn)
	if superseded != nil {
		log.Printf("User %d reconnected to conversation %d, closing superseded connection %s",
			s.user.ID, s.conversationID, superseded.ID())
		superseded.Close()
	}

	defer func() {
		s.conn.Close()
		// Only the current registrant announces the departure; a superseded
		// connection winding down must not mark the reconnected user offline.
		if s.rooms.Unregister(s.conversationID, s.user.ID, s.conn) {
			s.rooms.Broadcast(s.conversationID, models.NewFrame(models.FrameTypeOnlineStatus, models.OnlineStatusEvent{
				UserID:   s.user.ID,
				IsOnline: false,
			}), 0)
		}
	}()

	s.rooms.Broadcast(s.conversationID, models.NewFrame(models.FrameTypeOnlineStatus, models.OnlineStatusEvent{
		UserID:   s.user.ID,
		IsOnline: true,
	}), s.user.ID)

	for frame := range s.conn.Inbound() {
		switch frame.Type {
		case models.FrameTypeMessage:
			s.handleMessage(frame.Data)
		case models.FrameTypeReadReceipt:
			s.handleReadReceipt(frame.Data)
		case models.FrameTypeTyping:
			s.handleTyping(frame.Data)
		default:
			// Unknown frame types are ignored.
		}
	}
}

func (s *ChatSession) handleMessage(data json.RawMessage) {
	var payload models.MessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("Error decoding message payload from user %d: %v", s.user.ID, err)
		return
	}

	// A message with nothing to say is dropped, not answered.
	if payload.Content == "" && payload.MediaURL == "" {
		return
	}
	if payload.MessageType == "" {
		payload.MessageType = models.MessageTypeText
	}

	senderID := s.user.ID
	msg := &models.Message{
		ConversationID: s.conversationID,
		SenderID:       &senderID,
		Content:        payload.Content,
		MessageType:    payload.MessageType,
		MediaURL:       payload.MediaURL,
	}
	if err := s.store.SaveMessage(msg); err != nil {
		log.Printf("ERROR: Dropping message from user %d in conversation %d: %v", s.user.ID, s.conversationID, err)
		return
	}

	// Echo to the whole room, sender included: clients derive their state
	// from server echoes, not from optimistic local writes.
	s.rooms.Broadcast(s.conversationID, models.NewFrame(models.FrameTypeMessage, models.MessageEvent{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		Sender:         s.user,
		Content:        msg.Content,
		MessageType:    msg.MessageType,
		MediaURL:       msg.MediaURL,
		CreatedAt:      msg.CreatedAt,
		IsRead:         msg.IsRead,
		ReadAt:         msg.ReadAt,
	}), 0)

	s.notifyOfflineParticipants(msg)
}

// notifyOfflineParticipants enqueues a push notification for every
// participant without a live connection in the room. Best effort: the queue
// worker owns delivery.
func (s *ChatSession) notifyOfflineParticipants(msg *models.Message) {
	participantIDs, err := s.store.GetParticipantIDs(s.conversationID)
	if err != nil {
		log.Printf("ERROR: Failed to load participants for push notify in conversation %d: %v", s.conversationID, err)
		return
	}

	online := make(map[uint]bool)
	for _, id := range s.rooms.OnlineUserIDs(s.conversationID) {
		online[id] = true
	}

	for _, id := range participantIDs {
		if id == s.user.ID || online[id] {
			continue
		}
		err := s.store.EnqueuePushNotification(models.PushNotification{
			UserID:         id,
			ConversationID: msg.ConversationID,
			MessageID:      msg.ID,
			SenderID:       msg.SenderID,
			SenderName:     s.user.FullName,
			Preview:        msg.Content,
			CreatedAt:      msg.CreatedAt,
		})
		if err != nil {
			log.Printf("ERROR: Failed to enqueue push notification for user %d: %v", id, err)
		}
	}
}

func (s *ChatSession) handleReadReceipt(data json.RawMessage) {
	var payload models.ReadReceiptPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("Error decoding read receipt from user %d: %v", s.user.ID, err)
		return
	}
	if len(payload.MessageIDs) == 0 {
		return
	}

	now := time.Now().UTC()
	if err := s.store.MarkMessagesRead(s.conversationID, s.user.ID, payload.MessageIDs, now); err != nil {
		log.Printf("ERROR: Read receipt batch from user %d in conversation %d failed: %v", s.user.ID, s.conversationID, err)
		return
	}

	s.rooms.Broadcast(s.conversationID, models.NewFrame(models.FrameTypeReadReceipt, models.ReadReceiptEvent{
		UserID:     s.user.ID,
		MessageIDs: payload.MessageIDs,
		ReadAt:     now,
	}), s.user.ID)
}

func (s *ChatSession) handleTyping(data json.RawMessage) {
	var payload models.TypingPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("Error decoding typing payload from user %d: %v", s.user.ID, err)
		return
	}

	s.rooms.Broadcast(s.conversationID, models.NewFrame(models.FrameTypeTyping, models.TypingEvent{
		UserID:   s.user.ID,
		IsTyping: payload.IsTyping,
	}), s.user.ID)
}
