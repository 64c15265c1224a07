package models

import (
	"encoding/json"
	"time"
)

// Frame type tags used on both realtime endpoints.
const (
	FrameTypeMessage           = "message"
	FrameTypeReadReceipt       = "read_receipt"
	FrameTypeTyping            = "typing"
	FrameTypeOnlineStatus      = "online_status"
	FrameTypeHeartbeat         = "heartbeat"
	FrameTypeHeartbeatAck      = "heartbeat_ack"
	FrameTypeInitialOnlineList = "initial_online_list"
	FrameTypePresenceChange    = "presence_change"
)

// Frame is the wire envelope for every realtime frame, inbound and outbound:
// {"type": "...", "data": {...}}. Data stays raw on the inbound path so each
// handler decodes only the payload it expects.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewFrame builds an outbound frame from a payload struct.
func NewFrame(frameType string, data interface{}) Frame {
	raw, _ := json.Marshal(data)
	return Frame{Type: frameType, Data: raw}
}

// UserSummary is the profile slice embedded in realtime events.
type UserSummary struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	ProfilePicture string `json:"profile_picture"`
}

// Inbound payloads.

// MessagePayload is the data of an inbound "message" frame.
type MessagePayload struct {
	Content     string `json:"content"`
	MediaURL    string `json:"media_url"`
	MessageType string `json:"message_type"`
}

// ReadReceiptPayload is the data of an inbound "read_receipt" frame.
type ReadReceiptPayload struct {
	MessageIDs []uint `json:"message_ids"`
}

// TypingPayload is the data of an inbound "typing" frame.
type TypingPayload struct {
	IsTyping bool `json:"is_typing"`
}

// Outbound payloads.

// MessageEvent mirrors a persisted message back to the room, sender included.
type MessageEvent struct {
	ID             uint        `json:"id"`
	ConversationID uint        `json:"conversation_id"`
	SenderID       *uint       `json:"sender_id"`
	Sender         UserSummary `json:"sender"`
	Content        string      `json:"content"`
	MessageType    string      `json:"message_type"`
	MediaURL       string      `json:"media_url"`
	CreatedAt      time.Time   `json:"created_at"`
	IsRead         bool        `json:"is_read"`
	ReadAt         *time.Time  `json:"read_at"`
}

// ReadReceiptEvent tells the rest of the room which messages the acting user read.
type ReadReceiptEvent struct {
	UserID     uint      `json:"user_id"`
	MessageIDs []uint    `json:"message_ids"`
	ReadAt     time.Time `json:"read_at"`
}

// TypingEvent is the ephemeral typing indicator.
type TypingEvent struct {
	UserID   uint `json:"user_id"`
	IsTyping bool `json:"is_typing"`
}

// OnlineStatusEvent is the room-scoped join/leave notification.
type OnlineStatusEvent struct {
	UserID   uint `json:"user_id"`
	IsOnline bool `json:"is_online"`
}

// PresenceChangeEvent is the follower-scoped global online/offline notification.
type PresenceChangeEvent struct {
	UserID         uint   `json:"user_id"`
	IsOnline       bool   `json:"is_online"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	ProfilePicture string `json:"profile_picture"`
}

// InitialOnlineListEvent is sent once right after a presence connection opens.
type InitialOnlineListEvent struct {
	OnlineUsers []UserSummary `json:"online_users"`
}

// PushNotification is what the core enqueues for offline recipients; the
// delivery worker that drains the queue resolves device tokens and sends.
type PushNotification struct {
	UserID         uint      `json:"user_id"`
	ConversationID uint      `json:"conversation_id"`
	MessageID      uint      `json:"message_id"`
	SenderID       *uint     `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	Preview        string    `json:"preview"`
	CreatedAt      time.Time `json:"created_at"`
}
