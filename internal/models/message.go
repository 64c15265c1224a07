package models

import "time"

// Message content types.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVideo = "video"
)

// Message is a single chat message. SenderID is a pointer because the sender
// account may be deleted while the message survives (SET NULL on delete).
type Message struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	ConversationID uint  `gorm:"not null;index:idx_message_conversation" json:"conversation_id"`
	SenderID       *uint `gorm:"index:idx_message_sender" json:"sender_id"`

	// Content is the text body; empty for pure media messages.
	Content string `gorm:"type:text" json:"content"`
	// MessageType is one of MessageTypeText, MessageTypeImage, MessageTypeVideo.
	MessageType string `gorm:"size:20;not null;default:text" json:"message_type"`
	// MediaURL points at uploaded media for image/video messages.
	MediaURL string `gorm:"size:500" json:"media_url"`

	CreatedAt time.Time  `gorm:"index:idx_message_created" json:"created_at"`
	IsRead    bool       `gorm:"default:false" json:"is_read"`
	ReadAt    *time.Time `json:"read_at"`
}
