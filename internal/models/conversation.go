package models

import "time"

// Conversation is a 1:1 chat thread between two users.
type Conversation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// LastMessageAt advances whenever a message is persisted; conversation
	// lists are ordered by it.
	LastMessageAt *time.Time `json:"last_message_at"`
}

// ConversationParticipant links a user to a conversation. Membership in this
// table is what authorizes a user to open a chat connection.
type ConversationParticipant struct {
	ID             uint      `gorm:"primaryKey"`
	ConversationID uint      `gorm:"not null;index;uniqueIndex:idx_unique_participant"`
	UserID         uint      `gorm:"not null;index;uniqueIndex:idx_unique_participant"`
	JoinedAt       time.Time `gorm:"autoCreateTime"`
	// LastReadAt is the coarse per-participant read watermark; fine-grained
	// read state lives on individual messages.
	LastReadAt *time.Time
}
