package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message sender constants
const (
	SenderUser  = "user"  // the contact
	SenderBot   = "bot"   // automated reply
	SenderHuman = "human" // the account owner replying manually
)

// Message represents a single message inside a conversation. Content always holds
// text (audio/image messages arrive already transcribed).
type Message struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	ConversationID string `gorm:"type:uuid;index;not null" json:"conversation_id"`

	Sender            string `gorm:"not null" json:"sender"`
	MessageType       string `gorm:"not null" json:"message_type"` // text | audio | image | video | document
	Content           string `gorm:"type:text;not null" json:"content"`
	ExternalMessageID string `json:"external_message_id"`
}

// BeforeCreate hook to generate UUID
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Message model
func (Message) TableName() string {
	return "messages"
}
