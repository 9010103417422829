package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation status constants. "human" means the account owner has taken over and
// the bot stays out of the thread.
const (
	ConversationStatusBot   = "bot"
	ConversationStatusHuman = "human"
)

// Conversation represents a message thread between a contact and an instance
type Conversation struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	InstanceID string `gorm:"type:uuid;index;not null" json:"instance_id"`
	ContactID  string `gorm:"type:uuid;index;not null" json:"contact_id"`

	Status             string     `gorm:"default:'bot'" json:"status"`
	LastHumanMessageAt *time.Time `json:"last_human_message_at,omitempty"`

	// Relationships
	Contact  Contact   `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Conversation model
func (Conversation) TableName() string {
	return "conversations"
}
