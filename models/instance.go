package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Channel constants for messaging platforms
const (
	ChannelWhatsApp  = "whatsapp"
	ChannelInstagram = "instagram"
	ChannelMessenger = "messenger"
	ChannelTikTok    = "tiktok"
)

// Instance represents a connection to a messaging platform (one bot per instance)
type Instance struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID             string `gorm:"type:uuid;index;not null" json:"user_id"`
	Name               string `gorm:"not null" json:"name"`
	Channel            string `gorm:"not null" json:"channel"`
	ExternalInstanceID string `gorm:"index" json:"external_instance_id"` // Evolution API instance ID
	Active             bool   `gorm:"default:true" json:"active"`

	// Relationships
	User          User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Bot           *Bot           `gorm:"foreignKey:InstanceID;constraint:OnDelete:CASCADE" json:"bot,omitempty"`
	Conversations []Conversation `gorm:"foreignKey:InstanceID;constraint:OnDelete:CASCADE" json:"conversations,omitempty"`
}

// BeforeCreate hook to generate UUID
func (i *Instance) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Instance model
func (Instance) TableName() string {
	return "instances"
}

// IsValidChannel checks if the channel is one of the supported platforms
func IsValidChannel(channel string) bool {
	switch channel {
	case ChannelWhatsApp, ChannelInstagram, ChannelMessenger, ChannelTikTok:
		return true
	}
	return false
}
