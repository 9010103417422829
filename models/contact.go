package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact represents a person reaching a bot through a messaging channel.
// Phone doubles as the external contact identifier on the platform side.
type Contact struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BotID string `gorm:"type:uuid;index;not null" json:"bot_id"`
	Phone string `gorm:"index;not null" json:"phone"`
	Name  string `json:"name"`

	// Relationships
	Appointments []Appointment `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"appointments,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Contact model
func (Contact) TableName() string {
	return "contacts"
}
