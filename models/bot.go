package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bot represents an automated booking assistant attached to a messaging instance.
// The bot is a schedule owner: it has its own business hours, blocked periods and
// appointment book, plus the timezone those hours are expressed in.
type Bot struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	InstanceID string `gorm:"type:uuid;index;not null" json:"instance_id"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`

	// Prompt settings used by the chat automation
	Personality string `json:"personality"`
	CompanyInfo string `json:"company_info"`

	Enabled  bool   `gorm:"default:true" json:"enabled"`
	Timezone string `gorm:"default:'UTC'" json:"timezone"` // IANA name for business hours

	// Slot width used when no service duration is given
	ServiceDurationMinutes int `gorm:"default:30" json:"service_duration_minutes"`

	// Relationships
	Instance       Instance        `gorm:"foreignKey:InstanceID" json:"instance,omitempty"`
	Doctors        []Doctor        `gorm:"foreignKey:BotID;constraint:OnDelete:CASCADE" json:"doctors,omitempty"`
	Contacts       []Contact       `gorm:"foreignKey:BotID;constraint:OnDelete:CASCADE" json:"contacts,omitempty"`
	BusinessHours  []BusinessHour  `gorm:"foreignKey:BotID;constraint:OnDelete:CASCADE" json:"business_hours,omitempty"`
	BlockedPeriods []BlockedPeriod `gorm:"foreignKey:BotID;constraint:OnDelete:CASCADE" json:"blocked_periods,omitempty"`
	Appointments   []Appointment   `gorm:"foreignKey:BotID;constraint:OnDelete:CASCADE" json:"appointments,omitempty"`
}

// BeforeCreate hook to generate UUID
func (b *Bot) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Bot model
func (Bot) TableName() string {
	return "bots"
}
