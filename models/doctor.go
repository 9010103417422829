package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Doctor represents a professional bookable through a bot. Doctors keep their own
// business hours and blocked periods, separate from the bot's.
type Doctor struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BotID string `gorm:"type:uuid;index;not null" json:"bot_id"`

	Name        string `gorm:"not null" json:"name"`
	Email       string `gorm:"not null" json:"email"`
	Specialties string `json:"specialties"`
	CRM         string `json:"crm"` // professional registration number

	// Relationships
	Bot            Bot             `gorm:"foreignKey:BotID" json:"bot,omitempty"`
	Services       []Service       `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"services,omitempty"`
	BusinessHours  []BusinessHour  `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"business_hours,omitempty"`
	BlockedPeriods []BlockedPeriod `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"blocked_periods,omitempty"`
	Appointments   []Appointment   `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"appointments,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Doctor model
func (Doctor) TableName() string {
	return "doctors"
}
