package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service represents a bookable offering (consultation, follow-up, ...). Its duration
// determines the slot width used when listing availability. DoctorID is optional:
// user-level services apply to the bot's own calendar.
type Service struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID   string  `gorm:"type:uuid;index;not null" json:"user_id"`
	DoctorID *string `gorm:"type:uuid;index" json:"doctor_id,omitempty"`

	Name        string   `gorm:"not null" json:"name"`
	Description string   `json:"description"`
	Duration    int      `gorm:"not null" json:"duration"` // minutes, must be > 0
	Price       *float64 `json:"price,omitempty"`
}

// BeforeCreate hook to generate UUID
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Service model
func (Service) TableName() string {
	return "services"
}
