package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BusinessHour represents one weekly opening window for a schedule owner.
// Exactly one of BotID or DoctorID is set. Weekday uses the external convention
// 0=Sunday...6=Saturday, and times are local "HH:MM" strings in the owner's timezone.
type BusinessHour struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BotID    *string `gorm:"type:uuid;index" json:"bot_id,omitempty"`
	DoctorID *string `gorm:"type:uuid;index" json:"doctor_id,omitempty"`

	Weekday   int    `gorm:"not null" json:"weekday"` // 0=Sunday...6=Saturday
	StartTime string `gorm:"not null" json:"start_time"`
	EndTime   string `gorm:"not null" json:"end_time"`
	Available bool   `gorm:"default:true" json:"available"`
}

// BeforeCreate hook to generate UUID
func (h *BusinessHour) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for BusinessHour model
func (BusinessHour) TableName() string {
	return "business_hours"
}

// DayName returns the name of the configured weekday
func (h *BusinessHour) DayName() string {
	days := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if h.Weekday >= 0 && h.Weekday < 7 {
		return days[h.Weekday]
	}
	return ""
}

// WeekdayName returns the day name for an external-convention weekday index
func WeekdayName(weekday int) string {
	h := BusinessHour{Weekday: weekday}
	return h.DayName()
}
