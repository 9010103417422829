package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment status constants
const (
	AppointmentStatusActive    = "active"
	AppointmentStatusCancelled = "cancelled"
)

// Appointment represents a booked time range for a contact. It always belongs to a
// bot; DoctorID is set when the booking targets a specific doctor's calendar.
// Instants are stored in UTC. Appointments are never hard-deleted: cancellation is
// the terminal state and cancelled rows no longer count as busy.
type Appointment struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BotID     string  `gorm:"type:uuid;index;not null" json:"bot_id"`
	DoctorID  *string `gorm:"type:uuid;index" json:"doctor_id,omitempty"`
	ServiceID *string `gorm:"type:uuid;index" json:"service_id,omitempty"`
	ContactID string  `gorm:"type:uuid;index;not null" json:"contact_id"`

	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `gorm:"not null;index" json:"start_time"`
	EndTime     time.Time `gorm:"not null;index" json:"end_time"`
	Status      string    `gorm:"default:'active';index" json:"status"`

	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`

	// Relationships
	Contact Contact  `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// IsValidAppointmentStatus checks if the status is valid
func IsValidAppointmentStatus(status string) bool {
	return status == AppointmentStatusActive || status == AppointmentStatusCancelled
}

// IsCancellable checks if the appointment can still be cancelled
func (a *Appointment) IsCancellable() bool {
	return a.Status == AppointmentStatusActive
}

// Duration returns the appointment length in minutes
func (a *Appointment) Duration() int {
	return int(a.EndTime.Sub(a.StartTime).Minutes())
}

// TimeSlot represents a bookable interval offered to callers. Instants are
// expressed in the platform's display timezone.
type TimeSlot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
