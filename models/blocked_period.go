package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlockedPeriod represents an ad-hoc range during which a schedule owner takes no
// bookings (vacation, holiday, maintenance). Exactly one of BotID or DoctorID is set.
// Instants are stored in UTC and the block covers [StartTime, EndTime).
type BlockedPeriod struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BotID    *string `gorm:"type:uuid;index" json:"bot_id,omitempty"`
	DoctorID *string `gorm:"type:uuid;index" json:"doctor_id,omitempty"`

	StartTime time.Time `gorm:"not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index" json:"end_time"`
	Reason    string    `json:"reason"`
}

// BeforeCreate hook to generate UUID
func (b *BlockedPeriod) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for BlockedPeriod model
func (BlockedPeriod) TableName() string {
	return "blocked_periods"
}

// IsBlocking checks if this period overlaps a given range.
// Half-open semantics: [StartA, EndA) and [StartB, EndB) overlap iff StartA < EndB and EndA > StartB.
func (b *BlockedPeriod) IsBlocking(checkStart, checkEnd time.Time) bool {
	return b.StartTime.Before(checkEnd) && b.EndTime.After(checkStart)
}

// Contains checks if this period fully covers a given range
func (b *BlockedPeriod) Contains(checkStart, checkEnd time.Time) bool {
	return !b.StartTime.After(checkStart) && !b.EndTime.Before(checkEnd)
}
