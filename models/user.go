package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a platform account, identified by its Firebase UID.
// Users are created lazily the first time a valid token is seen.
type User struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FirebaseUID string `gorm:"uniqueIndex;not null" json:"firebase_uid"`
	Email       string `json:"email"`
	Name        string `json:"name"`

	// Relationships
	Instances []Instance `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"instances,omitempty"`
	Services  []Service  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"services,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
