package services

import (
	"errors"
	"time"

	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"gorm.io/gorm"
)

// ValidateBusinessHour checks weekday range, clock format and ordering.
// Start must precede end when the window is available; overnight spans are rejected.
func ValidateBusinessHour(hour *models.BusinessHour) error {
	if hour.Weekday < 0 || hour.Weekday > 6 {
		return errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")
	}
	if _, err := time.Parse("15:04", hour.StartTime); err != nil {
		return errors.New("start_time must be in HH:MM format")
	}
	if _, err := time.Parse("15:04", hour.EndTime); err != nil {
		return errors.New("end_time must be in HH:MM format")
	}
	if hour.Available && hour.StartTime >= hour.EndTime {
		return errors.New("end_time must be after start_time")
	}
	return nil
}

// CreateBusinessHour validates and persists a weekly window
func CreateBusinessHour(db *gorm.DB, hour *models.BusinessHour) error {
	if err := ValidateBusinessHour(hour); err != nil {
		return err
	}
	return db.Create(hour).Error
}

// GetBusinessHourByID fetches a single business hour entry
func GetBusinessHourByID(db *gorm.DB, id string) (*models.BusinessHour, error) {
	var hour models.BusinessHour
	err := db.First(&hour, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &hour, nil
}

// GetBotBusinessHours fetches all weekly windows configured for a bot
func GetBotBusinessHours(db *gorm.DB, botID string) ([]models.BusinessHour, error) {
	var hours []models.BusinessHour
	err := db.Where("bot_id = ?", botID).
		Order("weekday, start_time").
		Find(&hours).Error
	return hours, err
}

// GetDoctorBusinessHours fetches all weekly windows configured for a doctor
func GetDoctorBusinessHours(db *gorm.DB, doctorID string) ([]models.BusinessHour, error) {
	var hours []models.BusinessHour
	err := db.Where("doctor_id = ?", doctorID).
		Order("weekday, start_time").
		Find(&hours).Error
	return hours, err
}

// BusinessHourUpdate carries a sparse update; nil fields are left unchanged
type BusinessHourUpdate struct {
	Weekday   *int    `json:"weekday"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Available *bool   `json:"available"`
}

// UpdateBusinessHour applies a sparse update and re-validates the resulting window
func UpdateBusinessHour(db *gorm.DB, hour *models.BusinessHour, update BusinessHourUpdate) error {
	if update.Weekday != nil {
		hour.Weekday = *update.Weekday
	}
	if update.StartTime != nil {
		hour.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		hour.EndTime = *update.EndTime
	}
	if update.Available != nil {
		hour.Available = *update.Available
	}
	if err := ValidateBusinessHour(hour); err != nil {
		return err
	}
	return db.Save(hour).Error
}

// DeleteBusinessHour removes a weekly window
func DeleteBusinessHour(db *gorm.DB, id string) error {
	return db.Delete(&models.BusinessHour{}, "id = ?", id).Error
}
