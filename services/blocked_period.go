package services

import (
	"errors"
	"time"

	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"gorm.io/gorm"
)

// CreateBlockedPeriod validates and persists a blocked period. End must come after
// start; instants are normalized to UTC before storage.
func CreateBlockedPeriod(db *gorm.DB, period *models.BlockedPeriod) error {
	if !period.EndTime.After(period.StartTime) {
		return errors.New("end_time must be after start_time")
	}
	period.StartTime = period.StartTime.UTC()
	period.EndTime = period.EndTime.UTC()
	return db.Create(period).Error
}

// GetBlockedPeriodByID fetches a single blocked period
func GetBlockedPeriodByID(db *gorm.DB, id string) (*models.BlockedPeriod, error) {
	var period models.BlockedPeriod
	err := db.First(&period, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// BlockedPeriodFilter narrows ListBlockedPeriods; zero values mean no filtering
type BlockedPeriodFilter struct {
	StartAfter time.Time
	EndBefore  time.Time
	ActiveOnly bool // only periods that have not ended yet
}

// ListBotBlockedPeriods fetches blocked periods for a bot, earliest first
func ListBotBlockedPeriods(db *gorm.DB, botID string, filter BlockedPeriodFilter) ([]models.BlockedPeriod, error) {
	return listBlockedPeriods(db.Where("bot_id = ?", botID), filter)
}

// ListDoctorBlockedPeriods fetches blocked periods for a doctor, earliest first
func ListDoctorBlockedPeriods(db *gorm.DB, doctorID string, filter BlockedPeriodFilter) ([]models.BlockedPeriod, error) {
	return listBlockedPeriods(db.Where("doctor_id = ?", doctorID), filter)
}

func listBlockedPeriods(query *gorm.DB, filter BlockedPeriodFilter) ([]models.BlockedPeriod, error) {
	if !filter.StartAfter.IsZero() {
		query = query.Where("start_time >= ?", filter.StartAfter)
	}
	if !filter.EndBefore.IsZero() {
		query = query.Where("end_time <= ?", filter.EndBefore)
	}
	if filter.ActiveOnly {
		query = query.Where("end_time >= ?", time.Now().UTC())
	}

	var periods []models.BlockedPeriod
	err := query.Order("start_time asc").Find(&periods).Error
	return periods, err
}

// BlockedPeriodUpdate carries a sparse update; nil fields are left unchanged
type BlockedPeriodUpdate struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Reason    *string    `json:"reason"`
}

// UpdateBlockedPeriod applies a sparse update and re-validates the range
func UpdateBlockedPeriod(db *gorm.DB, period *models.BlockedPeriod, update BlockedPeriodUpdate) error {
	if update.StartTime != nil {
		period.StartTime = update.StartTime.UTC()
	}
	if update.EndTime != nil {
		period.EndTime = update.EndTime.UTC()
	}
	if update.Reason != nil {
		period.Reason = *update.Reason
	}
	if !period.EndTime.After(period.StartTime) {
		return errors.New("end_time must be after start_time")
	}
	return db.Save(period).Error
}

// DeleteBlockedPeriod removes a blocked period
func DeleteBlockedPeriod(db *gorm.DB, id string) error {
	return db.Delete(&models.BlockedPeriod{}, "id = ?", id).Error
}
