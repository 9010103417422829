package services

import (
	"errors"
	"sync"
	"time"

	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"gorm.io/gorm"
)

// bookingLocks serializes validate-then-insert per owner. Without it two concurrent
// bookings for the same slot can both pass validation and both insert; the check and
// the create are not covered by a single transaction.
var bookingLocks sync.Map // owner ID -> *sync.Mutex

func lockForOwner(ownerID string) *sync.Mutex {
	mu, _ := bookingLocks.LoadOrStore(ownerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// BookAppointment validates the appointment's range against the owner's calendar and
// inserts it. Validation and insert run under the owner's booking lock, so exactly
// one of two concurrent requests for the same slot succeeds; the loser gets a
// *SlotUnavailableError.
func BookAppointment(db *gorm.DB, owner ScheduleOwner, apt *models.Appointment, fallback *time.Location) error {
	mu := lockForOwner(owner.OwnerID())
	mu.Lock()
	defer mu.Unlock()

	ok, reason, err := CheckSlotAvailable(db, owner, apt.StartTime, apt.EndTime, "", fallback)
	if err != nil {
		return err
	}
	if !ok {
		return &SlotUnavailableError{Reason: reason}
	}

	apt.StartTime = apt.StartTime.UTC()
	apt.EndTime = apt.EndTime.UTC()
	if apt.Status == "" {
		apt.Status = models.AppointmentStatusActive
	}
	return db.Create(apt).Error
}

// RescheduleAppointment moves an appointment to a new range after re-validating it,
// excluding the appointment itself from the conflict scan.
func RescheduleAppointment(db *gorm.DB, owner ScheduleOwner, appointmentID string, newStart, newEnd time.Time, fallback *time.Location) error {
	mu := lockForOwner(owner.OwnerID())
	mu.Lock()
	defer mu.Unlock()

	apt, err := GetAppointmentByID(db, appointmentID)
	if err != nil {
		return err
	}
	if !apt.IsCancellable() {
		return errors.New("cancelled appointments cannot be rescheduled")
	}

	ok, reason, err := CheckSlotAvailable(db, owner, newStart, newEnd, appointmentID, fallback)
	if err != nil {
		return err
	}
	if !ok {
		return &SlotUnavailableError{Reason: reason}
	}

	return db.Model(&models.Appointment{}).Where("id = ?", appointmentID).
		Updates(map[string]interface{}{
			"start_time": newStart.UTC(),
			"end_time":   newEnd.UTC(),
		}).Error
}

// GetAppointmentByID fetches a single appointment with its contact
func GetAppointmentByID(db *gorm.DB, id string) (*models.Appointment, error) {
	var apt models.Appointment
	err := db.Preload("Contact").First(&apt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &apt, nil
}

// GetBotAppointments fetches all appointments for a bot, earliest first
func GetBotAppointments(db *gorm.DB, botID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := db.Preload("Contact").
		Where("bot_id = ?", botID).
		Order("start_time asc").
		Find(&appointments).Error
	return appointments, err
}

// CancelAppointment marks an appointment cancelled. Cancellation is terminal; the
// row is kept and simply stops counting as busy.
func CancelAppointment(db *gorm.DB, id string) error {
	apt, err := GetAppointmentByID(db, id)
	if err != nil {
		return err
	}
	if !apt.IsCancellable() {
		return errors.New("appointment is already cancelled")
	}
	return db.Model(&models.Appointment{}).Where("id = ?", id).
		Update("status", models.AppointmentStatusCancelled).Error
}

// GetAppointmentsNeedingReminder fetches active appointments starting inside
// [from, to) that have not been reminded yet
func GetAppointmentsNeedingReminder(db *gorm.DB, from, to time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := db.Preload("Contact").
		Where("status = ?", models.AppointmentStatusActive).
		Where("start_time >= ? AND start_time < ?", from, to).
		Where("reminder_sent_at IS NULL").
		Find(&appointments).Error
	return appointments, err
}

// MarkReminderSent stamps the appointment so the reminder job skips it next run
func MarkReminderSent(db *gorm.DB, id string) error {
	now := time.Now().UTC()
	return db.Model(&models.Appointment{}).Where("id = ?", id).
		Update("reminder_sent_at", now).Error
}
