package services

import (
	"time"

	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"gorm.io/gorm"
)

// ScheduleOwner is the calendar-owning entity a booking targets: a bot or a doctor.
// The availability engine is written against this interface so both owner kinds share
// a single implementation.
type ScheduleOwner interface {
	OwnerID() string
	// Timezone returns the IANA zone the owner's business hours are expressed in
	Timezone() string
	// DefaultDurationMinutes is the slot width used when no service duration is given
	DefaultDurationMinutes() int
	// BusinessHours returns the available weekly windows for a weekday (0=Sunday)
	BusinessHours(db *gorm.DB, weekday int) ([]models.BusinessHour, error)
	// BlockedPeriods returns blocked periods overlapping [from, to)
	BlockedPeriods(db *gorm.DB, from, to time.Time) ([]models.BlockedPeriod, error)
	// Appointments returns non-cancelled appointments overlapping [from, to)
	Appointments(db *gorm.DB, from, to time.Time) ([]models.Appointment, error)
}

// BotOwner adapts a bot to the ScheduleOwner interface. The bot's calendar covers
// every appointment booked under it, including doctor-specific ones.
type BotOwner struct {
	Bot *models.Bot
}

// NewBotOwner wraps a bot as a schedule owner
func NewBotOwner(bot *models.Bot) BotOwner {
	return BotOwner{Bot: bot}
}

func (o BotOwner) OwnerID() string {
	return o.Bot.ID
}

func (o BotOwner) Timezone() string {
	return o.Bot.Timezone
}

func (o BotOwner) DefaultDurationMinutes() int {
	return o.Bot.ServiceDurationMinutes
}

func (o BotOwner) BusinessHours(db *gorm.DB, weekday int) ([]models.BusinessHour, error) {
	var hours []models.BusinessHour
	// Ordered by creation so duplicate weekday rows resolve the same way every time
	err := db.Where("bot_id = ? AND weekday = ? AND available = ?", o.Bot.ID, weekday, true).
		Order("created_at, id").
		Find(&hours).Error
	return hours, err
}

func (o BotOwner) BlockedPeriods(db *gorm.DB, from, to time.Time) ([]models.BlockedPeriod, error) {
	var periods []models.BlockedPeriod
	// Overlap check: (StartA < EndB) AND (EndA > StartB)
	err := db.Where("bot_id = ? AND start_time < ? AND end_time > ?", o.Bot.ID, to, from).
		Order("start_time asc").
		Find(&periods).Error
	return periods, err
}

func (o BotOwner) Appointments(db *gorm.DB, from, to time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := db.Where("bot_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
		o.Bot.ID, models.AppointmentStatusCancelled, to, from).
		Order("start_time asc").
		Find(&appointments).Error
	return appointments, err
}

// DoctorOwner adapts a doctor to the ScheduleOwner interface. Doctors have no
// timezone of their own; they inherit the parent bot's zone and default duration.
type DoctorOwner struct {
	Doctor *models.Doctor
	Bot    *models.Bot
}

// NewDoctorOwner wraps a doctor (and its parent bot) as a schedule owner
func NewDoctorOwner(doctor *models.Doctor, bot *models.Bot) DoctorOwner {
	return DoctorOwner{Doctor: doctor, Bot: bot}
}

func (o DoctorOwner) OwnerID() string {
	return o.Doctor.ID
}

func (o DoctorOwner) Timezone() string {
	return o.Bot.Timezone
}

func (o DoctorOwner) DefaultDurationMinutes() int {
	return o.Bot.ServiceDurationMinutes
}

func (o DoctorOwner) BusinessHours(db *gorm.DB, weekday int) ([]models.BusinessHour, error) {
	var hours []models.BusinessHour
	err := db.Where("doctor_id = ? AND weekday = ? AND available = ?", o.Doctor.ID, weekday, true).
		Order("created_at, id").
		Find(&hours).Error
	return hours, err
}

func (o DoctorOwner) BlockedPeriods(db *gorm.DB, from, to time.Time) ([]models.BlockedPeriod, error) {
	var periods []models.BlockedPeriod
	err := db.Where("doctor_id = ? AND start_time < ? AND end_time > ?", o.Doctor.ID, to, from).
		Order("start_time asc").
		Find(&periods).Error
	return periods, err
}

func (o DoctorOwner) Appointments(db *gorm.DB, from, to time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := db.Where("doctor_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
		o.Doctor.ID, models.AppointmentStatusCancelled, to, from).
		Order("start_time asc").
		Find(&appointments).Error
	return appointments, err
}
