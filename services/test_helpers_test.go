package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Instance{},
		&models.Bot{},
		&models.Doctor{},
		&models.Service{},
		&models.BusinessHour{},
		&models.BlockedPeriod{},
		&models.Contact{},
		&models.Appointment{},
		&models.Conversation{},
		&models.Message{},
	)
	assert.NoError(t, err)

	return testDB
}

// seedBot creates a user, instance and bot ready for scheduling tests
func seedBot(t *testing.T, db *gorm.DB, timezone string) *models.Bot {
	user := &models.User{FirebaseUID: "uid-" + uuid.New().String(), Email: "owner@test.com", Name: "Owner"}
	assert.NoError(t, db.Create(user).Error)

	instance := &models.Instance{UserID: user.ID, Name: "Clinic", Channel: models.ChannelWhatsApp, Active: true}
	assert.NoError(t, db.Create(instance).Error)

	bot := &models.Bot{
		InstanceID:             instance.ID,
		Name:                   "Clinic Bot",
		Enabled:                true,
		Timezone:               timezone,
		ServiceDurationMinutes: 30,
	}
	assert.NoError(t, db.Create(bot).Error)
	return bot
}

// seedContact creates a contact for a bot
func seedContact(t *testing.T, db *gorm.DB, botID string) *models.Contact {
	contact := &models.Contact{BotID: botID, Phone: "5511999990000", Name: "Ana"}
	assert.NoError(t, db.Create(contact).Error)
	return contact
}

// seedHours adds an available weekly hours row
func seedHours(t *testing.T, db *gorm.DB, bot *models.Bot, weekday int, start, end string) *models.BusinessHour {
	hour := &models.BusinessHour{
		BotID:     &bot.ID,
		Weekday:   weekday,
		StartTime: start,
		EndTime:   end,
		Available: true,
	}
	assert.NoError(t, db.Create(hour).Error)
	return hour
}

// mustUTC builds a UTC timestamp for test fixtures
func mustUTC(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}
