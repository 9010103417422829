package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/config"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/middleware"
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

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set(ContextKeyConfig, &config.Config{
		Environment:        "test",
		EmailTestMode:      true,
		FallbackTimezone:   "UTC",
		DisplayTimezone:    "UTC",
		DefaultSlotMinutes: 30,
	})

	return e, c, rec
}

// seedOwner creates an authenticated user with one instance and its bot
func seedOwner(t *testing.T, database *gorm.DB) (*models.User, *models.Instance, *models.Bot) {
	user := &models.User{FirebaseUID: "uid-" + uuid.New().String(), Email: "owner@test.com", Name: "Owner"}
	assert.NoError(t, database.Create(user).Error)

	instance := &models.Instance{
		UserID:             user.ID,
		Name:               "Clinic",
		Channel:            models.ChannelWhatsApp,
		ExternalInstanceID: "clinic-main",
		Active:             true,
	}
	assert.NoError(t, database.Create(instance).Error)

	bot := &models.Bot{
		InstanceID:             instance.ID,
		Name:                   "Clinic Bot",
		Enabled:                true,
		Timezone:               "UTC",
		ServiceDurationMinutes: 30,
	}
	assert.NoError(t, database.Create(bot).Error)

	return user, instance, bot
}

func authenticate(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

// assertHTTPStatus expects an echo HTTP error with the given status code
func assertHTTPStatus(t *testing.T, err error, code int) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok, "expected *echo.HTTPError, got %v", err)
	if ok {
		assert.Equal(t, code, httpErr.Code)
	}
}
