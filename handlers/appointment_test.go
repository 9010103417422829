package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateAppointmentHandler(t *testing.T) {
	database := setupTestDB(t)
	user, _, bot := seedOwner(t, database)

	database.Create(&models.BusinessHour{
		BotID: &bot.ID, Weekday: 1, StartTime: "09:00", EndTime: "17:00", Available: true,
	})
	contact := &models.Contact{BotID: bot.ID, Phone: "5511999990000", Name: "Ana"}
	assert.NoError(t, database.Create(contact).Error)

	t.Run("Books free slot deriving end from default duration", func(t *testing.T) {
		body := `{"contact_id":"` + contact.ID + `","title":"Consulta","start_time":"2026-06-15T10:00:00Z"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/v1/bots/"+bot.ID+"/appointments", strings.NewReader(body))
		authenticate(c, user)
		c.SetParamNames("id")
		c.SetParamValues(bot.ID)

		err := CreateAppointmentHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var apt models.Appointment
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apt))
		assert.Equal(t, models.AppointmentStatusActive, apt.Status)
		assert.Equal(t, 30*time.Minute, apt.EndTime.Sub(apt.StartTime))
	})

	t.Run("Occupied slot rejected with reason", func(t *testing.T) {
		body := `{"contact_id":"` + contact.ID + `","title":"Conflito","start_time":"2026-06-15T10:00:00Z"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/v1/bots/"+bot.ID+"/appointments", strings.NewReader(body))
		authenticate(c, user)
		c.SetParamNames("id")
		c.SetParamValues(bot.ID)

		err := CreateAppointmentHandler(c)
		assertHTTPStatus(t, err, http.StatusBadRequest)
	})

	t.Run("Unknown contact rejected", func(t *testing.T) {
		body := `{"contact_id":"missing","title":"X","start_time":"2026-06-15T14:00:00Z"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/v1/bots/"+bot.ID+"/appointments", strings.NewReader(body))
		authenticate(c, user)
		c.SetParamNames("id")
		c.SetParamValues(bot.ID)

		err := CreateAppointmentHandler(c)
		assertHTTPStatus(t, err, http.StatusNotFound)
	})

	t.Run("Missing start_time rejected", func(t *testing.T) {
		body := `{"contact_id":"` + contact.ID + `","title":"X"}`
		_, c, _ := setupEcho(http.MethodPost, "/api/v1/bots/"+bot.ID+"/appointments", strings.NewReader(body))
		authenticate(c, user)
		c.SetParamNames("id")
		c.SetParamValues(bot.ID)

		err := CreateAppointmentHandler(c)
		assertHTTPStatus(t, err, http.StatusBadRequest)
	})
}

func TestCancelAppointmentHandler(t *testing.T) {
	database := setupTestDB(t)
	user, _, bot := seedOwner(t, database)

	contact := &models.Contact{BotID: bot.ID, Phone: "5511999990000"}
	assert.NoError(t, database.Create(contact).Error)
	apt := &models.Appointment{
		BotID:     bot.ID,
		ContactID: contact.ID,
		Title:     "Cancelavel",
		StartTime: time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, time.June, 15, 11, 0, 0, 0, time.UTC),
		Status:    models.AppointmentStatusActive,
	}
	assert.NoError(t, database.Create(apt).Error)

	t.Run("Cancel succeeds with no content", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodDelete, "/api/v1/appointments/"+apt.ID, nil)
		authenticate(c, user)
		c.SetParamNames("id")
		c.SetParamValues(apt.ID)

		err := CancelAppointmentHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		var reloaded models.Appointment
		assert.NoError(t, database.First(&reloaded, "id = ?", apt.ID).Error)
		assert.Equal(t, models.AppointmentStatusCancelled, reloaded.Status)
	})

	t.Run("Second cancel rejected", func(t *testing.T) {
		_, c, _ := setupEcho(http.MethodDelete, "/api/v1/appointments/"+apt.ID, nil)
		authenticate(c, user)
		c.SetParamNames("id")
		c.SetParamValues(apt.ID)

		err := CancelAppointmentHandler(c)
		assertHTTPStatus(t, err, http.StatusBadRequest)
	})

	t.Run("Foreign appointment invisible", func(t *testing.T) {
		stranger, _, _ := seedOwner(t, database)

		_, c, _ := setupEcho(http.MethodDelete, "/api/v1/appointments/"+apt.ID, nil)
		authenticate(c, stranger)
		c.SetParamNames("id")
		c.SetParamValues(apt.ID)

		err := CancelAppointmentHandler(c)
		assertHTTPStatus(t, err, http.StatusNotFound)
	})
}

func TestUpdateAppointmentHandler(t *testing.T) {
	database := setupTestDB(t)
	user, _, bot := seedOwner(t, database)

	database.Create(&models.BusinessHour{
		BotID: &bot.ID, Weekday: 1, StartTime: "09:00", EndTime: "17:00", Available: true,
	})
	contact := &models.Contact{BotID: bot.ID, Phone: "5511999990000"}
	assert.NoError(t, database.Create(contact).Error)
	apt := &models.Appointment{
		BotID:     bot.ID,
		ContactID: contact.ID,
		Title:     "Original",
		StartTime: time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, time.June, 15, 11, 0, 0, 0, time.UTC),
		Status:    models.AppointmentStatusActive,
	}
	assert.NoError(t, database.Create(apt).Error)

	t.Run("Title only", func(t *testing.T) {
		body := `{"title":"Renamed"}`
		_, c, rec := setupEcho(http.MethodPatch, "/api/v1/appointments/"+apt.ID, strings.NewReader(body))
		authenticate(c, user)
		c.SetParamNames("id")
		c.SetParamValues(apt.ID)

		err := UpdateAppointmentHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var reloaded models.Appointment
		assert.NoError(t, database.First(&reloaded, "id = ?", apt.ID).Error)
		assert.Equal(t, "Renamed", reloaded.Title)
		assert.True(t, reloaded.StartTime.UTC().Equal(apt.StartTime))
	})

	t.Run("Reschedule keeps length", func(t *testing.T) {
		body := `{"start_time":"2026-06-15T14:00:00Z"}`
		_, c, _ := setupEcho(http.MethodPatch, "/api/v1/appointments/"+apt.ID, strings.NewReader(body))
		authenticate(c, user)
		c.SetParamNames("id")
		c.SetParamValues(apt.ID)

		err := UpdateAppointmentHandler(c)
		assert.NoError(t, err)

		var reloaded models.Appointment
		assert.NoError(t, database.First(&reloaded, "id = ?", apt.ID).Error)
		assert.True(t, reloaded.StartTime.UTC().Equal(time.Date(2026, time.June, 15, 14, 0, 0, 0, time.UTC)))
		assert.Equal(t, time.Hour, reloaded.EndTime.Sub(reloaded.StartTime))
	})

	t.Run("Reschedule outside hours rejected", func(t *testing.T) {
		body := `{"start_time":"2026-06-15T20:00:00Z"}`
		_, c, _ := setupEcho(http.MethodPatch, "/api/v1/appointments/"+apt.ID, strings.NewReader(body))
		authenticate(c, user)
		c.SetParamNames("id")
		c.SetParamValues(apt.ID)

		err := UpdateAppointmentHandler(c)
		assertHTTPStatus(t, err, http.StatusBadRequest)
	})
}
