package services

import (
	"sync"
	"testing"
	"time"

	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/stretchr/testify/assert"
)

func TestBookAppointment(t *testing.T) {
	db := setupTestDB(t)
	bot := seedBot(t, db, "UTC")
	seedHours(t, db, bot, 1, "09:00", "17:00")
	contact := seedContact(t, db, bot.ID)
	owner := NewBotOwner(bot)

	apt := &models.Appointment{
		BotID:     bot.ID,
		ContactID: contact.ID,
		Title:     "Consultation",
		StartTime: mustUTC(2026, time.June, 15, 10, 0),
		EndTime:   mustUTC(2026, time.June, 15, 11, 0),
	}
	err := BookAppointment(db, owner, apt, time.UTC)
	assert.NoError(t, err)
	assert.NotEmpty(t, apt.ID)
	assert.Equal(t, models.AppointmentStatusActive, apt.Status)

	t.Run("Conflicting slot rejected", func(t *testing.T) {
		conflict := &models.Appointment{
			BotID:     bot.ID,
			ContactID: contact.ID,
			Title:     "Overlap",
			StartTime: mustUTC(2026, time.June, 15, 10, 30),
			EndTime:   mustUTC(2026, time.June, 15, 11, 30),
		}
		err := BookAppointment(db, owner, conflict, time.UTC)
		assert.Error(t, err)

		var unavailable *SlotUnavailableError
		assert.ErrorAs(t, err, &unavailable)
		assert.Contains(t, unavailable.Reason, "conflicts with existing appointment")
	})

	t.Run("Adjacent slot accepted", func(t *testing.T) {
		adjacent := &models.Appointment{
			BotID:     bot.ID,
			ContactID: contact.ID,
			Title:     "Back to back",
			StartTime: mustUTC(2026, time.June, 15, 11, 0),
			EndTime:   mustUTC(2026, time.June, 15, 12, 0),
		}
		err := BookAppointment(db, owner, adjacent, time.UTC)
		assert.NoError(t, err)
	})

	t.Run("Outside hours rejected", func(t *testing.T) {
		late := &models.Appointment{
			BotID:     bot.ID,
			ContactID: contact.ID,
			Title:     "After close",
			StartTime: mustUTC(2026, time.June, 15, 18, 0),
			EndTime:   mustUTC(2026, time.June, 15, 19, 0),
		}
		err := BookAppointment(db, owner, late, time.UTC)
		var unavailable *SlotUnavailableError
		assert.ErrorAs(t, err, &unavailable)
	})
}

func TestBookAppointmentConcurrentSameSlot(t *testing.T) {
	db := setupTestDB(t)
	bot := seedBot(t, db, "UTC")
	seedHours(t, db, bot, 1, "09:00", "17:00")
	contact := seedContact(t, db, bot.ID)
	owner := NewBotOwner(bot)

	start := mustUTC(2026, time.June, 15, 14, 0)
	end := mustUTC(2026, time.June, 15, 15, 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			apt := &models.Appointment{
				BotID:     bot.ID,
				ContactID: contact.ID,
				Title:     "Race",
				StartTime: start,
				EndTime:   end,
			}
			errs[i] = BookAppointment(db, owner, apt, time.UTC)
		}(i)
	}
	wg.Wait()

	// Exactly one of the two bookings wins
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			var unavailable *SlotUnavailableError
			assert.ErrorAs(t, err, &unavailable)
		}
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	db.Model(&models.Appointment{}).
		Where("bot_id = ? AND start_time = ? AND status = ?", bot.ID, start, models.AppointmentStatusActive).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCancelAppointmentFreesSlot(t *testing.T) {
	db := setupTestDB(t)
	bot := seedBot(t, db, "UTC")
	seedHours(t, db, bot, 1, "09:00", "17:00")
	contact := seedContact(t, db, bot.ID)
	owner := NewBotOwner(bot)

	apt := &models.Appointment{
		BotID:     bot.ID,
		ContactID: contact.ID,
		Title:     "To cancel",
		StartTime: mustUTC(2026, time.June, 15, 10, 0),
		EndTime:   mustUTC(2026, time.June, 15, 11, 0),
	}
	assert.NoError(t, BookAppointment(db, owner, apt, time.UTC))

	assert.NoError(t, CancelAppointment(db, apt.ID))

	t.Run("Double cancel rejected", func(t *testing.T) {
		err := CancelAppointment(db, apt.ID)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already cancelled")
	})

	t.Run("Slot is bookable again", func(t *testing.T) {
		rebook := &models.Appointment{
			BotID:     bot.ID,
			ContactID: contact.ID,
			Title:     "Rebooked",
			StartTime: mustUTC(2026, time.June, 15, 10, 0),
			EndTime:   mustUTC(2026, time.June, 15, 11, 0),
		}
		assert.NoError(t, BookAppointment(db, owner, rebook, time.UTC))
	})
}

func TestRescheduleAppointment(t *testing.T) {
	db := setupTestDB(t)
	bot := seedBot(t, db, "UTC")
	seedHours(t, db, bot, 1, "09:00", "17:00")
	contact := seedContact(t, db, bot.ID)
	owner := NewBotOwner(bot)

	apt := &models.Appointment{
		BotID:     bot.ID,
		ContactID: contact.ID,
		Title:     "Movable",
		StartTime: mustUTC(2026, time.June, 15, 10, 0),
		EndTime:   mustUTC(2026, time.June, 15, 11, 0),
	}
	assert.NoError(t, BookAppointment(db, owner, apt, time.UTC))

	t.Run("Move to free slot", func(t *testing.T) {
		err := RescheduleAppointment(db, owner, apt.ID,
			mustUTC(2026, time.June, 15, 14, 0), mustUTC(2026, time.June, 15, 15, 0), time.UTC)
		assert.NoError(t, err)

		moved, err := GetAppointmentByID(db, apt.ID)
		assert.NoError(t, err)
		assert.True(t, moved.StartTime.UTC().Equal(mustUTC(2026, time.June, 15, 14, 0)))
	})

	t.Run("Shift within own slot ignores itself", func(t *testing.T) {
		err := RescheduleAppointment(db, owner, apt.ID,
			mustUTC(2026, time.June, 15, 14, 30), mustUTC(2026, time.June, 15, 15, 30), time.UTC)
		assert.NoError(t, err)
	})

	t.Run("Cancelled appointment cannot move", func(t *testing.T) {
		assert.NoError(t, CancelAppointment(db, apt.ID))
		err := RescheduleAppointment(db, owner, apt.ID,
			mustUTC(2026, time.June, 15, 9, 0), mustUTC(2026, time.June, 15, 10, 0), time.UTC)
		assert.Error(t, err)
	})
}

func TestGetAppointmentsNeedingReminder(t *testing.T) {
	db := setupTestDB(t)
	bot := seedBot(t, db, "UTC")
	contact := seedContact(t, db, bot.ID)

	now := mustUTC(2026, time.June, 15, 8, 0)
	soon := &models.Appointment{
		BotID:     bot.ID,
		ContactID: contact.ID,
		Title:     "Soon",
		StartTime: now.Add(2 * time.Hour),
		EndTime:   now.Add(3 * time.Hour),
		Status:    models.AppointmentStatusActive,
	}
	far := &models.Appointment{
		BotID:     bot.ID,
		ContactID: contact.ID,
		Title:     "Far",
		StartTime: now.Add(72 * time.Hour),
		EndTime:   now.Add(73 * time.Hour),
		Status:    models.AppointmentStatusActive,
	}
	assert.NoError(t, db.Create(soon).Error)
	assert.NoError(t, db.Create(far).Error)

	due, err := GetAppointmentsNeedingReminder(db, now, now.Add(24*time.Hour))
	assert.NoError(t, err)
	assert.Len(t, due, 1)
	assert.Equal(t, soon.ID, due[0].ID)

	assert.NoError(t, MarkReminderSent(db, soon.ID))

	due, err = GetAppointmentsNeedingReminder(db, now, now.Add(24*time.Hour))
	assert.NoError(t, err)
	assert.Empty(t, due)
}
