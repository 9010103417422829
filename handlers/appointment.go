package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
)

// CreateAppointmentRequest is the payload for booking an appointment. EndTime
// is optional; when absent it is derived from the service duration, falling
// back to the owner's default.
type CreateAppointmentRequest struct {
	DoctorID    *string    `json:"doctor_id"`
	ServiceID   *string    `json:"service_id"`
	ContactID   string     `json:"contact_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

// scheduleOwnerFor picks the doctor schedule when a doctor is named, the bot
// schedule otherwise
func scheduleOwnerFor(c echo.Context, bot *models.Bot, doctorID *string) (services.ScheduleOwner, error) {
	if doctorID == nil {
		return services.NewBotOwner(bot), nil
	}
	doctor, doctorBot, err := getUserDoctor(c, *doctorID)
	if err != nil {
		return nil, err
	}
	if doctor.BotID != bot.ID {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Doctor does not belong to this bot")
	}
	return services.NewDoctorOwner(doctor, doctorBot), nil
}

// CreateAppointmentHandler books an appointment on a bot's (or doctor's)
// calendar, rejecting slots that fail availability checks
func CreateAppointmentHandler(c echo.Context) error {
	bot, err := getUserBot(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req CreateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.ContactID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "contact_id is required")
	}
	if req.StartTime.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "start_time is required")
	}

	var contact models.Contact
	if err := db.DB.Where("id = ? AND bot_id = ?", req.ContactID, bot.ID).First(&contact).Error; err != nil {
		return httpError(err, "Contact not found")
	}

	owner, err := scheduleOwnerFor(c, bot, req.DoctorID)
	if err != nil {
		return err
	}

	end := time.Time{}
	if req.EndTime != nil {
		end = *req.EndTime
	} else {
		duration := owner.DefaultDurationMinutes()
		if req.ServiceID != nil {
			service, err := getUserService(c, *req.ServiceID)
			if err != nil {
				return err
			}
			duration = service.Duration
		}
		end = req.StartTime.Add(time.Duration(duration) * time.Minute)
	}
	if !end.After(req.StartTime) {
		return echo.NewHTTPError(http.StatusBadRequest, "end_time must be after start_time")
	}

	cfg := GetConfig(c)
	fallback := services.LocationOrUTC(cfg.FallbackTimezone)

	apt := &models.Appointment{
		BotID:       bot.ID,
		DoctorID:    req.DoctorID,
		ServiceID:   req.ServiceID,
		ContactID:   contact.ID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     end,
	}
	if err := services.BookAppointment(db.DB, owner, apt, fallback); err != nil {
		return httpError(err, "Appointment not found")
	}

	notifyOwnerOfBooking(c, bot, apt, contact.Name)

	return c.JSON(http.StatusCreated, apt)
}

// notifyOwnerOfBooking emails the account owner about a fresh booking
func notifyOwnerOfBooking(c echo.Context, bot *models.Bot, apt *models.Appointment, contactName string) {
	cfg := GetConfig(c)
	display := services.LocationOrUTC(cfg.DisplayTimezone)

	var instance models.Instance
	if err := db.DB.First(&instance, "id = ?", bot.InstanceID).Error; err != nil {
		return
	}
	var user models.User
	if err := db.DB.First(&user, "id = ?", instance.UserID).Error; err != nil {
		return
	}
	if user.Email == "" {
		return
	}

	subject, body := services.BuildBookingNotification(apt, contactName, display)
	services.SendEmailAsync(user.Email, subject, body)
}

// ListBotAppointmentsHandler returns a bot's appointments in start order
func ListBotAppointmentsHandler(c echo.Context) error {
	bot, err := getUserBot(c, c.Param("id"))
	if err != nil {
		return err
	}

	appointments, err := services.GetBotAppointments(db.DB, bot.ID)
	if err != nil {
		return httpError(err, "Appointment not found")
	}
	return c.JSON(http.StatusOK, appointments)
}

// getUserAppointment loads an appointment and verifies ownership through its bot
func getUserAppointment(c echo.Context, appointmentID string) (*models.Appointment, *models.Bot, error) {
	apt, err := services.GetAppointmentByID(db.DB, appointmentID)
	if err != nil {
		return nil, nil, httpError(err, "Appointment not found")
	}

	bot, err := getUserBot(c, apt.BotID)
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
	}
	return apt, bot, nil
}

// GetAppointmentHandler returns an appointment by id
func GetAppointmentHandler(c echo.Context) error {
	apt, _, err := getUserAppointment(c, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apt)
}

// UpdateAppointmentRequest carries the updatable appointment fields; nil means
// unchanged. Changing start_time reschedules and re-runs availability checks.
type UpdateAppointmentRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

// UpdateAppointmentHandler applies a partial update, rescheduling when times change
func UpdateAppointmentHandler(c echo.Context) error {
	apt, bot, err := getUserAppointment(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req UpdateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.StartTime != nil || req.EndTime != nil {
		newStart := apt.StartTime
		newEnd := apt.EndTime
		if req.StartTime != nil {
			// Keep the original length unless an explicit end is given
			newStart = *req.StartTime
			newEnd = newStart.Add(time.Duration(apt.Duration()) * time.Minute)
		}
		if req.EndTime != nil {
			newEnd = *req.EndTime
		}
		if !newEnd.After(newStart) {
			return echo.NewHTTPError(http.StatusBadRequest, "end_time must be after start_time")
		}

		owner, err := scheduleOwnerFor(c, bot, apt.DoctorID)
		if err != nil {
			return err
		}

		cfg := GetConfig(c)
		fallback := services.LocationOrUTC(cfg.FallbackTimezone)
		if err := services.RescheduleAppointment(db.DB, owner, apt.ID, newStart, newEnd, fallback); err != nil {
			return httpError(err, "Appointment not found")
		}
		apt.StartTime = newStart.UTC()
		apt.EndTime = newEnd.UTC()
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) > 0 {
		if err := db.DB.Model(apt).Updates(updates).Error; err != nil {
			return httpError(err, "Appointment not found")
		}
	}
	return c.JSON(http.StatusOK, apt)
}

// CancelAppointmentHandler cancels an appointment, freeing its slot
func CancelAppointmentHandler(c echo.Context) error {
	apt, _, err := getUserAppointment(c, c.Param("id"))
	if err != nil {
		return err
	}

	if err := services.CancelAppointment(db.DB, apt.ID); err != nil {
		if err.Error() == "appointment is already cancelled" {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return httpError(err, "Appointment not found")
	}
	return c.NoContent(http.StatusNoContent)
}
