package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
)

// AvailableSlotsResponse is the shape the booking flow consumes
type AvailableSlotsResponse struct {
	AvailableSlots []models.TimeSlot `json:"available_slots"`
	TotalSlots     int               `json:"total_slots"`
	Date           string            `json:"date"`
}

// slotDuration resolves the requested slot width: explicit duration param
// first, then the service's duration, else zero (owner default applies)
func slotDuration(c echo.Context) (int, error) {
	v := c.QueryParam("duration_minutes")
	if v == "" {
		v = c.QueryParam("duration")
	}
	if v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid duration")
		}
		return n, nil
	}
	if serviceID := c.QueryParam("service_id"); serviceID != "" {
		service, err := getUserService(c, serviceID)
		if err != nil {
			return 0, err
		}
		return service.Duration, nil
	}
	return 0, nil
}

func availableSlots(c echo.Context, owner services.ScheduleOwner) error {
	dateParam := c.QueryParam("date")
	if dateParam == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter is required")
	}
	date, err := services.ParseDate(dateParam)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	duration, err := slotDuration(c)
	if err != nil {
		return err
	}

	cfg := GetConfig(c)
	fallback := services.LocationOrUTC(cfg.FallbackTimezone)
	display := services.LocationOrUTC(cfg.DisplayTimezone)

	slots, err := services.GetAvailableSlots(db.DB, owner, date, duration, fallback, display)
	if err != nil {
		return httpError(err, "Schedule not found")
	}

	return c.JSON(http.StatusOK, AvailableSlotsResponse{
		AvailableSlots: slots,
		TotalSlots:     len(slots),
		Date:           dateParam,
	})
}

// GetBotAvailableSlotsHandler returns a bot's free slots for one day
func GetBotAvailableSlotsHandler(c echo.Context) error {
	bot, err := getUserBot(c, c.Param("id"))
	if err != nil {
		return err
	}
	return availableSlots(c, services.NewBotOwner(bot))
}

// GetDoctorAvailableSlotsHandler returns a doctor's free slots for one day
func GetDoctorAvailableSlotsHandler(c echo.Context) error {
	doctor, bot, err := getUserDoctor(c, c.Param("id"))
	if err != nil {
		return err
	}
	return availableSlots(c, services.NewDoctorOwner(doctor, bot))
}
