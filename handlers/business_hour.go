package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
)

// BusinessHourRequest is the payload for a weekly hours row
type BusinessHourRequest struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available *bool  `json:"available"`
}

func (r *BusinessHourRequest) available() bool {
	if r.Available == nil {
		return true
	}
	return *r.Available
}

// CreateBotBusinessHourHandler adds a weekly hours row to a bot's schedule
func CreateBotBusinessHourHandler(c echo.Context) error {
	bot, err := getUserBot(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req BusinessHourRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	hour := &models.BusinessHour{
		BotID:     &bot.ID,
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Available: req.available(),
	}
	if err := services.CreateBusinessHour(db.DB, hour); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, hour)
}

// ListBotBusinessHoursHandler returns a bot's weekly schedule
func ListBotBusinessHoursHandler(c echo.Context) error {
	bot, err := getUserBot(c, c.Param("id"))
	if err != nil {
		return err
	}

	hours, err := services.GetBotBusinessHours(db.DB, bot.ID)
	if err != nil {
		return httpError(err, "Business hours not found")
	}
	return c.JSON(http.StatusOK, hours)
}

// CreateDoctorBusinessHourHandler adds a weekly hours row to a doctor's schedule
func CreateDoctorBusinessHourHandler(c echo.Context) error {
	doctor, _, err := getUserDoctor(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req BusinessHourRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	hour := &models.BusinessHour{
		DoctorID:  &doctor.ID,
		Weekday:   req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Available: req.available(),
	}
	if err := services.CreateBusinessHour(db.DB, hour); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, hour)
}

// ListDoctorBusinessHoursHandler returns a doctor's weekly schedule
func ListDoctorBusinessHoursHandler(c echo.Context) error {
	doctor, _, err := getUserDoctor(c, c.Param("id"))
	if err != nil {
		return err
	}

	hours, err := services.GetDoctorBusinessHours(db.DB, doctor.ID)
	if err != nil {
		return httpError(err, "Business hours not found")
	}
	return c.JSON(http.StatusOK, hours)
}

// getUserBusinessHour loads an hours row and verifies ownership through its
// bot or doctor parent
func getUserBusinessHour(c echo.Context, hourID string) (*models.BusinessHour, error) {
	hour, err := services.GetBusinessHourByID(db.DB, hourID)
	if err != nil {
		return nil, httpError(err, "Business hours not found")
	}

	if hour.BotID != nil {
		if _, err := getUserBot(c, *hour.BotID); err != nil {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Business hours not found")
		}
	} else if hour.DoctorID != nil {
		if _, _, err := getUserDoctor(c, *hour.DoctorID); err != nil {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Business hours not found")
		}
	}
	return hour, nil
}

// UpdateBusinessHourHandler applies a partial update to a weekly hours row
func UpdateBusinessHourHandler(c echo.Context) error {
	hour, err := getUserBusinessHour(c, c.Param("id"))
	if err != nil {
		return err
	}

	var update services.BusinessHourUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := services.UpdateBusinessHour(db.DB, hour, update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, hour)
}

// DeleteBusinessHourHandler removes a weekly hours row
func DeleteBusinessHourHandler(c echo.Context) error {
	hour, err := getUserBusinessHour(c, c.Param("id"))
	if err != nil {
		return err
	}

	if err := services.DeleteBusinessHour(db.DB, hour.ID); err != nil {
		return httpError(err, "Business hours not found")
	}
	return c.NoContent(http.StatusNoContent)
}
