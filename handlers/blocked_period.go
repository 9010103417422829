package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
)

// BlockedPeriodRequest is the payload for blocking a time range
type BlockedPeriodRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Reason    string    `json:"reason"`
}

// CreateBotBlockedPeriodHandler blocks a time range on a bot's calendar
func CreateBotBlockedPeriodHandler(c echo.Context) error {
	bot, err := getUserBot(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req BlockedPeriodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	block := &models.BlockedPeriod{
		BotID:     &bot.ID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}
	if err := services.CreateBlockedPeriod(db.DB, block); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, block)
}

// CreateDoctorBlockedPeriodHandler blocks a time range on a doctor's calendar
func CreateDoctorBlockedPeriodHandler(c echo.Context) error {
	doctor, _, err := getUserDoctor(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req BlockedPeriodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	block := &models.BlockedPeriod{
		DoctorID:  &doctor.ID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}
	if err := services.CreateBlockedPeriod(db.DB, block); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, block)
}

// blockedPeriodFilterFromQuery reads the optional list filters
func blockedPeriodFilterFromQuery(c echo.Context) (services.BlockedPeriodFilter, error) {
	var filter services.BlockedPeriodFilter

	if v := c.QueryParam("start_date"); v != "" {
		t, err := services.ParseDate(v)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.StartAfter = t
	}
	if v := c.QueryParam("end_date"); v != "" {
		t, err := services.ParseDate(v)
		if err != nil {
			return filter, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		// Inclusive end date: cover the whole day
		filter.EndBefore = t.Add(24 * time.Hour)
	}
	filter.ActiveOnly = c.QueryParam("active_only") == "true"

	return filter, nil
}

// ListBotBlockedPeriodsHandler lists a bot's blocked periods with optional
// start_date, end_date and active_only filters
func ListBotBlockedPeriodsHandler(c echo.Context) error {
	bot, err := getUserBot(c, c.Param("id"))
	if err != nil {
		return err
	}

	filter, err := blockedPeriodFilterFromQuery(c)
	if err != nil {
		return err
	}

	blocks, err := services.ListBotBlockedPeriods(db.DB, bot.ID, filter)
	if err != nil {
		return httpError(err, "Blocked period not found")
	}
	return c.JSON(http.StatusOK, blocks)
}

// ListDoctorBlockedPeriodsHandler lists a doctor's blocked periods
func ListDoctorBlockedPeriodsHandler(c echo.Context) error {
	doctor, _, err := getUserDoctor(c, c.Param("id"))
	if err != nil {
		return err
	}

	filter, err := blockedPeriodFilterFromQuery(c)
	if err != nil {
		return err
	}

	blocks, err := services.ListDoctorBlockedPeriods(db.DB, doctor.ID, filter)
	if err != nil {
		return httpError(err, "Blocked period not found")
	}
	return c.JSON(http.StatusOK, blocks)
}

// getUserBlockedPeriod loads a blocked period and verifies ownership through
// its bot or doctor parent
func getUserBlockedPeriod(c echo.Context, blockID string) (*models.BlockedPeriod, error) {
	block, err := services.GetBlockedPeriodByID(db.DB, blockID)
	if err != nil {
		return nil, httpError(err, "Blocked period not found")
	}

	if block.BotID != nil {
		if _, err := getUserBot(c, *block.BotID); err != nil {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Blocked period not found")
		}
	} else if block.DoctorID != nil {
		if _, _, err := getUserDoctor(c, *block.DoctorID); err != nil {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Blocked period not found")
		}
	}
	return block, nil
}

// GetBlockedPeriodHandler returns a blocked period by id
func GetBlockedPeriodHandler(c echo.Context) error {
	block, err := getUserBlockedPeriod(c, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, block)
}

// UpdateBlockedPeriodHandler applies a partial update to a blocked period
func UpdateBlockedPeriodHandler(c echo.Context) error {
	block, err := getUserBlockedPeriod(c, c.Param("id"))
	if err != nil {
		return err
	}

	var update services.BlockedPeriodUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := services.UpdateBlockedPeriod(db.DB, block, update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, block)
}

// DeleteBlockedPeriodHandler removes a blocked period
func DeleteBlockedPeriodHandler(c echo.Context) error {
	block, err := getUserBlockedPeriod(c, c.Param("id"))
	if err != nil {
		return err
	}

	if err := services.DeleteBlockedPeriod(db.DB, block.ID); err != nil {
		return httpError(err, "Blocked period not found")
	}
	return c.NoContent(http.StatusNoContent)
}
