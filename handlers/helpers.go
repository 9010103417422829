package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/config"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/middleware"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
	"gorm.io/gorm"
)

// ContextKeyConfig is the context key under which main stores the app config
const ContextKeyConfig = "config"

// GetConfig retrieves the app config from the request context
func GetConfig(c echo.Context) *config.Config {
	cfg, ok := c.Get(ContextKeyConfig).(*config.Config)
	if !ok {
		return config.Default()
	}
	return cfg
}

// httpError maps service errors onto HTTP status codes
func httpError(err error, notFoundMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	}
	var unavailable *services.SlotUnavailableError
	if errors.As(err, &unavailable) {
		return echo.NewHTTPError(http.StatusBadRequest, unavailable.Reason)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

// getUserInstance loads an instance and verifies it belongs to the current user
func getUserInstance(c echo.Context, instanceID string) (*models.Instance, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var instance models.Instance
	err := db.DB.Where("id = ? AND user_id = ?", instanceID, user.ID).First(&instance).Error
	if err != nil {
		return nil, httpError(err, "Instance not found")
	}
	return &instance, nil
}

// getUserBot loads a bot and verifies the chain bot -> instance -> current user
func getUserBot(c echo.Context, botID string) (*models.Bot, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var bot models.Bot
	err := db.DB.
		Joins("JOIN instances ON instances.id = bots.instance_id").
		Where("bots.id = ? AND instances.user_id = ?", botID, user.ID).
		First(&bot).Error
	if err != nil {
		return nil, httpError(err, "Bot not found")
	}
	return &bot, nil
}

// getUserDoctor loads a doctor and its bot, verifying ownership through the
// doctor -> bot -> instance -> user chain
func getUserDoctor(c echo.Context, doctorID string) (*models.Doctor, *models.Bot, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var doctor models.Doctor
	err := db.DB.
		Joins("JOIN bots ON bots.id = doctors.bot_id").
		Joins("JOIN instances ON instances.id = bots.instance_id").
		Where("doctors.id = ? AND instances.user_id = ?", doctorID, user.ID).
		First(&doctor).Error
	if err != nil {
		return nil, nil, httpError(err, "Doctor not found")
	}

	var bot models.Bot
	if err := db.DB.First(&bot, "id = ?", doctor.BotID).Error; err != nil {
		return nil, nil, httpError(err, "Bot not found")
	}
	return &doctor, &bot, nil
}
