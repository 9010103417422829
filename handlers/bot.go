package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/middleware"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
)

// GetInstanceBotHandler returns the bot attached to an instance
func GetInstanceBotHandler(c echo.Context) error {
	instance, err := getUserInstance(c, c.Param("id"))
	if err != nil {
		return err
	}

	var bot models.Bot
	if err := db.DB.Where("instance_id = ?", instance.ID).First(&bot).Error; err != nil {
		return httpError(err, "Bot not found")
	}
	return c.JSON(http.StatusOK, bot)
}

// ListBotsHandler returns every bot owned by the current user
func ListBotsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var bots []models.Bot
	err := db.DB.
		Joins("JOIN instances ON instances.id = bots.instance_id").
		Where("instances.user_id = ?", user.ID).
		Find(&bots).Error
	if err != nil {
		return httpError(err, "Bot not found")
	}
	return c.JSON(http.StatusOK, bots)
}

// CreateBotRequest is the payload for adding a bot to an instance that lost its
// default one
type CreateBotRequest struct {
	InstanceID             string `json:"instance_id"`
	Name                   string `json:"name"`
	Description            string `json:"description"`
	Timezone               string `json:"timezone"`
	ServiceDurationMinutes int    `json:"service_duration_minutes"`
}

// CreateBotHandler creates a bot for an instance. Each instance carries exactly
// one bot, so the request is rejected when one already exists.
func CreateBotHandler(c echo.Context) error {
	var req CreateBotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.InstanceID == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "instance_id and name are required")
	}

	instance, err := getUserInstance(c, req.InstanceID)
	if err != nil {
		return err
	}

	var count int64
	if err := db.DB.Model(&models.Bot{}).Where("instance_id = ?", instance.ID).Count(&count).Error; err != nil {
		return httpError(err, "Bot not found")
	}
	if count > 0 {
		return echo.NewHTTPError(http.StatusConflict, "Instance already has a bot")
	}

	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid timezone")
	}
	duration := req.ServiceDurationMinutes
	if duration == 0 {
		duration = GetConfig(c).DefaultSlotMinutes
	}
	if duration <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Duration must be positive")
	}

	bot := &models.Bot{
		InstanceID:             instance.ID,
		Name:                   req.Name,
		Description:            req.Description,
		Enabled:                true,
		Timezone:               tz,
		ServiceDurationMinutes: duration,
	}
	if err := db.DB.Create(bot).Error; err != nil {
		return httpError(err, "Bot not found")
	}
	return c.JSON(http.StatusCreated, bot)
}

// GetBotHandler returns a bot by id
func GetBotHandler(c echo.Context) error {
	bot, err := getUserBot(c, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bot)
}

// UpdateBotRequest carries the updatable bot fields; nil means unchanged
type UpdateBotRequest struct {
	Name                   *string `json:"name"`
	Description            *string `json:"description"`
	Personality            *string `json:"personality"`
	CompanyInfo            *string `json:"company_info"`
	Enabled                *bool   `json:"enabled"`
	Timezone               *string `json:"timezone"`
	ServiceDurationMinutes *int    `json:"service_duration_minutes"`
}

// UpdateBotHandler applies a partial update to a bot's profile and scheduling
// settings
func UpdateBotHandler(c echo.Context) error {
	bot, err := getUserBot(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req UpdateBotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Name cannot be empty")
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Personality != nil {
		updates["personality"] = *req.Personality
	}
	if req.CompanyInfo != nil {
		updates["company_info"] = *req.CompanyInfo
	}
	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid timezone")
		}
		updates["timezone"] = *req.Timezone
	}
	if req.ServiceDurationMinutes != nil {
		if *req.ServiceDurationMinutes <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Duration must be positive")
		}
		updates["service_duration_minutes"] = *req.ServiceDurationMinutes
	}

	if len(updates) > 0 {
		if err := db.DB.Model(bot).Updates(updates).Error; err != nil {
			return httpError(err, "Bot not found")
		}
	}
	return c.JSON(http.StatusOK, bot)
}
