package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/middleware"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
)

// CreateInstanceRequest is the payload for registering a channel instance
type CreateInstanceRequest struct {
	Name               string `json:"name"`
	Channel            string `json:"channel"`
	ExternalInstanceID string `json:"external_instance_id"`
}

// InstanceResponse bundles an instance with its auto-created bot
type InstanceResponse struct {
	Instance *models.Instance `json:"instance"`
	Bot      *models.Bot      `json:"bot,omitempty"`
}

// CreateInstanceHandler registers a new messaging channel instance. A default
// bot is created alongside it.
func CreateInstanceHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var req CreateInstanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if !models.IsValidChannel(req.Channel) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid channel")
	}

	instance := &models.Instance{
		UserID:             user.ID,
		Name:               req.Name,
		Channel:            req.Channel,
		ExternalInstanceID: req.ExternalInstanceID,
		Active:             true,
	}

	cfg := GetConfig(c)
	bot, err := services.CreateInstanceWithBot(db.DB, instance, cfg.DefaultSlotMinutes)
	if err != nil {
		return httpError(err, "Instance not found")
	}

	return c.JSON(http.StatusCreated, InstanceResponse{Instance: instance, Bot: bot})
}

// ListInstancesHandler returns the current user's instances
func ListInstancesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	instances, err := services.ListUserInstances(db.DB, user.ID)
	if err != nil {
		return httpError(err, "Instance not found")
	}
	return c.JSON(http.StatusOK, instances)
}

// GetInstanceHandler returns a single instance owned by the current user
func GetInstanceHandler(c echo.Context) error {
	instance, err := getUserInstance(c, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, instance)
}

// UpdateInstanceRequest carries the updatable instance fields; nil means unchanged
type UpdateInstanceRequest struct {
	Name               *string `json:"name"`
	ExternalInstanceID *string `json:"external_instance_id"`
	Active             *bool   `json:"active"`
}

// UpdateInstanceHandler applies a partial update to an instance
func UpdateInstanceHandler(c echo.Context) error {
	instance, err := getUserInstance(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req UpdateInstanceRequest
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
	if req.ExternalInstanceID != nil {
		updates["external_instance_id"] = *req.ExternalInstanceID
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := db.DB.Model(instance).Updates(updates).Error; err != nil {
			return httpError(err, "Instance not found")
		}
	}
	return c.JSON(http.StatusOK, instance)
}

// DeleteInstanceHandler removes an instance and everything attached to it
func DeleteInstanceHandler(c echo.Context) error {
	instance, err := getUserInstance(c, c.Param("id"))
	if err != nil {
		return err
	}

	if err := services.DeleteInstance(db.DB, instance.ID); err != nil {
		return httpError(err, "Instance not found")
	}
	return c.NoContent(http.StatusNoContent)
}
