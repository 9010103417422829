package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/middleware"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
)

// ListInstanceConversationsHandler returns an instance's conversations
func ListInstanceConversationsHandler(c echo.Context) error {
	instance, err := getUserInstance(c, c.Param("id"))
	if err != nil {
		return err
	}

	conversations, err := services.ListInstanceConversations(db.DB, instance.ID)
	if err != nil {
		return httpError(err, "Conversation not found")
	}
	return c.JSON(http.StatusOK, conversations)
}

// ListConversationsHandler returns conversations for an instance named by the
// instance_id query parameter
func ListConversationsHandler(c echo.Context) error {
	instanceID := c.QueryParam("instance_id")
	if instanceID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "instance_id query parameter is required")
	}

	instance, err := getUserInstance(c, instanceID)
	if err != nil {
		return err
	}

	conversations, err := services.ListInstanceConversations(db.DB, instance.ID)
	if err != nil {
		return httpError(err, "Conversation not found")
	}
	return c.JSON(http.StatusOK, conversations)
}

// getUserConversation loads a conversation and verifies ownership through its
// instance
func getUserConversation(c echo.Context, conversationID string) (*models.Conversation, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var conv models.Conversation
	err := db.DB.
		Joins("JOIN instances ON instances.id = conversations.instance_id").
		Where("conversations.id = ? AND instances.user_id = ?", conversationID, user.ID).
		First(&conv).Error
	if err != nil {
		return nil, httpError(err, "Conversation not found")
	}
	return &conv, nil
}

// GetConversationMessagesHandler returns a conversation's messages in
// chronological order, optionally limited
func GetConversationMessagesHandler(c echo.Context) error {
	conv, err := getUserConversation(c, c.Param("id"))
	if err != nil {
		return err
	}

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		limit = n
	}

	messages, err := services.GetConversationMessages(db.DB, conv.ID, limit)
	if err != nil {
		return httpError(err, "Conversation not found")
	}
	return c.JSON(http.StatusOK, messages)
}

// UpdateConversationStatusRequest switches a conversation between bot and
// human handling
type UpdateConversationStatusRequest struct {
	Status string `json:"status"`
}

// UpdateConversationStatusHandler hands a conversation to a human operator or
// back to the bot
func UpdateConversationStatusHandler(c echo.Context) error {
	conv, err := getUserConversation(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req UpdateConversationStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := services.SetConversationStatus(db.DB, conv, req.Status); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, conv)
}
