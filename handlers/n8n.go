package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
)

// N8nOutgoingRequest is the callback payload the n8n workflow posts when the
// bot has produced a reply to deliver
type N8nOutgoingRequest struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

// N8nOutgoingHandler records a bot reply and delivers it through the channel
// gateway. Called by the n8n workflow, not by end users.
func N8nOutgoingHandler(c echo.Context) error {
	var req N8nOutgoingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.ConversationID == "" || req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation_id and content are required")
	}

	conv, err := services.GetConversationByID(db.DB, req.ConversationID)
	if err != nil {
		return httpError(err, "Conversation not found")
	}

	cfg := GetConfig(c)
	message, err := services.SendOutgoingMessage(db.DB, cfg.EvolutionAPIURL, cfg.EvolutionAPIKey, conv, req.Content)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusCreated, message)
}

// N8nIncomingRequest records a message the workflow handled outside the normal
// webhook path, e.g. a reply it already delivered itself
type N8nIncomingRequest struct {
	ConversationID    string `json:"conversation_id"`
	Sender            string `json:"sender"`
	MessageType       string `json:"message_type"`
	Content           string `json:"content"`
	ExternalMessageID string `json:"external_message_id"`
}

// N8nIncomingHandler persists a message into a conversation without delivering
// anything. Keeps the transcript complete when n8n sends through its own channel.
func N8nIncomingHandler(c echo.Context) error {
	var req N8nIncomingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.ConversationID == "" || req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation_id and content are required")
	}

	sender := req.Sender
	if sender == "" {
		sender = models.SenderBot
	}
	switch sender {
	case models.SenderUser, models.SenderBot, models.SenderHuman:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid sender")
	}

	msgType := req.MessageType
	if msgType == "" {
		msgType = "text"
	}

	conv, err := services.GetConversationByID(db.DB, req.ConversationID)
	if err != nil {
		return httpError(err, "Conversation not found")
	}

	message := &models.Message{
		ConversationID:    conv.ID,
		Sender:            sender,
		MessageType:       msgType,
		Content:           req.Content,
		ExternalMessageID: req.ExternalMessageID,
	}
	if err := db.DB.Create(message).Error; err != nil {
		return httpError(err, "Conversation not found")
	}
	return c.JSON(http.StatusCreated, message)
}

// HealthHandler reports liveness
func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
