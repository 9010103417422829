package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
)

// WhatsAppWebhookHandler receives Evolution API events. It always answers 200
// so the gateway does not retry; failures are logged and the event dropped.
func WhatsAppWebhookHandler(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read body")
	}

	incoming, err := services.NormalizeWhatsAppPayload(body)
	if err != nil {
		log.Printf("[WARNING] Ignoring malformed webhook: %v", err)
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}

	instance, err := services.GetInstanceByExternalID(db.DB, incoming.InstanceName)
	if err != nil {
		log.Printf("[WARNING] Webhook for unknown instance %q", incoming.InstanceName)
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}

	processed, err := services.ProcessIncomingMessage(db.DB, instance, incoming)
	if err != nil {
		log.Printf("[ERROR] Failed to process inbound message: %v", err)
		return c.JSON(http.StatusOK, map[string]string{"status": "error"})
	}

	if processed.ForwardToBot {
		cfg := GetConfig(c)
		go services.ForwardToN8n(cfg.N8nWebhookURL, instance, processed)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "received"})
}

// InstagramWebhookHandler is a placeholder until the Instagram gateway lands
func InstagramWebhookHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "channel not implemented"})
}

// MessengerWebhookHandler is a placeholder until the Messenger gateway lands
func MessengerWebhookHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "channel not implemented"})
}

// TikTokWebhookHandler is a placeholder until the TikTok gateway lands
func TikTokWebhookHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "channel not implemented"})
}
