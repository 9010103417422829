package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
)

// CreateContactRequest is the payload for registering a contact manually
type CreateContactRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

// CreateContactHandler registers a contact under a bot. Contacts normally
// appear automatically through inbound webhooks; this covers manual entry.
func CreateContactHandler(c echo.Context) error {
	bot, err := getUserBot(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req CreateContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Phone == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Phone is required")
	}

	contact, err := services.GetOrCreateContact(db.DB, bot.ID, req.Phone, req.Name)
	if err != nil {
		return httpError(err, "Contact not found")
	}
	if req.Name != "" && contact.Name != req.Name {
		if err := db.DB.Model(contact).Update("name", req.Name).Error; err != nil {
			return httpError(err, "Contact not found")
		}
	}
	return c.JSON(http.StatusCreated, contact)
}

// ListBotContactsHandler returns a bot's contacts
func ListBotContactsHandler(c echo.Context) error {
	bot, err := getUserBot(c, c.Param("id"))
	if err != nil {
		return err
	}

	var contacts []models.Contact
	if err := db.DB.Where("bot_id = ?", bot.ID).Order("created_at DESC").Find(&contacts).Error; err != nil {
		return httpError(err, "Contact not found")
	}
	return c.JSON(http.StatusOK, contacts)
}

// GetContactHandler returns a contact by id, including its appointments
func GetContactHandler(c echo.Context) error {
	var contact models.Contact
	if err := db.DB.Preload("Appointments").First(&contact, "id = ?", c.Param("id")).Error; err != nil {
		return httpError(err, "Contact not found")
	}
	if _, err := getUserBot(c, contact.BotID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Contact not found")
	}
	return c.JSON(http.StatusOK, contact)
}
