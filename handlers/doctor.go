package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
)

// CreateDoctorRequest is the payload for adding a professional under a bot
type CreateDoctorRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Specialties string `json:"specialties"`
	CRM         string `json:"crm"`
}

// CreateDoctorHandler adds a doctor to a bot
func CreateDoctorHandler(c echo.Context) error {
	bot, err := getUserBot(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req CreateDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	doctor := &models.Doctor{
		BotID:       bot.ID,
		Name:        req.Name,
		Email:       req.Email,
		Specialties: req.Specialties,
		CRM:         req.CRM,
	}
	if err := db.DB.Create(doctor).Error; err != nil {
		return httpError(err, "Doctor not found")
	}
	return c.JSON(http.StatusCreated, doctor)
}

// ListBotDoctorsHandler returns all doctors attached to a bot
func ListBotDoctorsHandler(c echo.Context) error {
	bot, err := getUserBot(c, c.Param("id"))
	if err != nil {
		return err
	}

	var doctors []models.Doctor
	if err := db.DB.Where("bot_id = ?", bot.ID).Order("name").Find(&doctors).Error; err != nil {
		return httpError(err, "Doctor not found")
	}
	return c.JSON(http.StatusOK, doctors)
}

// GetDoctorHandler returns a doctor by id
func GetDoctorHandler(c echo.Context) error {
	doctor, _, err := getUserDoctor(c, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doctor)
}

// UpdateDoctorRequest carries the updatable doctor fields; nil means unchanged
type UpdateDoctorRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Specialties *string `json:"specialties"`
	CRM         *string `json:"crm"`
}

// UpdateDoctorHandler applies a partial update to a doctor
func UpdateDoctorHandler(c echo.Context) error {
	doctor, _, err := getUserDoctor(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req UpdateDoctorRequest
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
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Specialties != nil {
		updates["specialties"] = *req.Specialties
	}
	if req.CRM != nil {
		updates["crm"] = *req.CRM
	}

	if len(updates) > 0 {
		if err := db.DB.Model(doctor).Updates(updates).Error; err != nil {
			return httpError(err, "Doctor not found")
		}
	}
	return c.JSON(http.StatusOK, doctor)
}

// DeleteDoctorHandler removes a doctor and its schedule data
func DeleteDoctorHandler(c echo.Context) error {
	doctor, _, err := getUserDoctor(c, c.Param("id"))
	if err != nil {
		return err
	}

	if err := db.DB.Delete(doctor).Error; err != nil {
		return httpError(err, "Doctor not found")
	}
	return c.NoContent(http.StatusNoContent)
}
