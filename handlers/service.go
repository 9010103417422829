package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/middleware"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
)

// CreateServiceRequest is the payload for registering a bookable service
type CreateServiceRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Duration    int      `json:"duration"`
	Price       *float64 `json:"price"`
	DoctorID    *string  `json:"doctor_id"`
}

// CreateServiceHandler registers a bookable service for the current user,
// optionally tied to a doctor
func CreateServiceHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var req CreateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if req.Duration <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Duration must be positive")
	}
	if req.DoctorID != nil {
		if _, _, err := getUserDoctor(c, *req.DoctorID); err != nil {
			return err
		}
	}

	service := &models.Service{
		UserID:      user.ID,
		DoctorID:    req.DoctorID,
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
	}
	if err := db.DB.Create(service).Error; err != nil {
		return httpError(err, "Service not found")
	}
	return c.JSON(http.StatusCreated, service)
}

// ListServicesHandler returns the current user's services
func ListServicesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	query := db.DB.Where("user_id = ?", user.ID)
	if doctorID := c.QueryParam("doctor_id"); doctorID != "" {
		query = query.Where("doctor_id = ?", doctorID)
	}

	var services []models.Service
	if err := query.Order("name").Find(&services).Error; err != nil {
		return httpError(err, "Service not found")
	}
	return c.JSON(http.StatusOK, services)
}

// getUserService loads a service and verifies it belongs to the current user
func getUserService(c echo.Context, serviceID string) (*models.Service, error) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	var service models.Service
	err := db.DB.Where("id = ? AND user_id = ?", serviceID, user.ID).First(&service).Error
	if err != nil {
		return nil, httpError(err, "Service not found")
	}
	return &service, nil
}

// GetServiceHandler returns a service by id
func GetServiceHandler(c echo.Context) error {
	service, err := getUserService(c, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, service)
}

// UpdateServiceRequest carries the updatable service fields; nil means unchanged
type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Duration    *int     `json:"duration"`
	Price       *float64 `json:"price"`
}

// UpdateServiceHandler applies a partial update to a service
func UpdateServiceHandler(c echo.Context) error {
	service, err := getUserService(c, c.Param("id"))
	if err != nil {
		return err
	}

	var req UpdateServiceRequest
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
	if req.Duration != nil {
		if *req.Duration <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Duration must be positive")
		}
		updates["duration"] = *req.Duration
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}

	if len(updates) > 0 {
		if err := db.DB.Model(service).Updates(updates).Error; err != nil {
			return httpError(err, "Service not found")
		}
	}
	return c.JSON(http.StatusOK, service)
}

// DeleteServiceHandler removes a service
func DeleteServiceHandler(c echo.Context) error {
	service, err := getUserService(c, c.Param("id"))
	if err != nil {
		return err
	}

	if err := db.DB.Delete(service).Error; err != nil {
		return httpError(err, "Service not found")
	}
	return c.NoContent(http.StatusNoContent)
}
