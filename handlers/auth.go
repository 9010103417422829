package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/middleware"
)

// MeHandler returns the authenticated user's profile
func MeHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}
