package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
)

const (
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
)

// RequireAuth verifies the Bearer token and loads the matching local user into
// the request context, creating the user on first sight
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header")
			}

			if services.Verifier == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Authentication not configured")
			}

			claims, err := services.Verifier.Verify(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			user, err := services.GetOrCreateUser(db.DB, claims)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load user")
			}

			c.Set(ContextKeyUser, user)
			return next(c)
		}
	}
}

// GetCurrentUser retrieves the authenticated user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}
