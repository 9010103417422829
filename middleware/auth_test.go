package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubVerifier struct {
	claims *services.AuthClaims
	err    error
}

func (s *stubVerifier) Verify(ctx context.Context, idToken string) (*services.AuthClaims, error) {
	return s.claims, s.err
}

func setupAuthTest(t *testing.T) *gorm.DB {
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, testDB.AutoMigrate(&models.User{}))
	db.DB = testDB
	return testDB
}

func runAuth(t *testing.T, token string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequireAuth()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestRequireAuth(t *testing.T) {
	database := setupAuthTest(t)

	t.Run("Valid token creates user on first sight", func(t *testing.T) {
		services.Verifier = &stubVerifier{claims: &services.AuthClaims{
			UID: "firebase-123", Email: "new@test.com", Name: "New User",
		}}

		c, err := runAuth(t, "Bearer good-token")
		assert.NoError(t, err)

		user := GetCurrentUser(c)
		assert.NotNil(t, user)
		assert.Equal(t, "firebase-123", user.FirebaseUID)

		var count int64
		database.Model(&models.User{}).Where("firebase_uid = ?", "firebase-123").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Repeat login reuses the same user", func(t *testing.T) {
		services.Verifier = &stubVerifier{claims: &services.AuthClaims{
			UID: "firebase-123", Email: "new@test.com",
		}}

		_, err := runAuth(t, "Bearer good-token")
		assert.NoError(t, err)

		var count int64
		database.Model(&models.User{}).Where("firebase_uid = ?", "firebase-123").Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Missing header rejected", func(t *testing.T) {
		_, err := runAuth(t, "")
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("Malformed header rejected", func(t *testing.T) {
		_, err := runAuth(t, "Basic abc123")
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("Invalid token rejected", func(t *testing.T) {
		services.Verifier = &stubVerifier{err: errors.New("token expired")}

		_, err := runAuth(t, "Bearer stale-token")
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}
