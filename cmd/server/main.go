package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/config"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/db"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/handlers"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/middleware"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services/jobs"
)

func main() {
	cfg := config.Load()

	if err := db.Initialize(cfg.DBPath, cfg.TursoDatabaseURL, cfg.TursoAuthToken, cfg.Environment); err != nil {
		log.Fatalf("[FATAL] Database initialization failed: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(
		&models.User{},
		&models.Instance{},
		&models.Bot{},
		&models.Doctor{},
		&models.Service{},
		&models.BusinessHour{},
		&models.BlockedPeriod{},
		&models.Contact{},
		&models.Appointment{},
		&models.Conversation{},
		&models.Message{},
	); err != nil {
		log.Fatalf("[FATAL] Database migration failed: %v", err)
	}

	if err := services.InitFirebaseAuth(context.Background(), cfg.FirebaseServiceAccount); err != nil {
		if cfg.Environment == "production" {
			log.Fatalf("[FATAL] Firebase initialization failed: %v", err)
		}
		log.Printf("[WARNING] Firebase not configured, authenticated routes will fail: %v", err)
	}

	services.InitEmail(services.EmailConfig{
		APIKey:   cfg.ResendAPIKey,
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		TestMode: cfg.EmailTestMode,
	})

	display := services.LocationOrUTC(cfg.DisplayTimezone)
	reminderCron := jobs.StartReminderScheduler(db.DB, display)
	defer reminderCron.Stop()

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(handlers.ContextKeyConfig, cfg)
			return next(c)
		}
	})

	api := e.Group("/api/v1")

	// Public surface
	api.GET("/health", handlers.HealthHandler)

	webhooks := api.Group("/webhooks", middleware.WebhookRateLimiter.Middleware())
	webhooks.POST("/whatsapp", handlers.WhatsAppWebhookHandler)
	webhooks.POST("/instagram", handlers.InstagramWebhookHandler)
	webhooks.POST("/messenger", handlers.MessengerWebhookHandler)
	webhooks.POST("/tiktok", handlers.TikTokWebhookHandler)

	n8n := api.Group("/n8n")
	n8n.POST("/incoming", handlers.N8nIncomingHandler)
	n8n.POST("/outgoing", handlers.N8nOutgoingHandler)

	// Authenticated surface
	auth := api.Group("", middleware.RequireAuth(), middleware.APIRateLimiter.Middleware())

	auth.GET("/auth/me", handlers.MeHandler)

	auth.POST("/instances", handlers.CreateInstanceHandler)
	auth.GET("/instances", handlers.ListInstancesHandler)
	auth.GET("/instances/:id", handlers.GetInstanceHandler)
	auth.PATCH("/instances/:id", handlers.UpdateInstanceHandler)
	auth.DELETE("/instances/:id", handlers.DeleteInstanceHandler)
	auth.GET("/instances/:id/bot", handlers.GetInstanceBotHandler)
	auth.GET("/instances/:id/conversations", handlers.ListInstanceConversationsHandler)

	auth.GET("/bots", handlers.ListBotsHandler)
	auth.POST("/bots", handlers.CreateBotHandler)
	auth.GET("/bots/:id", handlers.GetBotHandler)
	auth.PATCH("/bots/:id", handlers.UpdateBotHandler)
	auth.POST("/bots/:id/doctors", handlers.CreateDoctorHandler)
	auth.GET("/bots/:id/doctors", handlers.ListBotDoctorsHandler)
	auth.POST("/bots/:id/business-hours", handlers.CreateBotBusinessHourHandler)
	auth.GET("/bots/:id/business-hours", handlers.ListBotBusinessHoursHandler)
	auth.POST("/bots/:id/blocked-periods", handlers.CreateBotBlockedPeriodHandler)
	auth.GET("/bots/:id/blocked-periods", handlers.ListBotBlockedPeriodsHandler)
	auth.POST("/bots/:id/appointments", handlers.CreateAppointmentHandler)
	auth.GET("/bots/:id/appointments", handlers.ListBotAppointmentsHandler)
	auth.GET("/bots/:id/available-slots", handlers.GetBotAvailableSlotsHandler)
	auth.POST("/bots/:id/contacts", handlers.CreateContactHandler)
	auth.GET("/bots/:id/contacts", handlers.ListBotContactsHandler)

	auth.GET("/doctors/:id", handlers.GetDoctorHandler)
	auth.PATCH("/doctors/:id", handlers.UpdateDoctorHandler)
	auth.PUT("/doctors/:id", handlers.UpdateDoctorHandler)
	auth.DELETE("/doctors/:id", handlers.DeleteDoctorHandler)
	auth.POST("/doctors/:id/business-hours", handlers.CreateDoctorBusinessHourHandler)
	auth.GET("/doctors/:id/business-hours", handlers.ListDoctorBusinessHoursHandler)
	auth.POST("/doctors/:id/blocked-periods", handlers.CreateDoctorBlockedPeriodHandler)
	auth.GET("/doctors/:id/blocked-periods", handlers.ListDoctorBlockedPeriodsHandler)
	auth.GET("/doctors/:id/available-slots", handlers.GetDoctorAvailableSlotsHandler)

	auth.POST("/services", handlers.CreateServiceHandler)
	auth.GET("/services", handlers.ListServicesHandler)
	auth.GET("/services/:id", handlers.GetServiceHandler)
	auth.PATCH("/services/:id", handlers.UpdateServiceHandler)
	auth.PUT("/services/:id", handlers.UpdateServiceHandler)
	auth.DELETE("/services/:id", handlers.DeleteServiceHandler)

	auth.PATCH("/business-hours/:id", handlers.UpdateBusinessHourHandler)
	auth.DELETE("/business-hours/:id", handlers.DeleteBusinessHourHandler)

	auth.GET("/blocked-periods/:id", handlers.GetBlockedPeriodHandler)
	auth.PATCH("/blocked-periods/:id", handlers.UpdateBlockedPeriodHandler)
	auth.PUT("/blocked-periods/:id", handlers.UpdateBlockedPeriodHandler)
	auth.DELETE("/blocked-periods/:id", handlers.DeleteBlockedPeriodHandler)

	auth.GET("/appointments/:id", handlers.GetAppointmentHandler)
	auth.PATCH("/appointments/:id", handlers.UpdateAppointmentHandler)
	auth.DELETE("/appointments/:id", handlers.CancelAppointmentHandler)

	auth.GET("/conversations", handlers.ListConversationsHandler)
	auth.GET("/conversations/:id/messages", handlers.GetConversationMessagesHandler)
	auth.PATCH("/conversations/:id/status", handlers.UpdateConversationStatusHandler)

	log.Printf("[INFO] Starting server on port %s (%s)", cfg.ServerPort, cfg.Environment)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("[FATAL] Server stopped: %v", err)
	}
}
