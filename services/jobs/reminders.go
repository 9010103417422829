package jobs

import (
	"log"
	"time"

	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/pinottiautomacoes/n8n-bot-hub-backend/services"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// reminderWindow is how far ahead of the start time a reminder goes out
const reminderWindow = 24 * time.Hour

// StartReminderScheduler runs the reminder pass every hour. The returned cron
// can be stopped on shutdown.
func StartReminderScheduler(db *gorm.DB, display *time.Location) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("0 * * * *", func() {
		RunReminderPass(db, display)
	})
	if err != nil {
		log.Printf("[ERROR] Failed to schedule reminder job: %v", err)
		return c
	}
	c.Start()
	log.Println("[INFO] Appointment reminder scheduler started (hourly)")
	return c
}

// RunReminderPass emails reminders for active appointments starting within the
// reminder window that have not been reminded yet
func RunReminderPass(db *gorm.DB, display *time.Location) {
	now := time.Now().UTC()
	appointments, err := services.GetAppointmentsNeedingReminder(db, now, now.Add(reminderWindow))
	if err != nil {
		log.Printf("[ERROR] Reminder pass query failed: %v", err)
		return
	}
	if len(appointments) == 0 {
		return
	}

	log.Printf("[INFO] Reminder pass: %d appointment(s) due", len(appointments))
	for i := range appointments {
		apt := &appointments[i]
		if err := sendReminder(db, apt, display); err != nil {
			log.Printf("[ERROR] Reminder for appointment %s failed: %v", apt.ID, err)
			continue
		}
		if err := services.MarkReminderSent(db, apt.ID); err != nil {
			log.Printf("[ERROR] Failed to mark reminder sent for %s: %v", apt.ID, err)
		}
	}
}

func sendReminder(db *gorm.DB, apt *models.Appointment, display *time.Location) error {
	owner, err := ownerEmailForAppointment(db, apt)
	if err != nil {
		return err
	}

	contactName := "a contact"
	var contact models.Contact
	if err := db.First(&contact, "id = ?", apt.ContactID).Error; err == nil && contact.Name != "" {
		contactName = contact.Name
	}

	subject, body := services.BuildReminderEmail(apt, contactName, display)
	return services.SendEmail(owner, subject, body)
}

// ownerEmailForAppointment walks appointment -> bot -> instance -> user
func ownerEmailForAppointment(db *gorm.DB, apt *models.Appointment) (string, error) {
	var bot models.Bot
	if err := db.First(&bot, "id = ?", apt.BotID).Error; err != nil {
		return "", err
	}
	var instance models.Instance
	if err := db.First(&instance, "id = ?", bot.InstanceID).Error; err != nil {
		return "", err
	}
	var user models.User
	if err := db.First(&user, "id = ?", instance.UserID).Error; err != nil {
		return "", err
	}
	return user.Email, nil
}
