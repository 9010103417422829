package services

import (
	"fmt"
	"log"
	"time"

	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/resend/resend-go/v2"
)

// EmailConfig holds the settings the mailer needs
type EmailConfig struct {
	APIKey   string
	From     string
	FromName string
	TestMode bool
}

var emailConfig EmailConfig
var emailClient *resend.Client

// InitEmail configures the process-wide mailer
func InitEmail(cfg EmailConfig) {
	emailConfig = cfg
	if cfg.APIKey != "" {
		emailClient = resend.NewClient(cfg.APIKey)
	}
}

// SendEmail sends an HTML email through Resend. In test mode, or when no API key
// is configured, the message is logged to the console instead.
func SendEmail(to, subject, htmlBody string) error {
	if emailConfig.TestMode || emailClient == nil {
		log.Printf("[EMAIL TEST MODE] To: %s | Subject: %s", to, subject)
		log.Printf("[EMAIL TEST MODE] Body: %s", htmlBody)
		return nil
	}

	from := emailConfig.From
	if emailConfig.FromName != "" {
		from = fmt.Sprintf("%s <%s>", emailConfig.FromName, emailConfig.From)
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}

	sent, err := emailClient.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	log.Printf("[EMAIL] Sent to %s (id: %s)", to, sent.Id)
	return nil
}

// SendEmailAsync fires the email from a goroutine and logs failures
func SendEmailAsync(to, subject, htmlBody string) {
	go func() {
		if err := SendEmail(to, subject, htmlBody); err != nil {
			log.Printf("[ERROR] Async email to %s failed: %v", to, err)
		}
	}()
}

// BuildBookingNotification renders the email sent to the account owner when a
// new appointment lands. Times are shown in the display timezone.
func BuildBookingNotification(apt *models.Appointment, contactName string, display *time.Location) (subject, body string) {
	start := apt.StartTime.In(display)
	end := apt.EndTime.In(display)

	subject = fmt.Sprintf("New appointment: %s", apt.Title)
	body = fmt.Sprintf(
		"<h2>New appointment booked</h2>"+
			"<p><strong>%s</strong></p>"+
			"<p>Contact: %s</p>"+
			"<p>When: %s to %s</p>",
		apt.Title,
		contactName,
		start.Format("Mon, 02 Jan 2006 15:04"),
		end.Format("15:04 MST"),
	)
	return subject, body
}

// BuildReminderEmail renders the upcoming-appointment reminder
func BuildReminderEmail(apt *models.Appointment, contactName string, display *time.Location) (subject, body string) {
	start := apt.StartTime.In(display)

	subject = fmt.Sprintf("Reminder: %s at %s", apt.Title, start.Format("15:04"))
	body = fmt.Sprintf(
		"<h2>Upcoming appointment</h2>"+
			"<p><strong>%s</strong> with %s</p>"+
			"<p>Starts %s</p>",
		apt.Title,
		contactName,
		start.Format("Mon, 02 Jan 2006 15:04 MST"),
	)
	return subject, body
}
