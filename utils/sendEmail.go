package utils

import (
	"fmt"
	"os"
	"strconv"

	"rental-marketplace-backend/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Initialize the SMTP mailer once and store it in a global variable
var mailer *gomail.Dialer

// InitializeMailer sets up the mailer using environment variables
func InitializeMailer() {
	mailHost := os.Getenv("SMTP_HOST")
	mailPort := os.Getenv("SMTP_PORT")
	mailUser := os.Getenv("SMTP_USER")
	mailPassword := os.Getenv("SMTP_PASSWORD")

	port, err := strconv.Atoi(mailPort)
	if err != nil {
		config.Logger.Error("Invalid SMTP_PORT value, defaulting to port 25",
			zap.String("provided_port", mailPort),
			zap.Error(err),
		)
		port = 25
	}

	mailer = gomail.NewDialer(mailHost, port, mailUser, mailPassword)
	config.Logger.Info("Mailer initialized successfully")
}

// GetMailer returns the shared dialer, nil before InitializeMailer.
func GetMailer() *gomail.Dialer {
	return mailer
}

// SendEmail delivers a single HTML email through the shared dialer.
func SendEmail(to, subject, htmlBody string) error {
	if mailer == nil {
		return fmt.Errorf("mailer not initialized")
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@rental-marketplace.local"
	}

	message := gomail.NewMessage()
	message.SetHeader("From", from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", htmlBody)

	if err := mailer.DialAndSend(message); err != nil {
		config.Logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	config.Logger.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
