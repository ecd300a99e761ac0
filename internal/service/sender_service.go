package service

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"consultorio/internal/entities"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const statusReminder = "reminder"

type SenderService struct {
	logger *zerolog.Logger
}

func NewSenderService(logger *zerolog.Logger) *SenderService {
	return &SenderService{logger: logger}
}

// SendReservationEmail renders and sends the lifecycle email for a
// reservation. Delivery runs in a goroutine; failures are logged and never
// surfaced to the booking flow.
func (s *SenderService) SendReservationEmail(reservation entities.ReservationResponse, status string) {
	emailData := entities.ReservationEmailData{
		ClientName:    reservation.ClientName,
		ReservationID: reservation.ID,
		DateFormatted: reservation.ReservationDate.Format("02 Jan 2006"),
		HourFormatted: fmt.Sprintf("%02d:00", reservation.Hour),
		CurrentYear:   time.Now().Year(),
		Status:        status,
	}

	var emailSubject, plainTextBody string
	switch status {
	case statusCancelled:
		emailSubject = fmt.Sprintf("Your appointment on %s has been cancelled", emailData.DateFormatted)
		plainTextBody = fmt.Sprintf(
			"Hello %s,\n\nYour appointment has been cancelled.\n\n"+
				"Appointment Details:\n"+
				"Reference: %d\n"+
				"Date: %s\n"+
				"Time: %s\n\n"+
				"Thank you.",
			emailData.ClientName, emailData.ReservationID,
			emailData.DateFormatted, emailData.HourFormatted,
		)
	case statusReminder:
		emailSubject = fmt.Sprintf("Reminder: appointment tomorrow at %s", emailData.HourFormatted)
		plainTextBody = fmt.Sprintf(
			"Hello %s,\n\nThis is a reminder for your upcoming appointment.\n\n"+
				"Appointment Details:\n"+
				"Reference: %d\n"+
				"Date: %s\n"+
				"Time: %s\n\n"+
				"Thank you.",
			emailData.ClientName, emailData.ReservationID,
			emailData.DateFormatted, emailData.HourFormatted,
		)
	default:
		emailSubject = fmt.Sprintf("Your appointment on %s is confirmed", emailData.DateFormatted)
		plainTextBody = fmt.Sprintf(
			"Hello %s,\n\nYour appointment is confirmed.\n\n"+
				"Appointment Details:\n"+
				"Reference: %d\n"+
				"Date: %s\n"+
				"Time: %s\n\n"+
				"Thank you.",
			emailData.ClientName, emailData.ReservationID,
			emailData.DateFormatted, emailData.HourFormatted,
		)
	}

	var htmlBody string
	tmplPath := filepath.Join("internal", "templates", "reservation_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		s.logger.Warn().Err(err).Str("template", tmplPath).Msg("could not parse email template, sending plain text only")
	} else {
		var htmlBodyBuffer bytes.Buffer
		if err := tmpl.Execute(&htmlBodyBuffer, emailData); err != nil {
			s.logger.Warn().Err(err).Int("reservation_id", emailData.ReservationID).Msg("could not render email template")
		} else {
			htmlBody = htmlBodyBuffer.String()
		}
	}

	go func(toEmail, toName, subject, plainBody, htmlBodyContent string) {
		if err := s.sendWithSendGrid(toEmail, toName, subject, plainBody, htmlBodyContent); err != nil {
			s.logger.Error().Err(err).Int("reservation_id", emailData.ReservationID).Str("to", toEmail).Msg("reservation email delivery failed")
		}
	}(reservation.ClientEmail, reservation.ClientName, emailSubject, plainTextBody, htmlBody)
}

func (s *SenderService) sendWithSendGrid(toEmailAddress, toName, subject, plainTextContent, htmlContent string) error {
	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not configured")
	}

	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		return fmt.Errorf("SENDGRID_FROM_EMAIL is not configured")
	}

	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "Consultorio"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sending email through SendGrid failed: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		s.logger.Info().Str("to", toEmailAddress).Str("subject", subject).Int("status", response.StatusCode).Msg("email sent")
		return nil
	}
	return fmt.Errorf("SendGrid returned non-success status %d: %s", response.StatusCode, response.Body)
}
