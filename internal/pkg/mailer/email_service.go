// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendBookingAlert(toEmail, patientName, date, timeOfDay, reference string) error
	SendHandoffAlert(toEmail, sessionKey string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendBookingAlert(toEmail, patientName, date, timeOfDay, reference string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "New Appointment Booked")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New appointment via the chat assistant</h2>
			<p><strong>Patient:</strong> %s</p>
			<p><strong>Date:</strong> %s</p>
			<p><strong>Time:</strong> %s</p>
			<p><strong>Reference:</strong> %s</p>
		</div>
	`, patientName, date, timeOfDay, reference)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send booking alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Booking alert sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendHandoffAlert(toEmail, sessionKey string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Visitor Requested a Human")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>A chat visitor asked to talk to a person</h2>
			<p>Session: <strong>%s</strong></p>
			<p>They were pointed at the clinic WhatsApp line; please follow up there.</p>
		</div>
	`, sessionKey)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send handoff alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Handoff alert sent to %s\n", toEmail)
	return nil
}
