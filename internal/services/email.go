package services

import (
	"context"
	"fmt"

	brevo "github.com/getbrevo/brevo-go/lib"
)

// EmailSender delivers order notifications to email destinations through the
// Brevo transactional API.
type EmailSender struct {
	client    *brevo.APIClient
	fromEmail string
	fromName  string
}

// NewEmailSender creates a Brevo-backed email sender.
func NewEmailSender(apiKey, fromEmail, fromName string) *EmailSender {
	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", apiKey)
	return &EmailSender{
		client:    brevo.NewAPIClient(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// Send implements Sender; destination is the recipient address.
func (s *EmailSender) Send(ctx context.Context, destination, message string) error {
	email := brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Name:  s.fromName,
			Email: s.fromEmail,
		},
		To: []brevo.SendSmtpEmailTo{
			{Email: destination},
		},
		Subject:     "New sponsorship order",
		TextContent: message,
	}

	_, resp, err := s.client.TransactionalEmailsApi.SendTransacEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp != nil && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		return fmt.Errorf("brevo API error: status %d", resp.StatusCode)
	}
	return nil
}
