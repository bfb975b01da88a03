package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address (e.g. "FitPro <noreply@fitpro.example>")
	Subject string
	HTML    string // HTML body
	ReplyTo string // Reply-to address
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// Config selects and configures a Sender.
type Config struct {
	ResendKey    string
	From         string
	ReplyTo      string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
}

// NewSender picks Resend when an API key is set, SMTP when a host is set,
// and the noop sender otherwise.
func NewSender(cfg Config) Sender {
	switch {
	case cfg.ResendKey != "":
		return NewResendSender(cfg.ResendKey, cfg.From)
	case cfg.SMTPHost != "":
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From)
	default:
		return NewNoopSender()
	}
}
