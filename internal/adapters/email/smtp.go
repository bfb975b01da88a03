package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"
)

// dialer is the part of *gomail.Dialer used by SMTPSender.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers email through an SMTP relay.
type SMTPSender struct {
	dialer dialer
	from   string
}

// NewSMTPSender creates a sender for the given relay.
// PRE: host is reachable; from is a valid sender address
// POST: Returns a sender that dials per message
func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// Send builds a MIME message and hands it to the relay.
// gomail does not take a context; ctx is checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fromOrDefault(req.From, s.from))
	m.SetHeader("To", req.To...)
	m.SetHeader("Subject", req.Subject)
	if req.ReplyTo != "" {
		m.SetHeader("Reply-To", req.ReplyTo)
	}
	m.SetBody("text/html", req.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		slog.Error("smtp_send_failed", "error", err, "to", req.To, "subject", req.Subject)
		return SendResult{}, fmt.Errorf("smtp send failed: %w", err)
	}

	sentAt := time.Now()
	slog.Info("smtp_sent", "to", req.To, "subject", req.Subject)
	return SendResult{
		MessageID: fmt.Sprintf("smtp-%d", sentAt.UnixNano()),
		SentAt:    sentAt,
	}, nil
}
