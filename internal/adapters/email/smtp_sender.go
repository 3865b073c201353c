package email

import (
	"CommunityDirectory/internal/core/ports"
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

var _ ports.EmailSender = (*smtpSender)(nil)

// dialer is the part of gomail.Dialer we use.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpSender struct {
	dialer dialer
	from   string
	log    zerolog.Logger
}

// NewSMTPSender sends HTML mail through an authenticated SMTP relay.
// An empty from falls back to the SMTP user.
func NewSMTPSender(host string, port int, user, pass, from string, baseLogger *zerolog.Logger) ports.EmailSender {
	if from == "" {
		from = user
	}
	return &smtpSender{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
		log:    baseLogger.With().Str("component", "smtp_sender").Logger(),
	}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Error().Err(err).Str("to", to).Msg("Failed to send email")
		return fmt.Errorf("send email: %w", err)
	}
	s.log.Info().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}
