package email

import (
	"CommunityDirectory/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

var _ ports.EmailSender = (*logSender)(nil)

type logSender struct {
	log zerolog.Logger
}

// NewLogSender stands in for SMTP when none is configured. It logs the
// envelope and never the body, which may hold a code.
func NewLogSender(baseLogger *zerolog.Logger) ports.EmailSender {
	return &logSender{log: baseLogger.With().Str("component", "email_demo").Logger()}
}

func (s *logSender) Send(_ context.Context, to, subject, _ string) error {
	s.log.Warn().Str("to", to).Str("subject", subject).Msg("SMTP not configured; email not delivered")
	return nil
}
