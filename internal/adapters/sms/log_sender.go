package sms

import (
	"CommunityDirectory/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

var _ ports.SMSSender = (*logSender)(nil)

type logSender struct {
	log zerolog.Logger
}

// NewLogSender is used when no SMS provider is configured.
func NewLogSender(baseLogger *zerolog.Logger) ports.SMSSender {
	return &logSender{log: baseLogger.With().Str("component", "sms_demo").Logger()}
}

func (s *logSender) Send(_ context.Context, to, _ string) error {
	s.log.Warn().Str("to", FormatPhone(to)).Msg("SMS provider not configured; message not delivered")
	return nil
}
