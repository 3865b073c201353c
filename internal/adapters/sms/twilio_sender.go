package sms

import (
	"CommunityDirectory/internal/core/ports"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultCountryCode is prefixed to numbers given without one.
const DefaultCountryCode = "+91"

var _ ports.SMSSender = (*twilioSender)(nil)

type twilioSender struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	client     *http.Client
	log        zerolog.Logger
}

type twilioResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewTwilioSender posts to the Twilio Messages REST endpoint under baseURL.
func NewTwilioSender(baseURL, accountSID, authToken, from string, baseLogger *zerolog.Logger) ports.SMSSender {
	return &twilioSender{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		client:     &http.Client{Timeout: 30 * time.Second},
		log:        baseLogger.With().Str("component", "twilio_sender").Logger(),
	}
}

// FormatPhone adds the default country code when the number has none.
func FormatPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return DefaultCountryCode + phone
}

func (s *twilioSender) Send(ctx context.Context, to, body string) error {
	to = FormatPhone(to)

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.baseURL, url.PathEscape(s.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create SMS request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error().Err(err).Str("to", to).Msg("SMS request failed")
		return fmt.Errorf("failed to send SMS request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read SMS response: %w", err)
	}

	var parsed twilioResponse
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.Error().Int("status", resp.StatusCode).Str("to", to).Str("error", parsed.Message).Msg("SMS provider rejected message")
		return fmt.Errorf("SMS provider returned status %d: %s", resp.StatusCode, parsed.Message)
	}

	s.log.Info().Str("to", to).Str("sid", parsed.SID).Msg("SMS sent")
	return nil
}
