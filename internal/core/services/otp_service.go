package services

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
)

// OTP reasons carried on the otp:issued event.
const (
	ReasonSignup = "signup"
	ReasonLogin  = "login"
	ReasonResend = "resend"
	ReasonReset  = "reset"
)

// OTPService issues and verifies one-time codes.
type OTPService struct {
	repo    ports.OTPRepository
	limiter ports.OTPRateLimiter
	bus     ports.EventBus
	now     func() time.Time
	log     zerolog.Logger
}

func NewOTPService(
	repo ports.OTPRepository,
	limiter ports.OTPRateLimiter,
	bus ports.EventBus,
	baseLogger *zerolog.Logger,
) *OTPService {
	return &OTPService{
		repo:    repo,
		limiter: limiter,
		bus:     bus,
		now:     time.Now,
		log:     baseLogger.With().Str("component", "otp_service").Logger(),
	}
}

// Issue stores a fresh code for the subject, invalidating earlier unused
// ones, and hands it to the notifier. Delivery happens off the request path.
func (s *OTPService) Issue(ctx context.Context, subject domain.OTPSubject, purpose domain.OTPPurpose, reason string) (*domain.OneTimeCode, error) {
	if !purpose.Valid() {
		return nil, domain.NewValidationError("type must be email or phone")
	}

	key := subject.Contact
	if subject.UserID != nil {
		key = subject.UserID.String()
	}
	if err := s.limiter.Allow(ctx, key, purpose); err != nil {
		return nil, err
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	otp := domain.NewOneTimeCode(subject, purpose, code, s.now())
	if err := s.repo.Replace(ctx, otp); err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}

	evt := ports.OTPIssuedEvent{
		UserID:  subject.UserID,
		Contact: subject.Contact,
		Purpose: purpose,
		Code:    code,
		Reason:  reason,
	}
	if err := s.bus.Publish(ctx, ports.TopicOTPIssued, evt); err != nil {
		s.log.Error().Err(err).Msg("Failed to publish 'otp:issued' event")
	}
	return otp, nil
}

// Verify consumes the newest unused code for the subject. Unknown,
// expired and mismatched codes all yield domain.ErrInvalidOrExpiredCode.
func (s *OTPService) Verify(ctx context.Context, subject domain.OTPSubject, purpose domain.OTPPurpose, code string) error {
	if !purpose.Valid() || !wellFormedCode(code) {
		return domain.ErrInvalidOrExpiredCode
	}
	ok, err := s.repo.Consume(ctx, subject, purpose, code, s.now())
	if err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	if !ok {
		return domain.ErrInvalidOrExpiredCode
	}
	return nil
}

// Purge deletes used or expired codes older than retention.
func (s *OTPService) Purge(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.repo.Purge(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("purge codes: %w", err)
	}
	if n > 0 {
		s.log.Info().Int64("rows", n).Msg("Purged old one-time codes")
	}
	return n, nil
}

// RunRetention purges on every tick until ctx is done.
func (s *OTPService) RunRetention(ctx context.Context, retention, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Purge(ctx, retention); err != nil {
				s.log.Error().Err(err).Msg("OTP retention pass failed")
			}
		}
	}
}

var codeSpan = big.NewInt(domain.OTPMaxCode - domain.OTPMinCode + 1)

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+domain.OTPMinCode), nil
}

func wellFormedCode(code string) bool {
	if len(code) != domain.OTPLength {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
