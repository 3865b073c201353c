package ports

import (
	"CommunityDirectory/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore maps opaque tokens to user ids. One live session per user.
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID) (token string, err error)
	// Resolve returns uuid.Nil and false for unknown or expired tokens.
	Resolve(ctx context.Context, token string) (uuid.UUID, bool, error)
	Revoke(ctx context.Context, token string) error
	RevokeUser(ctx context.Context, userID uuid.UUID) error
}

// LoginTicketStore records that a user passed the OTP step of login.
type LoginTicketStore interface {
	Grant(ctx context.Context, userID uuid.UUID, ttl time.Duration) error
	// Consume removes the ticket and reports whether it existed.
	Consume(ctx context.Context, userID uuid.UUID) (bool, error)
}

// OTPRateLimiter throttles code issuance per subject and purpose.
// It returns domain.ErrRateLimited when the caller must wait.
type OTPRateLimiter interface {
	Allow(ctx context.Context, subject string, purpose domain.OTPPurpose) error
}
