package domain

import (
	"time"

	"github.com/google/uuid"
)

// OTPPurpose names the contact channel a code verifies.
type OTPPurpose string

const (
	PurposePhone OTPPurpose = "phone"
	PurposeEmail OTPPurpose = "email"
)

func (p OTPPurpose) Valid() bool {
	return p == PurposePhone || p == PurposeEmail
}

const (
	OTPTTL     = 10 * time.Minute
	OTPLength  = 6
	OTPMinCode = 100000
	OTPMaxCode = 999999
)

// OTPSubject identifies who a code belongs to. UserID is nil for
// pre-account flows, in which case Contact is the key.
type OTPSubject struct {
	UserID  *uuid.UUID
	Contact string
}

// OneTimeCode is a single-use numeric code.
type OneTimeCode struct {
	ID        uuid.UUID
	UserID    *uuid.UUID
	Contact   string
	Purpose   OTPPurpose
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
}

// NewOneTimeCode builds an unused code expiring OTPTTL after now.
func NewOneTimeCode(subject OTPSubject, purpose OTPPurpose, code string, now time.Time) *OneTimeCode {
	return &OneTimeCode{
		ID:        uuid.New(),
		UserID:    subject.UserID,
		Contact:   subject.Contact,
		Purpose:   purpose,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(OTPTTL),
	}
}

