package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OccupationType is the discriminator for the occupation detail variant.
type OccupationType string

const (
	OccupationStudent  OccupationType = "student"
	OccupationJob      OccupationType = "job"
	OccupationBusiness OccupationType = "business"
)

// Valid reports whether t is one of the known variants.
func (t OccupationType) Valid() bool {
	switch t {
	case OccupationStudent, OccupationJob, OccupationBusiness:
		return true
	}
	return false
}

// RegistrationState is derived from the user's flags; it is never stored.
type RegistrationState string

const (
	StateUnverified      RegistrationState = "unverified"
	StateContactVerified RegistrationState = "contact_verified"
	StatePendingApproval RegistrationState = "pending_approval"
	StateApproved        RegistrationState = "approved"
	StateAdmin           RegistrationState = "admin"
)

// User represents an identity in the directory.
type User struct {
	ID           uuid.UUID
	Phone        string
	Email        string
	PasswordHash string

	FirstName      string
	MiddleName     string
	LastName       string
	Gender         string
	VillageID      *int64 // Nullable until the profile is completed
	VillageName    string // Denormalized, read-only
	CurrentAddress string // Encrypted at rest
	OccupationType OccupationType
	ProfilePhoto   string

	PhoneVerified         bool
	EmailVerified         bool
	RegistrationCompleted bool
	IsApproved            bool
	IsAdmin               bool
	CanViewSensitive      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// State derives the registration state from the stored flags.
func (u *User) State() RegistrationState {
	switch {
	case u.IsAdmin:
		return StateAdmin
	case u.IsApproved:
		return StateApproved
	case u.RegistrationCompleted:
		return StatePendingApproval
	case u.PhoneVerified || u.EmailVerified:
		return StateContactVerified
	default:
		return StateUnverified
	}
}

// IsFemale matches the stored gender case-insensitively.
func (u *User) IsFemale() bool {
	return IsFemale(u.Gender)
}

func IsFemale(gender string) bool {
	return strings.EqualFold(strings.TrimSpace(gender), "female")
}

// ValidPhone accepts an optional leading '+' followed by 10 to 15 digits.
func ValidPhone(phone string) bool {
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 10 || len(digits) > 15 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (u *User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.FirstName, u.MiddleName, u.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// VerificationRequirement controls which contact channels must be
// verified before a profile can be completed.
type VerificationRequirement string

const (
	RequireNone  VerificationRequirement = "none"
	RequireEmail VerificationRequirement = "email"
	RequirePhone VerificationRequirement = "phone"
	RequireBoth  VerificationRequirement = "both"
)

// Satisfied reports whether u meets the requirement.
func (r VerificationRequirement) Satisfied(u *User) bool {
	switch r {
	case RequireEmail:
		return u.EmailVerified
	case RequirePhone:
		return u.PhoneVerified
	case RequireBoth:
		return u.EmailVerified && u.PhoneVerified
	default:
		return true
	}
}

// ProfileInput holds the personal fields submitted on profile completion.
type ProfileInput struct {
	FirstName      string
	MiddleName     string
	LastName       string
	Gender         string
	VillageID      int64
	CurrentAddress string
}

// ProfilePatch is a partial update; nil fields are left untouched.
type ProfilePatch struct {
	FirstName      *string
	MiddleName     *string
	LastName       *string
	Gender         *string
	VillageID      *int64
	CurrentAddress *string
	ProfilePhoto   *string
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.MiddleName == nil && p.LastName == nil &&
		p.Gender == nil && p.VillageID == nil && p.CurrentAddress == nil && p.ProfilePhoto == nil
}
