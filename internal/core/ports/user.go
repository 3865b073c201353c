package ports

import (
	"CommunityDirectory/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the persistence operations for Users.
type UserRepository interface {
	// Create saves a new user. Duplicate phone or email yields domain.ErrAccountExists.
	Create(ctx context.Context, user *domain.User) error

	// GetByID finds a user by their internal UUID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)

	// UpdateCredentials rewrites phone, email and password of an
	// incomplete registration and clears its verification flags.
	UpdateCredentials(ctx context.Context, id uuid.UUID, phone, email, passwordHash string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	MarkContactVerified(ctx context.Context, id uuid.UUID, purpose domain.OTPPurpose) error

	// CompleteProfile writes the personal fields, replaces any occupation
	// detail with occ and sets registration_completed, atomically.
	CompleteProfile(ctx context.Context, id uuid.UUID, in domain.ProfileInput, occ domain.Occupation) error
	UpdateProfile(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch) error
	// ChangeOccupation deletes the current variant and inserts occ, atomically.
	ChangeOccupation(ctx context.Context, id uuid.UUID, occ domain.Occupation) error

	// UpsertAdmin creates or promotes an admin by email.
	UpsertAdmin(ctx context.Context, user *domain.User) error
}

// OccupationRepository reads and rewrites occupation detail rows.
type OccupationRepository interface {
	// GetByUserID returns the variant of type t, or nil if none exists.
	GetByUserID(ctx context.Context, userID uuid.UUID, t domain.OccupationType) (domain.Occupation, error)
	// Save overwrites the row of occ's variant for the user.
	Save(ctx context.Context, userID uuid.UUID, occ domain.Occupation) error
}
