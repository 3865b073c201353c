package ports

import (
	"CommunityDirectory/internal/core/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// DecidedUser is what an approve or reject captured about the user.
type DecidedUser struct {
	ID        uuid.UUID
	Email     string
	Phone     string
	FirstName string
}

// ApprovalRepository holds the admin gate. Every mutation is a single
// conditional statement or one transaction.
type ApprovalRepository interface {
	ListPending(ctx context.Context, page domain.PageRequest) (domain.Page[domain.DirectoryEntry], error)
	ListUsers(ctx context.Context, filter domain.UserListFilter) (domain.Page[domain.DirectoryEntry], error)

	// Approve returns nil when the user does not exist or is not eligible.
	Approve(ctx context.Context, id uuid.UUID) (*DecidedUser, error)
	// Reject deletes the user and its dependents. Nil when nothing was deleted.
	Reject(ctx context.Context, id uuid.UUID) (*DecidedUser, error)
	// ToggleSensitiveAccess returns the new flag value or domain.ErrNotFound.
	ToggleSensitiveAccess(ctx context.Context, id uuid.UUID) (bool, error)

	Stats(ctx context.Context) (*domain.AdminStats, error)
	Report(ctx context.Context, filter domain.ReportFilter) ([]domain.ReportRow, error)
}

// OTPRepository persists one-time codes.
type OTPRepository interface {
	// Replace deletes unconsumed codes for the subject and purpose and
	// inserts code, in one transaction.
	Replace(ctx context.Context, code *domain.OneTimeCode) error
	// Consume marks the newest unconsumed code used if it equals code and
	// has not expired at now. It reports whether a row was consumed.
	Consume(ctx context.Context, subject domain.OTPSubject, purpose domain.OTPPurpose, code string, now time.Time) (bool, error)
	// Purge removes used or expired codes created before cutoff.
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}
