package postgres

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type userRepository struct {
	db     *DB
	secSvc ports.SecurityPort // current_address is encrypted at rest
	log    zerolog.Logger
}

var _ ports.UserRepository = (*userRepository)(nil)

// NewUserRepository creates a new repository for user operations.
func NewUserRepository(db *DB, secSvc ports.SecurityPort, baseLogger *zerolog.Logger) ports.UserRepository {
	return &userRepository{
		db:     db,
		secSvc: secSvc,
		log:    baseLogger.With().Str("component", "user_repo").Logger(),
	}
}

// Create saves a new, unverified user.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, phone, email, password_hash,
			phone_verified, email_verified, registration_completed, is_approved, is_admin
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.pool.QueryRow(ctx, query,
		user.ID,
		user.Phone,
		normalizeEmail(user.Email),
		user.PasswordHash,
		user.PhoneVerified,
		user.EmailVerified,
		user.RegistrationCompleted,
		user.IsApproved,
		user.IsAdmin,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAccountExists
		}
		r.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to insert new user")
		return err
	}
	return nil
}

const userQueryCols = `
	u.id, u.phone, u.email, u.password_hash,
	COALESCE(u.first_name, ''), COALESCE(u.middle_name, ''), COALESCE(u.last_name, ''),
	COALESCE(u.gender, ''), u.village_id, COALESCE(v.name, ''), u.current_address,
	COALESCE(u.occupation_type, ''), COALESCE(u.profile_photo, ''),
	u.phone_verified, u.email_verified, u.registration_completed,
	u.is_approved, u.is_admin, u.can_view_sensitive,
	u.created_at, u.updated_at
`

const userQueryFrom = ` FROM users u LEFT JOIN villages v ON v.id = u.village_id `

// scanUser scans a row into a User and decrypts the address.
func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var encAddress *string

	err := row.Scan(
		&user.ID,
		&user.Phone,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.MiddleName,
		&user.LastName,
		&user.Gender,
		&user.VillageID,
		&user.VillageName,
		&encAddress,
		&user.OccupationType,
		&user.ProfilePhoto,
		&user.PhoneVerified,
		&user.EmailVerified,
		&user.RegistrationCompleted,
		&user.IsApproved,
		&user.IsAdmin,
		&user.CanViewSensitive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		r.log.Error().Err(err).Msg("Failed to scan user row")
		return nil, err
	}

	user.CurrentAddress, err = openText(r.secSvc, encAddress)
	if err != nil {
		r.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to decrypt current address (tampered?)")
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userQueryCols + userQueryFrom + `WHERE ` + where

	user, err := r.scanUser(r.db.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Return nil, nil for "not found"
		}
		return nil, err
	}
	return user, nil
}

// GetByID finds a user by their internal UUID.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, `u.id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `u.email = $1`, normalizeEmail(email))
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.getOne(ctx, `u.phone = $1`, strings.TrimSpace(phone))
}

// UpdateCredentials only touches users that have not completed registration.
func (r *userRepository) UpdateCredentials(ctx context.Context, id uuid.UUID, phone, email, passwordHash string) error {
	query := `
		UPDATE users SET phone = $2, email = $3, password_hash = $4,
			phone_verified = false, email_verified = false, updated_at = now()
		WHERE id = $1 AND NOT registration_completed
	`
	tag, err := r.db.pool.Exec(ctx, query, id, phone, normalizeEmail(email), passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAccountExists
		}
		r.log.Error().Err(err).Str("user_id", id.String()).Msg("Failed to update credentials")
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountExists
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.execOne(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
}

func (r *userRepository) MarkContactVerified(ctx context.Context, id uuid.UUID, purpose domain.OTPPurpose) error {
	var column string
	switch purpose {
	case domain.PurposePhone:
		column = "phone_verified"
	case domain.PurposeEmail:
		column = "email_verified"
	default:
		return fmt.Errorf("unknown purpose %q", purpose)
	}
	return r.execOne(ctx, `UPDATE users SET `+column+` = true, updated_at = now() WHERE id = $1`, id)
}

// CompleteProfile writes the profile and the single occupation row in one transaction.
func (r *userRepository) CompleteProfile(ctx context.Context, id uuid.UUID, in domain.ProfileInput, occ domain.Occupation) error {
	encAddress, err := sealText(r.secSvc, in.CurrentAddress)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to encrypt current address")
		return err
	}

	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE users SET first_name = $2, middle_name = $3, last_name = $4, gender = $5,
				village_id = $6, current_address = $7, occupation_type = $8,
				registration_completed = true, updated_at = now()
			WHERE id = $1
		`
		tag, err := tx.Exec(ctx, query, id, in.FirstName, in.MiddleName, in.LastName, in.Gender,
			in.VillageID, encAddress, string(occ.Type()))
		if err != nil {
			r.log.Error().Err(err).Str("user_id", id.String()).Msg("Failed to update profile")
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return replaceOccupation(ctx, tx, id, occ)
	})
}

// UpdateProfile applies the non-nil fields of patch.
func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch) error {
	if patch.Empty() {
		return nil
	}

	sets := []string{}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.MiddleName != nil {
		add("middle_name", *patch.MiddleName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Gender != nil {
		add("gender", *patch.Gender)
	}
	if patch.VillageID != nil {
		add("village_id", *patch.VillageID)
	}
	if patch.CurrentAddress != nil {
		enc, err := sealText(r.secSvc, *patch.CurrentAddress)
		if err != nil {
			r.log.Error().Err(err).Msg("Failed to encrypt current address")
			return err
		}
		add("current_address", enc)
	}
	if patch.ProfilePhoto != nil {
		add("profile_photo", *patch.ProfilePhoto)
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + `, updated_at = now() WHERE id = $1`
	return r.execOne(ctx, query, args...)
}

// ChangeOccupation swaps the variant and the discriminator in one transaction.
func (r *userRepository) ChangeOccupation(ctx context.Context, id uuid.UUID, occ domain.Occupation) error {
	return r.db.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE users SET occupation_type = $2, updated_at = now() WHERE id = $1`,
			id, string(occ.Type()))
		if err != nil {
			r.log.Error().Err(err).Str("user_id", id.String()).Msg("Failed to update occupation type")
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return replaceOccupation(ctx, tx, id, occ)
	})
}

// UpsertAdmin inserts an admin or promotes the user holding the same email.
func (r *userRepository) UpsertAdmin(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, phone, email, password_hash, first_name, last_name,
			phone_verified, email_verified, registration_completed, is_approved, is_admin, can_view_sensitive
		) VALUES ($1, $2, $3, $4, $5, $6, true, true, true, true, true, true)
		ON CONFLICT (email) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			phone_verified = true, email_verified = true, registration_completed = true,
			is_approved = true, is_admin = true, can_view_sensitive = true, updated_at = now()
		RETURNING id
	`
	err := r.db.pool.QueryRow(ctx, query,
		user.ID, user.Phone, normalizeEmail(user.Email), user.PasswordHash, user.FirstName, user.LastName,
	).Scan(&user.ID)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to upsert admin")
		return err
	}
	return nil
}

func (r *userRepository) execOne(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.pool.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error().Err(err).Msg("User update failed")
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
