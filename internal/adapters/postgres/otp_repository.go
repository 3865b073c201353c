package postgres

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

var _ ports.OTPRepository = (*otpRepository)(nil)

type otpRepository struct {
	db  *DB
	log zerolog.Logger
}

// NewOTPRepository creates a repo for one-time codes.
func NewOTPRepository(db *DB, baseLogger *zerolog.Logger) ports.OTPRepository {
	return &otpRepository{
		db:  db,
		log: baseLogger.With().Str("component", "otp_repo").Logger(),
	}
}

// subjectClause matches rows for the subject. It binds $1 (purpose),
// $2 (user id, possibly NULL) and $3 (contact); callers number further
// parameters from $4.
const subjectClause = `
	purpose = $1 AND (
		($2::uuid IS NOT NULL AND user_id = $2::uuid) OR
		($2::uuid IS NULL AND user_id IS NULL AND contact = $3)
	)
`

// Replace invalidates earlier unconsumed codes and stores the new one.
func (r *otpRepository) Replace(ctx context.Context, code *domain.OneTimeCode) error {
	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`DELETE FROM otp_verifications WHERE NOT is_used AND `+subjectClause,
			string(code.Purpose), code.UserID, code.Contact)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO otp_verifications (id, user_id, contact, purpose, code, expires_at, is_used, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, false, $7)`,
			code.ID, code.UserID, code.Contact, string(code.Purpose), code.Code, code.ExpiresAt, code.CreatedAt)
		return err
	})
	if err != nil {
		r.log.Error().Err(err).Str("purpose", string(code.Purpose)).Msg("Failed to replace one-time code")
	}
	return err
}

// Consume marks the newest unconsumed code used in a single statement, so
// two concurrent verifications of the same code cannot both succeed.
func (r *otpRepository) Consume(ctx context.Context, subject domain.OTPSubject, purpose domain.OTPPurpose, code string, now time.Time) (bool, error) {
	query := `
		UPDATE otp_verifications SET is_used = true
		WHERE id = (
			SELECT id FROM otp_verifications
			WHERE NOT is_used AND ` + subjectClause + `
			ORDER BY created_at DESC
			LIMIT 1
			FOR UPDATE
		)
		AND NOT is_used AND code = $4 AND expires_at >= $5
		RETURNING id
	`
	var id [16]byte
	err := r.db.pool.QueryRow(ctx, query, string(purpose), subject.UserID, subject.Contact, code, now).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.log.Error().Err(err).Str("purpose", string(purpose)).Msg("Failed to consume one-time code")
		return false, err
	}
	return true, nil
}

// Purge deletes codes that are used or expired and older than cutoff.
func (r *otpRepository) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.pool.Exec(ctx,
		`DELETE FROM otp_verifications WHERE created_at < $1 AND (is_used OR expires_at < now())`, cutoff)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to purge one-time codes")
		return 0, err
	}
	return tag.RowsAffected(), nil
}
