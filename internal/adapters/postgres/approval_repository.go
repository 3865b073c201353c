package postgres

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

var _ ports.ApprovalRepository = (*approvalRepository)(nil)

type approvalRepository struct {
	db     *DB
	secSvc ports.SecurityPort
	log    zerolog.Logger
}

// NewApprovalRepository creates the repo behind the admin gate.
func NewApprovalRepository(db *DB, secSvc ports.SecurityPort, baseLogger *zerolog.Logger) ports.ApprovalRepository {
	return &approvalRepository{
		db:     db,
		secSvc: secSvc,
		log:    baseLogger.With().Str("component", "approval_repo").Logger(),
	}
}

const pendingClause = `u.registration_completed AND NOT u.is_approved AND NOT u.is_admin`

// ListPending returns pending registrations, newest first.
func (r *approvalRepository) ListPending(ctx context.Context, page domain.PageRequest) (domain.Page[domain.DirectoryEntry], error) {
	w := &whereBuilder{}
	w.add(pendingClause)
	return r.list(ctx, w, page.Normalize())
}

// ListUsers lists non-admin users with optional search, occupation and approval filters.
func (r *approvalRepository) ListUsers(ctx context.Context, f domain.UserListFilter) (domain.Page[domain.DirectoryEntry], error) {
	w := &whereBuilder{}
	w.add(`NOT u.is_admin`)
	if f.Search != "" {
		p := w.arg(likePattern(f.Search))
		w.add(`(u.first_name ILIKE ` + p + ` OR u.last_name ILIKE ` + p +
			` OR u.email ILIKE ` + p + ` OR u.phone ILIKE ` + p + `)`)
	}
	if f.Occupation != "" {
		w.add(`u.occupation_type = ` + w.arg(string(f.Occupation)))
	}
	if f.Approved != nil {
		w.add(`u.is_approved = ` + w.arg(*f.Approved))
	}
	return r.list(ctx, w, f.PageRequest.Normalize())
}

func (r *approvalRepository) list(ctx context.Context, w *whereBuilder, page domain.PageRequest) (domain.Page[domain.DirectoryEntry], error) {
	out := domain.Page[domain.DirectoryEntry]{Page: page.Page, Limit: page.Limit}

	countQuery := `SELECT count(*) FROM users u` + w.sql()
	if err := r.db.pool.QueryRow(ctx, countQuery, w.args...).Scan(&out.Total); err != nil {
		r.log.Error().Err(err).Msg("Failed to count users")
		return out, err
	}

	limit := w.arg(page.Limit)
	offset := w.arg(page.Offset())
	query := `SELECT ` + entryCols + entryFrom + w.sql() +
		` ORDER BY u.created_at DESC LIMIT ` + limit + ` OFFSET ` + offset

	rows, err := r.db.pool.Query(ctx, query, w.args...)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query users")
		return out, err
	}
	out.Items, err = collectEntries(rows, r.secSvc)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to scan user rows")
		return out, err
	}
	return out, nil
}

// Approve is a single conditional update; a user that is missing, admin,
// incomplete or already approved yields nil.
func (r *approvalRepository) Approve(ctx context.Context, id uuid.UUID) (*ports.DecidedUser, error) {
	query := `
		UPDATE users SET is_approved = true, updated_at = now()
		WHERE id = $1 AND registration_completed AND NOT is_approved AND NOT is_admin
		RETURNING id, email, phone, COALESCE(first_name, '')
	`
	var d ports.DecidedUser
	err := r.db.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.Email, &d.Phone, &d.FirstName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error().Err(err).Str("user_id", id.String()).Msg("Failed to approve user")
		return nil, err
	}
	return &d, nil
}

// Reject deletes occupation rows, codes and then the user in one
// transaction. Admins are never deleted.
func (r *approvalRepository) Reject(ctx context.Context, id uuid.UUID) (*ports.DecidedUser, error) {
	var decided *ports.DecidedUser

	err := r.db.inTx(ctx, func(tx pgx.Tx) error {
		var d ports.DecidedUser
		err := tx.QueryRow(ctx, `
			SELECT id, email, phone, COALESCE(first_name, '')
			FROM users WHERE id = $1 AND NOT is_admin
			FOR UPDATE`, id,
		).Scan(&d.ID, &d.Email, &d.Phone, &d.FirstName)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}

		if err := deleteOccupations(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM otp_verifications WHERE user_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			return err
		}
		decided = &d
		return nil
	})
	if err != nil {
		r.log.Error().Err(err).Str("user_id", id.String()).Msg("Failed to reject user")
		return nil, err
	}
	return decided, nil
}

// ToggleSensitiveAccess negates the flag in place.
func (r *approvalRepository) ToggleSensitiveAccess(ctx context.Context, id uuid.UUID) (bool, error) {
	var granted bool
	err := r.db.pool.QueryRow(ctx, `
		UPDATE users SET can_view_sensitive = NOT can_view_sensitive, updated_at = now()
		WHERE id = $1
		RETURNING can_view_sensitive`, id,
	).Scan(&granted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		r.log.Error().Err(err).Str("user_id", id.String()).Msg("Failed to toggle sensitive access")
		return false, err
	}
	return granted, nil
}

// Stats counts completed registrations and the busiest villages.
func (r *approvalRepository) Stats(ctx context.Context) (*domain.AdminStats, error) {
	var s domain.AdminStats
	err := r.db.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE is_approved),
			count(*) FILTER (WHERE NOT is_approved AND NOT is_admin),
			count(*) FILTER (WHERE occupation_type = 'student'),
			count(*) FILTER (WHERE occupation_type = 'job'),
			count(*) FILTER (WHERE occupation_type = 'business')
		FROM users WHERE registration_completed`,
	).Scan(&s.TotalUsers, &s.ApprovedUsers, &s.PendingUsers, &s.Students, &s.Jobs, &s.Businesses)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to count stats")
		return nil, err
	}

	rows, err := r.db.pool.Query(ctx, `
		SELECT COALESCE(v.name, 'Unknown') AS name, count(*) AS n
		FROM users u LEFT JOIN villages v ON v.id = u.village_id
		WHERE u.registration_completed
		GROUP BY 1
		ORDER BY n DESC, name
		LIMIT $1`, domain.TopVillages)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query village distribution")
		return nil, err
	}
	s.VillageStats, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.VillageCount, error) {
		var vc domain.VillageCount
		err := row.Scan(&vc.Name, &vc.Count)
		return vc, err
	})
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to scan village distribution")
		return nil, err
	}
	return &s, nil
}

// Report returns completed registrations for export, newest first.
func (r *approvalRepository) Report(ctx context.Context, f domain.ReportFilter) ([]domain.ReportRow, error) {
	w := &whereBuilder{}
	w.add(`u.registration_completed`)
	if f.Occupation != "" {
		w.add(`u.occupation_type = ` + w.arg(string(f.Occupation)))
	}
	if f.VillageID != nil {
		w.add(`u.village_id = ` + w.arg(*f.VillageID))
	}

	rows, err := r.db.pool.Query(ctx, `SELECT `+entryCols+entryFrom+w.sql()+` ORDER BY u.created_at DESC`, w.args...)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query report rows")
		return nil, err
	}
	defer rows.Close()

	out := []domain.ReportRow{}
	for rows.Next() {
		row, err := scanReportRow(rows, r.secSvc)
		if err != nil {
			r.log.Error().Err(err).Msg("Failed to scan report row")
			return nil, err
		}
		out = append(out, *row)
	}
	return out, rows.Err()
}
