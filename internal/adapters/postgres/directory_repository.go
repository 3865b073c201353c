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

var _ ports.DirectoryRepository = (*directoryRepository)(nil)

type directoryRepository struct {
	db     *DB
	secSvc ports.SecurityPort
	log    zerolog.Logger
}

// NewDirectoryRepository creates the read-only directory repo.
func NewDirectoryRepository(db *DB, secSvc ports.SecurityPort, baseLogger *zerolog.Logger) ports.DirectoryRepository {
	return &directoryRepository{
		db:     db,
		secSvc: secSvc,
		log:    baseLogger.With().Str("component", "directory_repo").Logger(),
	}
}

// searchWhere turns the filter into SQL predicates over entryFrom.
// Variant-specific filters only match users of that variant.
func searchWhere(f domain.DirectoryFilter) *whereBuilder {
	w := &whereBuilder{}
	w.add(`u.is_approved`)
	w.contains(`v.name`, f.Village)
	if f.Occupation != "" {
		w.add(`u.occupation_type = ` + w.arg(string(f.Occupation)))
	}
	if f.Name != "" {
		p := w.arg(likePattern(f.Name))
		w.add(`(u.first_name ILIKE ` + p + ` OR u.middle_name ILIKE ` + p + ` OR u.last_name ILIKE ` + p + `)`)
	}

	w.contains(`sd.college_name`, f.College)
	w.contains(`sd.department`, f.Course)
	w.contains(`sd.sub_department`, f.Specialization)
	w.equalFold(`sd.department`, f.Department)
	w.contains(`jd.company_name`, f.Company)
	w.contains(`jd.field`, f.JobField)
	w.contains(`bd.business_type`, f.BusinessType)

	if f.College != "" || f.Course != "" || f.Specialization != "" || f.Department != "" {
		w.add(`u.occupation_type = 'student'`)
	}
	if f.Company != "" || f.JobField != "" {
		w.add(`u.occupation_type = 'job'`)
	}
	if f.BusinessType != "" {
		w.add(`u.occupation_type = 'business'`)
	}

	if f.Field != "" {
		p := w.arg(f.Field)
		w.add(`((u.occupation_type = 'student' AND lower(sd.sub_department) = lower(` + p + `))` +
			` OR (u.occupation_type = 'job' AND lower(jd.field) = lower(` + p + `))` +
			` OR (u.occupation_type = 'business' AND lower(bd.business_field) = lower(` + p + `)))`)
	}
	return w
}

// Search pushes every predicate into SQL so the total is exact.
func (r *directoryRepository) Search(ctx context.Context, f domain.DirectoryFilter) (domain.Page[domain.DirectoryEntry], error) {
	page := f.PageRequest.Normalize()
	out := domain.Page[domain.DirectoryEntry]{Page: page.Page, Limit: page.Limit}
	w := searchWhere(f)

	if err := r.db.pool.QueryRow(ctx, `SELECT count(*)`+entryFrom+w.sql(), w.args...).Scan(&out.Total); err != nil {
		r.log.Error().Err(err).Msg("Failed to count search results")
		return out, err
	}

	limit := w.arg(page.Limit)
	offset := w.arg(page.Offset())
	query := `SELECT ` + entryCols + entryFrom + w.sql() +
		` ORDER BY u.created_at DESC LIMIT ` + limit + ` OFFSET ` + offset

	rows, err := r.db.pool.Query(ctx, query, w.args...)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to run search")
		return out, err
	}
	out.Items, err = collectEntries(rows, r.secSvc)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to scan search results")
		return out, err
	}
	return out, nil
}

// GetApproved returns nil, nil unless the user exists and is approved.
func (r *directoryRepository) GetApproved(ctx context.Context, id uuid.UUID) (*domain.DirectoryEntry, error) {
	row := r.db.pool.QueryRow(ctx, `SELECT `+entryCols+entryFrom+` WHERE u.id = $1 AND u.is_approved`, id)
	res, err := scanReportRow(row, r.secSvc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error().Err(err).Str("user_id", id.String()).Msg("Failed to load member")
		return nil, err
	}
	return &res.DirectoryEntry, nil
}

// PublicStats counts approved members per variant and all villages.
func (r *directoryRepository) PublicStats(ctx context.Context) (*domain.PublicStats, error) {
	var s domain.PublicStats
	err := r.db.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE occupation_type = 'student'),
			count(*) FILTER (WHERE occupation_type = 'job'),
			count(*) FILTER (WHERE occupation_type = 'business'),
			(SELECT count(*) FROM villages)
		FROM users WHERE registration_completed AND is_approved`,
	).Scan(&s.TotalUsers, &s.TotalStudents, &s.TotalJobProfessionals, &s.TotalBusinessOwners, &s.TotalVillages)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to count public stats")
		return nil, err
	}
	return &s, nil
}
