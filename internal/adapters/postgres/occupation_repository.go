package postgres

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

var _ ports.OccupationRepository = (*occupationRepository)(nil)

type occupationRepository struct {
	db  *DB
	log zerolog.Logger
}

// NewOccupationRepository creates a repo for occupation detail rows.
func NewOccupationRepository(db *DB, baseLogger *zerolog.Logger) ports.OccupationRepository {
	return &occupationRepository{
		db:  db,
		log: baseLogger.With().Str("component", "occupation_repo").Logger(),
	}
}

// occupationTables lists every variant table, in delete order.
var occupationTables = []string{"student_details", "job_details", "business_details"}

// GetByUserID loads the variant of type t for the user.
func (r *occupationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, t domain.OccupationType) (domain.Occupation, error) {
	var (
		occ domain.Occupation
		err error
	)

	switch t {
	case domain.OccupationStudent:
		var d domain.StudentDetail
		err = r.db.pool.QueryRow(ctx, `
			SELECT department, sub_department, college_city, college_name,
				year_of_study, expected_graduation, additional_info
			FROM student_details WHERE user_id = $1`, userID,
		).Scan(&d.Department, &d.SubDepartment, &d.CollegeCity, &d.CollegeName,
			&d.YearOfStudy, &d.ExpectedGraduation, &d.AdditionalInfo)
		occ = &d
	case domain.OccupationJob:
		var d domain.JobDetail
		err = r.db.pool.QueryRow(ctx, `
			SELECT graduation_year, college_city, college_name, department, graduation_branch,
				working_city, company_name, designation, field, experience_years, additional_info
			FROM job_details WHERE user_id = $1`, userID,
		).Scan(&d.GraduationYear, &d.CollegeCity, &d.CollegeName, &d.Department, &d.GraduationBranch,
			&d.WorkingCity, &d.CompanyName, &d.Designation, &d.Field, &d.ExperienceYears, &d.AdditionalInfo)
		occ = &d
	case domain.OccupationBusiness:
		var d domain.BusinessDetail
		err = r.db.pool.QueryRow(ctx, `
			SELECT business_name, business_type, business_field, business_city, business_address,
				years_in_business, employees_count, website, additional_info
			FROM business_details WHERE user_id = $1`, userID,
		).Scan(&d.BusinessName, &d.BusinessType, &d.BusinessField, &d.BusinessCity, &d.BusinessAddress,
			&d.YearsInBusiness, &d.EmployeesCount, &d.Website, &d.AdditionalInfo)
		occ = &d
	default:
		return nil, nil
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.log.Error().Err(err).Str("user_id", userID.String()).Str("type", string(t)).Msg("Failed to load occupation detail")
		return nil, err
	}
	return occ, nil
}

// Save overwrites the user's row for occ's variant.
func (r *occupationRepository) Save(ctx context.Context, userID uuid.UUID, occ domain.Occupation) error {
	if err := upsertOccupation(ctx, r.db.pool, userID, occ); err != nil {
		r.log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to save occupation detail")
		return err
	}
	return nil
}

// replaceOccupation deletes every variant row for the user and inserts occ.
// Callers run it inside a transaction.
func replaceOccupation(ctx context.Context, q querier, userID uuid.UUID, occ domain.Occupation) error {
	if err := deleteOccupations(ctx, q, userID); err != nil {
		return err
	}
	return upsertOccupation(ctx, q, userID, occ)
}

func deleteOccupations(ctx context.Context, q querier, userID uuid.UUID) error {
	for _, table := range occupationTables {
		if _, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

func upsertOccupation(ctx context.Context, q querier, userID uuid.UUID, occ domain.Occupation) error {
	var err error
	switch d := occ.(type) {
	case *domain.StudentDetail:
		_, err = q.Exec(ctx, `
			INSERT INTO student_details (user_id, department, sub_department, college_city, college_name,
				year_of_study, expected_graduation, additional_info)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (user_id) DO UPDATE SET
				department = EXCLUDED.department, sub_department = EXCLUDED.sub_department,
				college_city = EXCLUDED.college_city, college_name = EXCLUDED.college_name,
				year_of_study = EXCLUDED.year_of_study, expected_graduation = EXCLUDED.expected_graduation,
				additional_info = EXCLUDED.additional_info, updated_at = now()`,
			userID, d.Department, d.SubDepartment, d.CollegeCity, d.CollegeName,
			d.YearOfStudy, d.ExpectedGraduation, d.AdditionalInfo)
	case *domain.JobDetail:
		_, err = q.Exec(ctx, `
			INSERT INTO job_details (user_id, graduation_year, college_city, college_name, department,
				graduation_branch, working_city, company_name, designation, field, experience_years, additional_info)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (user_id) DO UPDATE SET
				graduation_year = EXCLUDED.graduation_year, college_city = EXCLUDED.college_city,
				college_name = EXCLUDED.college_name, department = EXCLUDED.department,
				graduation_branch = EXCLUDED.graduation_branch, working_city = EXCLUDED.working_city,
				company_name = EXCLUDED.company_name, designation = EXCLUDED.designation,
				field = EXCLUDED.field, experience_years = EXCLUDED.experience_years,
				additional_info = EXCLUDED.additional_info, updated_at = now()`,
			userID, d.GraduationYear, d.CollegeCity, d.CollegeName, d.Department,
			d.GraduationBranch, d.WorkingCity, d.CompanyName, d.Designation, d.Field, d.ExperienceYears, d.AdditionalInfo)
	case *domain.BusinessDetail:
		_, err = q.Exec(ctx, `
			INSERT INTO business_details (user_id, business_name, business_type, business_field, business_city,
				business_address, years_in_business, employees_count, website, additional_info)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (user_id) DO UPDATE SET
				business_name = EXCLUDED.business_name, business_type = EXCLUDED.business_type,
				business_field = EXCLUDED.business_field, business_city = EXCLUDED.business_city,
				business_address = EXCLUDED.business_address, years_in_business = EXCLUDED.years_in_business,
				employees_count = EXCLUDED.employees_count, website = EXCLUDED.website,
				additional_info = EXCLUDED.additional_info, updated_at = now()`,
			userID, d.BusinessName, d.BusinessType, d.BusinessField, d.BusinessCity,
			d.BusinessAddress, d.YearsInBusiness, d.EmployeesCount, d.Website, d.AdditionalInfo)
	default:
		return fmt.Errorf("unsupported occupation variant %T", occ)
	}
	return err
}
