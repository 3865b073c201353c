package postgres

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

var _ ports.ReferenceRepository = (*referenceRepository)(nil)

type referenceRepository struct {
	db  *DB
	log zerolog.Logger
}

// NewReferenceRepository creates a repo over the seeded lookup tables.
func NewReferenceRepository(db *DB, baseLogger *zerolog.Logger) ports.ReferenceRepository {
	return &referenceRepository{
		db:  db,
		log: baseLogger.With().Str("component", "reference_repo").Logger(),
	}
}

func (r *referenceRepository) Villages(ctx context.Context) ([]domain.Village, error) {
	rows, err := r.db.pool.Query(ctx, `SELECT id, name, taluka, district FROM villages ORDER BY name`)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query villages")
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Village, error) {
		var v domain.Village
		err := row.Scan(&v.ID, &v.Name, &v.Taluka, &v.District)
		return v, err
	})
}

func (r *referenceRepository) Cities(ctx context.Context) ([]domain.City, error) {
	rows, err := r.db.pool.Query(ctx, `SELECT id, name, state FROM cities ORDER BY name`)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query cities")
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.City, error) {
		var c domain.City
		err := row.Scan(&c.ID, &c.Name, &c.State)
		return c, err
	})
}

// Colleges lists colleges with their city and offered courses.
func (r *referenceRepository) Colleges(ctx context.Context, f domain.CollegeFilter) ([]domain.College, error) {
	w := &whereBuilder{}
	w.contains(`ci.name`, f.CityName)
	if f.CityID > 0 {
		w.add(`c.city_id = ` + w.arg(f.CityID))
	}
	if f.Course != "" {
		w.add(`EXISTS (SELECT 1 FROM college_courses cc WHERE cc.college_id = c.id AND cc.course_name = ` + w.arg(f.Course) + `)`)
	}

	query := `
		SELECT c.id, c.name, c.type, c.city_id, ci.name, ci.state,
			COALESCE(array_agg(cc.course_name ORDER BY cc.course_name) FILTER (WHERE cc.course_name IS NOT NULL), '{}')
		FROM colleges c
		JOIN cities ci ON ci.id = c.city_id
		LEFT JOIN college_courses cc ON cc.college_id = c.id
	` + w.sql() + `
		GROUP BY c.id, ci.id
		ORDER BY c.name`

	rows, err := r.db.pool.Query(ctx, query, w.args...)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query colleges")
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.College, error) {
		var c domain.College
		err := row.Scan(&c.ID, &c.Name, &c.Type, &c.CityID, &c.CityName, &c.State, &c.Courses)
		return c, err
	})
}

func (r *referenceRepository) CollegeCourses(ctx context.Context, collegeID int64) ([]string, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT course_name FROM college_courses WHERE college_id = $1 ORDER BY course_name`, collegeID)
	if err != nil {
		r.log.Error().Err(err).Int64("college_id", collegeID).Msg("Failed to query college courses")
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *referenceRepository) Departments(ctx context.Context) ([]domain.Department, error) {
	rows, err := r.db.pool.Query(ctx, `SELECT id, name, category FROM departments ORDER BY name`)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query departments")
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Department, error) {
		var d domain.Department
		err := row.Scan(&d.ID, &d.Name, &d.Category)
		return d, err
	})
}

func (r *referenceRepository) SubDepartments(ctx context.Context, departmentID int64, departmentName string) ([]domain.SubDepartment, error) {
	w := &whereBuilder{}
	if departmentID > 0 {
		w.add(`s.department_id = ` + w.arg(departmentID))
	} else if departmentName != "" {
		w.add(`d.name = ` + w.arg(departmentName))
	}

	rows, err := r.db.pool.Query(ctx, `
		SELECT s.id, s.name, s.department_id
		FROM sub_departments s JOIN departments d ON d.id = s.department_id`+w.sql()+`
		ORDER BY s.name`, w.args...)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to query sub-departments")
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SubDepartment, error) {
		var s domain.SubDepartment
		err := row.Scan(&s.ID, &s.Name, &s.DepartmentID)
		return s, err
	})
}
