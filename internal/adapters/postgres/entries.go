package postgres

import (
	"CommunityDirectory/internal/core/domain"
	"CommunityDirectory/internal/core/ports"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// entryCols selects a user joined with its village and every variant
// table. Only the variant matching occupation_type is attached on scan.
const entryCols = `
	u.id, COALESCE(u.first_name, ''), COALESCE(u.middle_name, ''), COALESCE(u.last_name, ''),
	COALESCE(u.gender, ''), u.phone, u.email, u.current_address,
	u.village_id, COALESCE(v.name, ''), COALESCE(v.taluka, ''), COALESCE(v.district, ''),
	COALESCE(u.occupation_type, ''), u.is_approved, u.registration_completed, u.can_view_sensitive, u.created_at,
	sd.user_id IS NOT NULL, COALESCE(sd.department, ''), COALESCE(sd.sub_department, ''),
	COALESCE(sd.college_city, ''), COALESCE(sd.college_name, ''), COALESCE(sd.year_of_study, ''),
	COALESCE(sd.expected_graduation, ''), COALESCE(sd.additional_info, ''),
	jd.user_id IS NOT NULL, COALESCE(jd.graduation_year, ''), COALESCE(jd.college_city, ''),
	COALESCE(jd.college_name, ''), COALESCE(jd.department, ''), COALESCE(jd.graduation_branch, ''),
	COALESCE(jd.working_city, ''), COALESCE(jd.company_name, ''), COALESCE(jd.designation, ''),
	COALESCE(jd.field, ''), jd.experience_years, COALESCE(jd.additional_info, ''),
	bd.user_id IS NOT NULL, COALESCE(bd.business_name, ''), COALESCE(bd.business_type, ''),
	COALESCE(bd.business_field, ''), COALESCE(bd.business_city, ''), COALESCE(bd.business_address, ''),
	bd.years_in_business, bd.employees_count, COALESCE(bd.website, ''), COALESCE(bd.additional_info, '')
`

const entryFrom = `
	FROM users u
	LEFT JOIN villages v ON v.id = u.village_id
	LEFT JOIN student_details sd ON sd.user_id = u.id
	LEFT JOIN job_details jd ON jd.user_id = u.id
	LEFT JOIN business_details bd ON bd.user_id = u.id
`

// scanReportRow scans entryCols and decrypts the address.
func scanReportRow(row pgx.Row, sec ports.SecurityPort) (*domain.ReportRow, error) {
	var out domain.ReportRow
	var encAddress *string
	var hasSD, hasJD, hasBD bool
	var sd domain.StudentDetail
	var jd domain.JobDetail
	var bd domain.BusinessDetail
	e := &out.DirectoryEntry

	err := row.Scan(
		&e.ID, &e.FirstName, &e.MiddleName, &e.LastName,
		&e.Gender, &e.Phone, &e.Email, &encAddress,
		&e.VillageID, &e.VillageName, &out.Taluka, &out.District,
		&e.OccupationType, &e.IsApproved, &e.RegistrationCompleted, &e.CanViewSensitive, &e.CreatedAt,
		&hasSD, &sd.Department, &sd.SubDepartment,
		&sd.CollegeCity, &sd.CollegeName, &sd.YearOfStudy,
		&sd.ExpectedGraduation, &sd.AdditionalInfo,
		&hasJD, &jd.GraduationYear, &jd.CollegeCity,
		&jd.CollegeName, &jd.Department, &jd.GraduationBranch,
		&jd.WorkingCity, &jd.CompanyName, &jd.Designation,
		&jd.Field, &jd.ExperienceYears, &jd.AdditionalInfo,
		&hasBD, &bd.BusinessName, &bd.BusinessType,
		&bd.BusinessField, &bd.BusinessCity, &bd.BusinessAddress,
		&bd.YearsInBusiness, &bd.EmployeesCount, &bd.Website, &bd.AdditionalInfo,
	)
	if err != nil {
		return nil, err
	}

	e.CurrentAddress, err = openText(sec, encAddress)
	if err != nil {
		return nil, fmt.Errorf("decrypt address of %s: %w", e.ID, err)
	}

	switch e.OccupationType {
	case domain.OccupationStudent:
		if hasSD {
			e.Occupation = &sd
		}
	case domain.OccupationJob:
		if hasJD {
			e.Occupation = &jd
		}
	case domain.OccupationBusiness:
		if hasBD {
			e.Occupation = &bd
		}
	}
	return &out, nil
}

func collectEntries(rows pgx.Rows, sec ports.SecurityPort) ([]domain.DirectoryEntry, error) {
	defer rows.Close()

	entries := []domain.DirectoryEntry{}
	for rows.Next() {
		r, err := scanReportRow(rows, sec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, r.DirectoryEntry)
	}
	return entries, rows.Err()
}

// whereBuilder accumulates AND-ed predicates with positional args.
type whereBuilder struct {
	clauses []string
	args    []any
}

// arg binds v and returns its placeholder.
func (w *whereBuilder) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *whereBuilder) add(clause string) {
	w.clauses = append(w.clauses, clause)
}

// contains adds a case-insensitive substring match on col.
func (w *whereBuilder) contains(col, value string) {
	if value == "" {
		return
	}
	w.add(col + ` ILIKE ` + w.arg(likePattern(value)))
}

// equalFold adds a case-insensitive whole-value match on col.
func (w *whereBuilder) equalFold(col, value string) {
	if value == "" {
		return
	}
	w.add(`lower(` + col + `) = lower(` + w.arg(value) + `)`)
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return ` WHERE ` + strings.Join(w.clauses, ` AND `)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s for ILIKE with its wildcards escaped.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
