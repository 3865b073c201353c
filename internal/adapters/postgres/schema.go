package postgres

import "context"

// schemaStatements are idempotent; EnsureSchema runs them on every boot.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS villages (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		taluka TEXT NOT NULL DEFAULT '',
		district TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		phone TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT,
		middle_name TEXT,
		last_name TEXT,
		gender TEXT,
		village_id BIGINT REFERENCES villages(id),
		current_address TEXT,
		occupation_type TEXT CHECK (occupation_type IN ('student', 'job', 'business')),
		profile_photo TEXT,
		phone_verified BOOLEAN NOT NULL DEFAULT false,
		email_verified BOOLEAN NOT NULL DEFAULT false,
		registration_completed BOOLEAN NOT NULL DEFAULT false,
		is_approved BOOLEAN NOT NULL DEFAULT false,
		is_admin BOOLEAN NOT NULL DEFAULT false,
		can_view_sensitive BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (NOT is_approved OR registration_completed)
	)`,
	`CREATE INDEX IF NOT EXISTS users_pending_idx ON users (created_at DESC)
		WHERE registration_completed AND NOT is_approved AND NOT is_admin`,
	`CREATE TABLE IF NOT EXISTS student_details (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		department TEXT NOT NULL DEFAULT '',
		sub_department TEXT NOT NULL DEFAULT '',
		college_city TEXT NOT NULL DEFAULT '',
		college_name TEXT NOT NULL DEFAULT '',
		year_of_study TEXT NOT NULL DEFAULT '',
		expected_graduation TEXT NOT NULL DEFAULT '',
		additional_info TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS job_details (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		graduation_year TEXT NOT NULL DEFAULT '',
		college_city TEXT NOT NULL DEFAULT '',
		college_name TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT '',
		graduation_branch TEXT NOT NULL DEFAULT '',
		working_city TEXT NOT NULL DEFAULT '',
		company_name TEXT NOT NULL DEFAULT '',
		designation TEXT NOT NULL DEFAULT '',
		field TEXT NOT NULL DEFAULT '',
		experience_years INTEGER,
		additional_info TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS business_details (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		business_name TEXT NOT NULL DEFAULT '',
		business_type TEXT NOT NULL DEFAULT '',
		business_field TEXT NOT NULL DEFAULT '',
		business_city TEXT NOT NULL DEFAULT '',
		business_address TEXT NOT NULL DEFAULT '',
		years_in_business INTEGER,
		employees_count INTEGER,
		website TEXT NOT NULL DEFAULT '',
		additional_info TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS otp_verifications (
		id UUID PRIMARY KEY,
		user_id UUID REFERENCES users(id) ON DELETE CASCADE,
		contact TEXT NOT NULL,
		purpose TEXT NOT NULL CHECK (purpose IN ('phone', 'email')),
		code TEXT NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		is_used BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS otp_user_purpose_idx ON otp_verifications (user_id, purpose, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS otp_contact_purpose_idx ON otp_verifications (contact, purpose, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS cities (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		state TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS colleges (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		city_id BIGINT NOT NULL REFERENCES cities(id),
		type TEXT NOT NULL DEFAULT '',
		UNIQUE (name, city_id)
	)`,
	`CREATE TABLE IF NOT EXISTS college_courses (
		id BIGSERIAL PRIMARY KEY,
		college_id BIGINT NOT NULL REFERENCES colleges(id),
		course_name TEXT NOT NULL,
		UNIQUE (college_id, course_name)
	)`,
	`CREATE TABLE IF NOT EXISTS departments (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS sub_departments (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		department_id BIGINT NOT NULL REFERENCES departments(id),
		UNIQUE (name, department_id)
	)`,
}

// EnsureSchema creates any missing tables and indexes.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			db.log.Error().Err(err).Msg("Failed to apply schema statement")
			return err
		}
	}
	db.log.Info().Int("statements", len(schemaStatements)).Msg("Database schema ensured")
	return nil
}
