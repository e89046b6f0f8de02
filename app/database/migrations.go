package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type migration struct {
	name  string
	query string
}

// schema is applied in order; every statement is idempotent.
var schema = []migration{
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password TEXT NOT NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			phone VARCHAR(20) NOT NULL DEFAULT '',
			role VARCHAR(20) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"refresh_tokens", `
		CREATE TABLE IF NOT EXISTS refresh_tokens (
			id BIGSERIAL PRIMARY KEY,
			token VARCHAR(64) NOT NULL UNIQUE,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			revoked BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"departments", `
		CREATE TABLE IF NOT EXISTS departments (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			code VARCHAR(20) NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'Active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"teachers", `
		CREATE TABLE IF NOT EXISTS teachers (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
			staff_no VARCHAR(50) NOT NULL UNIQUE,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(20) NOT NULL DEFAULT '',
			department_id BIGINT REFERENCES departments(id),
			qualification VARCHAR(100) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'Active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"parents", `
		CREATE TABLE IF NOT EXISTS parents (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(20) NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			occupation VARCHAR(100) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"classes", `
		CREATE TABLE IF NOT EXISTS classes (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(50) NOT NULL UNIQUE,
			level VARCHAR(50) NOT NULL,
			form_teacher_id BIGINT REFERENCES teachers(id) ON DELETE SET NULL,
			capacity INTEGER NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'Active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"students", `
		CREATE TABLE IF NOT EXISTS students (
			id BIGSERIAL PRIMARY KEY,
			admission_no VARCHAR(50) NOT NULL UNIQUE,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			gender VARCHAR(10) NOT NULL,
			date_of_birth DATE,
			class_id BIGINT REFERENCES classes(id),
			parent_id BIGINT REFERENCES parents(id) ON DELETE SET NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'Active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"subjects", `
		CREATE TABLE IF NOT EXISTS subjects (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			code VARCHAR(20) NOT NULL UNIQUE,
			department_id BIGINT REFERENCES departments(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"subject_assignments", `
		CREATE TABLE IF NOT EXISTS subject_assignments (
			id BIGSERIAL PRIMARY KEY,
			subject_id BIGINT NOT NULL REFERENCES subjects(id),
			class_id BIGINT NOT NULL REFERENCES classes(id),
			teacher_id BIGINT REFERENCES teachers(id) ON DELETE SET NULL,
			session VARCHAR(9) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"scores", `
		CREATE TABLE IF NOT EXISTS scores (
			id BIGSERIAL PRIMARY KEY,
			student_id BIGINT NOT NULL REFERENCES students(id),
			assignment_id BIGINT NOT NULL REFERENCES subject_assignments(id),
			class_id BIGINT NOT NULL REFERENCES classes(id),
			subject_id BIGINT NOT NULL REFERENCES subjects(id),
			term VARCHAR(20) NOT NULL,
			session VARCHAR(9) NOT NULL,
			ca1 NUMERIC(5,2) NOT NULL DEFAULT 0,
			ca2 NUMERIC(5,2) NOT NULL DEFAULT 0,
			exam NUMERIC(5,2) NOT NULL DEFAULT 0,
			total NUMERIC(5,2) NOT NULL DEFAULT 0,
			grade VARCHAR(2) NOT NULL,
			remark VARCHAR(50) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, assignment_id, term, session)
		)`},
	{"fee_structures", `
		CREATE TABLE IF NOT EXISTS fee_structures (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			class_id BIGINT NOT NULL REFERENCES classes(id),
			term VARCHAR(20) NOT NULL,
			session VARCHAR(9) NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"scholarships", `
		CREATE TABLE IF NOT EXISTS scholarships (
			id BIGSERIAL PRIMARY KEY,
			student_id BIGINT NOT NULL REFERENCES students(id),
			name VARCHAR(100) NOT NULL,
			term VARCHAR(20) NOT NULL,
			session VARCHAR(9) NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"payments", `
		CREATE TABLE IF NOT EXISTS payments (
			id BIGSERIAL PRIMARY KEY,
			student_id BIGINT NOT NULL REFERENCES students(id),
			amount NUMERIC(12,2) NOT NULL,
			method VARCHAR(20) NOT NULL,
			term VARCHAR(20) NOT NULL,
			session VARCHAR(9) NOT NULL,
			reference VARCHAR(100) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'Pending',
			recorded_by BIGINT NOT NULL,
			verified_by BIGINT,
			verified_at TIMESTAMPTZ,
			paid_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"attendance", `
		CREATE TABLE IF NOT EXISTS attendance (
			id BIGSERIAL PRIMARY KEY,
			student_id BIGINT NOT NULL REFERENCES students(id),
			class_id BIGINT NOT NULL REFERENCES classes(id),
			date DATE NOT NULL,
			term VARCHAR(20) NOT NULL,
			session VARCHAR(9) NOT NULL,
			status VARCHAR(10) NOT NULL,
			marked_by BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, date)
		)`},
	{"notifications", `
		CREATE TABLE IF NOT EXISTS notifications (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(200) NOT NULL,
			message TEXT NOT NULL,
			type VARCHAR(50) NOT NULL DEFAULT '',
			audience VARCHAR(20) NOT NULL DEFAULT 'user',
			sent_by BIGINT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT false,
			read_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"indexes", `
		CREATE INDEX IF NOT EXISTS idx_students_class ON students (class_id);
		CREATE INDEX IF NOT EXISTS idx_scores_class_term ON scores (class_id, term, session);
		CREATE INDEX IF NOT EXISTS idx_payments_student_term ON payments (student_id, term, session);
		CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, is_read)`},
}

// RunMigrations checks and applies the schema.
func RunMigrations(ctx context.Context, db *sqlx.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	for _, m := range schema {
		if _, err := db.ExecContext(ctx, m.query); err != nil {
			log.Error("migration failed", zap.String("migration", m.name), zap.Error(err))
			return errors.Wrapf(err, "migration %s", m.name)
		}
	}
	log.Info("database migrations completed", zap.Int("count", len(schema)))
	return nil
}
