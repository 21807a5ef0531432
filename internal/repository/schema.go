package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Schema creates the tables the sandbox backend reads and writes.
const Schema = `
CREATE TABLE IF NOT EXISTS students (
	id BIGSERIAL PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT,
	phone TEXT
);
CREATE TABLE IF NOT EXISTS teachers (
	id BIGSERIAL PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT,
	phone TEXT
);
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL CHECK (role IN ('student', 'teacher', 'admin')),
	student_id BIGINT REFERENCES students(id),
	teacher_id BIGINT REFERENCES teachers(id),
	last_login TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS courses (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS class_sessions (
	id BIGSERIAL PRIMARY KEY,
	date DATE NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	location TEXT NOT NULL DEFAULT '',
	course_id BIGINT REFERENCES courses(id),
	teacher_id BIGINT REFERENCES teachers(id)
);
CREATE TABLE IF NOT EXISTS attendances (
	id BIGSERIAL PRIMARY KEY,
	class_session_id BIGINT NOT NULL REFERENCES class_sessions(id),
	student_id BIGINT REFERENCES students(id),
	teacher_id BIGINT REFERENCES teachers(id),
	status TEXT NOT NULL DEFAULT '',
	confirmation_status TEXT NOT NULL DEFAULT 'pending',
	CHECK ((student_id IS NULL) <> (teacher_id IS NULL))
);
CREATE INDEX IF NOT EXISTS idx_class_sessions_date ON class_sessions(date);
CREATE INDEX IF NOT EXISTS idx_attendances_session ON attendances(class_session_id);
`

// Migrate applies Schema.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
