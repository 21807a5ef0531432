package repository

import "github.com/jmoiron/sqlx"

// PostgresStore bundles the Postgres repositories so that they can stand in
// for a MemoryStore.
type PostgresStore struct {
	*UserRepository
	*StudentRepository
	*TeacherRepository
	*AttendanceRepository
	*ClassSessionRepository
}

// NewPostgresStore builds every repository on db.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{
		UserRepository:         NewUserRepository(db),
		StudentRepository:      NewStudentRepository(db),
		TeacherRepository:      NewTeacherRepository(db),
		AttendanceRepository:   NewAttendanceRepository(db),
		ClassSessionRepository: NewClassSessionRepository(db),
	}
}
