package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorhub/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestFindByLogin(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "student_id", "teacher_id", "last_login"}).
		AddRow(2, "mila", "mila@example.com", "hash", "student", 3, nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password_hash, role, student_id, teacher_id, last_login FROM users WHERE LOWER(email) = LOWER($1) OR LOWER(name) = LOWER($1)")).
		WithArgs("Mila").
		WillReturnRows(rows)

	account, err := repo.FindByLogin(context.Background(), "Mila")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, account.Role)
	require.NotNil(t, account.StudentID)
	assert.Equal(t, int64(3), *account.StudentID)
	assert.Nil(t, account.TeacherID)
	assert.Nil(t, account.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByLoginNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("FROM users").WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByLogin(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkLoggedIn(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	ts := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET last_login = $2 WHERE id = $1")).
		WithArgs(int64(2), ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkLoggedIn(context.Background(), 2, ts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindProfiles(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "phone"}).AddRow(3, "Mila Petrović", "mila@example.com", ""))
	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnError(sql.ErrNoRows)

	student, err := NewStudentRepository(db).FindStudent(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Mila Petrović", student.FullName)

	_, err = NewTeacherRepository(db).FindTeacher(context.Background(), 9)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
