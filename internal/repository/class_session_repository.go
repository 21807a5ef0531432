package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutorhub/internal/models"
)

// ClassSessionRepository reads scheduled sessions.
type ClassSessionRepository struct {
	db *sqlx.DB
}

// NewClassSessionRepository creates a ClassSessionRepository.
func NewClassSessionRepository(db *sqlx.DB) *ClassSessionRepository {
	return &ClassSessionRepository{db: db}
}

type classSessionRow struct {
	ID          int64          `db:"id"`
	Date        string         `db:"date"`
	StartTime   string         `db:"start_time"`
	EndTime     string         `db:"end_time"`
	Location    string         `db:"location"`
	CourseID    sql.NullInt64  `db:"course_id"`
	CourseName  sql.NullString `db:"course_name"`
	CourseType  sql.NullString `db:"course_type"`
	TeacherID   sql.NullInt64  `db:"teacher_id"`
	TeacherName sql.NullString `db:"teacher_name"`
}

// ListByDate returns the sessions on date (YYYY-MM-DD) ordered by start time.
func (r *ClassSessionRepository) ListByDate(ctx context.Context, date string) ([]models.ClassSession, error) {
	const query = `SELECT cs.id, to_char(cs.date, 'YYYY-MM-DD') AS date, cs.start_time, cs.end_time, cs.location,
		cs.course_id, c.name AS course_name, c.type AS course_type,
		cs.teacher_id, t.full_name AS teacher_name
		FROM class_sessions cs
		LEFT JOIN courses c ON c.id = cs.course_id
		LEFT JOIN teachers t ON t.id = cs.teacher_id
		WHERE cs.date = $1
		ORDER BY cs.start_time, cs.id`
	var rows []classSessionRow
	if err := r.db.SelectContext(ctx, &rows, query, date); err != nil {
		return nil, fmt.Errorf("list class sessions: %w", err)
	}

	sessions := make([]models.ClassSession, 0, len(rows))
	for _, row := range rows {
		cs := models.ClassSession{
			ID:        row.ID,
			Date:      row.Date,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			Location:  row.Location,
		}
		if row.CourseID.Valid {
			cs.CourseID = row.CourseID.Int64
			cs.Course = &models.Course{ID: row.CourseID.Int64, Name: row.CourseName.String, Type: row.CourseType.String}
		}
		if row.TeacherID.Valid {
			id := row.TeacherID.Int64
			cs.TeacherID = &id
			cs.Teacher = &models.TeacherSummary{ID: id, FullName: row.TeacherName.String}
		}
		sessions = append(sessions, cs)
	}
	return sessions, nil
}

// SessionDate returns the calendar date of a session.
func (r *ClassSessionRepository) SessionDate(ctx context.Context, sessionID int64) (string, error) {
	const query = `SELECT to_char(date, 'YYYY-MM-DD') FROM class_sessions WHERE id = $1`
	var date string
	if err := r.db.GetContext(ctx, &date, query, sessionID); err != nil {
		if err == sql.ErrNoRows {
			return "", err
		}
		return "", fmt.Errorf("find session date: %w", err)
	}
	return date, nil
}
