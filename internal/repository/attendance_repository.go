package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutorhub/internal/models"
)

const attendanceColumns = `id, class_session_id, student_id, teacher_id, status, confirmation_status`

// AttendanceRepository reads and updates attendance rows.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

type attendanceRow struct {
	ID                 int64         `db:"id"`
	ClassSessionID     int64         `db:"class_session_id"`
	StudentID          sql.NullInt64 `db:"student_id"`
	TeacherID          sql.NullInt64 `db:"teacher_id"`
	Status             string        `db:"status"`
	ConfirmationStatus string        `db:"confirmation_status"`
}

func (r attendanceRow) toModel() models.AttendanceRecord {
	rec := models.AttendanceRecord{
		ID:                 r.ID,
		ClassSessionID:     r.ClassSessionID,
		Status:             models.AttendanceStatus(r.Status),
		ConfirmationStatus: models.ConfirmationStatus(r.ConfirmationStatus),
	}
	if r.StudentID.Valid {
		id := r.StudentID.Int64
		rec.StudentID = &id
	}
	if r.TeacherID.Valid {
		id := r.TeacherID.Int64
		rec.TeacherID = &id
	}
	return rec
}

type studentAttendanceRow struct {
	attendanceRow
	Date        string         `db:"date"`
	StartTime   string         `db:"start_time"`
	EndTime     string         `db:"end_time"`
	Location    string         `db:"location"`
	CourseID    sql.NullInt64  `db:"course_id"`
	CourseName  sql.NullString `db:"course_name"`
	CourseType  sql.NullString `db:"course_type"`
	TeacherRef  sql.NullInt64  `db:"teacher_ref"`
	TeacherName sql.NullString `db:"teacher_name"`
}

// UpdateAttendanceStatus sets status on the row binding kind/subjectID to
// sessionID. It returns sql.ErrNoRows when the subject is not enrolled.
func (r *AttendanceRepository) UpdateAttendanceStatus(ctx context.Context, sessionID int64, kind models.SubjectKind, subjectID int64, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	query := `UPDATE attendances SET status = $1 WHERE class_session_id = $2 AND student_id = $3 RETURNING ` + attendanceColumns
	if kind == models.SubjectTeacher {
		query = `UPDATE attendances SET status = $1 WHERE class_session_id = $2 AND teacher_id = $3 RETURNING ` + attendanceColumns
	}
	var row attendanceRow
	if err := r.db.GetContext(ctx, &row, query, string(status), sessionID, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update attendance status: %w", err)
	}
	rec := row.toModel()
	return &rec, nil
}

// UpdateConfirmationStatus records a student's answer for a session.
func (r *AttendanceRepository) UpdateConfirmationStatus(ctx context.Context, sessionID, studentID int64, status models.ConfirmationStatus) (*models.AttendanceRecord, error) {
	query := `UPDATE attendances SET confirmation_status = $1 WHERE class_session_id = $2 AND student_id = $3 RETURNING ` + attendanceColumns
	var row attendanceRow
	if err := r.db.GetContext(ctx, &row, query, string(status), sessionID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update confirmation status: %w", err)
	}
	rec := row.toModel()
	return &rec, nil
}

// ListByStudent returns a student's rows joined with their sessions.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error) {
	const query = `SELECT a.id, a.class_session_id, a.student_id, a.teacher_id, a.status, a.confirmation_status,
		to_char(cs.date, 'YYYY-MM-DD') AS date, cs.start_time, cs.end_time, cs.location,
		c.id AS course_id, c.name AS course_name, c.type AS course_type,
		t.id AS teacher_ref, t.full_name AS teacher_name
		FROM attendances a
		JOIN class_sessions cs ON cs.id = a.class_session_id
		LEFT JOIN courses c ON c.id = cs.course_id
		LEFT JOIN teachers t ON t.id = cs.teacher_id
		WHERE a.student_id = $1
		ORDER BY cs.date, cs.start_time`
	var rows []studentAttendanceRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list student attendances: %w", err)
	}

	records := make([]models.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		rec := row.toModel()
		cs := &models.ClassSession{
			ID:        row.ClassSessionID,
			Date:      row.Date,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
			Location:  row.Location,
		}
		if row.CourseID.Valid {
			cs.CourseID = row.CourseID.Int64
			cs.Course = &models.Course{ID: row.CourseID.Int64, Name: row.CourseName.String, Type: row.CourseType.String}
		}
		if row.TeacherRef.Valid {
			id := row.TeacherRef.Int64
			cs.TeacherID = &id
			cs.Teacher = &models.TeacherSummary{ID: id, FullName: row.TeacherName.String}
		}
		rec.ClassSession = cs
		records = append(records, rec)
	}
	return records, nil
}

// Roster lists the students attached to a session.
func (r *AttendanceRepository) Roster(ctx context.Context, sessionID int64) ([]models.RosterEntry, error) {
	const query = `SELECT a.id AS attendance_id, s.id AS student_id, s.full_name, a.status, a.confirmation_status
		FROM attendances a
		JOIN students s ON s.id = a.student_id
		WHERE a.class_session_id = $1
		ORDER BY s.full_name`
	var entries []models.RosterEntry
	if err := r.db.SelectContext(ctx, &entries, query, sessionID); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return entries, nil
}
