package models

// AttendanceStatus records physical presence at a class session.
type AttendanceStatus string

const (
	AttendanceUnset   AttendanceStatus = ""
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceUnset, AttendancePresent, AttendanceAbsent:
		return true
	default:
		return false
	}
}

// ConfirmationStatus is the student's answer to a scheduled slot.
type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "pending"
	ConfirmationConfirmed ConfirmationStatus = "confirmed"
	ConfirmationCancelled ConfirmationStatus = "cancelled"
)

// Valid returns true when the status is a supported value.
func (s ConfirmationStatus) Valid() bool {
	switch s {
	case ConfirmationPending, ConfirmationConfirmed, ConfirmationCancelled:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one (session, subject) row as returned by the backend.
// Exactly one of StudentID and TeacherID is set.
type AttendanceRecord struct {
	ID                 int64              `json:"id"`
	ClassSessionID     int64              `json:"class_session_id"`
	StudentID          *int64             `json:"student_id,omitempty"`
	TeacherID          *int64             `json:"teacher_id,omitempty"`
	Status             AttendanceStatus   `json:"status"`
	ConfirmationStatus ConfirmationStatus `json:"confirmation_status"`
	ClassSession       *ClassSession      `json:"class_session,omitempty"`
}

// Subject returns who the record is about.
func (r AttendanceRecord) Subject() (SubjectKind, int64) {
	if r.TeacherID != nil {
		return SubjectTeacher, *r.TeacherID
	}
	if r.StudentID != nil {
		return SubjectStudent, *r.StudentID
	}
	return "", 0
}

// ChangeAttendanceStatusRequest is the body of POST /attendance/change-attendance-status.
type ChangeAttendanceStatusRequest struct {
	ClassSessionID int64            `json:"class_session_id" validate:"required,gt=0"`
	Status         AttendanceStatus `json:"status" validate:"required,oneof=present absent"`
	StudentID      *int64           `json:"student_id,omitempty" validate:"required_without=TeacherID,excluded_with=TeacherID"`
	TeacherID      *int64           `json:"teacher_id,omitempty" validate:"required_without=StudentID,excluded_with=StudentID"`
}

// ChangeConfirmationStatusRequest is the body of POST /attendance/change-confirmation-status.
type ChangeConfirmationStatusRequest struct {
	ClassSessionID int64              `json:"class_session_id" validate:"required,gt=0"`
	StudentID      int64              `json:"student_id" validate:"required,gt=0"`
	Status         ConfirmationStatus `json:"status" validate:"required,oneof=confirmed cancelled"`
}

// StatusChangeResponse is returned by both status-change endpoints.
type StatusChangeResponse struct {
	Message    string            `json:"message,omitempty"`
	Attendance *AttendanceRecord `json:"attendance,omitempty"`
}

// StudentAttendancesResponse wraps GET /student/{id}/attendances.
type StudentAttendancesResponse struct {
	Attendances []AttendanceRecord `json:"attendances"`
}

// RosterEntry is one student on a session roster.
type RosterEntry struct {
	AttendanceID       int64              `json:"attendance_id" db:"attendance_id"`
	StudentID          int64              `json:"student_id" db:"student_id"`
	FullName           string             `json:"full_name" db:"full_name"`
	Status             AttendanceStatus   `json:"status" db:"status"`
	ConfirmationStatus ConfirmationStatus `json:"confirmation_status" db:"confirmation_status"`
}

// RosterResponse wraps GET /classSession/{id}/attendances.
type RosterResponse struct {
	Original []RosterEntry `json:"original"`
}
