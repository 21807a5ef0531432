package models

import "strings"

// Course is the subject a class session belongs to.
type Course struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Type string `json:"type" db:"type"`
}

// TeacherSummary is the teacher embedded in a session listing.
type TeacherSummary struct {
	ID       int64  `json:"id" db:"id"`
	FullName string `json:"full_name" db:"full_name"`
}

// ClassSession is a scheduled lesson. It is read-only on the client.
type ClassSession struct {
	ID        int64           `json:"id"`
	Date      string          `json:"date"`
	StartTime string          `json:"start_time"`
	EndTime   string          `json:"end_time"`
	Location  string          `json:"location"`
	CourseID  int64           `json:"course_id,omitempty"`
	TeacherID *int64          `json:"teacher_id,omitempty"`
	Course    *Course         `json:"course,omitempty"`
	Teacher   *TeacherSummary `json:"teacher,omitempty"`
}

// Day returns the calendar date of the session as YYYY-MM-DD. The backend
// sometimes sends full ISO timestamps.
func (s ClassSession) Day() string {
	return DayOf(s.Date)
}

// DayOf trims an ISO date or timestamp down to its YYYY-MM-DD part.
func DayOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "T "); i >= 0 {
		return raw[:i]
	}
	return raw
}

// SessionFilterRequest is the body of POST /classSessions/filter.
type SessionFilterRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// SessionFilterResponse is the Laravel resource wrapper returned by the filter endpoint.
type SessionFilterResponse struct {
	Original struct {
		Data []ClassSession `json:"data"`
	} `json:"original"`
}
