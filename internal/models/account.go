package models

import "time"

// Account is a stored login. It never leaves the backend as is; ToUser
// strips the credentials.
type Account struct {
	ID           int64      `db:"id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         Role       `db:"role"`
	StudentID    *int64     `db:"student_id"`
	TeacherID    *int64     `db:"teacher_id"`
	LastLogin    *time.Time `db:"last_login"`
}

// ToUser converts the account to its public form.
func (a Account) ToUser() User {
	u := User{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
	if a.StudentID != nil {
		u.Student = &ProfileRef{ID: *a.StudentID}
	}
	if a.TeacherID != nil {
		u.Teacher = &ProfileRef{ID: *a.TeacherID}
	}
	return u
}

// ProfileID returns the student or teacher row the account is bound to.
func (a Account) ProfileID() int64 {
	switch a.Role {
	case RoleStudent:
		if a.StudentID != nil {
			return *a.StudentID
		}
	case RoleTeacher:
		if a.TeacherID != nil {
			return *a.TeacherID
		}
	}
	return 0
}
