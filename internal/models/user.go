package models

// Role is the user's role in the school.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ProfileRef points a user at their student or teacher row.
type ProfileRef struct {
	ID int64 `json:"id"`
}

// User is the account returned by /login.
type User struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Role    Role        `json:"role"`
	Student *ProfileRef `json:"student,omitempty"`
	Teacher *ProfileRef `json:"teacher,omitempty"`
}

// Profile is the student or teacher record behind a user.
type Profile struct {
	ID       int64  `json:"id" db:"id"`
	FullName string `json:"full_name" db:"full_name"`
	Email    string `json:"email,omitempty" db:"email"`
	Phone    string `json:"phone,omitempty" db:"phone"`
}
