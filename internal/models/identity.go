package models

// SubjectKind tells whether an attendance subject is a student or a teacher.
type SubjectKind string

const (
	SubjectStudent SubjectKind = "student"
	SubjectTeacher SubjectKind = "teacher"
)

// Valid returns true when the kind is a supported value.
func (k SubjectKind) Valid() bool {
	return k == SubjectStudent || k == SubjectTeacher
}

// IdentityToken is what a student or teacher shows as a QR code so that an
// admin or teacher can check them in. It is rebuilt on every render and is
// neither signed nor time-limited.
type IdentityToken struct {
	Kind        SubjectKind
	ID          int64
	DisplayName string
}
