package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDayOf(t *testing.T) {
	assert.Equal(t, "2026-10-20", DayOf("2026-10-20"))
	assert.Equal(t, "2026-10-20", DayOf("2026-10-20T00:00:00.000000Z"))
	assert.Equal(t, "2026-10-20", DayOf(" 2026-10-20 08:00:00"))
	assert.Equal(t, "2026-10-20", ClassSession{Date: "2026-10-20T10:00:00Z"}.Day())
}

func TestAttendanceRecordSubject(t *testing.T) {
	id := int64(7)
	kind, got := AttendanceRecord{TeacherID: &id}.Subject()
	assert.Equal(t, SubjectTeacher, kind)
	assert.Equal(t, int64(7), got)

	kind, got = AttendanceRecord{StudentID: &id}.Subject()
	assert.Equal(t, SubjectStudent, kind)
	assert.Equal(t, int64(7), got)

	kind, _ = AttendanceRecord{}.Subject()
	assert.Empty(t, kind)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, AttendanceUnset.Valid())
	assert.False(t, AttendanceStatus("late").Valid())
	assert.True(t, ConfirmationCancelled.Valid())
	assert.False(t, ConfirmationStatus("maybe").Valid())
	assert.False(t, SubjectKind("admin").Valid())
}

func TestAccountToUser(t *testing.T) {
	sid := int64(3)
	acc := Account{ID: 1, Name: "mila", Role: RoleStudent, StudentID: &sid, PasswordHash: "x"}
	u := acc.ToUser()
	assert.Equal(t, int64(1), u.ID)
	if assert.NotNil(t, u.Student) {
		assert.Equal(t, int64(3), u.Student.ID)
	}
	assert.Nil(t, u.Teacher)
	assert.Equal(t, int64(3), acc.ProfileID())
	assert.Equal(t, int64(0), Account{Role: RoleAdmin}.ProfileID())
}
