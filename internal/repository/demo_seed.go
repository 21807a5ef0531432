package repository

import (
	"context"
	"time"

	"github.com/noah-isme/tutorhub/internal/models"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "demo1234"

// SeedDemo fills the store with a small school: an admin, two students, two
// teachers and sessions yesterday, today and tomorrow relative to now.
func SeedDemo(s *MemoryStore, now time.Time) error {
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format("2006-01-02") }
	ptr := func(v int64) *int64 { return &v }

	s.AddStudent(models.Profile{ID: 3, FullName: "Mila Petrović", Email: "mila@tutorhub.local", Phone: "+381601234567"})
	s.AddStudent(models.Profile{ID: 4, FullName: "Luka Ilić", Email: "luka@tutorhub.local"})
	s.AddTeacher(models.Profile{ID: 7, FullName: "Ana Jovanović", Email: "ana@tutorhub.local"})
	s.AddTeacher(models.Profile{ID: 8, FullName: "Boris Marković", Email: "boris@tutorhub.local"})
	s.AddCourse(models.Course{ID: 1, Name: "Matematika", Type: "individual"})
	s.AddCourse(models.Course{ID: 2, Name: "Engleski jezik", Type: "group"})

	s.AddSession(models.ClassSession{ID: 5, Date: day(-1), StartTime: "10:00", EndTime: "11:00", Location: "Učionica 1", CourseID: 1, TeacherID: ptr(7)})
	s.AddSession(models.ClassSession{ID: 42, Date: day(0), StartTime: "17:00", EndTime: "18:00", Location: "Učionica 1", CourseID: 1, TeacherID: ptr(7)})
	s.AddSession(models.ClassSession{ID: 43, Date: day(0), StartTime: "18:30", EndTime: "20:00", Location: "Učionica 2", CourseID: 2, TeacherID: ptr(8)})
	s.AddSession(models.ClassSession{ID: 9, Date: day(1), StartTime: "18:00", EndTime: "19:00", Location: "Učionica 2", CourseID: 2, TeacherID: ptr(8)})

	s.Enroll(5, models.SubjectStudent, 3, models.ConfirmationConfirmed)
	s.Enroll(5, models.SubjectStudent, 4, models.ConfirmationCancelled)
	s.Enroll(42, models.SubjectStudent, 3, models.ConfirmationConfirmed)
	s.Enroll(42, models.SubjectStudent, 4, models.ConfirmationPending)
	s.Enroll(43, models.SubjectStudent, 4, models.ConfirmationConfirmed)
	s.Enroll(43, models.SubjectTeacher, 8, models.ConfirmationConfirmed)
	s.Enroll(9, models.SubjectStudent, 3, models.ConfirmationPending)
	s.Enroll(9, models.SubjectTeacher, 8, models.ConfirmationConfirmed)
	if _, err := s.UpdateAttendanceStatus(context.Background(), 5, models.SubjectStudent, 3, models.AttendancePresent); err != nil {
		return err
	}
	if _, err := s.UpdateAttendanceStatus(context.Background(), 5, models.SubjectStudent, 4, models.AttendanceAbsent); err != nil {
		return err
	}

	accounts := []models.Account{
		{ID: 1, Name: "admin", Email: "admin@tutorhub.local", Role: models.RoleAdmin},
		{ID: 2, Name: "mila", Email: "mila@tutorhub.local", Role: models.RoleStudent, StudentID: ptr(3)},
		{ID: 3, Name: "luka", Email: "luka@tutorhub.local", Role: models.RoleStudent, StudentID: ptr(4)},
		{ID: 4, Name: "ana", Email: "ana@tutorhub.local", Role: models.RoleTeacher, TeacherID: ptr(7)},
		{ID: 5, Name: "boris", Email: "boris@tutorhub.local", Role: models.RoleTeacher, TeacherID: ptr(8)},
	}
	for _, a := range accounts {
		if err := s.AddAccount(a, DemoPassword); err != nil {
			return err
		}
	}
	return nil
}
