package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/notice"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

type stubLister struct {
	records []models.AttendanceRecord
	err     error
	asked   []int64
}

func (s *stubLister) StudentAttendances(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error) {
	s.asked = append(s.asked, studentID)
	return s.records, s.err
}

func record(id int64, date, start, courseType string, status models.AttendanceStatus, confirmation models.ConfirmationStatus) models.AttendanceRecord {
	sid := int64(3)
	return models.AttendanceRecord{
		ID:                 id,
		ClassSessionID:     id * 10,
		StudentID:          &sid,
		Status:             status,
		ConfirmationStatus: confirmation,
		ClassSession: &models.ClassSession{
			ID:        id * 10,
			Date:      date,
			StartTime: start,
			EndTime:   "20:00",
			Course:    &models.Course{ID: 1, Name: "Matematika", Type: courseType},
			Teacher:   &models.TeacherSummary{ID: 7, FullName: "Ana"},
		},
	}
}

func sampleRecords() []models.AttendanceRecord {
	return []models.AttendanceRecord{
		record(1, "2024-05-11T00:00:00.000000Z", "18:00", "group", models.AttendanceUnset, models.ConfirmationPending),
		record(2, "2024-05-09", "10:00", "individual", models.AttendancePresent, models.ConfirmationConfirmed),
		record(3, "2024-05-11", "09:00", "individual", models.AttendanceUnset, models.ConfirmationConfirmed),
		record(4, "2024-05-08", "12:00", "group", models.AttendanceAbsent, models.ConfirmationCancelled),
		{ID: 5, ClassSessionID: 50},
	}
}

func TestScheduleLoadNormalizes(t *testing.T) {
	lister := &stubLister{records: sampleRecords()}
	svc := NewScheduleService(lister, fixedStudent{id: 3}, nil, nil, nil)

	entries, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, lister.asked)
	require.Len(t, entries, 4)
	assert.Equal(t, "2024-05-11", entries[0].Date)
	assert.Equal(t, "Matematika", entries[0].CourseName)
	assert.Equal(t, "Ana", entries[0].TeacherName)
	assert.Equal(t, int64(10), entries[0].SessionID)
	assert.Len(t, svc.Latest(), 4)
}

func TestScheduleLoadRequiresStudent(t *testing.T) {
	lister := &stubLister{}
	svc := NewScheduleService(lister, fixedStudent{}, nil, nil, nil)

	_, err := svc.Load(context.Background())
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized.Code))
	assert.Empty(t, lister.asked)
}

func TestScheduleLoadFailureNotifies(t *testing.T) {
	rec := &notice.Recorder{}
	svc := NewScheduleService(&stubLister{err: errors.New("down")}, fixedStudent{id: 3}, rec, notice.NewCatalog("sr"), nil)

	require.Error(t, svc.Reload(context.Background()))
	n, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, "Neuspešno učitavanje termina.", n.Message)
	assert.Empty(t, svc.Latest())
}

func TestBoardGroupsAndFilters(t *testing.T) {
	entries := NormalizeSchedule(sampleRecords())

	days := Board(entries, "")
	require.Len(t, days, 3)
	assert.Equal(t, "2024-05-08", days[0].Date)
	assert.Equal(t, "2024-05-11", days[2].Date)
	require.Len(t, days[2].Entries, 2)
	assert.Equal(t, "09:00", days[2].Entries[0].StartTime)

	individual := Board(entries, "individual")
	require.Len(t, individual, 2)
	assert.Len(t, Day(entries, "group", "2024-05-11T10:00:00Z"), 1)
	assert.Nil(t, Day(entries, "", "2024-06-01"))
	assert.Equal(t, []string{"group", "individual"}, CourseTypes(entries))
}

func TestBuildHistory(t *testing.T) {
	entries := NormalizeSchedule(sampleRecords())

	all := BuildHistory(entries, models.AttendanceUnset)
	require.Len(t, all.Entries, 3)
	assert.Equal(t, "2024-05-11", all.Entries[0].Date)
	assert.Equal(t, "2024-05-08", all.Entries[2].Date)
	assert.Equal(t, HistorySummary{Total: 3, Present: 1, Absent: 1}, all.Summary)

	present := BuildHistory(entries, models.AttendancePresent)
	require.Len(t, present.Entries, 1)
	assert.Equal(t, int64(2), present.Entries[0].AttendanceID)
	assert.Equal(t, all.Summary, present.Summary)
}
