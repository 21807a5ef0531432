package service

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/notice"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

type attendanceLister interface {
	StudentAttendances(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error)
}

// ScheduleEntry is one attendance row flattened with its class session.
type ScheduleEntry struct {
	AttendanceID       int64                     `json:"attendance_id"`
	SessionID          int64                     `json:"class_session_id"`
	Date               string                    `json:"date"`
	StartTime          string                    `json:"start_time"`
	EndTime            string                    `json:"end_time"`
	Location           string                    `json:"location,omitempty"`
	CourseName         string                    `json:"course_name"`
	CourseType         string                    `json:"course_type,omitempty"`
	TeacherName        string                    `json:"teacher_name,omitempty"`
	Status             models.AttendanceStatus   `json:"status"`
	ConfirmationStatus models.ConfirmationStatus `json:"confirmation_status"`
}

// ScheduleDay groups the entries falling on one date.
type ScheduleDay struct {
	Date    string          `json:"date"`
	Entries []ScheduleEntry `json:"entries"`
}

// HistorySummary counts the confirmed history regardless of the status filter.
type HistorySummary struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

// History is the attendance history view.
type History struct {
	Entries []ScheduleEntry `json:"entries"`
	Summary HistorySummary  `json:"summary"`
}

// ScheduleService loads a student's sessions and shapes them for the
// schedule board and the attendance history.
type ScheduleService struct {
	lister   attendanceLister
	identity studentIdentity
	notifier notice.Notifier
	catalog  *notice.Catalog
	logger   *zap.Logger

	mu     sync.RWMutex
	latest []ScheduleEntry
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(lister attendanceLister, identity studentIdentity, notifier notice.Notifier, catalog *notice.Catalog, logger *zap.Logger) *ScheduleService {
	if notifier == nil {
		notifier = notice.Discard
	}
	if catalog == nil {
		catalog = notice.NewCatalog(notice.DefaultLocale)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{lister: lister, identity: identity, notifier: notifier, catalog: catalog, logger: logger}
}

// Load fetches the signed-in student's attendance rows. Rows without a class
// session are skipped.
func (s *ScheduleService) Load(ctx context.Context) ([]ScheduleEntry, error) {
	studentID, ok := s.identity.StudentID()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "a signed-in student is required")
	}

	records, err := s.lister.StudentAttendances(ctx, studentID)
	if err != nil {
		s.notifier.Notify(notice.Notice{
			Kind:    notice.KindError,
			Title:   s.catalog.Text(notice.TitleError),
			Message: remoteMessage(err, s.catalog.Text(notice.ScheduleLoadFail)),
		})
		return nil, err
	}

	entries := NormalizeSchedule(records)
	s.mu.Lock()
	s.latest = entries
	s.mu.Unlock()
	s.logger.Debug("schedule loaded", zap.Int64("student_id", studentID), zap.Int("entries", len(entries)))
	return entries, nil
}

// Reload refreshes the cached listing.
func (s *ScheduleService) Reload(ctx context.Context) error {
	_, err := s.Load(ctx)
	return err
}

// Latest returns the entries from the most recent successful load.
func (s *ScheduleService) Latest() []ScheduleEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ScheduleEntry, len(s.latest))
	copy(out, s.latest)
	return out
}

// NormalizeSchedule flattens attendance records into entries.
func NormalizeSchedule(records []models.AttendanceRecord) []ScheduleEntry {
	entries := make([]ScheduleEntry, 0, len(records))
	for _, r := range records {
		if r.ClassSession == nil {
			continue
		}
		cs := r.ClassSession
		entry := ScheduleEntry{
			AttendanceID:       r.ID,
			SessionID:          r.ClassSessionID,
			Date:               cs.Day(),
			StartTime:          cs.StartTime,
			EndTime:            cs.EndTime,
			Location:           cs.Location,
			Status:             r.Status,
			ConfirmationStatus: r.ConfirmationStatus,
		}
		if entry.SessionID == 0 {
			entry.SessionID = cs.ID
		}
		if cs.Course != nil {
			entry.CourseName = cs.Course.Name
			entry.CourseType = cs.Course.Type
		}
		if cs.Teacher != nil {
			entry.TeacherName = cs.Teacher.FullName
		}
		entries = append(entries, entry)
	}
	return entries
}

// Board groups entries by date in ascending order. An empty courseType keeps
// every course.
func Board(entries []ScheduleEntry, courseType string) []ScheduleDay {
	byDate := make(map[string][]ScheduleEntry)
	for _, e := range entries {
		if courseType != "" && e.CourseType != courseType {
			continue
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	days := make([]ScheduleDay, 0, len(byDate))
	for date, list := range byDate {
		sort.SliceStable(list, func(i, j int) bool { return list[i].StartTime < list[j].StartTime })
		days = append(days, ScheduleDay{Date: date, Entries: list})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// Day returns the entries on date, or nil.
func Day(entries []ScheduleEntry, courseType, date string) []ScheduleEntry {
	for _, d := range Board(entries, courseType) {
		if d.Date == models.DayOf(date) {
			return d.Entries
		}
	}
	return nil
}

// CourseTypes lists the distinct course types in entries.
func CourseTypes(entries []ScheduleEntry) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		if e.CourseType == "" {
			continue
		}
		if _, ok := seen[e.CourseType]; ok {
			continue
		}
		seen[e.CourseType] = struct{}{}
		out = append(out, e.CourseType)
	}
	sort.Strings(out)
	return out
}

// BuildHistory drops unanswered (pending) slots, sorts newest first and
// applies the status filter. The summary always covers the unfiltered set.
func BuildHistory(entries []ScheduleEntry, status models.AttendanceStatus) History {
	answered := make([]ScheduleEntry, 0, len(entries))
	var summary HistorySummary
	for _, e := range entries {
		if e.ConfirmationStatus == models.ConfirmationPending {
			continue
		}
		answered = append(answered, e)
		summary.Total++
		switch e.Status {
		case models.AttendancePresent:
			summary.Present++
		case models.AttendanceAbsent:
			summary.Absent++
		}
	}

	sort.SliceStable(answered, func(i, j int) bool {
		if answered[i].Date != answered[j].Date {
			return answered[i].Date > answered[j].Date
		}
		return answered[i].StartTime > answered[j].StartTime
	})

	if status == models.AttendanceUnset {
		return History{Entries: answered, Summary: summary}
	}
	filtered := make([]ScheduleEntry, 0, len(answered))
	for _, e := range answered {
		if e.Status == status {
			filtered = append(filtered, e)
		}
	}
	return History{Entries: filtered, Summary: summary}
}
