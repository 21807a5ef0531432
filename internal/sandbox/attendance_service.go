package sandbox

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/pkg/clock"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

type attendanceStore interface {
	UpdateAttendanceStatus(ctx context.Context, sessionID int64, kind models.SubjectKind, subjectID int64, status models.AttendanceStatus) (*models.AttendanceRecord, error)
	UpdateConfirmationStatus(ctx context.Context, sessionID, studentID int64, status models.ConfirmationStatus) (*models.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error)
	Roster(ctx context.Context, sessionID int64) ([]models.RosterEntry, error)
}

type sessionDateStore interface {
	SessionDate(ctx context.Context, sessionID int64) (string, error)
}

type queryObserver interface {
	ObserveDBQuery(operation string, duration time.Duration)
}

// AttendanceService applies check-ins and confirmation answers.
type AttendanceService struct {
	store     attendanceStore
	sessions  sessionDateStore
	clock     clock.Clock
	location  *time.Location
	validator *validator.Validate
	logger    *zap.Logger
	observer  queryObserver
}

// NewAttendanceService constructs an AttendanceService. Same-day checks use loc.
func NewAttendanceService(store attendanceStore, sessions sessionDateStore, clk clock.Clock, loc *time.Location, validate *validator.Validate, logger *zap.Logger, observer queryObserver) *AttendanceService {
	if clk == nil {
		clk = clock.New()
	}
	if loc == nil {
		loc = time.Local
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{store: store, sessions: sessions, clock: clk, location: loc, validator: validate, logger: logger, observer: observer}
}

// ChangeAttendanceStatus marks a student or teacher present or absent. A
// subject with no row for the session yields NOT_FOUND.
func (s *AttendanceService) ChangeAttendanceStatus(ctx context.Context, req models.ChangeAttendanceStatusRequest) (*models.StatusChangeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	kind, subjectID := models.SubjectStudent, int64(0)
	if req.TeacherID != nil {
		kind, subjectID = models.SubjectTeacher, *req.TeacherID
	} else {
		subjectID = *req.StudentID
	}

	start := s.clock.Now()
	rec, err := s.store.UpdateAttendanceStatus(ctx, req.ClassSessionID, kind, subjectID, req.Status)
	s.observe("update_attendance_status", start)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Attendance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance")
	}

	s.logger.Info("attendance status changed",
		zap.Int64("session_id", req.ClassSessionID),
		zap.String("kind", string(kind)),
		zap.Int64("subject_id", subjectID),
		zap.String("status", string(req.Status)),
	)
	return &models.StatusChangeResponse{Message: "Attendance status updated", Attendance: rec}, nil
}

// ChangeConfirmationStatus records a student's answer. Students may only
// answer for themselves and cannot cancel a session scheduled for today.
func (s *AttendanceService) ChangeConfirmationStatus(ctx context.Context, actor *models.SessionClaims, req models.ChangeConfirmationStatusRequest) (*models.StatusChangeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid confirmation payload")
	}
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing session")
	}
	if actor.Role == models.RoleStudent && actor.ProfileID != req.StudentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "students can only answer for themselves")
	}

	if req.Status == models.ConfirmationCancelled {
		date, err := s.sessions.SessionDate(ctx, req.ClassSessionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "Class session not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class session")
		}
		if models.DayOf(date) == s.clock.Now().In(s.location).Format("2006-01-02") {
			return nil, appErrors.Clone(appErrors.ErrSameDayLock, "Čas koji je zakazan za danas ne može se otkazati.")
		}
	}

	start := s.clock.Now()
	rec, err := s.store.UpdateConfirmationStatus(ctx, req.ClassSessionID, req.StudentID, req.Status)
	s.observe("update_confirmation_status", start)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Attendance not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update confirmation")
	}

	message := "Dolazak je potvrđen."
	if req.Status == models.ConfirmationCancelled {
		message = "Dolazak je otkazan."
	}
	return &models.StatusChangeResponse{Message: message, Attendance: rec}, nil
}

// StudentAttendances lists a student's rows with their sessions.
func (s *AttendanceService) StudentAttendances(ctx context.Context, studentID int64) (*models.StudentAttendancesResponse, error) {
	if studentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid student id")
	}
	start := s.clock.Now()
	records, err := s.store.ListByStudent(ctx, studentID)
	s.observe("list_student_attendances", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendances")
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return &models.StudentAttendancesResponse{Attendances: records}, nil
}

// Roster lists the students attached to a session.
func (s *AttendanceService) Roster(ctx context.Context, sessionID int64) (*models.RosterResponse, error) {
	if sessionID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid class session id")
	}
	start := s.clock.Now()
	entries, err := s.store.Roster(ctx, sessionID)
	s.observe("list_roster", start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list roster")
	}
	if entries == nil {
		entries = []models.RosterEntry{}
	}
	return &models.RosterResponse{Original: entries}, nil
}

func (s *AttendanceService) observe(operation string, start time.Time) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveDBQuery(operation, s.clock.Now().Sub(start))
}
