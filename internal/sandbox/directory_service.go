package sandbox

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutorhub/internal/models"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

type profileStore interface {
	FindStudent(ctx context.Context, id int64) (*models.Profile, error)
	FindTeacher(ctx context.Context, id int64) (*models.Profile, error)
}

type sessionListStore interface {
	ListByDate(ctx context.Context, date string) ([]models.ClassSession, error)
}

// DirectoryService serves read-only lookups: profiles and sessions.
type DirectoryService struct {
	profiles  profileStore
	sessions  sessionListStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(profiles profileStore, sessions sessionListStore, validate *validator.Validate, logger *zap.Logger) *DirectoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{profiles: profiles, sessions: sessions, validator: validate, logger: logger}
}

// Student returns a student profile.
func (s *DirectoryService) Student(ctx context.Context, id int64) (*models.Profile, error) {
	return s.find(ctx, id, "student", s.profiles.FindStudent)
}

// Teacher returns a teacher profile.
func (s *DirectoryService) Teacher(ctx context.Context, id int64) (*models.Profile, error) {
	return s.find(ctx, id, "teacher", s.profiles.FindTeacher)
}

func (s *DirectoryService) find(ctx context.Context, id int64, kind string, lookup func(context.Context, int64) (*models.Profile, error)) (*models.Profile, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid "+kind+" id")
	}
	profile, err := lookup(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, kind+" not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+kind)
	}
	return profile, nil
}

// FilterSessions lists the sessions on a date in the Laravel resource shape.
func (s *DirectoryService) FilterSessions(ctx context.Context, req models.SessionFilterRequest) (*models.SessionFilterResponse, error) {
	req.Date = models.DayOf(req.Date)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}
	sessions, err := s.sessions.ListByDate(ctx, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class sessions")
	}
	if sessions == nil {
		sessions = []models.ClassSession{}
	}
	var resp models.SessionFilterResponse
	resp.Original.Data = sessions
	return &resp, nil
}
