package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/notice"
	"github.com/noah-isme/tutorhub/pkg/clock"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

type sessionSource interface {
	FilterSessions(ctx context.Context, date string) ([]models.ClassSession, error)
	SessionRoster(ctx context.Context, sessionID int64) ([]models.RosterEntry, error)
}

// SessionFilter narrows a day's sessions on the client. Empty fields match all.
type SessionFilter struct {
	Date      string
	Location  string
	TeacherID int64
}

// SessionList is a day of sessions plus the values the filters can take.
type SessionList struct {
	Date      string                  `json:"date"`
	Sessions  []models.ClassSession   `json:"sessions"`
	Locations []string                `json:"locations"`
	Teachers  []models.TeacherSummary `json:"teachers"`
}

// SessionService backs the admin session list and roster views.
type SessionService struct {
	source    sessionSource
	clock     clock.Clock
	location  *time.Location
	notifier  notice.Notifier
	catalog   *notice.Catalog
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(source sessionSource, clk clock.Clock, loc *time.Location, notifier notice.Notifier, catalog *notice.Catalog, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if clk == nil {
		clk = clock.New()
	}
	if loc == nil {
		loc = time.Local
	}
	if notifier == nil {
		notifier = notice.Discard
	}
	if catalog == nil {
		catalog = notice.NewCatalog(notice.DefaultLocale)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{source: source, clock: clk, location: loc, notifier: notifier, catalog: catalog, validator: validate, logger: logger}
}

// List returns the sessions held on filter.Date (today when empty). The
// location and teacher lists are computed before the client-side filters so
// they always offer every choice of the day.
func (s *SessionService) List(ctx context.Context, filter SessionFilter) (*SessionList, error) {
	date := models.DayOf(filter.Date)
	if date == "" {
		date = s.clock.Now().In(s.location).Format("2006-01-02")
	}
	req := models.SessionFilterRequest{Date: date}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}

	sessions, err := s.source.FilterSessions(ctx, date)
	if err != nil {
		s.notifier.Notify(notice.Notice{
			Kind:    notice.KindError,
			Title:   s.catalog.Text(notice.TitleError),
			Message: remoteMessage(err, s.catalog.Text(notice.SessionsLoadFail)),
		})
		s.logger.Warn("failed to load sessions", zap.String("date", date), zap.Error(err))
		return nil, err
	}

	list := &SessionList{
		Date:      date,
		Locations: uniqueLocations(sessions),
		Teachers:  uniqueTeachers(sessions),
		Sessions:  make([]models.ClassSession, 0, len(sessions)),
	}
	for _, cs := range sessions {
		if filter.Location != "" && !strings.EqualFold(cs.Location, filter.Location) {
			continue
		}
		if filter.TeacherID != 0 && sessionTeacherID(cs) != filter.TeacherID {
			continue
		}
		list.Sessions = append(list.Sessions, cs)
	}
	sort.SliceStable(list.Sessions, func(i, j int) bool { return list.Sessions[i].StartTime < list.Sessions[j].StartTime })
	return list, nil
}

// Roster lists the students attached to a session.
func (s *SessionService) Roster(ctx context.Context, sessionID int64) ([]models.RosterEntry, error) {
	if sessionID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session id must be positive")
	}
	entries, err := s.source.SessionRoster(ctx, sessionID)
	if err != nil {
		s.notifier.Notify(notice.Notice{
			Kind:    notice.KindError,
			Title:   s.catalog.Text(notice.TitleError),
			Message: remoteMessage(err, s.catalog.Text(notice.RosterLoadFail)),
		})
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].FullName < entries[j].FullName })
	return entries, nil
}

func sessionTeacherID(cs models.ClassSession) int64 {
	if cs.Teacher != nil && cs.Teacher.ID != 0 {
		return cs.Teacher.ID
	}
	if cs.TeacherID != nil {
		return *cs.TeacherID
	}
	return 0
}

func uniqueLocations(sessions []models.ClassSession) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, cs := range sessions {
		if cs.Location == "" {
			continue
		}
		if _, ok := seen[cs.Location]; ok {
			continue
		}
		seen[cs.Location] = struct{}{}
		out = append(out, cs.Location)
	}
	sort.Strings(out)
	return out
}

func uniqueTeachers(sessions []models.ClassSession) []models.TeacherSummary {
	seen := make(map[int64]struct{})
	out := make([]models.TeacherSummary, 0)
	for _, cs := range sessions {
		if cs.Teacher == nil || cs.Teacher.ID == 0 {
			continue
		}
		if _, ok := seen[cs.Teacher.ID]; ok {
			continue
		}
		seen[cs.Teacher.ID] = struct{}{}
		out = append(out, *cs.Teacher)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out
}
