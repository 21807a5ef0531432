package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/notice"
	"github.com/noah-isme/tutorhub/pkg/clock"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

const defaultReloadDelay = 500 * time.Millisecond

type confirmationSubmitter interface {
	ChangeConfirmationStatus(ctx context.Context, req models.ChangeConfirmationStatusRequest) (*models.StatusChangeResponse, error)
}

type studentIdentity interface {
	StudentID() (int64, bool)
}

type scheduleReloader interface {
	Reload(ctx context.Context) error
}

type confirmationMetrics interface {
	RecordConfirmation(status string, ok bool)
}

// ConfirmationConfig tunes the confirmation flow.
type ConfirmationConfig struct {
	ReloadDelay time.Duration
	Location    *time.Location
}

// ConfirmationOutcome describes an accepted status change. Reloaded is closed
// once the delayed schedule refresh has run.
type ConfirmationOutcome struct {
	Status   models.ConfirmationStatus
	Response *models.StatusChangeResponse
	Reloaded <-chan struct{}
}

// ConfirmationService lets a student confirm or cancel a scheduled session.
type ConfirmationService struct {
	submitter confirmationSubmitter
	identity  studentIdentity
	reloader  scheduleReloader
	clock     clock.Clock
	notifier  notice.Notifier
	catalog   *notice.Catalog
	validator *validator.Validate
	logger    *zap.Logger
	metrics   confirmationMetrics
	cfg       ConfirmationConfig
}

// NewConfirmationService constructs a ConfirmationService.
func NewConfirmationService(submitter confirmationSubmitter, identity studentIdentity, reloader scheduleReloader, clk clock.Clock, notifier notice.Notifier, catalog *notice.Catalog, validate *validator.Validate, logger *zap.Logger, metrics confirmationMetrics, cfg ConfirmationConfig) *ConfirmationService {
	if clk == nil {
		clk = clock.New()
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
	if cfg.ReloadDelay <= 0 {
		cfg.ReloadDelay = defaultReloadDelay
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &ConfirmationService{
		submitter: submitter,
		identity:  identity,
		reloader:  reloader,
		clock:     clk,
		notifier:  notifier,
		catalog:   catalog,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
	}
}

// Today returns the current calendar date in the configured timezone.
func (s *ConfirmationService) Today() string {
	return s.clock.Now().In(s.cfg.Location).Format("2006-01-02")
}

// ChangeStatus submits a confirmation or cancellation for sessionID. A
// session dated today cannot be cancelled; that check happens before any
// request is sent. On success the schedule is reloaded after a short delay.
func (s *ConfirmationService) ChangeStatus(ctx context.Context, sessionID int64, status models.ConfirmationStatus, sessionDate string) (*ConfirmationOutcome, error) {
	studentID, ok := s.identity.StudentID()
	if !ok {
		s.notify(notice.KindError, notice.TitleError, s.catalog.Text(notice.NotSignedIn))
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "a signed-in student is required")
	}

	req := models.ChangeConfirmationStatusRequest{
		ClassSessionID: sessionID,
		StudentID:      studentID,
		Status:         status,
	}
	if err := s.validator.Struct(req); err != nil {
		s.notify(notice.KindError, notice.TitleError, s.catalog.Text(notice.GenericFailure))
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid confirmation payload")
	}

	if status == models.ConfirmationCancelled && models.DayOf(sessionDate) == s.Today() {
		s.notify(notice.KindBlocked, notice.TitleForbidden, s.catalog.Text(notice.SameDayLock))
		s.logger.Info("same-day cancellation blocked", zap.Int64("session_id", sessionID))
		return nil, appErrors.Clone(appErrors.ErrSameDayLock, "")
	}

	resp, err := s.submitter.ChangeConfirmationStatus(ctx, req)
	if s.metrics != nil {
		s.metrics.RecordConfirmation(string(status), err == nil)
	}
	if err != nil {
		s.notify(notice.KindError, notice.TitleError, remoteMessage(err, s.catalog.Text(notice.GenericFailure)))
		s.logger.Warn("confirmation change failed", zap.Int64("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	title := notice.TitleConfirmed
	if status == models.ConfirmationCancelled {
		title = notice.TitleCancelled
	}
	var msg string
	if resp != nil {
		msg = resp.Message
	}
	s.notify(notice.KindSuccess, title, msg)

	return &ConfirmationOutcome{
		Status:   status,
		Response: resp,
		Reloaded: s.scheduleReload(context.WithoutCancel(ctx)),
	}, nil
}

func (s *ConfirmationService) scheduleReload(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	s.clock.AfterFunc(s.cfg.ReloadDelay, func() {
		defer close(done)
		if s.reloader == nil {
			return
		}
		if err := s.reloader.Reload(ctx); err != nil {
			s.logger.Warn("schedule reload failed", zap.Error(err))
		}
	})
	return done
}

func (s *ConfirmationService) notify(kind notice.Kind, title notice.Key, message string) {
	s.notifier.Notify(notice.Notice{Kind: kind, Title: s.catalog.Text(title), Message: message})
}
