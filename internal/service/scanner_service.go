package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutorhub/internal/apiclient"
	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/notice"
	"github.com/noah-isme/tutorhub/internal/qr"
	"github.com/noah-isme/tutorhub/pkg/clock"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

// ScannerState is the phase of the scan pipeline.
type ScannerState string

const (
	ScannerIdle       ScannerState = "idle"
	ScannerDecoding   ScannerState = "decoding"
	ScannerSubmitting ScannerState = "submitting"
	ScannerCooldown   ScannerState = "cooldown"
)

// ScanOutcome summarises what happened to one scan event.
type ScanOutcome string

const (
	ScanAccepted ScanOutcome = "accepted"
	ScanRejected ScanOutcome = "rejected"
	ScanFailed   ScanOutcome = "failed"
	ScanDropped  ScanOutcome = "dropped"
)

const defaultScanCooldown = 3 * time.Second

type attendanceMarker interface {
	ChangeAttendanceStatus(ctx context.Context, req models.ChangeAttendanceStatusRequest) (*models.StatusChangeResponse, error)
}

type scanMetrics interface {
	RecordScan(outcome ScanOutcome)
}

// ScannerConfig binds a scanner to one class session.
type ScannerConfig struct {
	SessionID int64
	Cooldown  time.Duration
}

// ScanResult reports the handling of a single scan event.
type ScanResult struct {
	Outcome ScanOutcome
	Subject models.IdentityToken
	Notice  *notice.Notice
	Err     error
}

// Scanner turns raw QR text into presence marks for one class session. At
// most one scan is decoded or submitted at a time; after every submission the
// scanner ignores input for the cooldown period.
type Scanner struct {
	marker    attendanceMarker
	clock     clock.Clock
	notifier  notice.Notifier
	catalog   *notice.Catalog
	validator *validator.Validate
	logger    *zap.Logger
	metrics   scanMetrics
	sessionID int64
	cooldown  time.Duration

	mu     sync.Mutex
	state  ScannerState
	timer  clock.Timer
	gen    uint64
	closed bool
}

// NewScanner constructs a Scanner in the idle state.
func NewScanner(marker attendanceMarker, clk clock.Clock, notifier notice.Notifier, catalog *notice.Catalog, validate *validator.Validate, logger *zap.Logger, metrics scanMetrics, cfg ScannerConfig) *Scanner {
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
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaultScanCooldown
	}
	return &Scanner{
		marker:    marker,
		clock:     clk,
		notifier:  notifier,
		catalog:   catalog,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		sessionID: cfg.SessionID,
		cooldown:  cfg.Cooldown,
		state:     ScannerIdle,
	}
}

// State returns the current phase.
func (s *Scanner) State() ScannerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SessionID returns the class session scans are recorded against.
func (s *Scanner) SessionID() int64 { return s.sessionID }

// HandleScan processes one raw scan event. Events arriving while a previous
// scan is in flight or cooling down are dropped without any feedback.
func (s *Scanner) HandleScan(ctx context.Context, raw string) ScanResult {
	s.mu.Lock()
	if s.closed || s.state != ScannerIdle {
		state := s.state
		s.mu.Unlock()
		s.logger.Debug("scan dropped", zap.String("state", string(state)))
		s.record(ScanDropped)
		return ScanResult{Outcome: ScanDropped}
	}
	s.state = ScannerDecoding
	s.mu.Unlock()

	token, err := qr.Decode(raw)
	if err != nil {
		s.setState(ScannerIdle)
		key := notice.ScanInvalid
		if appErrors.HasCode(err, appErrors.ErrMissingIdentity.Code) {
			key = notice.ScanNoIdentity
		}
		n := notice.Notice{Kind: notice.KindError, Title: s.catalog.Text(notice.TitleError), Message: s.catalog.Text(key)}
		s.logger.Info("scan rejected", zap.Error(err))
		return s.finish(ScanResult{Outcome: ScanRejected, Notice: &n, Err: err})
	}

	req := models.ChangeAttendanceStatusRequest{
		ClassSessionID: s.sessionID,
		Status:         models.AttendancePresent,
	}
	id := token.ID
	if token.Kind == models.SubjectTeacher {
		req.TeacherID = &id
	} else {
		req.StudentID = &id
	}
	if err := s.validator.Struct(req); err != nil {
		s.setState(ScannerIdle)
		n := notice.Notice{Kind: notice.KindError, Title: s.catalog.Text(notice.TitleError), Message: s.catalog.Text(notice.GenericFailure)}
		verr := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance request")
		return s.finish(ScanResult{Outcome: ScanRejected, Subject: token, Notice: &n, Err: verr})
	}

	s.setState(ScannerSubmitting)
	_, err = s.marker.ChangeAttendanceStatus(ctx, req)
	s.enterCooldown()

	if err == nil {
		role := s.catalog.Text(notice.RoleStudent)
		if token.Kind == models.SubjectTeacher {
			role = s.catalog.Text(notice.RoleTeacher)
		}
		name := token.DisplayName
		if name == "" {
			name = fmt.Sprintf("#%d", token.ID)
		}
		n := notice.Notice{Kind: notice.KindSuccess, Title: s.catalog.Text(notice.TitleSuccess), Message: s.catalog.Text(notice.ScanRecorded, role, name)}
		s.logger.Info("attendance recorded",
			zap.Int64("session_id", s.sessionID),
			zap.String("kind", string(token.Kind)),
			zap.Int64("subject_id", token.ID),
		)
		return s.finish(ScanResult{Outcome: ScanAccepted, Subject: token, Notice: &n})
	}

	n := notice.Notice{Kind: notice.KindError, Title: s.catalog.Text(notice.TitleError)}
	if isNotFound(err) {
		n.Message = s.catalog.Text(notice.ScanNotEnrolled)
		err = &appErrors.Error{Code: appErrors.ErrNotEnrolled.Code, Status: appErrors.ErrNotEnrolled.Status, Message: appErrors.ErrNotEnrolled.Message, Err: err}
	} else {
		n.Message = remoteMessage(err, s.catalog.Text(notice.ScanSendFailed))
	}
	s.logger.Warn("attendance submission failed",
		zap.Int64("session_id", s.sessionID),
		zap.Int64("subject_id", token.ID),
		zap.Error(err),
	)
	return s.finish(ScanResult{Outcome: ScanFailed, Subject: token, Notice: &n, Err: err})
}

// Close stops a pending cooldown and leaves the scanner idle. Later scan
// events are dropped.
func (s *Scanner) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.state = ScannerIdle
	s.closed = true
}

func (s *Scanner) setState(state ScannerState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Scanner) enterCooldown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.state = ScannerIdle
		return
	}
	s.gen++
	gen := s.gen
	s.state = ScannerCooldown
	s.timer = s.clock.AfterFunc(s.cooldown, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen == gen && s.state == ScannerCooldown {
			s.state = ScannerIdle
			s.timer = nil
		}
	})
}

func (s *Scanner) finish(result ScanResult) ScanResult {
	if result.Notice != nil {
		s.notifier.Notify(*result.Notice)
	}
	s.record(result.Outcome)
	return result
}

func (s *Scanner) record(outcome ScanOutcome) {
	if s.metrics != nil {
		s.metrics.RecordScan(outcome)
	}
}

func isNotFound(err error) bool {
	if apiclient.StatusCode(err) == http.StatusNotFound {
		return true
	}
	return appErrors.HasCode(err, appErrors.ErrNotFound.Code) || appErrors.HasCode(err, appErrors.ErrNotEnrolled.Code)
}

// remoteMessage prefers the text the backend sent over a local fallback.
func remoteMessage(err error, fallback string) string {
	if msg, ok := apiclient.ServerMessage(err); ok {
		return msg
	}
	return fallback
}
