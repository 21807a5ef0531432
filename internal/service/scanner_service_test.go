package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorhub/internal/apiclient"
	"github.com/noah-isme/tutorhub/internal/models"
	"github.com/noah-isme/tutorhub/internal/notice"
	"github.com/noah-isme/tutorhub/pkg/clock"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

type stubMarker struct {
	calls  []models.ChangeAttendanceStatusRequest
	err    error
	during func()
}

func (m *stubMarker) ChangeAttendanceStatus(ctx context.Context, req models.ChangeAttendanceStatusRequest) (*models.StatusChangeResponse, error) {
	m.calls = append(m.calls, req)
	if m.during != nil {
		m.during()
	}
	if m.err != nil {
		return nil, m.err
	}
	return &models.StatusChangeResponse{Message: "ok"}, nil
}

type countingScanMetrics struct {
	outcomes []ScanOutcome
}

func (c *countingScanMetrics) RecordScan(outcome ScanOutcome) {
	c.outcomes = append(c.outcomes, outcome)
}

var fixedNow = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func newTestScanner(marker *stubMarker) (*Scanner, *clock.Fake, *notice.Recorder) {
	fake := clock.NewFake(fixedNow)
	rec := &notice.Recorder{}
	s := NewScanner(marker, fake, rec, notice.NewCatalog("sr"), nil, nil, nil, ScannerConfig{SessionID: 42})
	return s, fake, rec
}

func remote404() error {
	return &appErrors.Error{
		Code:    appErrors.ErrNotFound.Code,
		Status:  http.StatusNotFound,
		Message: "Attendance not found",
		Err:     &apiclient.ResponseError{Method: http.MethodPost, Path: "/attendance/change-attendance-status", StatusCode: http.StatusNotFound},
	}
}

func TestScannerRejectsMalformedPayload(t *testing.T) {
	marker := &stubMarker{}
	s, fake, rec := newTestScanner(marker)

	res := s.HandleScan(context.Background(), "not-json")

	assert.Equal(t, ScanRejected, res.Outcome)
	assert.True(t, appErrors.HasCode(res.Err, appErrors.ErrInvalidQRFormat.Code))
	assert.Empty(t, marker.calls)
	assert.Equal(t, ScannerIdle, s.State())
	assert.Equal(t, 0, fake.Pending())

	n, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notice.KindError, n.Kind)
	assert.Equal(t, "QR kod nije u ispravnom formatu.", n.Message)
}

func TestScannerRejectsPayloadWithoutIdentity(t *testing.T) {
	marker := &stubMarker{}
	s, _, rec := newTestScanner(marker)

	for _, raw := range []string{`{"name":"x"}`, `{"teacher_id":"abc"}`, `"42"`} {
		res := s.HandleScan(context.Background(), raw)
		assert.Equal(t, ScanRejected, res.Outcome, raw)
		assert.True(t, appErrors.HasCode(res.Err, appErrors.ErrMissingIdentity.Code), raw)
		assert.Equal(t, ScannerIdle, s.State())
	}
	assert.Empty(t, marker.calls)
	n, _ := rec.Last()
	assert.Equal(t, "QR kod ne sadrži ID učenika ni profesora.", n.Message)
}

func TestScannerTeacherTakesPrecedence(t *testing.T) {
	marker := &stubMarker{}
	s, _, rec := newTestScanner(marker)

	res := s.HandleScan(context.Background(), `{"teacher_id":"7","student_id":"3","teacher_name":"Ana"}`)

	require.Equal(t, ScanAccepted, res.Outcome)
	require.Len(t, marker.calls, 1)
	call := marker.calls[0]
	assert.Equal(t, int64(42), call.ClassSessionID)
	assert.Equal(t, models.AttendancePresent, call.Status)
	require.NotNil(t, call.TeacherID)
	assert.Equal(t, int64(7), *call.TeacherID)
	assert.Nil(t, call.StudentID)

	n, _ := rec.Last()
	assert.Equal(t, notice.KindSuccess, n.Kind)
	assert.Equal(t, "Profesor Ana zabeležen.", n.Message)
}

func TestScannerZeroTeacherFallsBackToStudent(t *testing.T) {
	marker := &stubMarker{}
	s, _, _ := newTestScanner(marker)

	res := s.HandleScan(context.Background(), `{"teacher_id":0,"student_id":3,"student_name":"Mila"}`)

	require.Equal(t, ScanAccepted, res.Outcome)
	require.Len(t, marker.calls, 1)
	require.NotNil(t, marker.calls[0].StudentID)
	assert.Equal(t, int64(3), *marker.calls[0].StudentID)
	assert.Nil(t, marker.calls[0].TeacherID)
}

func TestScannerDropsScansDuringCooldown(t *testing.T) {
	marker := &stubMarker{}
	s, fake, _ := newTestScanner(marker)
	ctx := context.Background()
	payload := `{"student_id":"3","student_name":"Mila"}`

	require.Equal(t, ScanAccepted, s.HandleScan(ctx, payload).Outcome)
	assert.Equal(t, ScannerCooldown, s.State())

	assert.Equal(t, ScanDropped, s.HandleScan(ctx, payload).Outcome)
	assert.Equal(t, ScanDropped, s.HandleScan(ctx, "not-json").Outcome)
	assert.Len(t, marker.calls, 1)

	fake.Advance(2999 * time.Millisecond)
	assert.Equal(t, ScannerCooldown, s.State())
	assert.Equal(t, ScanDropped, s.HandleScan(ctx, payload).Outcome)

	fake.Advance(time.Millisecond)
	assert.Equal(t, ScannerIdle, s.State())

	assert.Equal(t, ScanAccepted, s.HandleScan(ctx, payload).Outcome)
	assert.Len(t, marker.calls, 2)
}

func TestScannerDropsScansWhileSubmitting(t *testing.T) {
	marker := &stubMarker{}
	s, _, _ := newTestScanner(marker)
	ctx := context.Background()

	var nested ScanResult
	var stateDuring ScannerState
	marker.during = func() {
		stateDuring = s.State()
		nested = s.HandleScan(ctx, `{"student_id":"4"}`)
	}

	res := s.HandleScan(ctx, `{"student_id":"3"}`)
	assert.Equal(t, ScanAccepted, res.Outcome)
	assert.Equal(t, ScannerSubmitting, stateDuring)
	assert.Equal(t, ScanDropped, nested.Outcome)
	assert.Nil(t, nested.Notice)
	assert.Len(t, marker.calls, 1)
}

func TestScannerNotEnrolled(t *testing.T) {
	marker := &stubMarker{err: remote404()}
	s, fake, rec := newTestScanner(marker)

	res := s.HandleScan(context.Background(), `{"teacher_id":"7","teacher_name":"Ana"}`)

	assert.Equal(t, ScanFailed, res.Outcome)
	assert.True(t, appErrors.HasCode(res.Err, appErrors.ErrNotEnrolled.Code))
	require.Len(t, marker.calls, 1)
	assert.Equal(t, int64(7), *marker.calls[0].TeacherID)

	n, _ := rec.Last()
	assert.Equal(t, notice.KindError, n.Kind)
	assert.Equal(t, "Učenik nije prijavljen za ovaj čas.", n.Message)

	assert.Equal(t, ScannerCooldown, s.State())
	fake.Advance(3 * time.Second)
	assert.Equal(t, ScannerIdle, s.State())
}

func TestScannerShowsServerMessage(t *testing.T) {
	marker := &stubMarker{err: &appErrors.Error{
		Code:   appErrors.ErrRemote.Code,
		Status: http.StatusUnprocessableEntity,
		Err:    &apiclient.ResponseError{StatusCode: http.StatusUnprocessableEntity, ServerMessage: "Čas je zaključan."},
	}}
	s, _, rec := newTestScanner(marker)

	res := s.HandleScan(context.Background(), `{"student_id":"3"}`)

	assert.Equal(t, ScanFailed, res.Outcome)
	n, _ := rec.Last()
	assert.Equal(t, "Čas je zaključan.", n.Message)
}

func TestScannerTransportFailureUsesFallback(t *testing.T) {
	marker := &stubMarker{err: appErrors.Wrap(errors.New("dial tcp: refused"), appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message)}
	s, _, rec := newTestScanner(marker)

	res := s.HandleScan(context.Background(), `{"student_id":"3"}`)

	assert.Equal(t, ScanFailed, res.Outcome)
	assert.Equal(t, ScannerCooldown, s.State())
	n, _ := rec.Last()
	assert.Equal(t, "Neuspeh prilikom slanja.", n.Message)
}

func TestScannerCloseStopsCooldown(t *testing.T) {
	marker := &stubMarker{}
	s, fake, _ := newTestScanner(marker)

	require.Equal(t, ScanAccepted, s.HandleScan(context.Background(), `{"student_id":"3"}`).Outcome)
	require.Equal(t, 1, fake.Pending())

	s.Close()
	assert.Equal(t, ScannerIdle, s.State())
	assert.Equal(t, 0, fake.Pending())
	assert.Equal(t, ScanDropped, s.HandleScan(context.Background(), `{"student_id":"3"}`).Outcome)
	assert.Len(t, marker.calls, 1)
}

func TestScannerRecordsMetrics(t *testing.T) {
	marker := &stubMarker{}
	metrics := &countingScanMetrics{}
	s := NewScanner(marker, clock.NewFake(fixedNow), nil, nil, nil, nil, metrics, ScannerConfig{SessionID: 42, Cooldown: time.Second})

	s.HandleScan(context.Background(), "not-json")
	s.HandleScan(context.Background(), `{"student_id":"3"}`)
	s.HandleScan(context.Background(), `{"student_id":"3"}`)

	assert.Equal(t, []ScanOutcome{ScanRejected, ScanAccepted, ScanDropped}, metrics.outcomes)
}

func TestScannerWithoutSessionRejectsLocally(t *testing.T) {
	marker := &stubMarker{}
	s := NewScanner(marker, clock.NewFake(fixedNow), nil, nil, nil, nil, nil, ScannerConfig{})

	res := s.HandleScan(context.Background(), `{"student_id":"3"}`)
	assert.Equal(t, ScanRejected, res.Outcome)
	assert.True(t, appErrors.HasCode(res.Err, appErrors.ErrValidation.Code))
	assert.Empty(t, marker.calls)
	assert.Equal(t, ScannerIdle, s.State())
}
