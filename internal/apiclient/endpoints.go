package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/noah-isme/tutorhub/internal/models"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", "/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Student fetches a student profile.
func (c *Client) Student(ctx context.Context, id int64) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/student/%d", id), "/student/:id", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Teacher fetches a teacher profile.
func (c *Client) Teacher(ctx context.Context, id int64) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/teacher/%d", id), "/teacher/:id", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeAttendanceStatus marks a student or teacher present/absent. A 404
// means the subject has no attendance row for that session.
func (c *Client) ChangeAttendanceStatus(ctx context.Context, req models.ChangeAttendanceStatusRequest) (*models.StatusChangeResponse, error) {
	var out models.StatusChangeResponse
	const path = "/attendance/change-attendance-status"
	if err := c.do(ctx, http.MethodPost, path, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeConfirmationStatus records a student's confirmation or cancellation.
func (c *Client) ChangeConfirmationStatus(ctx context.Context, req models.ChangeConfirmationStatusRequest) (*models.StatusChangeResponse, error) {
	var out models.StatusChangeResponse
	const path = "/attendance/change-confirmation-status"
	if err := c.do(ctx, http.MethodPost, path, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StudentAttendances lists a student's attendance and confirmation history.
func (c *Client) StudentAttendances(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error) {
	var out models.StudentAttendancesResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/student/%d/attendances", studentID), "/student/:id/attendances", nil, &out); err != nil {
		return nil, err
	}
	return out.Attendances, nil
}

// FilterSessions lists the sessions held on date (YYYY-MM-DD). The backend
// answers either with a bare array or with a {"original":{"data":[...]}}
// resource wrapper.
func (c *Client) FilterSessions(ctx context.Context, date string) ([]models.ClassSession, error) {
	var raw json.RawMessage
	const path = "/classSessions/filter"
	if err := c.do(ctx, http.MethodPost, path, path, models.SessionFilterRequest{Date: date}, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	if raw[0] == '[' {
		var sessions []models.ClassSession
		if err := json.Unmarshal(raw, &sessions); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "failed to decode sessions")
		}
		return sessions, nil
	}
	var wrapped models.SessionFilterResponse
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "failed to decode sessions")
	}
	return wrapped.Original.Data, nil
}

// SessionRoster lists the students attached to a session.
func (c *Client) SessionRoster(ctx context.Context, sessionID int64) ([]models.RosterEntry, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/classSession/%d/attendances", sessionID), "/classSession/:id/attendances", nil, &raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	var entries []models.RosterEntry
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "failed to decode roster")
		}
		return entries, nil
	}
	var wrapped models.RosterResponse
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "failed to decode roster")
	}
	return wrapped.Original, nil
}
