// Package qr converts identity tokens to and from the JSON text carried by
// check-in QR codes.
package qr

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/noah-isme/tutorhub/internal/models"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

const (
	keyTeacherID   = "teacher_id"
	keyTeacherName = "teacher_name"
	keyStudentID   = "student_id"
	keyStudentName = "student_name"
)

type teacherPayload struct {
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
}

type studentPayload struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
}

// Encode renders the token as QR text. The id travels as a string, the way
// the scanning side has always received it.
func Encode(token models.IdentityToken) (string, error) {
	if token.ID <= 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "identity id must be positive")
	}
	var payload interface{}
	id := strconv.FormatInt(token.ID, 10)
	switch token.Kind {
	case models.SubjectTeacher:
		payload = teacherPayload{TeacherID: id, TeacherName: token.DisplayName}
	case models.SubjectStudent:
		payload = studentPayload{StudentID: id, StudentName: token.DisplayName}
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown identity kind")
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode identity")
	}
	return string(out), nil
}

// Decode parses scanned text into exactly one subject. A non-zero teacher id
// wins over a student id; text that is not JSON fails with
// INVALID_QR_FORMAT and JSON without a usable id with MISSING_IDENTITY.
func Decode(raw string) (models.IdentityToken, error) {
	data := []byte(strings.TrimSpace(raw))
	if len(data) == 0 || !json.Valid(data) {
		return models.IdentityToken{}, appErrors.ErrInvalidQRFormat
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		// valid JSON, but a bare string/number/array carries no identity
		return models.IdentityToken{}, appErrors.ErrMissingIdentity
	}

	if id, ok := coerceID(fields[keyTeacherID]); ok && id != 0 {
		return models.IdentityToken{Kind: models.SubjectTeacher, ID: id, DisplayName: coerceText(fields[keyTeacherName])}, nil
	}
	if id, ok := coerceID(fields[keyStudentID]); ok {
		return models.IdentityToken{Kind: models.SubjectStudent, ID: id, DisplayName: coerceText(fields[keyStudentName])}, nil
	}
	return models.IdentityToken{}, appErrors.ErrMissingIdentity
}

func coerceID(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, false
		}
	}

	if id, err := strconv.ParseInt(text, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func coerceText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	return ""
}
