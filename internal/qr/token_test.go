package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorhub/internal/models"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

func TestEncode(t *testing.T) {
	out, err := Encode(models.IdentityToken{Kind: models.SubjectTeacher, ID: 7, DisplayName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, `{"teacher_id":"7","teacher_name":"Ana"}`, out)

	out, err = Encode(models.IdentityToken{Kind: models.SubjectStudent, ID: 12, DisplayName: "Marko Marković"})
	require.NoError(t, err)
	assert.Equal(t, `{"student_id":"12","student_name":"Marko Marković"}`, out)
}

func TestEncodeRejectsBadTokens(t *testing.T) {
	_, err := Encode(models.IdentityToken{Kind: models.SubjectStudent})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))

	_, err = Encode(models.IdentityToken{Kind: "admin", ID: 1})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
}

func TestDecodeRoundTrip(t *testing.T) {
	for _, token := range []models.IdentityToken{
		{Kind: models.SubjectTeacher, ID: 7, DisplayName: "Ana"},
		{Kind: models.SubjectStudent, ID: 99, DisplayName: "Jelena"},
	} {
		raw, err := Encode(token)
		require.NoError(t, err)
		got, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, token, got)
	}
}

func TestDecodeResolution(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		kind    models.SubjectKind
		id      int64
		display string
	}{
		{"teacher string id", `{"teacher_id":"7","teacher_name":"Ana"}`, models.SubjectTeacher, 7, "Ana"},
		{"teacher numeric id", `{"teacher_id":7,"teacher_name":"Ana"}`, models.SubjectTeacher, 7, "Ana"},
		{"teacher wins over student", `{"teacher_id":"3","student_id":"5","student_name":"S"}`, models.SubjectTeacher, 3, ""},
		{"zero teacher falls back to student", `{"teacher_id":"0","student_id":"5","student_name":"S"}`, models.SubjectStudent, 5, "S"},
		{"garbage teacher falls back to student", `{"teacher_id":"x","student_id":5}`, models.SubjectStudent, 5, ""},
		{"integral float", `{"student_id":12.0,"student_name":42}`, models.SubjectStudent, 12, "42"},
		{"padded string", `  {"student_id":" 8 "}  `, models.SubjectStudent, 8, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.payload)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, got.Kind)
			assert.Equal(t, tc.id, got.ID)
			assert.Equal(t, tc.display, got.DisplayName)
		})
	}
}

func TestDecodeFormatErrors(t *testing.T) {
	for _, payload := range []string{"not-json", "", "   ", `{"teacher_id":`, "12 13", "{'student_id':1}"} {
		_, err := Decode(payload)
		assert.Truef(t, appErrors.HasCode(err, appErrors.ErrInvalidQRFormat.Code), "payload %q", payload)
	}
}

func TestDecodeMissingIdentity(t *testing.T) {
	for _, payload := range []string{
		`{}`,
		`{"teacher_id":"0"}`,
		`{"teacher_id":0,"teacher_name":"Ana"}`,
		`{"student_id":null}`,
		`{"student_id":""}`,
		`{"student_id":"abc"}`,
		`{"student_id":1.5}`,
		`{"student_id":true}`,
		`{"name":"Ana"}`,
		`"42"`,
		`42`,
		`[1,2]`,
		`null`,
	} {
		_, err := Decode(payload)
		assert.Truef(t, appErrors.HasCode(err, appErrors.ErrMissingIdentity.Code), "payload %q", payload)
	}
}
