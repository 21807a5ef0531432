package appstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorhub/internal/models"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

func TestSignedOut(t *testing.T) {
	s := New()
	_, ok := s.User()
	assert.False(t, ok)
	_, ok = s.StudentID()
	assert.False(t, ok)
	_, err := s.Identity()
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnauthorized.Code))
}

func TestTeacherIdentityPrefersProfile(t *testing.T) {
	s := New()
	s.SignIn(models.User{ID: 3, Name: "ana.p", Role: models.RoleTeacher, Teacher: &models.ProfileRef{ID: 7}},
		&models.Profile{ID: 7, FullName: "Ana Petrović"})

	token, err := s.Identity()
	require.NoError(t, err)
	assert.Equal(t, models.IdentityToken{Kind: models.SubjectTeacher, ID: 7, DisplayName: "Ana Petrović"}, token)
	_, ok := s.StudentID()
	assert.False(t, ok)
}

func TestStudentWithoutProfile(t *testing.T) {
	s := New()
	s.SignIn(models.User{ID: 4, Name: "marko", Role: models.RoleStudent, Student: &models.ProfileRef{ID: 12}}, nil)

	id, ok := s.StudentID()
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)

	token, err := s.Identity()
	require.NoError(t, err)
	assert.Equal(t, models.IdentityToken{Kind: models.SubjectStudent, ID: 12, DisplayName: "marko"}, token)
}

func TestAdminHasNoIdentity(t *testing.T) {
	s := New()
	s.SignIn(models.User{ID: 1, Role: models.RoleAdmin}, nil)
	_, err := s.Identity()
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))

	s.SignOut()
	_, ok := s.User()
	assert.False(t, ok)
}
