// Package appstate holds who is signed in. One State is created at start-up
// and handed to every component that needs the current identity.
package appstate

import (
	"sync"

	"github.com/noah-isme/tutorhub/internal/models"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

// State is the current user and their role profile.
type State struct {
	mu      sync.RWMutex
	user    *models.User
	profile *models.Profile
}

// New returns an empty, signed-out state.
func New() *State {
	return &State{}
}

// SignIn replaces the current user and profile.
func (s *State) SignIn(user models.User, profile *models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	if profile != nil {
		p := *profile
		s.profile = &p
	} else {
		s.profile = nil
	}
}

// SignOut forgets the current user.
func (s *State) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.profile = nil
}

// User returns the signed-in user.
func (s *State) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Profile returns the student or teacher profile of the signed-in user.
func (s *State) Profile() (models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return models.Profile{}, false
	}
	return *s.profile, true
}

// StudentID returns the student id when the current user is a student.
func (s *State) StudentID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.user.Role != models.RoleStudent {
		return 0, false
	}
	if s.profile != nil && s.profile.ID != 0 {
		return s.profile.ID, true
	}
	if s.user.Student != nil && s.user.Student.ID != 0 {
		return s.user.Student.ID, true
	}
	return 0, false
}

// Identity builds the token shown as the user's check-in QR code.
func (s *State) Identity() (models.IdentityToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.IdentityToken{}, appErrors.ErrUnauthorized
	}

	var kind models.SubjectKind
	var ref *models.ProfileRef
	switch s.user.Role {
	case models.RoleStudent:
		kind, ref = models.SubjectStudent, s.user.Student
	case models.RoleTeacher:
		kind, ref = models.SubjectTeacher, s.user.Teacher
	default:
		return models.IdentityToken{}, appErrors.Clone(appErrors.ErrForbidden, "only students and teachers have a check-in code")
	}

	token := models.IdentityToken{Kind: kind, DisplayName: s.user.Name}
	if ref != nil {
		token.ID = ref.ID
	}
	if s.profile != nil {
		if s.profile.ID != 0 {
			token.ID = s.profile.ID
		}
		if s.profile.FullName != "" {
			token.DisplayName = s.profile.FullName
		}
	}
	if token.ID == 0 {
		return models.IdentityToken{}, appErrors.Clone(appErrors.ErrNotFound, "profile not loaded")
	}
	return token, nil
}
