package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/tutorhub/internal/models"
)

// MemoryStore keeps the sandbox data in process memory. It answers the same
// calls as the Postgres repositories and returns sql.ErrNoRows the same way.
type MemoryStore struct {
	mu          sync.RWMutex
	accounts    []models.Account
	students    map[int64]models.Profile
	teachers    map[int64]models.Profile
	courses     map[int64]models.Course
	sessions    map[int64]models.ClassSession
	attendances []models.AttendanceRecord
	nextID      int64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		students: make(map[int64]models.Profile),
		teachers: make(map[int64]models.Profile),
		courses:  make(map[int64]models.Course),
		sessions: make(map[int64]models.ClassSession),
		nextID:   1000,
	}
}

// AddAccount stores a login with a bcrypt hash of password.
func (s *MemoryStore) AddAccount(account models.Account, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	account.PasswordHash = string(hash)
	s.mu.Lock()
	defer s.mu.Unlock()
	if account.ID == 0 {
		account.ID = s.allocID()
	}
	s.accounts = append(s.accounts, account)
	return nil
}

func (s *MemoryStore) AddStudent(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students[p.ID] = p
}

func (s *MemoryStore) AddTeacher(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teachers[p.ID] = p
}

func (s *MemoryStore) AddCourse(c models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[c.ID] = c
}

// AddSession stores a session. Course and teacher are resolved on read.
func (s *MemoryStore) AddSession(cs models.ClassSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs.Date = models.DayOf(cs.Date)
	cs.Course = nil
	cs.Teacher = nil
	s.sessions[cs.ID] = cs
}

// Enroll attaches a student or teacher to a session.
func (s *MemoryStore) Enroll(sessionID int64, kind models.SubjectKind, subjectID int64, confirmation models.ConfirmationStatus) models.AttendanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := subjectID
	rec := models.AttendanceRecord{ID: s.allocID(), ClassSessionID: sessionID, ConfirmationStatus: confirmation}
	if kind == models.SubjectTeacher {
		rec.TeacherID = &id
	} else {
		rec.StudentID = &id
	}
	if rec.ConfirmationStatus == "" {
		rec.ConfirmationStatus = models.ConfirmationPending
	}
	s.attendances = append(s.attendances, rec)
	return rec
}

func (s *MemoryStore) allocID() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) FindByLogin(ctx context.Context, nameOrEmail string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, nameOrEmail) || strings.EqualFold(a.Name, nameOrEmail) {
			acc := a
			return &acc, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *MemoryStore) MarkLoggedIn(ctx context.Context, id int64, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			t := ts
			s.accounts[i].LastLogin = &t
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *MemoryStore) FindStudent(ctx context.Context, id int64) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (s *MemoryStore) FindTeacher(ctx context.Context, id int64) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (s *MemoryStore) UpdateAttendanceStatus(ctx context.Context, sessionID int64, kind models.SubjectKind, subjectID int64, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.attendances {
		if rec.ClassSessionID != sessionID {
			continue
		}
		k, id := rec.Subject()
		if k == kind && id == subjectID {
			s.attendances[i].Status = status
			out := s.attendances[i]
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *MemoryStore) UpdateConfirmationStatus(ctx context.Context, sessionID, studentID int64, status models.ConfirmationStatus) (*models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.attendances {
		if rec.ClassSessionID == sessionID && rec.StudentID != nil && *rec.StudentID == studentID {
			s.attendances[i].ConfirmationStatus = status
			out := s.attendances[i]
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *MemoryStore) ListByStudent(ctx context.Context, studentID int64) ([]models.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AttendanceRecord, 0)
	for _, rec := range s.attendances {
		if rec.StudentID == nil || *rec.StudentID != studentID {
			continue
		}
		cs, ok := s.sessions[rec.ClassSessionID]
		if !ok {
			continue
		}
		joined := s.resolve(cs)
		rec.ClassSession = &joined
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ClassSession, out[j].ClassSession
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.StartTime < b.StartTime
	})
	return out, nil
}

func (s *MemoryStore) Roster(ctx context.Context, sessionID int64) ([]models.RosterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RosterEntry, 0)
	for _, rec := range s.attendances {
		if rec.ClassSessionID != sessionID || rec.StudentID == nil {
			continue
		}
		out = append(out, models.RosterEntry{
			AttendanceID:       rec.ID,
			StudentID:          *rec.StudentID,
			FullName:           s.students[*rec.StudentID].FullName,
			Status:             rec.Status,
			ConfirmationStatus: rec.ConfirmationStatus,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (s *MemoryStore) ListByDate(ctx context.Context, date string) ([]models.ClassSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ClassSession, 0)
	for _, cs := range s.sessions {
		if cs.Date == date {
			out = append(out, s.resolve(cs))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) SessionDate(ctx context.Context, sessionID int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.sessions[sessionID]
	if !ok {
		return "", sql.ErrNoRows
	}
	return cs.Date, nil
}

// resolve joins course and teacher onto a copy of cs. Callers hold the lock.
func (s *MemoryStore) resolve(cs models.ClassSession) models.ClassSession {
	if c, ok := s.courses[cs.CourseID]; ok {
		course := c
		cs.Course = &course
	}
	if cs.TeacherID != nil {
		if t, ok := s.teachers[*cs.TeacherID]; ok {
			cs.Teacher = &models.TeacherSummary{ID: t.ID, FullName: t.FullName}
		}
	}
	return cs
}
