// Package tokenstore persists the bearer token and the signed-in user between
// runs, the way the phone app keeps them in its local storage.
package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/noah-isme/tutorhub/internal/models"
)

// Session is the persisted sign-in state.
type Session struct {
	Token   string          `json:"token"`
	User    *models.User    `json:"user,omitempty"`
	Profile *models.Profile `json:"profile,omitempty"`
	SavedAt time.Time       `json:"saved_at"`
}

// Store loads and saves the session. Load returns (nil, nil) when nothing
// has been saved.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Clear(ctx context.Context) error
}

// FileStore keeps the session as a JSON file readable only by the owner.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path is the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return &session, nil
}

func (s *FileStore) Save(ctx context.Context, session *Session) error {
	if session == nil {
		return s.Clear(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.SavedAt.IsZero() {
		session.SavedAt = time.Now().UTC()
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("prepare session directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemoryStore keeps the session in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	session *Session
}

func (s *MemoryStore) Load(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, nil
	}
	cp := *s.session
	return &cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		s.session = nil
		return nil
	}
	cp := *session
	s.session = &cp
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	return s.Save(ctx, nil)
}

// TokenSource adapts a Store to the API client's token lookup.
type TokenSource struct {
	Store Store
}

// Token returns the persisted bearer token, or "" when signed out.
func (t TokenSource) Token(ctx context.Context) (string, error) {
	if t.Store == nil {
		return "", nil
	}
	session, err := t.Store.Load(ctx)
	if err != nil || session == nil {
		return "", err
	}
	return session.Token, nil
}
