// Package session holds the authenticated user's tokens. The access token
// lives in memory only; the refresh and CSRF tokens are persisted to
// ~/.config/trolley/session.toml so the user stays signed in across runs.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultSessionPath = "~/.config/trolley/session.toml"

// persisted is the on-disk shape of a session.
type persisted struct {
	Refresh  string `toml:"refresh_token"`
	CSRF     string `toml:"csrf_token"`
	UserID   int64  `toml:"user_id"`
	Username string `toml:"username"`
	Email    string `toml:"email"`
}

// Session is the client's auth state. It implements shop.Credentials.
type Session struct {
	mu   sync.RWMutex
	path string

	access   string // never persisted
	refresh  string
	csrf     string
	userID   int64
	username string
	email    string
}

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Load reads the session file at path (default when empty). A missing file
// yields a signed-out session rather than an error.
func Load(path string) (*Session, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	s := &Session{path: resolved}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var p persisted
	if err := toml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	s.refresh = strings.TrimSpace(p.Refresh)
	s.csrf = strings.TrimSpace(p.CSRF)
	s.userID = p.UserID
	s.username = strings.TrimSpace(p.Username)
	s.email = strings.TrimSpace(p.Email)
	return s, nil
}

// Establish records a fresh login and persists the durable parts.
func (s *Session) Establish(access, refresh, csrf string, userID int64, username, email string) error {
	s.mu.Lock()
	s.access = access
	s.refresh = refresh
	s.csrf = csrf
	s.userID = userID
	s.username = username
	s.email = email
	s.mu.Unlock()
	return s.save()
}

// Authenticated reports whether a refresh token is available.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh != ""
}

// Username returns the signed-in username, empty when signed out.
func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// AccessToken returns the in-memory access token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// SetAccessToken replaces the in-memory access token.
func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	s.access = token
	s.mu.Unlock()
}

// RefreshToken returns the durable refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// CSRFToken returns the CSRF token issued at login.
func (s *Session) CSRFToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.csrf
}

// Clear wipes the session in memory and on disk. Called on logout and when
// a token refresh fails.
func (s *Session) Clear() {
	s.mu.Lock()
	path := s.path
	s.access = ""
	s.refresh = ""
	s.csrf = ""
	s.userID = 0
	s.username = ""
	s.email = ""
	s.mu.Unlock()
	if path != "" {
		_ = os.Remove(path)
	}
}

func (s *Session) save() error {
	s.mu.RLock()
	p := persisted{
		Refresh:  s.refresh,
		CSRF:     s.csrf,
		UserID:   s.userID,
		Username: s.username,
		Email:    s.email,
	}
	path := s.path
	s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSessionPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
