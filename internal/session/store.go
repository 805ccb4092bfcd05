package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/requestdesk/requestdesk/internal/access"
	"github.com/requestdesk/requestdesk/internal/errors"
)

// credentialFileMode keeps the stored bearer token private to the user.
const credentialFileMode = 0o600

// Store owns the current Session and the durable credential behind it.
//
// The stored credential file is the only state that survives a restart; the
// Session itself is always re-derived from it. All methods are safe for
// concurrent use.
type Store struct {
	mu       sync.Mutex
	path     string
	now      func() time.Time
	resolved bool
	session  *Session
	raw      string
}

// NewStore creates a session store backed by the credential file at path.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
	}
}

// DefaultCredentialPath returns the standard location of the credential file.
func DefaultCredentialPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeCredentialStorage, "cannot locate user config directory", err)
	}
	return filepath.Join(dir, "requestdesk", "credentials"), nil
}

// Establish parses a freshly issued credential and, on success, persists it
// and installs the resulting Session.
//
// A malformed or already-expired credential yields an error, and the store is
// terminated so no stale credential lingers on disk. The failure is never
// fatal; the caller simply remains logged out.
func (s *Store) Establish(raw string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := decode(strings.TrimSpace(raw), s.now())
	if err != nil {
		s.terminateLocked()
		return nil, err
	}

	if err := s.persist(strings.TrimSpace(raw)); err != nil {
		s.terminateLocked()
		return nil, err
	}

	s.resolved = true
	s.session = sess
	s.raw = strings.TrimSpace(raw)
	return sess, nil
}

// Current returns the active Session, re-deriving it from the stored
// credential on first call. A credential found expired at load time is
// terminated immediately.
func (s *Store) Current() (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resolveLocked()

	if s.session == nil {
		return nil, false
	}
	if s.session.Expired(s.now()) {
		s.terminateLocked()
		return nil, false
	}
	return s.session, true
}

// Token returns the raw bearer credential for the API client, if a valid
// session exists.
func (s *Store) Token() (string, bool) {
	if _, ok := s.Current(); !ok {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw, s.raw != ""
}

// Terminate clears the Session and the stored credential. It is idempotent
// and never fails on an already-empty store.
func (s *Store) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terminateLocked()
}

// State exposes the store's condition to the route guard without forcing
// resolution; before the first Current or Establish call the guard sees an
// indeterminate session.
func (s *Store) State() access.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resolved {
		return access.SessionState{Resolving: true}
	}
	if s.session == nil || s.session.Expired(s.now()) {
		return access.SessionState{}
	}
	return access.SessionState{LoggedIn: true, Role: s.session.Role}
}

func (s *Store) resolveLocked() {
	if s.resolved {
		return
	}
	s.resolved = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		// No stored credential means logged out, not an error.
		return
	}

	sess, err := decode(strings.TrimSpace(string(data)), s.now())
	if err != nil {
		s.terminateLocked()
		return
	}

	s.session = sess
	s.raw = strings.TrimSpace(string(data))
}

func (s *Store) terminateLocked() {
	s.resolved = true
	s.session = nil
	s.raw = ""
	_ = os.Remove(s.path)
}

func (s *Store) persist(raw string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeCredentialStorage, "cannot create credential directory", err)
	}
	if err := os.WriteFile(s.path, []byte(raw+"\n"), credentialFileMode); err != nil {
		return errors.Wrap(errors.ErrCodeCredentialStorage, "cannot persist credential", err)
	}
	return nil
}
