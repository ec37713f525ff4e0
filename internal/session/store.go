package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// ErrNoSession means no credential is stored.
var ErrNoSession = errors.New("no session: please log in")

// Store holds the bearer credential for the current session. Implementations
// also act as an oauth2.TokenSource so they plug straight into the HTTP
// client's transport.
type Store interface {
	oauth2.TokenSource
	Set(token string) error
	Get() (string, bool)
	Clear() error
}

// FileStore persists the credential in a single file, the terminal analogue
// of one browser-storage key. No expiry metadata is kept; an invalid token is
// normally discovered via a 401. The one proactive check: a credential that
// happens to parse as a JWT with a past exp claim is treated as absent and
// removed. Opaque tokens always pass.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileStore returns a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Set overwrites the stored credential. The file is created with 0600 and
// parent directories are created as needed.
func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// Get returns the stored credential, or false when none is usable.
func (s *FileStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", false
	}
	if expired(token, s.now()) {
		_ = os.Remove(s.path)
		return "", false
	}
	return token, true
}

// Clear removes the stored credential. Clearing an empty store is not an
// error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Token implements oauth2.TokenSource.
func (s *FileStore) Token() (*oauth2.Token, error) {
	token, ok := s.Get()
	if !ok {
		return nil, ErrNoSession
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// MemStore is an in-memory Store for tests and embedding.
type MemStore struct {
	mu    sync.Mutex
	token string
	now   func() time.Time
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{now: time.Now}
}

func (s *MemStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || expired(s.token, s.now()) {
		s.token = ""
		return "", false
	}
	return s.token, true
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

func (s *MemStore) Token() (*oauth2.Token, error) {
	token, ok := s.Get()
	if !ok {
		return nil, ErrNoSession
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// expired reports whether the credential is a JWT whose exp claim has
// passed. The signature is never verified here; the token stays opaque for
// authentication purposes and anything that fails to parse is assumed live.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
