// Package session persists the authenticated session between runs and makes
// auth state an explicit dependency: the cart synchronizer and order
// lifecycle client receive a Store at construction, hydrate happens on start
// and Clear on logout.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shoestore/storefront/internal/domain/identity"
)

// Session is the locally held view of the authenticated user.
type Session struct {
	Token string        `json:"token"`
	User  identity.User `json:"user"`
}

// Store holds the current session and mirrors it to a token file.
type Store struct {
	mu   sync.RWMutex
	path string
	cur  *Session
}

// NewStore creates a store backed by the given token file. The file is not
// read until Hydrate is called.
func NewStore(path string) *Store {
	return &Store{path: os.ExpandEnv(path)}
}

// Hydrate loads the persisted session, if any. A missing file means an
// unauthenticated session. An expired token is discarded the same way a
// browser drops a stale localStorage entry.
func (s *Store) Hydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupt session file: drop it rather than failing startup
		_ = os.Remove(s.path)
		return nil
	}
	if sess.Token == "" || tokenExpired(sess.Token) {
		_ = os.Remove(s.path)
		return nil
	}

	s.cur = &sess
	return nil
}

// Set stores a fresh session and persists it.
func (s *Store) Set(token string, user identity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = &Session{Token: token, User: user}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	data, err := json.Marshal(s.cur)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// Clear forgets the session in memory and on disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// Authenticated reports whether a non-expired session is present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur != nil && !tokenExpired(s.cur.Token)
}

// Token returns the bearer token, empty when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return ""
	}
	return s.cur.Token
}

// User returns the session user, the zero value when unauthenticated.
func (s *Store) User() identity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cur == nil {
		return identity.User{}
	}
	return s.cur.User
}

// UserID returns the session user's id, zero when unauthenticated.
func (s *Store) UserID() int64 {
	return s.User().ID
}

// tokenExpired reads the exp claim without verifying the signature. The
// server verifies tokens; the client only needs to know whether a round trip
// is worth attempting.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		// Opaque tokens have no readable expiry; let the server decide
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
