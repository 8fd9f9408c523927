package session

import (
	"log/slog"
	"sync"

	"github.com/xcursocr/shopkit/internal/domain/catalog"
)

// Persister writes the session fields to durable storage so they survive
// process restarts. Implementations: state file (prod), in-memory (test).
type Persister interface {
	// SaveSession persists both tokens and the user snapshot. Empty tokens
	// and a nil user clear the stored session.
	SaveSession(accessToken, refreshToken string, user *catalog.User) error
}

// Store is the single owner of the process's auth state. It is safe for
// concurrent use; every mutation is mirrored to the Persister so the REST
// client can recover tokens on the next start.
//
// Mutations never fail: a persistence error is logged and the in-memory
// state still changes, matching the rule that no auth state operation may
// throw.
type Store struct {
	mu       sync.RWMutex
	sess     Session
	hydrated bool
	persist  Persister
	logger   *slog.Logger
}

// NewStore creates an empty, not-yet-hydrated session store.
func NewStore(persist Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		persist: persist,
		logger:  logger,
	}
}

// Hydrate installs state loaded from durable storage. It does not write
// back, and it does not mark the store hydrated; the caller signals that
// via MarkHydrated once the load has fully settled.
func (s *Store) Hydrate(accessToken, refreshToken string, user *catalog.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}
	s.sess.Authenticated = s.sess.HasTokens() && user != nil
}

// MarkHydrated records that the initial durable load has completed.
// Until then Authenticated reports false regardless of contents, so no
// authentication decision can be made against half-loaded state.
func (s *Store) MarkHydrated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrated = true
}

// Hydrated reports whether the initial durable load has completed.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Set replaces all three session fields and marks the session authenticated.
func (s *Store) Set(accessToken, refreshToken string, user *catalog.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = Session{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		User:          user,
		Authenticated: true,
	}
	s.persistLocked()
}

// SetAccessToken replaces the access token in place after a successful
// refresh, leaving the refresh token and user untouched.
func (s *Store) SetAccessToken(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess.AccessToken = accessToken
	s.persistLocked()
}

// Clear resets the session to the empty, unauthenticated state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = Session{}
	s.persistLocked()
}

// Snapshot returns a copy of the current session. Before hydration the
// snapshot always reports unauthenticated.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := s.sess
	if !s.hydrated {
		sess.Authenticated = false
	}
	return sess
}

// Authenticated reports whether a hydrated, fully-populated session exists.
func (s *Store) Authenticated() bool {
	return s.Snapshot().Authenticated
}

// Tokens returns the current access and refresh tokens. Either may be empty.
func (s *Store) Tokens() (accessToken, refreshToken string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.AccessToken, s.sess.RefreshToken
}

// User returns the current user, or nil when logged out.
func (s *Store) User() *catalog.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.User
}

func (s *Store) persistLocked() {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveSession(s.sess.AccessToken, s.sess.RefreshToken, s.sess.User); err != nil {
		s.logger.Warn("failed to persist session", "error", err)
	}
}
