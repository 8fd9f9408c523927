// Package service wires the REST client, the session store, and the cart
// into the operations the CLI commands invoke.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xcursocr/shopkit/internal/adapter/outbound/rest"
	"github.com/xcursocr/shopkit/internal/domain/catalog"
	"github.com/xcursocr/shopkit/internal/domain/session"
)

// AuthService composes the auth endpoints with session-state ownership:
// the REST layer returns tokens, this service commits them.
type AuthService struct {
	client   *rest.Client
	sessions *session.Store
	logger   *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(client *rest.Client, sessions *session.Store, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		client:   client,
		sessions: sessions,
		logger:   logger,
	}
}

// Login authenticates against the backend and, on success, commits tokens
// and user to the session store.
func (s *AuthService) Login(ctx context.Context, email, password string) (*catalog.User, error) {
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	user := res.User
	s.sessions.Set(res.AccessToken, res.RefreshToken, &user)
	s.logger.Info("logged in", "email", user.Email, "role", user.Role)
	return &user, nil
}

// Register creates a new account. It does not log the account in; the
// backend requires an explicit login afterwards.
func (s *AuthService) Register(ctx context.Context, payload catalog.RegisterPayload) (int64, error) {
	v, err := catalog.NewValidator()
	if err != nil {
		return 0, err
	}
	if err := catalog.ValidatePayload(v, payload); err != nil {
		return 0, err
	}
	return s.client.Register(ctx, payload)
}

// Bootstrap revalidates a restored session. When tokens survived the
// restart but the user snapshot did not, it refetches the profile; a token
// that is already unusable falls through the normal refresh protocol and,
// on terminal failure, leaves the store cleared.
func (s *AuthService) Bootstrap(ctx context.Context) error {
	sess := s.sessions.Snapshot()
	if !sess.HasTokens() {
		return nil
	}
	if sess.User != nil {
		return nil
	}

	user, err := s.client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	// Re-read: the profile fetch may have refreshed the access token.
	access, refresh := s.sessions.Tokens()
	s.sessions.Set(access, refresh, user)
	return nil
}

// Logout clears the session unconditionally. Purely local: it cannot fail
// and makes no network call.
func (s *AuthService) Logout() {
	s.sessions.Clear()
	s.logger.Info("logged out")
}

// CurrentUser fetches the profile for the active session.
func (s *AuthService) CurrentUser(ctx context.Context) (*catalog.User, error) {
	return s.client.Profile(ctx)
}
