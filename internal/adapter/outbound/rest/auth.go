package rest

import (
	"context"
	"net/http"

	"github.com/xcursocr/shopkit/internal/domain/catalog"
)

// AuthResult is the payload of a successful login: both tokens plus the
// user they belong to.
type AuthResult struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         catalog.User `json:"userData"`
}

// Login exchanges credentials for tokens and the user. It has no side
// effect on stored session state; committing the result is the caller's
// job, which keeps the HTTP layer out of the state-ownership business.
//
// A 401 here means wrong credentials and propagates directly; the pipeline
// never runs the refresh protocol for this endpoint.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var env Envelope[AuthResult]
	if err := c.Do(ctx, http.MethodPost, loginPath, nil, body, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Register creates a new account and returns the created user id.
func (c *Client) Register(ctx context.Context, payload catalog.RegisterPayload) (int64, error) {
	var env Envelope[struct {
		ID int64 `json:"id"`
	}]
	if err := c.Do(ctx, http.MethodPost, "/auth/register", nil, payload, &env); err != nil {
		return 0, err
	}
	return env.Data.ID, nil
}

// Profile returns the user the current access token belongs to. Used to
// repopulate a session after restart when only the tokens were persisted.
func (c *Client) Profile(ctx context.Context) (*catalog.User, error) {
	var env Envelope[catalog.User]
	if err := c.Do(ctx, http.MethodGet, "/auth/profile", nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}
