// Package session holds the authenticated user's tokens and identity for the
// lifetime of the process, backed by the durable state file.
package session

import (
	"github.com/xcursocr/shopkit/internal/domain/catalog"
)

// Session is a point-in-time snapshot of the auth state.
// Authenticated is true iff both tokens and the user are present.
type Session struct {
	// AccessToken is the bearer credential attached to API requests.
	// Opaque to the client; may or may not be a JWT.
	AccessToken string

	// RefreshToken is exchanged for a new access token on 401.
	RefreshToken string

	// User is the identity returned by login or the profile endpoint.
	User *catalog.User

	// Authenticated reports whether the snapshot represents a logged-in user.
	Authenticated bool
}

// HasTokens reports whether both tokens are present.
func (s Session) HasTokens() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}
