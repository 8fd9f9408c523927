// Package state provides file-based persistence for shopkit client state.
//
// The state.json file stores everything that must survive restarts: the
// auth tokens, the logged-in user snapshot, and the shopping cart. This
// package provides atomic writes, file locking, and backup functionality.
// JSON key names are stable across releases; changing them would orphan
// existing sessions and carts.
package state

import (
	"time"

	"github.com/xcursocr/shopkit/internal/domain/cart"
	"github.com/xcursocr/shopkit/internal/domain/catalog"
)

// AppState is the top-level structure persisted in state.json.
type AppState struct {
	// Version is the schema version for forward compatibility. Currently "1".
	Version string `json:"version"`

	// AccessToken is the bearer credential for API requests.
	// Empty when logged out.
	AccessToken string `json:"access_token,omitempty"`

	// RefreshToken is exchanged for a new access token on 401.
	// Empty when logged out.
	RefreshToken string `json:"refresh_token,omitempty"`

	// User is the identity snapshot from the last login or profile fetch.
	User *catalog.User `json:"user,omitempty"`

	// Cart is the persisted shopping cart line items.
	Cart []cart.Item `json:"cart,omitempty"`

	// CreatedAt is when the state file was first written (UTC).
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the time of the last write (UTC).
	UpdatedAt time.Time `json:"updated_at"`
}
