package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Collection names the backend exposes generic CRUD for.
const (
	CollectionProducts      = "products"
	CollectionUsers         = "users"
	CollectionBrands        = "brands"
	CollectionCategories    = "categories"
	CollectionSubcategories = "subcategories"
	CollectionOrders        = "orders"
)

// List fetches a page of rows from a collection. The returned Page carries
// the backend's pagination block when one was sent.
func List[T any](ctx context.Context, c *Client, collection string, q ListQuery) (*Page[T], error) {
	var env Envelope[[]T]
	if err := c.Do(ctx, http.MethodGet, "/"+collection, q.Values(), nil, &env); err != nil {
		return nil, err
	}
	return &Page[T]{Items: env.Data, Meta: env.Meta, Message: env.Message}, nil
}

// Get fetches a single row by id. An absent row maps to ErrNotFound whether
// it was signaled by a 404 or by an unsuccessful envelope.
func Get[T any](ctx context.Context, c *Client, collection string, id int64) (T, error) {
	var env Envelope[T]
	var zero T
	if err := c.Do(ctx, http.MethodGet, resourcePath(collection, id), nil, nil, &env); err != nil {
		return zero, err
	}
	if !env.Success {
		return zero, fmt.Errorf("%s/%d: %w", collection, id, ErrNotFound)
	}
	return env.Data, nil
}

// Create posts a new row and returns the created payload.
func Create[T any](ctx context.Context, c *Client, collection string, payload any) (T, error) {
	var env Envelope[T]
	var zero T
	if err := c.Do(ctx, http.MethodPost, "/"+collection, nil, payload, &env); err != nil {
		return zero, err
	}
	return env.Data, nil
}

// Update puts changed fields to an existing row and returns the updated payload.
func Update[T any](ctx context.Context, c *Client, collection string, id int64, payload any) (T, error) {
	var env Envelope[T]
	var zero T
	if err := c.Do(ctx, http.MethodPut, resourcePath(collection, id), nil, payload, &env); err != nil {
		return zero, err
	}
	return env.Data, nil
}

// Remove deletes a row and returns the id the backend confirms deleted,
// or the requested id when the response payload omits one. When the
// backend rejects the delete because other rows still reference the
// target, the error is a *ConflictError so the caller can present an
// actionable message instead of a generic failure.
func Remove(ctx context.Context, c *Client, collection string, id int64) (int64, error) {
	var env Envelope[struct {
		ID int64 `json:"id"`
	}]
	err := c.Do(ctx, http.MethodDelete, resourcePath(collection, id), nil, nil, &env)
	if err == nil {
		if env.Data.ID != 0 {
			return env.Data.ID, nil
		}
		return id, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && isReferenceConflict(apiErr) {
		msg := apiErr.Detail
		if msg == "" {
			msg = apiErr.Message
		}
		return 0, &ConflictError{Collection: collection, ID: id, Message: msg}
	}
	return 0, err
}

// isReferenceConflict decides whether a delete rejection is a reference
// violation. A 409 always is; as a fallback, responses whose message names
// a reference or constraint violation also count, because the backend does
// not consistently use 409 for them.
func isReferenceConflict(apiErr *APIError) bool {
	if apiErr.Status == http.StatusConflict {
		return true
	}
	text := strings.ToLower(apiErr.Message + " " + apiErr.Detail)
	for _, marker := range []string{"referenc", "constraint", "foreign key", "in use"} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func resourcePath(collection string, id int64) string {
	return fmt.Sprintf("/%s/%d", collection, id)
}
