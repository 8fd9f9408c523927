package rest

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrUnauthorized is returned for 401 responses that the refresh
	// protocol could not or must not resolve (login endpoint, already
	// retried).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned for 403 responses.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned for 404 responses and for envelopes that
	// signal an absent row.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the backend rejects an operation due to
	// existing references, e.g. deleting a product that an order points to.
	ErrConflict = errors.New("conflict")

	// ErrValidation is returned for 400 responses carrying field-level
	// messages from the backend.
	ErrValidation = errors.New("validation failed")

	// ErrUnreachable is returned when no HTTP response was received at all
	// (DNS failure, refused connection, timeout).
	ErrUnreachable = errors.New("backend unreachable")

	// ErrRefreshFailed is returned to the original caller when the token
	// refresh itself failed. Terminal: both tokens have been cleared and
	// the session-expired notification has fired.
	ErrRefreshFailed = errors.New("token refresh failed")
)

// APIError is an HTTP error response from the backend with the envelope's
// message preserved. Status-specific conditions (403, 404, 409, 400) match
// their sentinels through Is.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Message is the human-readable message from the response envelope.
	Message string
	// Detail is the envelope's error field, when present.
	Detail string
}

// Error returns the error message.
func (e *APIError) Error() string {
	if e.Detail != "" && e.Detail != e.Message {
		return fmt.Sprintf("backend returned %d: %s (%s)", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Is reports whether this error matches one of the taxonomy sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == 401
	case ErrForbidden:
		return e.Status == 403
	case ErrNotFound:
		return e.Status == 404
	case ErrConflict:
		return e.Status == 409
	case ErrValidation:
		return e.Status == 400
	}
	return false
}

// ConflictError is returned when a delete was rejected because other rows
// still reference the target. It carries enough context for the caller to
// present an actionable message instead of a generic failure.
type ConflictError struct {
	// Collection is the resource collection the delete targeted.
	Collection string
	// ID is the identifier of the row that could not be deleted.
	ID int64
	// Message is the backend's explanation of the reference violation.
	Message string
}

// Error returns a human-readable description of the reference conflict.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot delete %s/%d: %s", e.Collection, e.ID, e.Message)
}

// Is reports whether this error matches ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// UnreachableError is returned when the backend could not be contacted.
type UnreachableError struct {
	// Cause is the underlying transport error.
	Cause error
}

// Error returns a human-readable description of the transport failure.
func (e *UnreachableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("backend unreachable: %v", e.Cause)
	}
	return "backend unreachable"
}

// Unwrap returns the underlying error cause.
func (e *UnreachableError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches ErrUnreachable.
func (e *UnreachableError) Is(target error) bool {
	return target == ErrUnreachable
}

// RefreshFailedError is returned when the refresh protocol itself failed:
// no refresh token was stored, the refresh endpoint rejected the token, or
// the refresh call never reached the backend. The session has already been
// cleared by the time the caller sees this error.
type RefreshFailedError struct {
	// Cause is the refresh call's failure, or nil when no refresh token
	// was available.
	Cause error
}

// Error returns a human-readable description of the refresh failure.
func (e *RefreshFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("token refresh failed: %v", e.Cause)
	}
	return "token refresh failed: no refresh token available"
}

// Unwrap returns the underlying error cause.
func (e *RefreshFailedError) Unwrap() error {
	return e.Cause
}

// Is reports whether this error matches ErrRefreshFailed.
func (e *RefreshFailedError) Is(target error) bool {
	return target == ErrRefreshFailed
}
