// Package apperr defines the domain error taxonomy shared by services,
// controllers, and tests. Services return these sentinels (usually wrapped
// with context via fmt.Errorf and %w); controllers translate them to HTTP
// status codes with Status.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput marks malformed or missing user-supplied fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateUsername is returned when registering a taken username.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials is returned on login failure. Unknown username
	// and wrong password both map here so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated marks a missing, malformed, or expired token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden marks a role or ownership mismatch.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks an absent resource.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when an order status change is
	// attempted from a terminal state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidPayload marks a scanned pickup payload that does not parse
	// as an order identifier.
	ErrInvalidPayload = errors.New("invalid pickup payload")

	// ErrStoreUnavailable wraps store failures (timeouts, lost connections).
	// Retryable; surfaced to clients as 503 with a generic message.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Status maps a domain error to its HTTP status code. Unrecognised errors
// map to 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for a domain error. Internal
// details never leak: anything outside the taxonomy collapses to a generic
// message.
func Message(err error) string {
	for _, sentinel := range []error{
		ErrInvalidInput, ErrDuplicateUsername, ErrInvalidCredentials,
		ErrUnauthenticated, ErrForbidden, ErrNotFound,
		ErrInvalidTransition, ErrInvalidPayload, ErrStoreUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal server error"
}
