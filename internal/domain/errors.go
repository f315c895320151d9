package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound signals a missing resource (HTTP 404 from the backend).
	ErrNotFound = errors.New("not found")
	// ErrUnavailable signals a network failure or request timeout.
	ErrUnavailable = errors.New("service unavailable")
	// ErrBackend signals any other non-2xx backend response.
	ErrBackend = errors.New("backend error")
	// ErrSigningFailed signals a failed signed-URL exchange.
	ErrSigningFailed = errors.New("signing failed")
	// ErrEmptyQuery signals a blank search query.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrInvalidArgument signals a malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotReady signals an operation that needs a cached batch before one exists.
	ErrNotReady = errors.New("no cached results")
	// ErrSessionLimit signals that the session registry is full.
	ErrSessionLimit = errors.New("too many sessions")
)

// StatusNetwork is the pseudo HTTP status recorded when no response was received.
const StatusNetwork = 0

// APIError describes a failed backend call.
// Status is 0 for transport failures and 408 for client-side timeouts.
type APIError struct {
	Status   int
	Endpoint string
	Message  string
}

func (e *APIError) Error() string {
	if e.Endpoint == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

// Unwrap maps the status onto the error taxonomy so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case StatusNetwork, http.StatusRequestTimeout:
		return ErrUnavailable
	default:
		return ErrBackend
	}
}

// NewAPIError creates an APIError.
func NewAPIError(status int, endpoint, message string) error {
	return &APIError{Status: status, Endpoint: endpoint, Message: message}
}

// APIMessage returns the backend-provided message of err, or err.Error()
// when err carries no APIError.
func APIMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
