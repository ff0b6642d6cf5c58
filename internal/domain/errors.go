package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested article, summary or bookmark does not exist
	ErrNotFound = errors.New("not found")

	// ErrServerOffline indicates the news API is unreachable
	ErrServerOffline = errors.New("news server is unreachable")

	// ErrUnauthorized indicates the server rejected the credentials or token
	ErrUnauthorized = errors.New("authentication failed")

	// ErrLoginRequired indicates the operation needs an authenticated session
	ErrLoginRequired = errors.New("login required")

	// ErrValidation indicates the request was rejected as invalid
	ErrValidation = errors.New("validation failed")

	// ErrSuperseded indicates a newer request replaced this one before it finished
	ErrSuperseded = errors.New("request superseded")

	// ErrSessionReset indicates the session was torn down and all state must be rebuilt
	ErrSessionReset = errors.New("session reset")
)

// APIError carries the status and message of a non-2xx API response
type APIError struct {
	Status  int
	Message string
	Path    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Path, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Path, e.Status)
}

// Unwrap maps the status onto the sentinel errors
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == 401:
		return ErrUnauthorized
	case e.Status == 404:
		return ErrNotFound
	case e.Status >= 400 && e.Status < 500:
		return ErrValidation
	default:
		return nil
	}
}

// ValidationError is a client-side form validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// UserMessage returns the text to show for an error: the server message when
// one was sent, otherwise the fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return fallback
}
