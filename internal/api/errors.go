package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors callers can match with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrNotFound     = errors.New("not found")
	ErrNetwork      = errors.New("network unreachable")
)

// APIError is a non-2xx response decoded into the backend's error shape.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    interface{}
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.StatusCode)
}

// Unwrap maps well-known statuses onto sentinel errors so call sites can
// branch with errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// IsValidationError reports whether err is a 4xx response carrying a
// server-supplied detail message. Its Message is safe to show verbatim.
func IsValidationError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 &&
		apiErr.StatusCode != http.StatusUnauthorized &&
		apiErr.StatusCode != http.StatusTooManyRequests &&
		apiErr.Message != ""
}

// IsNetworkError reports whether err means no response was received at all,
// as opposed to a server-side failure.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// UserMessage translates an error into user-facing text. Views own their
// final wording; this is the shared fallback mapping.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return "Too many AI requests. Please wait a minute and try again."
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case IsNetworkError(err):
		return "Cannot reach the server. Check your connection and the configured API URL."
	case IsValidationError(err):
		var apiErr *APIError
		errors.As(err, &apiErr)
		return apiErr.Message
	default:
		return "Something went wrong on the server. Please try again later."
	}
}
