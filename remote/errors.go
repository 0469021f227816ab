package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid API client configuration")
	// ErrMissingAPIKey indicates an API-key call on a client without a key
	ErrMissingAPIKey = errors.New("API key is not configured")
)

// TransportError is a failed HTTP exchange: either the request never got an
// answer (Err is set) or the answer was not 2xx (StatusCode and Body are set).
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: API request failed with status %d: %s", e.Method, e.Path, e.StatusCode, string(e.Body))
}

// Unwrap returns the network error, if any
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if the error indicates a not found response
func (e *TransportError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *TransportError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}
