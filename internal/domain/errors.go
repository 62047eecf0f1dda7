package domain

import (
	"errors"
	"net/http"
	"strconv"
)

// APIError is an error that maps onto a JSON error response
type APIError struct {
	Status int    // HTTP status code
	Code   string // machine-readable code placed in the "error" field
}

func (e *APIError) Error() string {
	return e.Code + " (" + strconv.Itoa(e.Status) + ")"
}

var (
	// ErrInvalidJSON is returned when the request body cannot be parsed
	ErrInvalidJSON = &APIError{Status: http.StatusBadRequest, Code: "invalid_json"}

	// ErrInvalidSecret is returned when no authentication strategy matched
	ErrInvalidSecret = &APIError{Status: http.StatusUnauthorized, Code: "invalid_secret"}

	// ErrMethodNotAllowed is returned for verbs other than GET and POST
	ErrMethodNotAllowed = &APIError{Status: http.StatusMethodNotAllowed, Code: "method_not_allowed"}

	// ErrDB is returned when the signal list cannot be read
	ErrDB = &APIError{Status: http.StatusInternalServerError, Code: "db_error"}

	// ErrServer covers any other failure while processing a delivery
	ErrServer = &APIError{Status: http.StatusInternalServerError, Code: "server_error"}
)

// NetworkError represents a failed outbound call
type NetworkError struct {
	Op         string // Operation that failed (e.g., "forward")
	StatusCode int    // Response status, 0 when no response was received
	Err        error  // Underlying error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return e.Op + ": unexpected status " + strconv.Itoa(e.StatusCode)
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps a transport level failure
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}

// NewStatusError reports a non-2xx response
func NewStatusError(op string, status int) *NetworkError {
	return &NetworkError{Op: op, StatusCode: status, Err: ErrUnexpectedStatus}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ErrUnexpectedStatus is wrapped by NetworkError for non-2xx responses
var ErrUnexpectedStatus = errors.New("unexpected status")
