package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNetworkError(t *testing.T) {
	baseErr := errors.New("connection refused")

	t.Run("transport error", func(t *testing.T) {
		err := NewNetworkError("forward", baseErr)

		if err.Error() != "forward: connection refused" {
			t.Errorf("Error message = %q, want %q", err.Error(), "forward: connection refused")
		}

		if !errors.Is(err, baseErr) {
			t.Error("Expected error to wrap baseErr")
		}
	})

	t.Run("status error", func(t *testing.T) {
		err := NewStatusError("forward", http.StatusBadGateway)

		if err.Error() != "forward: unexpected status 502" {
			t.Errorf("Error message = %q", err.Error())
		}
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Error("Expected status error to wrap ErrUnexpectedStatus")
		}
	})
}

func TestConfigError(t *testing.T) {
	baseErr := errors.New("missing value")
	err := &ConfigError{Field: "forward_url", Err: baseErr}

	expected := "config error [forward_url]: missing value"
	if err.Error() != expected {
		t.Errorf("Error message = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, baseErr) {
		t.Error("Expected ConfigError to unwrap")
	}
}

func TestAPIErrorStatus(t *testing.T) {
	tests := []struct {
		err    *APIError
		status int
		code   string
	}{
		{ErrInvalidJSON, http.StatusBadRequest, "invalid_json"},
		{ErrInvalidSecret, http.StatusUnauthorized, "invalid_secret"},
		{ErrMethodNotAllowed, http.StatusMethodNotAllowed, "method_not_allowed"},
		{ErrDB, http.StatusInternalServerError, "db_error"},
		{ErrServer, http.StatusInternalServerError, "server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Status != tt.status || tt.err.Code != tt.code {
				t.Errorf("got %d/%s, want %d/%s", tt.err.Status, tt.err.Code, tt.status, tt.code)
			}
		})
	}

	wrapped := fmt.Errorf("decode: %w", ErrInvalidJSON)
	if !errors.Is(wrapped, ErrInvalidJSON) {
		t.Error("Expected wrapped APIError to match")
	}
}
