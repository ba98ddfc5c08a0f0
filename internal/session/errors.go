package session

import (
	"errors"
	"fmt"
)

// Authentication errors.
var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidResponse    = errors.New("invalid response from auth backend")
)

// Refresh errors.
var (
	ErrNoRefreshToken = errors.New("no refresh token available")
	ErrRefreshFailed  = errors.New("token refresh failed")
)

// Backend error codes that map onto sentinel errors.
const (
	codeInvalidCredentials = "auth:invalid_credentials"
	codeMissingCredentials = "auth:missing_credentials"
	codeUnauthorized       = "core:unauthorized"
)

// AuthError is a failure reported by the auth backend. Message is meant for
// display.
type AuthError struct {
	Status  int
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("auth backend: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("auth backend: %s: %s", e.Code, e.Message)
}

// Unwrap exposes the matching sentinel so callers can use errors.Is.
func (e *AuthError) Unwrap() error {
	switch e.Code {
	case codeInvalidCredentials:
		return ErrInvalidCredentials
	case codeMissingCredentials:
		return ErrMissingCredentials
	case codeUnauthorized:
		return ErrNotAuthenticated
	}
	return nil
}

// DisplayMessage returns the human-readable part of err for a login form.
func DisplayMessage(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
