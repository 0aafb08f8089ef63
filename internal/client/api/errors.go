package api

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRejected is returned when the backend answers 401.
	// The session is left untouched; the caller decides what to do.
	ErrAuthenticationRejected = errors.New("authentication rejected")

	// ErrNetworkUnavailable is returned for transport failures: DNS,
	// refused connections, timeouts enforced by the transport.
	ErrNetworkUnavailable = errors.New("network unavailable")
)

// ServerError is a non-2xx, non-401 response.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

// rejection wraps ErrAuthenticationRejected with the server's message.
type rejection struct {
	message string
}

func (e *rejection) Error() string {
	if e.message == "" {
		return ErrAuthenticationRejected.Error()
	}
	return ErrAuthenticationRejected.Error() + ": " + e.message
}

func (e *rejection) Unwrap() error { return ErrAuthenticationRejected }
