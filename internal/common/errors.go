// Package common defines shared constants and error kinds used across the
// client layers. Callers should use errors.Is / errors.As to match them.
package common

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Request construction errors.
	ErrMalformedURL    = errors.New("malformed url")
	ErrUnknownEndpoint = errors.New("unknown server endpoint")

	// Auth errors.
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNoSessionToken = errors.New("no session id returned in headers")

	// Precondition errors.
	ErrNoCurrentUser = errors.New("no current user")

	// Delivery errors.
	ErrCanceled = errors.New("request canceled")
)

// TransportError wraps a network or connectivity failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is returned when the server answered with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Is reports 401 and 403 responses as ErrUnauthorized.
func (e *StatusError) Is(target error) bool {
	if target != ErrUnauthorized {
		return false
	}
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// maxFragment bounds how much of the payload DecodeError.Error prints.
const maxFragment = 120

// DecodeError reports a JSON or date parse failure. Fragment keeps the
// payload that failed so it can be inspected.
type DecodeError struct {
	Fragment string
	Err      error
}

func (e *DecodeError) Error() string {
	f := e.Fragment
	if len(f) > maxFragment {
		f = f[:maxFragment] + "..."
	}
	return fmt.Sprintf("decode error: %v (payload: %q)", e.Err, f)
}

func (e *DecodeError) Unwrap() error { return e.Err }
