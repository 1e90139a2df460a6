// Package vimeo provides a typed client for the Vimeo REST API:
// identity resolution, incremental library listing, and title updates.
package vimeo

import "fmt"

// AuthError indicates identity resolution failed. It is the only error in
// the package that callers treat as fatal to a run.
// Use errors.As() to check for it in calling code.
type AuthError struct {
	Status int // HTTP status, 0 on transport failure
	Err    error
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("authentication failed (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// TransportError wraps a network-level failure on a single API call.
type TransportError struct {
	Op  string // "get" or "patch"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError indicates a non-2xx response. It carries the status and a
// bounded prefix of the body for diagnostics.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API error (status %d)", e.Status)
	}
	return fmt.Sprintf("API error (status %d): %s", e.Status, e.Body)
}

// DecodeError indicates a response body that could not be decoded into the
// expected shape. Listing stops at the page that produced it.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode response: %v", e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }
