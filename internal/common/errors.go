package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Transport errors.
	ErrUnavailable  = errors.New("backend unavailable")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Validation errors.
	ErrInvalidArgument = errors.New("invalid argument")
)

// NotFoundError reports a missing singleton or record. It matches
// ErrNotFound via errors.Is.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RemoteWriteError is returned when an online write failed at the backend.
// A failed create leaves the mirror untouched. Update, delete and reorder
// patch the mirror before reaching the backend, so the mirror already holds
// the change.
//
// Resync is set when the backend may hold a partially applied change
// (a reorder that failed midway) and the caller should re-read the
// collection before trusting local state.
type RemoteWriteError struct {
	Op         string
	Collection string
	ID         string
	Resync     bool
	Err        error
}

func (e *RemoteWriteError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}

// RemoteReadError wraps a failed read of a mirrored collection. List logs
// it and serves the mirror instead of returning it.
type RemoteReadError struct {
	Collection string
	Err        error
}

func (e *RemoteReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Collection, e.Err)
}

func (e *RemoteReadError) Unwrap() error {
	return e.Err
}
