// Package common defines the sentinel errors shared by the Happy Places
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidEntry      = errors.New("invalid entry")

	// User-facing session errors. All of them are recovered inside the
	// capture session and only ever surface as messages.
	ErrPermissionDenied    = errors.New("permission denied")
	ErrCaptureCancelled    = errors.New("capture cancelled")
	ErrCaptureFailed       = errors.New("capture failed")
	ErrLocationUnavailable = errors.New("location unavailable")

	// Session flow control.
	ErrCancelled         = errors.New("session cancelled")
	ErrSuperseded        = errors.New("session superseded")
	ErrStaleCapture      = errors.New("stale capture result")
	ErrNoActiveSession   = errors.New("no active session")
	ErrInvalidTransition = errors.New("invalid session transition")
)
