// Package common defines shared constants and sentinel errors used across
// the client and server layers of ShelfTrack. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Identity / session errors.
	ErrUnauthenticated = errors.New("not signed in")
	ErrForbidden       = errors.New("record belongs to another user")

	// Remote store errors, produced by the transport boundary.
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnavailable      = errors.New("service unavailable")
	ErrTimeout          = errors.New("operation timed out")

	// ErrIndexRequired signals that the backend rejected an ordered query
	// because no supporting index exists. The data-access layer falls back
	// to the unordered form; this value never reaches callers.
	ErrIndexRequired = errors.New("query requires an index")

	// Registration errors.
	ErrEmailTaken = errors.New("email already registered")

	// Auth token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrBadCredentials covers a wrong email/password pair on sign-in.
	ErrBadCredentials = errors.New("invalid email or password")
)
