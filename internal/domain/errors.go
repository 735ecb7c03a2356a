package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates a backend endpoint is unreachable
	ErrServerOffline = errors.New("server is unreachable")

	// ErrAuthFailed indicates a credential was rejected
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrDeviceNotFound indicates no active session matched the
	// configured device target
	ErrDeviceNotFound = errors.New("playback device not found")

	// ErrItemNotFound indicates the requested media item does not exist
	ErrItemNotFound = errors.New("media item not found")

	// ErrNotConfigured indicates a client was used before its endpoint
	// and credential were set
	ErrNotConfigured = errors.New("service is not configured")
)
