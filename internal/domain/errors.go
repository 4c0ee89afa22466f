package domain

import "errors"

// Sentinel errors for catalog operations
var (
	// ErrServerOffline indicates the Plex server is unreachable
	ErrServerOffline = errors.New("media server is unreachable")

	// ErrAuthFailed indicates the server rejected the token
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrSectionNotFound indicates the requested library section does not exist
	ErrSectionNotFound = errors.New("library section not found")

	// ErrNotConfigured indicates the server URL or token is missing
	ErrNotConfigured = errors.New("server url or token not configured")
)
