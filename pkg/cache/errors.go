package cache

import "errors"

// Sentinel errors for cache construction.
var (
	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrMissingAddr is returned by Open when a network backend has no address.
	ErrMissingAddr = errors.New("cache backend address required")
)
