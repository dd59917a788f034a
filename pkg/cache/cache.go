// Package cache provides byte-level caching for fetched trees and rendered
// artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: Redis via go-redis, for the HTTP server
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: caching disabled
//
// [Open] builds a backend from [Options], which is how the CLI and server
// select one from configuration.
//
// # Keys
//
// A [Keyer] derives cache keys. [DefaultKeyer] hashes the inputs that
// affect an entry, so changing any render option produces a new key:
//
//	k := cache.NewDefaultKeyer()
//	key := k.ArtifactKey(cache.Hash(treeJSON), cache.ArtifactKeyOpts{Format: "svg"})
//
// Use [NewScopedKeyer] to isolate tenants sharing one backend.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	TTLFetch    = 24 * time.Hour
	TTLGraph    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values with an optional TTL.
// A TTL of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
