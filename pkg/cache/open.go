package cache

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Database string `toml:"database"`
	Prefix   string `toml:"prefix"`
}

// Open builds the cache described by opts. An empty backend means file.
// Redis connectivity is checked with a ping so misconfiguration fails early.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	case BackendRedis:
		if opts.Addr == "" {
			return nil, fmt.Errorf("%s: %w", BackendRedis, ErrMissingAddr)
		}
		var ropts []RedisOption
		if opts.Prefix != "" {
			ropts = append(ropts, WithRedisPrefix(opts.Prefix))
		}
		c := NewRedisCache(opts.Addr, opts.Password, opts.DB, ropts...)
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
		}
		return c, nil
	case BackendMongo:
		if opts.Addr == "" {
			return nil, fmt.Errorf("%s: %w", BackendMongo, ErrMissingAddr)
		}
		c, err := NewMongoCache(ctx, opts.Addr, opts.Database, "")
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
