// Package config loads treeflow settings from a TOML file.
//
// Every setting has a default in code; the file only overrides what it
// names. A typical file:
//
//	[palette.label]
//	root = "#1783FF"
//
//	[layout]
//	indent = 240
//	drop_cap = true
//
//	[cache]
//	backend = "redis"
//	addr = "localhost:6379"
//	ttl = "12h"
//
//	[server]
//	addr = ":8080"
//	allowed_hosts = ["assets.antv.antgroup.com", "trees.internal:8443"]
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treeflow/pkg/cache"
	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/layout"
	"github.com/matzehuels/treeflow/pkg/render/styles"
	"github.com/matzehuels/treeflow/pkg/source"
)

// FileName is the config file name looked up under the user config dir.
const FileName = "config.toml"

// Default frame and server settings.
const (
	DefaultWidth  = 1200
	DefaultHeight = 800
	DefaultAddr   = ":8080"
)

// Config is the full set of user-tunable settings.
type Config struct {
	Palette styles.Palette `toml:"palette"`
	Layout  Layout         `toml:"layout"`
	Cache   Cache          `toml:"cache"`
	Server  Server         `toml:"server"`
}

// Layout holds indented layout parameters and the SVG frame size.
type Layout struct {
	Indent    float64          `toml:"indent"`
	RowHeight float64          `toml:"row_height"`
	DropCap   bool             `toml:"drop_cap"`
	Direction layout.Direction `toml:"direction"`
	Width     int              `toml:"width"`
	Height    int              `toml:"height"`
}

// Engine returns the indented layout engine these settings describe.
func (l Layout) Engine() layout.Indented {
	return layout.Indented{
		Indent:    l.Indent,
		RowHeight: l.RowHeight,
		DropCap:   l.DropCap,
		Direction: l.Direction,
	}
}

// Cache selects the cache backend and the TTL for fetched trees.
type Cache struct {
	cache.Options
	TTL time.Duration `toml:"ttl"`
}

// Server configures the HTTP service. AllowedHosts limits the hosts the
// service fetches trees from; "*" allows any.
type Server struct {
	Addr         string   `toml:"addr"`
	AllowedHosts []string `toml:"allowed_hosts"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Palette: styles.DefaultPalette(),
		Layout: Layout{
			Indent:    layout.DefaultIndent,
			RowHeight: layout.DefaultRowHeight,
			Direction: layout.LeftToRight,
			Width:     DefaultWidth,
			Height:    DefaultHeight,
		},
		Cache: Cache{
			Options: cache.Options{Backend: cache.BackendFile},
			TTL:     cache.TTLFetch,
		},
		Server: Server{
			Addr:         DefaultAddr,
			AllowedHosts: []string{source.DefaultHost},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/treeflow/config.toml (or the
// platform equivalent from os.UserConfigDir).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "treeflow", FileName), nil
}

// Load reads the config at path on top of the defaults. An empty path
// means DefaultPath, which may be absent; an explicit path must exist.
// Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}

	return Parse(data, path)
}

// Parse decodes TOML data on top of the defaults and validates the result.
// name is used in error messages only.
func Parse(data []byte, name string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", name)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown keys: %s", name, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the palette, layout, cache and server settings.
func (c Config) Validate() error {
	if err := c.Palette.Validate(); err != nil {
		return err
	}
	if c.Layout.Indent < 0 || c.Layout.RowHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout: indent and row_height must not be negative")
	}
	if c.Layout.Width < 0 || c.Layout.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout: width and height must not be negative")
	}
	switch c.Layout.Direction {
	case "", layout.LeftToRight, layout.RightToLeft:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "layout: unknown direction %q (want LR or RL)", c.Layout.Direction)
	}
	switch strings.ToLower(c.Cache.Backend) {
	case "", cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache: ttl must not be negative")
	}
	for _, h := range c.Server.AllowedHosts {
		if strings.TrimSpace(h) == "" || strings.Contains(h, "/") {
			return errors.New(errors.ErrCodeInvalidInput, "server: invalid allowed host %q", h)
		}
	}
	return nil
}
