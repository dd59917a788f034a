// Package cli implements the treeflow command-line interface.
//
// This package provides commands for rendering decision trees to SVG and
// other formats, converting them to node-edge graphs, browsing them
// interactively, serving the HTTP API, and managing the cache. The CLI is
// built using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Generate SVG, JSON, DOT, PNG or PDF from a tree
//   - convert: Flatten a tree into a node-edge graph (JSON)
//   - inspect: Browse a tree in the terminal and export the highlighted SVG
//   - serve: Run the HTTP API with Prometheus metrics
//   - cache: Manage the cache
//
// Every command reads an optional TOML config file (--config, or
// $XDG_CONFIG_HOME/treeflow/config.toml). Flags override config values.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeflow/pkg/cache"
	"github.com/matzehuels/treeflow/pkg/config"
	"github.com/matzehuels/treeflow/pkg/pipeline"
	"github.com/matzehuels/treeflow/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "treeflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is loaded when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file selected by --config.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	opts := c.cfg.Cache.Options
	if noCache {
		opts.Backend = cache.BackendNone
	}
	if opts.Dir == "" {
		if dir, err := cacheDir(); err == nil {
			opts.Dir = dir
		}
	}
	return cache.Open(ctx, opts)
}

// fetch reads the raw tree named by input. HTTP sources share the runner's
// cache and show a spinner while downloading.
func (c *CLI) fetch(ctx context.Context, runner *pipeline.Runner, input string, refresh bool) ([]byte, error) {
	src, err := source.Parse(input)
	if err != nil {
		return nil, err
	}
	h, remote := src.(*source.HTTP)
	if !remote {
		return src.Fetch(ctx)
	}

	h.Cache = runner.Cache
	h.Keyer = runner.Keyer
	h.TTL = c.cfg.Cache.TTL
	h.Refresh = refresh
	h.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %s...", h))
	spinner.Start()
	raw, err := h.Fetch(ctx)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return nil, err
	}
	spinner.Stop()
	return raw, nil
}

// pipelineDefaults returns pipeline options carrying the configured palette
// and layout.
func (c *CLI) pipelineDefaults() pipeline.Options {
	l := c.cfg.Layout
	return pipeline.Options{
		Palette:   c.cfg.Palette,
		Indent:    l.Indent,
		RowHeight: l.RowHeight,
		DropCap:   l.DropCap,
		Direction: l.Direction,
		Width:     float64(l.Width),
		Height:    float64(l.Height),
		Logger:    c.Logger,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/treeflow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
