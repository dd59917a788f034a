// Package pipeline runs the fetch → convert → render → fit cycle for
// decision trees and turns the result into output artifacts.
//
// This package is shared by the CLI and the HTTP service so both entry
// points apply the same defaults, caching and format handling.
//
// # Architecture
//
// A run has two stages:
//
//  1. Lifecycle: a [lifecycle.Controller] fetches the tree, converts it,
//     mounts it on a [canvas.SVG] surface, renders once and fits the view
//  2. Artifacts: the fitted surface is exported to each requested format
//     (SVG, JSON scene, DOT, Graphviz SVG, PNG, PDF)
//
// Artifacts are cached by the hash of the raw tree JSON plus the options
// that affect their bytes.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	src := &source.HTTP{URL: source.DefaultURL}
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Or render raw tree JSON straight into a writer:
//
//	_, err := pipeline.RenderTree(ctx, raw, os.Stdout, pipeline.Options{})
//
// [lifecycle.Controller]: github.com/matzehuels/treeflow/pkg/lifecycle
// [canvas.SVG]: github.com/matzehuels/treeflow/pkg/render/canvas
package pipeline

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/treeflow/pkg/cache"
	"github.com/matzehuels/treeflow/pkg/convert"
	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/graph"
	"github.com/matzehuels/treeflow/pkg/layout"
	"github.com/matzehuels/treeflow/pkg/lifecycle"
	"github.com/matzehuels/treeflow/pkg/render/canvas"
	"github.com/matzehuels/treeflow/pkg/render/shape"
	"github.com/matzehuels/treeflow/pkg/render/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = canvas.DefaultWidth

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = canvas.DefaultHeight

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatNodelink = "nodelink"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatNodelink: true,
	FormatPNG:      true,
	FormatPDF:      true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Render options
	Formats     []string       `json:"formats,omitempty"`
	Palette     styles.Palette `json:"palette"`
	Interactive *bool          `json:"interactive,omitempty"`
	Scale       float64        `json:"scale,omitempty"`

	// Layout options
	Indent    float64          `json:"indent,omitempty"`
	RowHeight float64          `json:"row_height,omitempty"`
	DropCap   bool             `json:"drop_cap,omitempty"`
	Direction layout.Direction `json:"direction,omitempty"`
	Width     float64          `json:"width,omitempty"`
	Height    float64          `json:"height,omitempty"`

	// States maps node ids to interaction states ("hover", "selected")
	// applied before export.
	States map[string]string `json:"states,omitempty"`

	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger      *log.Logger `json:"-"`
	LifecycleID uuid.UUID   `json:"-"`

	states    map[string]shape.State
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// LifecycleID identifies the controller that ran the cycle.
	LifecycleID uuid.UUID

	// State is the final lifecycle state.
	State lifecycle.State

	// Graph is the converted node-edge graph.
	Graph *graph.Graph

	// Warnings lists malformed children skipped during conversion.
	Warnings []convert.Warning

	// TreeHash is the content hash of the raw tree JSON.
	TreeHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	WarningCount int
	CycleTime    time.Duration
	ExportTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ExportHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = slices.Compact(slices.Clone(o.Formats))
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	o.Palette = styles.DefaultPalette().Merge(o.Palette)
	if err := o.Palette.Validate(); err != nil {
		return err
	}

	if o.Indent < 0 || o.RowHeight < 0 || o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout parameters must not be negative")
	}
	if o.Indent == 0 {
		o.Indent = layout.DefaultIndent
	}
	if o.RowHeight == 0 {
		o.RowHeight = layout.DefaultRowHeight
	}
	switch o.Direction {
	case "":
		o.Direction = layout.LeftToRight
	case layout.LeftToRight, layout.RightToLeft:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid direction: %q (must be LR or RL)", o.Direction)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}

	o.states = make(map[string]shape.State, len(o.States))
	for id, s := range o.States {
		st, err := shape.ParseState(s)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "state for node %q", id)
		}
		o.states[id] = st
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Clone returns a copy that has not been validated yet, so it can be
// modified and validated again. Use it to derive per-request options from
// shared defaults.
func (o Options) Clone() Options {
	c := o
	c.Formats = slices.Clone(o.Formats)
	c.States = maps.Clone(o.States)
	c.states = nil
	c.validated = false
	return c
}

// IsInteractive reports whether the SVG embeds the interaction script.
// Defaults to true.
func (o *Options) IsInteractive() bool {
	return o.Interactive == nil || *o.Interactive
}

// LayoutEngine returns the indented layout engine for these options.
func (o *Options) LayoutEngine() layout.Indented {
	return layout.Indented{
		Indent:    o.Indent,
		RowHeight: o.RowHeight,
		DropCap:   o.DropCap,
		Direction: o.Direction,
	}
}

// Resolver returns the style resolver for the configured palette.
func (o *Options) Resolver() styles.Resolver {
	return styles.NewResolver(o.Palette)
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:      format,
		PaletteHash: cache.HashJSON(o.Palette),
		States:      o.States,
	}
	switch format {
	case FormatDOT, FormatNodelink:
		opts.Engine = "graphviz"
		return opts
	}
	opts.Engine = "indented"
	opts.Indent = o.Indent
	opts.RowHeight = o.RowHeight
	opts.DropCap = o.DropCap
	opts.Direction = string(o.Direction)
	opts.Width = o.Width
	opts.Height = o.Height
	opts.Fit = true
	opts.Interactive = o.IsInteractive()
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

func (o *Options) String() string {
	return fmt.Sprintf("formats=%v indent=%g row_height=%g drop_cap=%t direction=%s",
		o.Formats, o.Indent, o.RowHeight, o.DropCap, o.Direction)
}
