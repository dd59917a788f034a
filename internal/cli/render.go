package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/layout"
	"github.com/matzehuels/treeflow/pkg/pipeline"
	"github.com/matzehuels/treeflow/pkg/render/shape"
	"github.com/matzehuels/treeflow/pkg/source"
)

// defaultBase names output files when the source has no file name
// (URLs, stdin, request bodies).
const defaultBase = "tree"

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags holds flags shared by render and inspect. Values only override
// the config file when the flag was given on the command line.
type layoutFlags struct {
	indent    float64
	rowHeight float64
	dropCap   bool
	direction string
	width     float64
	height    float64
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.indent, "indent", layout.DefaultIndent, "horizontal offset per depth level")
	cmd.Flags().Float64Var(&f.rowHeight, "row-height", layout.DefaultRowHeight, "vertical distance between rows")
	cmd.Flags().BoolVar(&f.dropCap, "drop-cap", false, "place the first child on the row below its parent")
	cmd.Flags().StringVar(&f.direction, "direction", string(layout.LeftToRight), "depth direction: LR or RL")
	cmd.Flags().Float64Var(&f.width, "width", pipeline.DefaultWidth, "canvas width before fitting")
	cmd.Flags().Float64Var(&f.height, "height", pipeline.DefaultHeight, "canvas height before fitting")
}

func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	if flags.Changed("indent") {
		opts.Indent = f.indent
	}
	if flags.Changed("row-height") {
		opts.RowHeight = f.rowHeight
	}
	if flags.Changed("drop-cap") {
		opts.DropCap = f.dropCap
	}
	if flags.Changed("direction") {
		opts.Direction = layout.Direction(strings.ToUpper(f.direction))
	}
	if flags.Changed("width") {
		opts.Width = f.width
	}
	if flags.Changed("height") {
		opts.Height = f.height
	}
}

// =============================================================================
// Render Command
// =============================================================================

// renderCommand creates the render command for generating tree visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr    string
		output        string
		scale         float64
		selected      []string
		hovered       []string
		noInteraction bool
		noCache       bool
		refresh       bool
		lf            layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [source]",
		Short: "Render a decision tree to SVG, JSON, DOT, PNG or PDF",
		Long: `Render a decision tree to SVG, JSON, DOT, PNG or PDF.

The source is a tree JSON file, "-" for stdin, or an http(s) URL. Without a
source the public decision-tree sample is fetched.

Each node is drawn as a card with its label, and optionally a price and a
badge. Use --select and --hover to draw nodes in an interaction state.

Examples:
  treeflow render tree.json
  treeflow render tree.json -f svg,png -o out/tree
  treeflow render https://example.com/tree.json --select c1 -o - > tree.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := source.DefaultURL
			if len(args) == 1 {
				input = args[0]
			}

			opts := c.pipelineDefaults()
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			lf.apply(cmd, &opts)
			opts.Scale = scale
			opts.States = statesFromFlags(hovered, selected)
			opts.Refresh = refresh
			if noInteraction {
				off := false
				opts.Interactive = &off
			}
			if output == "-" && len(opts.Formats) > 1 {
				return fmt.Errorf("--output - supports a single format, got %d", len(opts.Formats))
			}
			return c.runRender(cmd.Context(), input, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (single format), base path (multiple), or "-" for stdout`)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames(), ", ")+" (comma-separated)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().StringSliceVar(&selected, "select", nil, "node id(s) to draw as selected")
	cmd.Flags().StringSliceVar(&hovered, "hover", nil, "node id(s) to draw as hovered")
	cmd.Flags().BoolVar(&noInteraction, "no-interaction", false, "omit hover styles and script from the SVG")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached downloads and artifacts")
	lf.register(cmd)

	return cmd
}

// runRender fetches the tree, runs the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	src, err := source.Parse(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	_, remote := src.(*source.HTTP)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", src))
	if remote {
		spinner.Start()
		defer spinner.Stop()
	}

	res, err := runner.Execute(ctx, src, opts)
	if err != nil {
		if res != nil {
			c.Logger.Debug("lifecycle ended", "id", res.LifecycleID, "state", res.State)
		}
		if errors.Has(err, errors.ErrCodeNotFound) || errors.Has(err, errors.ErrCodeFileNotFound) {
			printDetail("Nothing found at %s; check the path or URL", src)
		}
		return fmt.Errorf("render %s: %w", src, err)
	}
	if remote {
		spinner.Stop()
	}
	prog.done("rendered", "lifecycle", res.LifecycleID, "state", res.State)

	for _, w := range res.Warnings {
		printWarning("%s", w)
	}

	if output == "-" {
		_, err := os.Stdout.Write(res.Artifacts[opts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(res.Artifacts, opts.Formats, basePath(output, inputBase(input)), output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", src)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.WarningCount, res.CacheInfo.ExportHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// statesFromFlags builds the node state table. Selected is applied last so
// it wins over hover for the same node.
func statesFromFlags(hovered, selected []string) map[string]string {
	if len(hovered) == 0 && len(selected) == 0 {
		return nil
	}
	states := make(map[string]string, len(hovered)+len(selected))
	for _, id := range hovered {
		states[id] = string(shape.StateHover)
	}
	for _, id := range selected {
		states[id] = string(shape.StateSelected)
	}
	return states
}

// =============================================================================
// Output Paths
// =============================================================================

// writeArtifacts writes one file per format and returns the written paths.
// A single format written to an explicit output path uses that path as is.
func writeArtifacts(artifacts map[string][]byte, formats []string, base, output string) ([]string, error) {
	if len(formats) == 1 && output != "" && base != output {
		return []string{output}, writeFile(output, artifacts[formats[0]])
	}

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + fileExt(f)
		if err := writeFile(path, artifacts[f]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// fileExt returns the file extension for an output format.
func fileExt(format string) string {
	if format == pipeline.FormatNodelink {
		return ".nodelink.svg"
	}
	return "." + format
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if strings.HasSuffix(output, ".nodelink.svg") {
		return strings.TrimSuffix(output, ".nodelink.svg")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// inputBase returns the local name used for outputs derived from input.
// Remote sources and stdin write to the working directory.
func inputBase(input string) string {
	if input == "-" || strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return defaultBase
	}
	return filepath.Base(input)
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty or "-", it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
