package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeflow/pkg/pipeline"
	"github.com/matzehuels/treeflow/pkg/source"
)

// inspectCommand creates the inspect command, an interactive tree browser
// that writes an SVG with the chosen hover and selection states.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [source]",
		Short: "Browse a decision tree and export it with highlighted nodes",
		Long: `Browse a decision tree in the terminal and export it with highlighted nodes.

Move the cursor to hover a node, press space to select nodes, and press enter
to write the SVG with those states. Press q to leave without writing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := source.DefaultURL
			if len(args) == 1 {
				input = args[0]
			}
			opts := c.pipelineDefaults()
			lf.apply(cmd, &opts)
			opts.Refresh = refresh
			return c.runInspect(cmd.Context(), input, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG file (default derived from source)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached downloads")
	lf.register(cmd)

	return cmd
}

// runInspect fetches the tree once, runs the browser, then renders with the
// resulting states.
func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	raw, err := c.fetch(ctx, runner, input, opts.Refresh)
	if err != nil {
		return err
	}
	conv, err := runner.Convert(ctx, raw, opts)
	if err != nil {
		return err
	}
	for _, w := range conv.Warnings {
		printWarning("%s", w)
	}

	p := tea.NewProgram(NewInspectModel(conv.Graph, opts.Palette.Currency), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	m, ok := final.(InspectModel)
	if !ok || !m.Confirmed {
		printDetail("Nothing written")
		return nil
	}

	opts.Formats = []string{pipeline.FormatSVG}
	opts.States = m.States()
	res, err := runner.Execute(ctx, &source.Bytes{Data: raw, Name: input}, opts)
	if err != nil {
		return fmt.Errorf("render %s: %w", input, err)
	}

	paths, err := writeArtifacts(res.Artifacts, opts.Formats, basePath(output, inputBase(input)), output)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s with %d highlighted nodes", input, len(opts.States))
	for _, path := range paths {
		printFile(path)
	}
	return nil
}
