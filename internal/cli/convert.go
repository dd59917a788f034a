package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeflow/pkg/graph"
	"github.com/matzehuels/treeflow/pkg/source"
)

// convertCommand creates the convert command that flattens a tree into a
// node-edge graph.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "convert [source]",
		Short: "Flatten a decision tree into a node-edge graph (JSON)",
		Long: `Flatten a decision tree into a node-edge graph (JSON).

Nodes are listed in pre-order with their child ids; edges follow input child
order. Children without an id are skipped and reported as warnings.

Examples:
  treeflow convert tree.json -o graph.json
  cat tree.json | treeflow convert -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := source.DefaultURL
			if len(args) == 1 {
				input = args[0]
			}
			return c.runConvert(cmd.Context(), input, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached downloads")

	return cmd
}

// runConvert fetches the tree and writes its graph form.
func (c *CLI) runConvert(ctx context.Context, input, output string, noCache, refresh bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	raw, err := c.fetch(ctx, runner, input, refresh)
	if err != nil {
		return err
	}

	opts := c.pipelineDefaults()
	res, cached, err := runner.ConvertWithCacheInfo(ctx, raw, opts)
	if err != nil {
		return err
	}
	prog.done("converted", "nodes", res.Graph.NodeCount(), "cached", cached)
	for _, w := range res.Warnings {
		printWarning("%s", w)
	}

	out, err := openOutput(output)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer out.Close()
	if err := graph.Write(res.Graph, out); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}

	if output != "" && output != "-" {
		printSuccess("Converted %s", input)
		printStats(res.Graph.NodeCount(), res.Graph.EdgeCount(), len(res.Warnings), cached)
		printFile(output)
	}
	return nil
}
