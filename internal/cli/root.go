package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeflow/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// The config file named by --config is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "treeflow renders decision trees as node-link diagrams",
		Long:         `treeflow flattens a nested decision tree into a node-edge graph and renders every node as a layered card (label, price and badge) in a self-contained SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/treeflow/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
