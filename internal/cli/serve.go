package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeflow/internal/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		timeout    time.Duration
		noCache    bool
		allowHosts []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the render HTTP API",
		Long: `Run the render HTTP API.

Routes:
  POST /api/v1/render     render the tree JSON in the request body
  GET  /api/v1/render     render the tree at ?url=
  POST /api/v1/convert    flatten the tree JSON in the request body
  GET  /healthz           liveness probe
  GET  /metrics           Prometheus metrics

GET /api/v1/render only fetches from the hosts in server.allowed_hosts
(default: the sample tree's host) or --allow-host.

Palette, layout and cache settings come from the config file. The cache
backend is shared by all requests; use redis or mongo for several replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("allow-host") {
				allowHosts = c.cfg.Server.AllowedHosts
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			metrics := server.NewMetrics()
			metrics.Install()

			srv := server.New(server.Config{
				Addr:         addr,
				Timeout:      timeout,
				AllowedHosts: allowHosts,
				Defaults:     c.pipelineDefaults(),
			}, runner, metrics, c.Logger)

			printInfo("Listening on %s", StyleHighlight.Render(addr))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultTimeout, "per-request timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringSliceVar(&allowHosts, "allow-host", nil, `hosts ?url= may fetch from ("*" for any)`)

	return cmd
}
