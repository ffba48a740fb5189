package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/forcegraph/internal/metrics"
	"github.com/matzehuels/forcegraph/internal/server"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// serveCommand creates the serve command, an HTTP API over a live layout.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags liveFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve [graph.json]",
		Short: "Serve a live layout over HTTP",
		Long: `Serve a live layout over HTTP.

The solver ticks in the background on --interval while clients read the
latest published frame:

  GET  /healthz              liveness and current frame
  GET  /api/v1/snapshot      latest frame as JSON
  GET  /api/v1/snapshot.svg  latest frame drawn as SVG
  POST /api/v1/reseed        restart from random positions ({"seed": n} optional)
  GET  /metrics              Prometheus metrics

Without a graph argument a tree is generated from --depth and --branches.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sched, _, err := c.newScheduler(cmd, args, &flags)
			if err != nil {
				return err
			}
			defer func() {
				sched.Close()
				sched.Wait()
			}()

			metrics.Install()

			ro := render.DefaultOptions()
			ro.Margin = c.Config.Render.Margin
			ro.Fill = c.Config.Render.Fill
			ro.Stroke = c.Config.Render.Fill
			srv := server.New(sched, server.Options{Addr: addr, Render: ro, Logger: c.Logger})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return sched.Run(gctx) })
			g.Go(func() error { return srv.ListenAndServe(gctx) })
			return g.Wait()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")

	return cmd
}
