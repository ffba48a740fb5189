package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// layoutCommand creates the layout command for computing batch layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a force-directed layout for a graph",
		Long: `Compute a force-directed layout for a graph.

The layout command takes a graph.json file (produced by 'generate' or written
by hand) and runs the solver for --passes passes from seeded start positions.
The same graph, parameters and seed always give the same layout.

The output is a layout.json file that 'render' turns into SVG, PNG or DOT.
Results are cached, so re-running with the same inputs is instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Input: args[0]}
			flags.apply(cmd, c.Config, &opts)
			return c.runLayout(cmd.Context(), newConsole(cmd), opts, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, out console, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := runner.Load(ctx, opts.Input)
	if err != nil {
		return err
	}

	st := startStage(loggerFromContext(ctx), "computed layout")
	sp := startSpinner(ctx, out.status, "Computing layout")
	opts.Progress = sp.progress
	file, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	sp.Stop()
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	st.done("nodes", g.Len(), "passes", file.Passes, "cached", cacheHit)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = outputBase(opts.Input) + ".layout.json"
	}
	if err := layout.WriteFile(file, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	out.ok("Layout complete")
	out.file(outputPath)
	out.graph(g.Len(), g.EdgeCount(), cacheHit)
	out.layout(file)
	out.next("Render", appName+" render "+outputPath)

	return nil
}
