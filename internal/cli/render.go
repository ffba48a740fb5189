package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/render"
)

// renderCommand creates the render command for generating drawings.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		lf     layoutFlags
		rf     renderFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json | layout.json]",
		Short: "Render a graph or a computed layout",
		Long: `Render a graph or a computed layout.

Given a graph.json, render computes the layout first (see 'layout' for the
solver flags) and then draws it. Given a *.layout.json written by 'layout',
it draws the stored positions as they are.

Formats:
  svg       vector drawing of nodes, clipped edges and labels
  png       raster drawing (--scale multiplies the size)
  dot       Graphviz source with pinned positions
  graphviz  SVG produced by Graphviz from the pinned DOT
  pdf       PDF produced by Graphviz from the pinned DOT`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{Input: args[0]}
			lf.apply(cmd, c.Config, &opts)
			rf.apply(cmd, c.Config, &opts)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), newConsole(cmd), opts, output, lf.noCache)
		},
	}

	lf.register(cmd)
	rf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input without extension)")

	return cmd
}

func isLayoutFile(path string) bool {
	return strings.HasSuffix(path, ".layout.json")
}

// runRender draws opts.Input in every requested format.
func (c *CLI) runRender(ctx context.Context, out console, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sp := startSpinner(ctx, out.status, "Rendering "+strings.Join(opts.Formats, ", "))
	opts.Progress = sp.progress

	var (
		artifacts         map[string][]byte
		nodes, edges      int
		layoutHit, cached bool
	)
	if isLayoutFile(opts.Input) {
		var f layout.File
		if f, err = layout.ReadFile(opts.Input); err == nil {
			artifacts, cached, err = runner.RenderWithCacheInfo(ctx, f, opts)
			nodes, edges = len(f.Nodes), len(f.Edges)
		}
	} else {
		var result *pipeline.Result
		if result, err = runner.Execute(ctx, opts); err == nil {
			artifacts = result.Artifacts
			nodes, edges = result.Stats.NodeCount, result.Stats.EdgeCount
			layoutHit, cached = result.CacheInfo.LayoutHit, result.CacheInfo.RenderHit
		}
	}
	sp.Stop()
	if err != nil {
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = outputBase(opts.Input)
	}
	paths, err := writeArtifacts(base, opts.Formats, artifacts)
	if err != nil {
		return err
	}

	out.ok("Rendered %s", plural(len(paths), "file"))
	for _, p := range paths {
		out.file(p)
	}
	out.graph(nodes, edges, cached)
	if layoutHit && !cached {
		out.detail("layout from cache")
	}
	return nil
}

// writeArtifacts writes one file per format as base.<ext> and returns the
// paths in format order.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + render.Extension(format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
