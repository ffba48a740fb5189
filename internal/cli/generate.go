package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/geom"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

const (
	shapeCircle = "circle"
	shapeRect   = "rect"

	labelsEmoji   = "emoji"
	labelsNumeric = "numeric"

	defaultDepth    = 3
	defaultBranches = 3
)

// treeFlags describe a generated tree. They are shared by generate and the
// live commands, which fall back to a tree when no graph file is given.
type treeFlags struct {
	depth    int
	branches int
	shape    string
	radius   float64
	width    float64
	height   float64
	labels   string
}

func (f *treeFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.depth, "depth", defaultDepth, "tree depth (levels, root included)")
	cmd.Flags().IntVar(&f.branches, "branches", defaultBranches, "children per internal node")
	cmd.Flags().StringVar(&f.shape, "shape", shapeCircle, "node shape: circle, rect")
	cmd.Flags().Float64Var(&f.radius, "radius", geom.DefaultRadius, "circle radius")
	cmd.Flags().Float64Var(&f.width, "width", 2*geom.DefaultRadius, "rectangle width")
	cmd.Flags().Float64Var(&f.height, "height", geom.DefaultRadius, "rectangle height")
	cmd.Flags().StringVar(&f.labels, "labels", labelsEmoji, "label pool: emoji, numeric")
}

func (f *treeFlags) nodeShape() (geom.Shape, error) {
	var s geom.Shape
	switch f.shape {
	case shapeCircle:
		s = geom.Circle(f.radius)
	case shapeRect:
		s = geom.Rectangle(f.width, f.height)
	default:
		return geom.Shape{}, errors.ValidateFormat(f.shape, shapeCircle, shapeRect)
	}
	return s, s.Validate()
}

func (f *treeFlags) pool() (*graph.LabelPool, error) {
	switch f.labels {
	case labelsEmoji:
		return graph.NewEmojiPool(), nil
	case labelsNumeric:
		n := max(graph.TreeSize(f.depth, f.branches, maxNumericLabels), 0)
		if n > maxNumericLabels {
			return nil, errors.New(errors.ErrCodePoolExhausted, "tree needs more than %d numeric labels", maxNumericLabels)
		}
		labels := make([]string, n)
		for i := range labels {
			labels[i] = strconv.Itoa(i + 1)
		}
		return graph.NewLabelPool(labels), nil
	default:
		return nil, errors.ValidateFormat(f.labels, labelsEmoji, labelsNumeric)
	}
}

// maxNumericLabels bounds generated trees with numeric labels.
const maxNumericLabels = 100_000

func (f *treeFlags) build() (*graph.Graph, error) {
	shape, err := f.nodeShape()
	if err != nil {
		return nil, err
	}
	pool, err := f.pool()
	if err != nil {
		return nil, err
	}
	return graph.Tree(pool, f.depth, f.branches, shape)
}

// generateCommand creates the generate command for writing tree graphs.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		tree   treeFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a tree graph",
		Long: `Generate a rooted tree as a node-link JSON graph.

Every internal node gets --branches children down to --depth levels, and each
child is linked to its parent in both directions. Labels come from the emoji
pool or are numbered in pre-order.

The output can be passed to 'layout', 'render', 'watch', 'view' and 'serve'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), newConsole(cmd), &tree, output)
		},
	}

	tree.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "graph.json", "output file (- for stdout)")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, out console, tree *treeFlags, output string) error {
	st := startStage(loggerFromContext(ctx), "generated tree")
	g, err := tree.build()
	if err != nil {
		return err
	}
	st.done("depth", tree.depth, "branches", tree.branches, "nodes", g.Len())

	if output == "-" {
		return graph.Write(g, out.out)
	}
	if err := graph.WriteFile(g, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	out.ok("Graph generated")
	out.file(output)
	out.graph(g.Len(), g.EdgeCount(), false)
	out.next("Layout", appName+" layout "+output)
	return nil
}
