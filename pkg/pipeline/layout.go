package pipeline

import (
	"context"
	"math/rand/v2"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
)

// seedStream separates the two PCG words so seed 1 and seed 2 don't share
// a stream prefix.
const seedStream = 0x9e3779b97f4a7c15

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout seeds positions from opts.Seed and runs opts.Passes solver
// passes. The same graph, parameters, passes and seed always produce the
// same layout on a given platform.
//
// ctx is checked and opts.Progress called between batches of
// layout.DefaultBatch passes.
func ComputeLayout(ctx context.Context, g *graph.Graph, opts Options) (layout.File, error) {
	opts.SetLayoutDefaults()

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^seedStream))
	s := layout.NewSnapshot(g, rng)
	sv := layout.NewSolver(opts.Params, rng)

	var st layout.Stats
	for remaining := opts.Passes; remaining > 0; remaining -= layout.DefaultBatch {
		if err := ctx.Err(); err != nil {
			return layout.File{}, err
		}
		b := sv.Run(s, min(remaining, layout.DefaultBatch))
		st.Passes += b.Passes
		st.TotalDisplacement += b.TotalDisplacement
		st.MaxDisplacement = b.MaxDisplacement
		if opts.Progress != nil {
			opts.Progress(st.Passes, opts.Passes)
		}
	}
	return layout.Export(s, opts.Params, opts.Seed, st), nil
}
