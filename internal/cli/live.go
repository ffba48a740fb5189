package cli

import (
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/scheduler"
)

// liveFlags configure the background scheduler of watch, view and serve.
// The graph comes from an optional file argument or, without one, from the
// tree flags.
type liveFlags struct {
	tree      treeFlags
	passes    int
	interval  time.Duration
	tolerance float64
	seed      uint64
}

func (f *liveFlags) register(cmd *cobra.Command) {
	f.tree.register(cmd)
	cmd.Flags().IntVar(&f.passes, "passes", layout.DefaultBatch, "solver passes per frame")
	cmd.Flags().DurationVar(&f.interval, "interval", scheduler.DefaultInterval, "tick period")
	cmd.Flags().Float64Var(&f.tolerance, "tolerance", 0, "stop once a frame moves no node farther than this (0 never stops)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed for start positions and the solver (0 is random)")
}

// loadLiveGraph reads args[0] when given and generates a tree otherwise.
// A *.layout.json argument keeps its stored positions.
func loadLiveGraph(args []string, tree *treeFlags) (*graph.Graph, *layout.Snapshot, error) {
	if len(args) == 0 {
		g, err := tree.build()
		return g, nil, err
	}
	if isLayoutFile(args[0]) {
		f, err := layout.ReadFile(args[0])
		if err != nil {
			return nil, nil, err
		}
		snap, err := f.Snapshot()
		if err != nil {
			return nil, nil, err
		}
		return snap.Graph(), snap, nil
	}
	g, err := graph.ReadFile(args[0])
	return g, nil, err
}

// newScheduler builds a scheduler for the live commands. Options come from
// the config file, overlaid by the flags the user set.
func (c *CLI) newScheduler(cmd *cobra.Command, args []string, f *liveFlags) (*scheduler.Scheduler, *graph.Graph, error) {
	g, initial, err := loadLiveGraph(args, &f.tree)
	if err != nil {
		return nil, nil, err
	}

	opts := c.Config.SchedulerOptions()
	flags := cmd.Flags()
	if flags.Changed("passes") {
		opts.Passes = f.passes
	}
	if flags.Changed("interval") {
		opts.Interval = f.interval
	}
	if flags.Changed("tolerance") {
		opts.Tolerance = f.tolerance
	}
	if flags.Changed("seed") {
		opts.Seed = f.seed
	}
	opts.Logger = c.Logger

	if initial == nil {
		initial = layout.NewSnapshot(g, seededRand(opts.Seed))
	}
	sched, err := scheduler.New(initial, opts)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("scheduler started", "id", sched.ID(), "nodes", g.Len(), "edges", g.EdgeCount(),
		"passes", sched.Options().Passes, "interval", sched.Options().Interval)
	return sched, g, nil
}

// seededRand returns a PCG source for seed, or nil for the global source
// when seed is zero.
func seededRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
