// Package pkg provides the core libraries for forcegraph force-directed layouts.
//
// # Overview
//
// forcegraph positions the nodes of a graph in the plane by treating every
// pair of nodes as mutually repelling charges and every edge as a spring.
// Repeated solver passes move each node a small step along the net force
// until the picture settles. The pkg directory is organized into:
//
//  1. [geom] - 2D vectors, segments, lines, rectangles and node shapes
//  2. [graph] - Labeled, shaped nodes with directed edges, plus generators
//  3. [layout] - Snapshots of node positions and the force solver
//  4. [scheduler] - Background batches with ordered, atomic publication
//  5. [pipeline] - Orchestration (load → layout → render) with caching
//  6. [render] - SVG, PNG, DOT, Graphviz and PDF output
//
// # Architecture
//
// Batch flow, used by the CLI layout and render commands:
//
//	graph.json
//	     ↓
//	[graph] package (decode and validate)
//	     ↓
//	[layout] package (seeded snapshot + N solver passes)
//	     ↓
//	[render] package (SVG/PNG/DOT/PDF)
//
// Live flow, used by watch, view and serve: a [scheduler.Scheduler] owns
// the latest published snapshot. The presentation side calls Tick on its
// own cadence and reads Latest without ever waiting for the solver.
//
// # Quick Start
//
//	g, _ := graph.Tree(graph.NewEmojiPool(), 3, 3, geom.DefaultShape())
//	snap := layout.NewSnapshot(g, nil)
//	layout.NewSolver(layout.DefaultParams(), nil).Run(snap, 300)
//	svg, _ := render.Render(ctx, snap, render.FormatSVG, render.DefaultOptions())
//
// ## Infrastructure
//
// [cache] - Layout and artifact cache with file, Redis, MongoDB and null
// backends.
//
// [config] - TOML configuration for solver, scheduler, render and cache.
//
// [observability] - Hook interfaces the CLI wires to Prometheus metrics.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//	go test -run Example        # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/geom
// [graph]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/graph
// [layout]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/layout
// [scheduler]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/scheduler
// [scheduler.Scheduler]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/scheduler#Scheduler
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/buildinfo
package pkg
