// Package layout computes force-directed positions for a [graph.Graph].
//
// # Snapshots
//
// A [Snapshot] pairs a shared, immutable graph with a slice of positions
// indexed like the graph's nodes. Topology never changes after construction,
// so cloning a snapshot only copies positions. [NewSnapshot] scatters nodes
// uniformly over [0, SeedExtent]² before the first pass.
//
// # Solver
//
// [Solver.Pass] visits every unordered pair (i, j) with i < j in index order
// and moves both nodes by equal and opposite amounts along the line between
// them:
//
//	F  = -RepulsionStrength / max(1, d)²
//	F += (d - SpringLength) · SpringStiffness    if i and j are adjacent
//	pᵢ += u·F
//	pⱼ -= u·F
//
// where u is the unit vector from pᵢ to pⱼ. Coincident nodes get a random
// direction so they can separate. Updates are applied immediately, so pairs
// later in the same pass see the already-moved positions.
//
// Each pass costs O(n²). The solver has no convergence test; callers decide
// how many passes to run, typically [DefaultBatch] per frame.
//
// # Serialization
//
// [File] is the JSON form of a computed layout: parameters, pass count,
// seed, node positions and edges. It is what the CLI writes and what the
// pipeline caches.
//
// # Concurrency
//
// Snapshots and solvers are not safe for concurrent mutation. The scheduler
// package runs the solver on a private clone and publishes the result.
package layout
