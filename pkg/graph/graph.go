package graph

import (
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/geom"
)

// Node is a labeled vertex with a shape.
type Node struct {
	Label string
	Shape geom.Shape
}

// Graph is an immutable topology table: nodes in insertion order, their
// shapes, and their outgoing neighbors.
type Graph struct {
	nodes  []Node
	index  map[string]int
	out    [][]int
	outSet []map[int]struct{}
	edges  int
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Node returns the node at index i.
func (g *Graph) Node(i int) Node { return g.nodes[i] }

// Label returns the label of node i.
func (g *Graph) Label(i int) string { return g.nodes[i].Label }

// Shape returns the shape of node i.
func (g *Graph) Shape(i int) geom.Shape { return g.nodes[i].Shape }

// Index returns the index of the node with the given label.
func (g *Graph) Index(label string) (int, bool) {
	i, ok := g.index[label]
	return i, ok
}

// Nodes returns a copy of the node table in index order.
func (g *Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

// Neighbors returns the outgoing neighbors of node i in insertion order.
// The returned slice must not be modified.
func (g *Graph) Neighbors(i int) []int { return g.out[i] }

// HasEdge reports whether i has j in its outgoing neighbor list.
func (g *Graph) HasEdge(i, j int) bool {
	_, ok := g.outSet[i][j]
	return ok
}

// Adjacent reports whether an edge exists between i and j in either direction.
func (g *Graph) Adjacent(i, j int) bool {
	return g.HasEdge(i, j) || g.HasEdge(j, i)
}

// Edge is a directed edge between two node indices.
type Edge struct {
	From int
	To   int
}

// Edges returns all directed edges, grouped by source in index order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for from, tos := range g.out {
		for _, to := range tos {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// =============================================================================
// Builder
// =============================================================================

// Builder assembles a [Graph]. Nodes and edges can only be added.
type Builder struct {
	g Graph
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{g: Graph{index: make(map[string]int)}}
}

// AddNode adds a node and returns its index.
// It fails with INVALID_GRAPH for an invalid label or shape, or when the
// label is already taken.
func (b *Builder) AddNode(label string, shape geom.Shape) (int, error) {
	if err := errors.ValidateLabel(label); err != nil {
		return 0, err
	}
	if err := shape.Validate(); err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %q", label)
	}
	if _, exists := b.g.index[label]; exists {
		return 0, errors.New(errors.ErrCodeInvalidGraph, "duplicate node label %q", label)
	}
	i := len(b.g.nodes)
	b.g.nodes = append(b.g.nodes, Node{Label: label, Shape: shape})
	b.g.index[label] = i
	b.g.out = append(b.g.out, nil)
	b.g.outSet = append(b.g.outSet, make(map[int]struct{}))
	return i, nil
}

// Connect appends to as an outgoing neighbor of from.
// Connecting an existing pair again is a no-op.
func (b *Builder) Connect(from, to int) error {
	n := len(b.g.nodes)
	if from < 0 || from >= n || to < 0 || to >= n {
		return errors.New(errors.ErrCodeInvalidGraph, "edge %d->%d out of range (%d nodes)", from, to, n)
	}
	if _, ok := b.g.outSet[from][to]; ok {
		return nil
	}
	b.g.out[from] = append(b.g.out[from], to)
	b.g.outSet[from][to] = struct{}{}
	b.g.edges++
	return nil
}

// ConnectLabels connects two nodes by label.
func (b *Builder) ConnectLabels(from, to string) error {
	i, ok := b.g.index[from]
	if !ok {
		return errors.New(errors.ErrCodeInvalidGraph, "unknown source node %q", from)
	}
	j, ok := b.g.index[to]
	if !ok {
		return errors.New(errors.ErrCodeInvalidGraph, "unknown target node %q", to)
	}
	return b.Connect(i, j)
}

// Link connects a and b in both directions.
func (b *Builder) Link(a, c int) error {
	if err := b.Connect(a, c); err != nil {
		return err
	}
	return b.Connect(c, a)
}

// Len returns the number of nodes added so far.
func (b *Builder) Len() int { return len(b.g.nodes) }

// Build returns an immutable snapshot of the graph built so far.
// The builder may continue to be used; later additions do not affect the
// returned graph.
func (b *Builder) Build() *Graph {
	g := &Graph{
		nodes:  append([]Node(nil), b.g.nodes...),
		index:  make(map[string]int, len(b.g.index)),
		out:    make([][]int, len(b.g.out)),
		outSet: make([]map[int]struct{}, len(b.g.outSet)),
		edges:  b.g.edges,
	}
	for k, v := range b.g.index {
		g.index[k] = v
	}
	for i := range b.g.out {
		g.out[i] = append([]int(nil), b.g.out[i]...)
		set := make(map[int]struct{}, len(b.g.outSet[i]))
		for k := range b.g.outSet[i] {
			set[k] = struct{}{}
		}
		g.outSet[i] = set
	}
	return g
}
