// Package graph provides the immutable graph topology used by the layout engine.
//
// A [Graph] is a table of nodes keyed by label. Each node carries a
// [geom.Shape] and an ordered, append-only list of outgoing neighbors.
// Graphs are assembled with a [Builder] and are read-only once built, so a
// single *Graph can be shared by every positioned snapshot derived from it.
//
// # Identity
//
// Labels are the node identity: two nodes with the same label are the same
// node. [Builder.AddNode] rejects a label that is already present.
//
// # Adjacency
//
// Edges are directed as stored. [Graph.HasEdge] is the directed membership
// test, while [Graph.Adjacent] checks both directions and is what the layout
// solver uses. Callers that want an undirected graph connect both ways, or use
// [Builder.Link].
//
// # Synthetic Graphs
//
// [Tree] builds a rooted tree for demos and tests, labeling nodes from an
// explicit [LabelPool]. A pool that is too small for the requested tree is a
// precondition violation and aborts construction with POOL_EXHAUSTED.
//
//	pool := graph.NewEmojiPool()
//	g, err := graph.Tree(pool, 4, 4, geom.DefaultShape())
//
// # Serialization
//
// Graphs use a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "a", "shape": {"kind": "circle", "radius": 20}}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Nodes without a shape get [geom.DefaultShape].
//
// # Concurrency
//
// A built *Graph is safe for concurrent reads. A *Builder is not safe for
// concurrent use.
package graph
