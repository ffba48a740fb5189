package graph

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/geom"
)

// =============================================================================
// File - Node-Link Serialization
// =============================================================================

// File is the canonical serialization format for graphs.
// Nodes and edges keep the graph's index order, so a round trip reproduces
// the same node indices and neighbor order.
type File struct {
	Nodes []FileNode `json:"nodes" bson:"nodes"`
	Edges []FileEdge `json:"edges" bson:"edges"`
}

// FileNode is a serialized node. A nil Shape means [geom.DefaultShape].
type FileNode struct {
	ID    string      `json:"id" bson:"id"`
	Shape *geom.Shape `json:"shape,omitempty" bson:"shape,omitempty"`
}

// FileEdge is a serialized directed edge between node ids.
type FileEdge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// FromGraph converts a graph to its serialization format.
func FromGraph(g *Graph) File {
	out := File{
		Nodes: make([]FileNode, g.Len()),
		Edges: make([]FileEdge, 0, g.EdgeCount()),
	}
	for i, n := range g.nodes {
		shape := n.Shape
		out.Nodes[i] = FileNode{ID: n.Label, Shape: &shape}
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, FileEdge{From: g.Label(e.From), To: g.Label(e.To)})
	}
	return out
}

// ToGraph validates f and builds a graph from it.
// Duplicate ids, unknown edge endpoints and invalid shapes fail with
// INVALID_GRAPH.
func ToGraph(f File) (*Graph, error) {
	b := NewBuilder()
	for _, n := range f.Nodes {
		shape := geom.DefaultShape()
		if n.Shape != nil {
			shape = *n.Shape
		}
		if _, err := b.AddNode(n.ID, shape); err != nil {
			return nil, err
		}
	}
	for _, e := range f.Edges {
		if err := b.ConnectLabels(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a graph to indented JSON bytes.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a graph.
func Unmarshal(data []byte) (*Graph, error) {
	return readGraphFrom(bytes.NewReader(data))
}

// Write writes a graph as JSON to an io.Writer.
func Write(g *Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// Read decodes a JSON graph from an io.Reader.
func Read(r io.Reader) (*Graph, error) {
	return readGraphFrom(r)
}

// WriteFile writes a graph to a JSON file.
func WriteFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// ReadFile reads a JSON file and returns the decoded graph.
// A missing file fails with FILE_NOT_FOUND.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// Hash returns a hex sha256 of the graph's compact canonical JSON.
// Graphs with the same nodes, shapes and edges in the same order hash equal.
func (g *Graph) Hash() string {
	data, err := json.Marshal(FromGraph(g))
	if err != nil {
		// FromGraph only produces plain strings and floats.
		panic(fmt.Sprintf("graph: marshal for hash: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*Graph, error) {
	var data File
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph")
	}
	return ToGraph(data)
}
