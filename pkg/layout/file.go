package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/geom"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// =============================================================================
// File - Computed Layout Format
// =============================================================================

// File is the serialized form of a computed layout.
type File struct {
	Params Params           `json:"params" bson:"params"`
	Passes int              `json:"passes" bson:"passes"`
	Seed   uint64           `json:"seed" bson:"seed"`
	Stats  Stats            `json:"stats" bson:"stats"`
	Nodes  []FileNode       `json:"nodes" bson:"nodes"`
	Edges  []graph.FileEdge `json:"edges" bson:"edges"`
}

// FileNode is a positioned node.
type FileNode struct {
	ID    string     `json:"id" bson:"id"`
	X     float64    `json:"x" bson:"x"`
	Y     float64    `json:"y" bson:"y"`
	Shape geom.Shape `json:"shape" bson:"shape"`
}

// Export converts a snapshot and the run that produced it to a File.
func Export(s *Snapshot, p Params, seed uint64, st Stats) File {
	gf := graph.FromGraph(s.g)
	out := File{
		Params: p,
		Passes: st.Passes,
		Seed:   seed,
		Stats:  st,
		Nodes:  make([]FileNode, s.Len()),
		Edges:  gf.Edges,
	}
	for i, e := range s.Entries() {
		out.Nodes[i] = FileNode{ID: e.Label, X: e.Position.X, Y: e.Position.Y, Shape: e.Shape}
	}
	return out
}

// Snapshot rebuilds the graph and positions stored in f.
func (f File) Snapshot() (*Snapshot, error) {
	gf := graph.File{Nodes: make([]graph.FileNode, len(f.Nodes)), Edges: f.Edges}
	pos := make([]geom.Vec, len(f.Nodes))
	for i, n := range f.Nodes {
		shape := n.Shape
		gf.Nodes[i] = graph.FileNode{ID: n.ID, Shape: &shape}
		pos[i] = geom.V(n.X, n.Y)
	}
	g, err := graph.ToGraph(gf)
	if err != nil {
		return nil, err
	}
	return NewSnapshotAt(g, pos)
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// Marshal serializes a File to pretty-printed JSON bytes.
func Marshal(f File) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// Unmarshal deserializes JSON bytes into a File.
func Unmarshal(data []byte) (File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := f.Params.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Write encodes f as indented JSON.
func Write(f File, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes f to a JSON file.
func WriteFile(f File, path string) error {
	var buf bytes.Buffer
	if err := Write(f, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a layout JSON file.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s", path)
		}
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
