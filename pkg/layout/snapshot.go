package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/geom"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Snapshot is a graph together with one position per node.
type Snapshot struct {
	g   *graph.Graph
	pos []geom.Vec
}

// Entry is a node as presented to renderers.
type Entry struct {
	Label    string
	Position geom.Vec
	Shape    geom.Shape
}

// NewSnapshot places every node independently and uniformly in
// [0, SeedExtent]². A nil rng uses the global source.
func NewSnapshot(g *graph.Graph, rng *rand.Rand) *Snapshot {
	s := &Snapshot{g: g, pos: make([]geom.Vec, g.Len())}
	for i := range s.pos {
		s.pos[i] = geom.V(uniform(rng)*SeedExtent, uniform(rng)*SeedExtent)
	}
	return s
}

// NewSnapshotAt uses explicit positions, one per node in index order.
func NewSnapshotAt(g *graph.Graph, positions []geom.Vec) (*Snapshot, error) {
	if len(positions) != g.Len() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"got %d positions for %d nodes", len(positions), g.Len())
	}
	for i, p := range positions {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "position of %q is not finite", g.Label(i))
		}
	}
	return &Snapshot{g: g, pos: append([]geom.Vec(nil), positions...)}, nil
}

// Clone copies the positions. The graph is shared.
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{g: s.g, pos: append([]geom.Vec(nil), s.pos...)}
}

// Graph returns the underlying topology.
func (s *Snapshot) Graph() *graph.Graph { return s.g }

// Len returns the number of nodes.
func (s *Snapshot) Len() int { return len(s.pos) }

// Position returns the position of node i.
func (s *Snapshot) Position(i int) geom.Vec { return s.pos[i] }

// SetPosition moves node i to p.
func (s *Snapshot) SetPosition(i int, p geom.Vec) { s.pos[i] = p }

// Positions returns a copy of all positions in index order.
func (s *Snapshot) Positions() []geom.Vec { return append([]geom.Vec(nil), s.pos...) }

// Adjacent reports whether nodes i and j share an edge in either direction.
func (s *Snapshot) Adjacent(i, j int) bool { return s.g.Adjacent(i, j) }

// Entries returns (label, position, shape) for every node in index order.
func (s *Snapshot) Entries() []Entry {
	out := make([]Entry, len(s.pos))
	for i, p := range s.pos {
		n := s.g.Node(i)
		out[i] = Entry{Label: n.Label, Position: p, Shape: n.Shape}
	}
	return out
}

// Bounds returns the union of all node extents. It reports false for an
// empty snapshot.
func (s *Snapshot) Bounds() (geom.Rect, bool) {
	if len(s.pos) == 0 {
		return geom.Rect{}, false
	}
	r := s.g.Shape(0).Bounds(s.pos[0])
	for i := 1; i < len(s.pos); i++ {
		r = r.Union(s.g.Shape(i).Bounds(s.pos[i]))
	}
	return r, true
}

// Centroid returns the mean node position, or the origin when empty.
func (s *Snapshot) Centroid() geom.Vec {
	if len(s.pos) == 0 {
		return geom.Vec{}
	}
	var sum geom.Vec
	for _, p := range s.pos {
		sum = sum.Add(p)
	}
	return sum.Div(float64(len(s.pos)))
}

// Overlap sums max(0, rᵢ + rⱼ - dᵢⱼ) over all node pairs, with r the
// bounding radius of each shape. Zero means no two nodes' bounding circles
// intersect.
func (s *Snapshot) Overlap() float64 {
	var total float64
	for i := range s.pos {
		ri := s.g.Shape(i).BoundingRadius()
		for j := i + 1; j < len(s.pos); j++ {
			rj := s.g.Shape(j).BoundingRadius()
			if o := ri + rj - s.pos[i].Dist(s.pos[j]); o > 0 {
				total += o
			}
		}
	}
	return total
}

// Energy returns the potential whose gradient the solver follows:
// R/max(1,d) for every pair plus k(d-L)²/2 for adjacent pairs.
func (s *Snapshot) Energy(p Params) float64 {
	var e float64
	for i := range s.pos {
		for j := i + 1; j < len(s.pos); j++ {
			d := s.pos[i].Dist(s.pos[j])
			e += p.RepulsionStrength / math.Max(1, d)
			if s.g.Adjacent(i, j) {
				stretch := d - p.SpringLength
				e += p.SpringStiffness * stretch * stretch / 2
			}
		}
	}
	return e
}

func uniform(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()
	}
	return rng.Float64()
}
