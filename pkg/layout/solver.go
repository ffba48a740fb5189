package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/forcegraph/pkg/geom"
)

// Stats summarizes how far nodes moved.
type Stats struct {
	// MaxDisplacement is the largest net movement of a single node during
	// the last pass.
	MaxDisplacement float64 `json:"max_displacement"`
	// TotalDisplacement sums every node's net movement over all passes.
	TotalDisplacement float64 `json:"total_displacement"`
	// Passes is the number of passes run.
	Passes int `json:"passes"`
}

// Solver relaxes snapshot positions under spring and repulsion forces.
type Solver struct {
	Params Params
	// Rand picks directions for coincident nodes. Nil uses the global source.
	Rand *rand.Rand
}

// NewSolver returns a solver with the given parameters and random source.
func NewSolver(p Params, rng *rand.Rand) *Solver {
	return &Solver{Params: p, Rand: rng}
}

// RepulsionForce is the signed force between two nodes at distance d.
// It is always <= 0 and never grows in magnitude as d increases.
func RepulsionForce(d float64, p Params) float64 {
	d = math.Max(1, d)
	return -p.RepulsionStrength / (d * d)
}

// SpringForce is the signed spring force between adjacent nodes at distance d.
// It is zero at the spring length, positive when stretched.
func SpringForce(d float64, p Params) float64 {
	return (d - p.SpringLength) * p.SpringStiffness
}

// Pass runs one relaxation pass over every node pair of s in place.
func (sv *Solver) Pass(s *Snapshot) Stats {
	before := s.Positions()
	pos := s.pos
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			v := pos[j].Sub(pos[i])
			d := v.Norm()

			f := RepulsionForce(d, sv.Params)
			if s.g.Adjacent(i, j) {
				f += SpringForce(d, sv.Params)
			}

			u, ok := v.Normalized()
			if !ok {
				u = sv.randomDirection()
			}
			step := u.Scale(f)
			pos[i] = pos[i].Add(step)
			pos[j] = pos[j].Sub(step)
		}
	}

	st := Stats{Passes: 1}
	for i, p := range pos {
		m := p.Dist(before[i])
		st.TotalDisplacement += m
		st.MaxDisplacement = math.Max(st.MaxDisplacement, m)
	}
	return st
}

// Run applies passes relaxation passes.
func (sv *Solver) Run(s *Snapshot, passes int) Stats {
	var total Stats
	for range passes {
		st := sv.Pass(s)
		total.Passes++
		total.TotalDisplacement += st.TotalDisplacement
		total.MaxDisplacement = st.MaxDisplacement
	}
	return total
}

// randomDirection returns (sin θ, cos θ) for θ uniform in [0, π].
func (sv *Solver) randomDirection() geom.Vec {
	theta := uniform(sv.Rand) * math.Pi
	return geom.V(math.Sin(theta), math.Cos(theta))
}
