package geom

import "math"

// parallelEpsilon is the relative cross-product magnitude below which two
// segments are treated as parallel.
const parallelEpsilon = 1e-12

// Segment is the closed line segment between From and To.
type Segment struct {
	From Vec `json:"from"`
	To   Vec `json:"to"`
}

// Seg is shorthand for Segment{From: from, To: to}.
func Seg(from, to Vec) Segment { return Segment{From: from, To: to} }

// Vector returns To - From.
func (s Segment) Vector() Vec { return s.To.Sub(s.From) }

// Len returns the length of the segment.
func (s Segment) Len() float64 { return s.Vector().Norm() }

// Bounds returns the axis-aligned bounding box of the segment.
func (s Segment) Bounds() Rect {
	return Rect{
		Min: Vec{math.Min(s.From.X, s.To.X), math.Min(s.From.Y, s.To.Y)},
		Max: Vec{math.Max(s.From.X, s.To.X), math.Max(s.From.Y, s.To.Y)},
	}
}

// Intersect returns the point where s and o cross.
//
// It uses the parametric cross-product formulation and reports a point only
// when both interpolation parameters lie in [0, 1]. Parallel, collinear and
// zero-length segments report false. The pair is put in a canonical order
// before solving, so s.Intersect(o) and o.Intersect(s) return identical values.
func (s Segment) Intersect(o Segment) (Vec, bool) {
	a, b := s, o
	if b.less(a) {
		a, b = b, a
	}

	v1 := a.Vector()
	v2 := b.Vector()
	denom := v1.Cross(v2)
	if math.Abs(denom) <= parallelEpsilon*v1.Norm()*v2.Norm() || denom == 0 {
		return Vec{}, false
	}

	d := a.From.Sub(b.From)
	u := (-v1.Y*d.X + v1.X*d.Y) / denom // parameter along b
	t := (v2.X*d.Y - v2.Y*d.X) / denom  // parameter along a
	if u < 0 || u > 1 || t < 0 || t > 1 {
		return Vec{}, false
	}
	return Vec{X: a.From.X + t*v1.X, Y: a.From.Y + t*v1.Y}, true
}

// NearestPoint returns the point of s closest to p.
//
// The perpendicular foot is clamped to the nearer endpoint when it falls
// outside the segment's x span. Vertical segments clamp by y instead.
func (s Segment) NearestPoint(p Vec) Vec {
	line, ok := LineThrough(s.From, s.To)
	if !ok {
		bottom, top := s.From, s.To
		if top.Y < bottom.Y {
			bottom, top = top, bottom
		}
		switch {
		case bottom.Y > p.Y:
			return bottom
		case top.Y < p.Y:
			return top
		}
		return Vec{X: bottom.X, Y: p.Y}
	}

	left, right := s.From, s.To
	if right.X < left.X {
		left, right = right, left
	}
	foot := line.Foot(p)
	switch {
	case foot.X < left.X:
		return left
	case foot.X > right.X:
		return right
	}
	return foot
}

// DistanceTo returns the distance from p to the nearest point of s.
func (s Segment) DistanceTo(p Vec) float64 {
	return s.NearestPoint(p).Dist(p)
}

func (s Segment) less(o Segment) bool {
	switch {
	case s.From.X != o.From.X:
		return s.From.X < o.From.X
	case s.From.Y != o.From.Y:
		return s.From.Y < o.From.Y
	case s.To.X != o.To.X:
		return s.To.X < o.To.X
	}
	return s.To.Y < o.To.Y
}
