package geom

// Line is a non-vertical line y = K·x + B.
type Line struct {
	K float64 `json:"k"`
	B float64 `json:"b"`
}

// LineThrough returns the line through p1 and p2.
// It reports false when both points share an x coordinate, since the line
// would be vertical and has no slope/intercept form.
func LineThrough(p1, p2 Vec) (Line, bool) {
	if p1.X == p2.X {
		return Line{}, false
	}
	k := (p1.Y - p2.Y) / (p1.X - p2.X)
	return Line{K: k, B: p1.Y - k*p1.X}, true
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.K*x + l.B
}

// Intersect returns the point where l and o cross.
//
// It reports false when the slopes are equal. Parallel distinct lines and
// coincident lines are not distinguished; use [Line.Coincident] when that
// matters.
func (l Line) Intersect(o Line) (Vec, bool) {
	if l.K == o.K {
		return Vec{}, false
	}
	x := (o.B - l.B) / (l.K - o.K)
	return Vec{X: x, Y: l.At(x)}, true
}

// Coincident reports whether l and o describe the same line.
func (l Line) Coincident(o Line) bool {
	return l.K == o.K && l.B == o.B
}

// Perpendicular returns the line through p perpendicular to l.
// It reports false when l is horizontal, because the perpendicular is vertical.
func (l Line) Perpendicular(p Vec) (Line, bool) {
	if l.K == 0 {
		return Line{}, false
	}
	k := -1 / l.K
	return Line{K: k, B: p.Y - k*p.X}, true
}

// Foot returns the foot of the perpendicular dropped from p onto l.
// For a horizontal line the foot is the point on l directly above or below p.
func (l Line) Foot(p Vec) Vec {
	perp, ok := l.Perpendicular(p)
	if !ok {
		return Vec{X: p.X, Y: l.B}
	}
	foot, ok := l.Intersect(perp)
	if !ok {
		// Unreachable: a line and its perpendicular never share a slope.
		return Vec{X: p.X, Y: l.At(p.X)}
	}
	return foot
}
