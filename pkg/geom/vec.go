package geom

import (
	"fmt"
	"math"
)

// Vec is a 2D point or vector.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Zero is the origin.
var Zero = Vec{}

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Div returns v / s. Division by zero follows IEEE 754.
func (v Vec) Div(s float64) Vec { return Vec{v.X / s, v.Y / s} }

// Neg returns -v.
func (v Vec) Neg() Vec { return Vec{-v.X, -v.Y} }

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product of v and o.
func (v Vec) Cross(o Vec) float64 { return v.X*o.Y - v.Y*o.X }

// Quadrance returns the squared magnitude of v.
func (v Vec) Quadrance() float64 { return v.X*v.X + v.Y*v.Y }

// Norm returns the magnitude of v.
func (v Vec) Norm() float64 { return math.Sqrt(v.Quadrance()) }

// Dist returns the distance between points v and o.
func (v Vec) Dist(o Vec) float64 { return o.Sub(v).Norm() }

// Mid returns the midpoint between v and o.
func (v Vec) Mid(o Vec) Vec { return Vec{(v.X + o.X) / 2, (v.Y + o.Y) / 2} }

// IsZero reports whether both components are exactly zero.
func (v Vec) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Normalized returns the unit vector pointing in the direction of v.
// It reports false when v has zero magnitude and therefore no direction.
func (v Vec) Normalized() (Vec, bool) {
	q := v.Quadrance()
	if q <= 0 {
		return Vec{}, false
	}
	return v.Div(math.Sqrt(q)), true
}

// Normal returns v rotated by 90° counter-clockwise, (-Y, X).
// It reports false for the zero vector.
func (v Vec) Normal() (Vec, bool) {
	if v.IsZero() {
		return Vec{}, false
	}
	return Vec{-v.Y, v.X}, true
}

// Cos returns the cosine of the angle between v and o.
// The result is NaN when either vector has zero length; callers must guard.
func (v Vec) Cos(o Vec) float64 {
	return v.Dot(o) / (v.Norm() * o.Norm())
}

// String implements fmt.Stringer.
func (v Vec) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
