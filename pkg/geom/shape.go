package geom

import (
	"fmt"
	"math"
)

// ShapeKind tags the variant held by a [Shape].
type ShapeKind string

// Shape kinds.
const (
	KindCircle    ShapeKind = "circle"
	KindRectangle ShapeKind = "rectangle"
)

// DefaultRadius is the radius of the shape nodes get when none is given.
const DefaultRadius = 20

// Shape is the outline of a node: a circle of Radius, or a Width×Height
// rectangle. Only the fields of the active Kind are meaningful.
type Shape struct {
	Kind   ShapeKind `json:"kind" toml:"kind"`
	Radius float64   `json:"radius,omitempty" toml:"radius"`
	Width  float64   `json:"width,omitempty" toml:"width"`
	Height float64   `json:"height,omitempty" toml:"height"`
}

// Circle returns a circular shape.
func Circle(radius float64) Shape {
	return Shape{Kind: KindCircle, Radius: radius}
}

// Rectangle returns a rectangular shape.
func Rectangle(width, height float64) Shape {
	return Shape{Kind: KindRectangle, Width: width, Height: height}
}

// DefaultShape is the shape assigned to nodes without one.
func DefaultShape() Shape { return Circle(DefaultRadius) }

// Validate reports whether the shape has a known kind and positive, finite dimensions.
func (s Shape) Validate() error {
	switch s.Kind {
	case KindCircle:
		if !positive(s.Radius) {
			return fmt.Errorf("circle radius must be positive, got %v", s.Radius)
		}
	case KindRectangle:
		if !positive(s.Width) || !positive(s.Height) {
			return fmt.Errorf("rectangle size must be positive, got %vx%v", s.Width, s.Height)
		}
	default:
		return fmt.Errorf("unknown shape kind %q", s.Kind)
	}
	return nil
}

// Size returns the width and height of the shape's bounding box.
func (s Shape) Size() Vec {
	if s.Kind == KindRectangle {
		return Vec{s.Width, s.Height}
	}
	return Vec{2 * s.Radius, 2 * s.Radius}
}

// Bounds returns the shape's bounding box when centered on c.
func (s Shape) Bounds(c Vec) Rect {
	size := s.Size()
	return RectAround(c, size.X, size.Y)
}

// BoundingRadius returns the radius of the smallest circle centered on the
// shape's center that contains the shape.
func (s Shape) BoundingRadius() float64 {
	if s.Kind == KindRectangle {
		return math.Hypot(s.Width, s.Height) / 2
	}
	return s.Radius
}

// BoundaryDistance returns the distance from center to the shape's outline
// along the direction of toward.
//
// For a circle this is the radius regardless of direction. For a rectangle
// the ray center→toward is extended to the rectangle's diagonal length and
// clipped against the four edges. When toward equals center there is no
// direction and the shorter half-dimension is returned.
func (s Shape) BoundaryDistance(center, toward Vec) float64 {
	if s.Kind != KindRectangle {
		return s.Radius
	}

	fallback := math.Min(s.Width, s.Height) / 2
	dir, ok := toward.Sub(center).Normalized()
	if !ok {
		return fallback
	}

	ray := Segment{From: center, To: center.Add(dir.Scale(math.Hypot(s.Width, s.Height)))}
	for _, edge := range RectAround(center, s.Width, s.Height).Segments() {
		if p, ok := edge.Intersect(ray); ok {
			return p.Dist(center)
		}
	}
	return fallback
}

// String implements fmt.Stringer.
func (s Shape) String() string {
	if s.Kind == KindRectangle {
		return fmt.Sprintf("rectangle(%gx%g)", s.Width, s.Height)
	}
	return fmt.Sprintf("circle(%g)", s.Radius)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
