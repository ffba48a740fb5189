// Package geom provides the 2D geometry kernel used by the layout engine.
//
// Everything in this package is a pure function of its inputs. Degenerate
// configurations (a vertical line through two points, parallel segments, a
// zero-length vector) are reported with a boolean "ok" result rather than an
// error or a NaN, and every caller is expected to treat "no result" as a
// normal outcome.
//
// # Types
//
//   - [Vec]: a point or a vector, depending on context
//   - [Line]: a non-vertical line in slope/intercept form (y = K·x + B)
//   - [Segment]: a closed line segment between two points
//   - [Rect]: an axis-aligned rectangle
//   - [Shape]: the closed circle/rectangle variant attached to graph nodes
//
// # Example
//
//	a := geom.Segment{From: geom.Vec{X: 0, Y: 0}, To: geom.Vec{X: 2, Y: 2}}
//	b := geom.Segment{From: geom.Vec{X: 0, Y: 2}, To: geom.Vec{X: 2, Y: 0}}
//	p, ok := a.Intersect(b) // (1, 1), true
package geom
