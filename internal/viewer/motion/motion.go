// Package motion eases displayed node positions toward published layout
// positions and maps layout space onto a screen.
//
// It has no windowing dependency so the viewer's animation can be tested
// headless.
package motion

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/matzehuels/forcegraph/pkg/geom"
)

// Motion animates a fixed number of points. Each Retarget starts a new
// tween per coordinate from wherever the point is now.
type Motion struct {
	duration float32
	fn       ease.TweenFunc
	current  []geom.Vec
	target   []geom.Vec
	tweens   []axisTween
	done     bool
}

type axisTween struct {
	x, y *gween.Tween
}

// New creates a Motion resting at start. duration is in seconds; zero or
// less jumps straight to each target.
func New(start []geom.Vec, duration float32) *Motion {
	return &Motion{
		duration: duration,
		fn:       ease.OutQuad,
		current:  append([]geom.Vec(nil), start...),
		done:     true,
	}
}

// Len returns the number of animated points.
func (m *Motion) Len() int { return len(m.current) }

// Retarget starts moving toward to. A length change replaces the point set
// without animating, since the old points no longer correspond.
func (m *Motion) Retarget(to []geom.Vec) {
	if len(to) != len(m.current) || m.duration <= 0 {
		m.current = append(m.current[:0], to...)
		m.tweens = nil
		m.done = true
		return
	}
	if cap(m.tweens) < len(to) {
		m.tweens = make([]axisTween, len(to))
	}
	m.tweens = m.tweens[:len(to)]
	m.target = append(m.target[:0], to...)
	for i, p := range m.current {
		m.tweens[i] = axisTween{
			x: gween.New(float32(p.X), float32(to[i].X), m.duration, m.fn),
			y: gween.New(float32(p.Y), float32(to[i].Y), m.duration, m.fn),
		}
	}
	m.done = false
}

// Step advances every tween by dt seconds and reports whether all of them
// have finished.
func (m *Motion) Step(dt float32) bool {
	if m.done {
		return true
	}
	allDone := true
	for i, t := range m.tweens {
		x, fx := t.x.Update(dt)
		y, fy := t.y.Update(dt)
		if fx && fy {
			// Tweens run in float32; land exactly on the target.
			m.current[i] = m.target[i]
			continue
		}
		m.current[i] = geom.V(float64(x), float64(y))
		allDone = false
	}
	m.done = allDone
	return allDone
}

// Done reports whether the last Retarget has been reached.
func (m *Motion) Done() bool { return m.done }

// Positions returns the displayed positions. The slice is reused by the
// next Step.
func (m *Motion) Positions() []geom.Vec { return m.current }

// =============================================================================
// Viewport
// =============================================================================

// Transform maps layout coordinates to screen coordinates.
type Transform struct {
	Scale  float64
	Offset geom.Vec
}

// Apply maps a layout point.
func (t Transform) Apply(p geom.Vec) geom.Vec {
	return p.Scale(t.Scale).Add(t.Offset)
}

// Fit returns the transform that centers bounds in a w×h screen with margin
// on every side, preserving aspect ratio. Content is never scaled up beyond
// maxScale. Degenerate bounds are centered at scale 1.
func Fit(bounds geom.Rect, w, h, margin, maxScale float64) Transform {
	size := bounds.Size()
	availW := math.Max(1, w-2*margin)
	availH := math.Max(1, h-2*margin)

	scale := 1.0
	if size.X > 0 || size.Y > 0 {
		scale = math.Inf(1)
		if size.X > 0 {
			scale = availW / size.X
		}
		if size.Y > 0 {
			scale = math.Min(scale, availH/size.Y)
		}
	}
	if maxScale > 0 {
		scale = math.Min(scale, maxScale)
	}

	center := bounds.Center()
	return Transform{
		Scale:  scale,
		Offset: geom.V(w/2, h/2).Sub(center.Scale(scale)),
	}
}
