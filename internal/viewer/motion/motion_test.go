package motion

import (
	"math"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/geom"
)

func TestMotionReachesTarget(t *testing.T) {
	m := New([]geom.Vec{geom.V(0, 0), geom.V(10, 10)}, 0.2)
	if !m.Done() {
		t.Fatal("new motion should be at rest")
	}

	target := []geom.Vec{geom.V(100, 50), geom.V(10, -10)}
	m.Retarget(target)
	if m.Done() {
		t.Fatal("retargeted motion should be moving")
	}

	if m.Step(0.1) {
		t.Fatal("finished halfway")
	}
	mid := m.Positions()[0]
	if mid.X <= 0 || mid.X >= 100 {
		t.Errorf("halfway x = %v, want strictly between 0 and 100", mid.X)
	}
	// OutQuad covers more than half the distance in the first half.
	if mid.X <= 50 {
		t.Errorf("halfway x = %v, want > 50 for ease-out", mid.X)
	}

	if !m.Step(0.2) {
		t.Fatal("not finished after full duration")
	}
	for i, p := range m.Positions() {
		if p != target[i] {
			t.Errorf("position %d = %v, want %v", i, p, target[i])
		}
	}
}

func TestMotionRetargetMidway(t *testing.T) {
	m := New([]geom.Vec{geom.V(0, 0)}, 1)
	m.Retarget([]geom.Vec{geom.V(100, 0)})
	m.Step(0.5)
	from := m.Positions()[0]

	m.Retarget([]geom.Vec{geom.V(0, 0)})
	m.Step(0.01)
	if got := m.Positions()[0]; got.X > from.X || got.X < from.X-10 {
		t.Errorf("retarget jumped: %v -> %v", from, got)
	}
}

func TestMotionJumps(t *testing.T) {
	tests := []struct {
		name     string
		start    []geom.Vec
		duration float32
		to       []geom.Vec
	}{
		{"zero duration", []geom.Vec{geom.V(0, 0)}, 0, []geom.Vec{geom.V(5, 5)}},
		{"length change", []geom.Vec{geom.V(0, 0)}, 1, []geom.Vec{geom.V(1, 1), geom.V(2, 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.start, tt.duration)
			m.Retarget(tt.to)
			if !m.Done() {
				t.Fatal("expected an immediate jump")
			}
			if m.Len() != len(tt.to) {
				t.Fatalf("Len() = %d, want %d", m.Len(), len(tt.to))
			}
			for i, p := range m.Positions() {
				if p != tt.to[i] {
					t.Errorf("position %d = %v, want %v", i, p, tt.to[i])
				}
			}
		})
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name      string
		bounds    geom.Rect
		w, h      float64
		margin    float64
		maxScale  float64
		wantScale float64
	}{
		{"wide", geom.Rect{Min: geom.V(0, 0), Max: geom.V(200, 50)}, 440, 440, 20, 0, 2},
		{"tall", geom.Rect{Min: geom.V(-10, -100), Max: geom.V(10, 100)}, 400, 240, 20, 0, 1},
		{"capped", geom.Rect{Min: geom.V(0, 0), Max: geom.V(10, 10)}, 1000, 1000, 0, 4, 4},
		{"point", geom.Rect{Min: geom.V(3, 3), Max: geom.V(3, 3)}, 100, 100, 10, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Fit(tt.bounds, tt.w, tt.h, tt.margin, tt.maxScale)
			if math.Abs(tr.Scale-tt.wantScale) > 1e-9 {
				t.Errorf("scale = %v, want %v", tr.Scale, tt.wantScale)
			}
			c := tr.Apply(tt.bounds.Center())
			if math.Abs(c.X-tt.w/2) > 1e-9 || math.Abs(c.Y-tt.h/2) > 1e-9 {
				t.Errorf("center maps to %v, want (%v, %v)", c, tt.w/2, tt.h/2)
			}
		})
	}
}
