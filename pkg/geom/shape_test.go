package geom

import (
	"math"
	"testing"
)

func TestCircleBoundaryDistanceIgnoresDirection(t *testing.T) {
	c := Circle(20)
	center := V(3, -7)
	targets := []Vec{V(100, 0), V(-4, 9), V(3, -7), V(3, 1000), V(-1e6, -1e6)}
	for _, target := range targets {
		if got := c.BoundaryDistance(center, target); got != 20 {
			t.Errorf("BoundaryDistance toward %v = %v, want 20", target, got)
		}
	}
}

func TestRectangleBoundaryDistance(t *testing.T) {
	r := Rectangle(40, 20)
	center := V(10, 10)
	tests := []struct {
		name   string
		target Vec
		want   float64
	}{
		{"right", V(200, 10), 20},
		{"left", V(-200, 10), 20},
		{"down", V(10, 300), 10},
		{"up", V(10, -1), 10},
		{"diagonal hits horizontal edge", V(110, 110), 10 * math.Sqrt2},
		{"degenerate", V(10, 10), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.BoundaryDistance(center, tt.target); !approx(got, tt.want) {
				t.Errorf("BoundaryDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShapeValidate(t *testing.T) {
	tests := []struct {
		name    string
		shape   Shape
		wantErr bool
	}{
		{"circle", Circle(5), false},
		{"rectangle", Rectangle(4, 2), false},
		{"zero radius", Circle(0), true},
		{"negative width", Rectangle(-1, 2), true},
		{"nan", Circle(math.NaN()), true},
		{"unknown", Shape{Kind: "hexagon", Radius: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.shape.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShapeBoundingRadius(t *testing.T) {
	if got := Circle(7).BoundingRadius(); got != 7 {
		t.Errorf("circle BoundingRadius = %v, want 7", got)
	}
	if got := Rectangle(6, 8).BoundingRadius(); got != 5 {
		t.Errorf("rectangle BoundingRadius = %v, want 5", got)
	}
	if got := Rectangle(6, 8).Size(); got != V(6, 8) {
		t.Errorf("rectangle Size = %v", got)
	}
}
