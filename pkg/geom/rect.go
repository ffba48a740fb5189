package geom

import "math"

// Rect is an axis-aligned rectangle spanning Min to Max.
type Rect struct {
	Min Vec `json:"min"`
	Max Vec `json:"max"`
}

// RectAround returns the w×h rectangle centered on c.
func RectAround(c Vec, w, h float64) Rect {
	half := Vec{w / 2, h / 2}
	return Rect{Min: c.Sub(half), Max: c.Add(half)}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Size returns the extent as a vector (width, height).
func (r Rect) Size() Vec { return r.Max.Sub(r.Min) }

// Center returns the center point.
func (r Rect) Center() Vec { return r.Min.Mid(r.Max) }

// Contains reports whether p lies inside r or on its boundary.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Vec{math.Min(r.Min.X, o.Min.X), math.Min(r.Min.Y, o.Min.Y)},
		Max: Vec{math.Max(r.Max.X, o.Max.X), math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Segments returns the four edges in top, left, bottom, right order.
func (r Rect) Segments() [4]Segment {
	return [4]Segment{
		{From: Vec{r.Min.X, r.Min.Y}, To: Vec{r.Max.X, r.Min.Y}},
		{From: Vec{r.Min.X, r.Min.Y}, To: Vec{r.Min.X, r.Max.Y}},
		{From: Vec{r.Min.X, r.Max.Y}, To: Vec{r.Max.X, r.Max.Y}},
		{From: Vec{r.Max.X, r.Min.Y}, To: Vec{r.Max.X, r.Max.Y}},
	}
}
