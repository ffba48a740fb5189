package render

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/geom"
	"github.com/matzehuels/forcegraph/pkg/layout"
)

// Output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
	FormatPDF      = "pdf"
)

// Formats lists every supported format.
var Formats = []string{FormatSVG, FormatPNG, FormatDOT, FormatGraphviz, FormatPDF}

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatGraphviz:
		return "graphviz.svg"
	default:
		return format
	}
}

// Default style values.
const (
	DefaultMargin = 20.0
	DefaultFill   = "#ff69b4"
	DefaultStroke = "#ff69b4"
	DefaultText   = "#000000"
	DefaultScale  = 1.0
)

// Options controls the appearance of rendered output.
type Options struct {
	// Margin is the blank border around the drawing.
	Margin float64
	// Fill colors node shapes.
	Fill string
	// Stroke colors edges.
	Stroke string
	// Text colors labels.
	Text string
	// HideLabels skips label drawing.
	HideLabels bool
	// Scale multiplies raster output size (png).
	Scale float64
}

// DefaultOptions returns the reference style: pink nodes and edges with a
// 20 unit margin.
func DefaultOptions() Options {
	return Options{
		Margin: DefaultMargin,
		Fill:   DefaultFill,
		Stroke: DefaultStroke,
		Text:   DefaultText,
		Scale:  DefaultScale,
	}
}

func (o *Options) setDefaults() {
	if o.Margin < 0 {
		o.Margin = 0
	}
	if o.Fill == "" {
		o.Fill = DefaultFill
	}
	if o.Stroke == "" {
		o.Stroke = o.Fill
	}
	if o.Text == "" {
		o.Text = DefaultText
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
}

// Render produces the given format.
func Render(ctx context.Context, s *layout.Snapshot, format string, opts Options) ([]byte, error) {
	if err := errors.ValidateFormat(format, Formats...); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	switch format {
	case FormatSVG:
		if err := SVG(&buf, s, opts); err != nil {
			return nil, err
		}
	case FormatPNG:
		if err := PNG(&buf, s, opts); err != nil {
			return nil, err
		}
	case FormatDOT:
		buf.WriteString(ToDOT(s, opts))
	case FormatGraphviz:
		return RenderGraphviz(ctx, ToDOT(s, opts))
	case FormatPDF:
		if err := SVG(&buf, s, opts); err != nil {
			return nil, err
		}
		return ToPDF(buf.Bytes())
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Scene - Renderer-independent geometry
// =============================================================================

// Scene is a snapshot translated into canvas coordinates.
type Scene struct {
	Width  float64
	Height float64
	Nodes  []layout.Entry
	Edges  []geom.Segment
}

// NewScene translates s so the top-left of its bounds sits at margin and
// clips edges to node boundaries. Each adjacent pair yields one edge.
func NewScene(s *layout.Snapshot, margin float64) Scene {
	bounds, ok := s.Bounds()
	if !ok {
		return Scene{Width: 2 * margin, Height: 2 * margin}
	}
	offset := geom.V(margin, margin).Sub(bounds.Min)
	size := bounds.Size()

	sc := Scene{
		Width:  size.X + 2*margin,
		Height: size.Y + 2*margin,
		Nodes:  s.Entries(),
	}
	for i := range sc.Nodes {
		sc.Nodes[i].Position = sc.Nodes[i].Position.Add(offset)
	}
	for i := range sc.Nodes {
		for j := i + 1; j < len(sc.Nodes); j++ {
			if !s.Adjacent(i, j) {
				continue
			}
			if seg, ok := edgeBetween(sc.Nodes[i], sc.Nodes[j]); ok {
				sc.Edges = append(sc.Edges, seg)
			}
		}
	}
	return sc
}

// edgeBetween returns the part of the center line outside both shapes.
// Overlapping nodes have no visible edge.
func edgeBetween(a, b layout.Entry) (geom.Segment, bool) {
	v := b.Position.Sub(a.Position)
	u, ok := v.Normalized()
	if !ok {
		return geom.Segment{}, false
	}
	ra := a.Shape.BoundaryDistance(a.Position, b.Position)
	rb := b.Shape.BoundaryDistance(b.Position, a.Position)
	if ra+rb >= v.Norm() {
		return geom.Segment{}, false
	}
	return geom.Seg(a.Position.Add(u.Scale(ra)), b.Position.Sub(u.Scale(rb))), true
}

// Raster limits. A layout that spreads far enough to exceed them is drawn
// at a reduced scale instead.
const (
	maxCanvasSide   = 16384
	maxCanvasPixels = 32 << 20
)

// canvasSize rounds scene dimensions up to whole pixels.
func canvasSize(sc Scene, scale float64) (int, int) {
	return max(int(math.Ceil(sc.Width*scale)), 1), max(int(math.Ceil(sc.Height*scale)), 1)
}

// fitScale shrinks scale until the scene fits within maxCanvasSide on
// each axis and maxCanvasPixels in total.
func fitScale(sc Scene, scale float64) (float64, error) {
	w, h := sc.Width*scale, sc.Height*scale
	if math.IsNaN(w) || math.IsInf(w, 0) || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "canvas size %gx%g is not finite", w, h)
	}
	f := 1.0
	if w > maxCanvasSide {
		f = min(f, maxCanvasSide/w)
	}
	if h > maxCanvasSide {
		f = min(f, maxCanvasSide/h)
	}
	if area := w * f * h * f; area > maxCanvasPixels {
		f *= math.Sqrt(maxCanvasPixels / area)
	}
	return scale * f, nil
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
