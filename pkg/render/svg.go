package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/forcegraph/pkg/geom"
	"github.com/matzehuels/forcegraph/pkg/layout"
)

// SVG writes s as an SVG document.
func SVG(w io.Writer, s *layout.Snapshot, opts Options) error {
	opts.setDefaults()
	sc := NewScene(s, opts.Margin)
	width, height := canvasSize(sc, 1)

	canvas := svg.New(w)
	canvas.Start(width, height)

	canvas.Gstyle(fmt.Sprintf("stroke:%s;stroke-width:1", opts.Stroke))
	for _, e := range sc.Edges {
		canvas.Line(px(e.From.X), px(e.From.Y), px(e.To.X), px(e.To.Y))
	}
	canvas.Gend()

	canvas.Gstyle("fill:" + opts.Fill)
	for _, n := range sc.Nodes {
		drawShapeSVG(canvas, n.Position, n.Shape)
	}
	canvas.Gend()

	if !opts.HideLabels {
		canvas.Gstyle(fmt.Sprintf("fill:%s;font-family:sans-serif;font-size:14px;text-anchor:middle;dominant-baseline:central", opts.Text))
		for _, n := range sc.Nodes {
			canvas.Text(px(n.Position.X), px(n.Position.Y), n.Label)
		}
		canvas.Gend()
	}

	canvas.End()
	return nil
}

func drawShapeSVG(canvas *svg.SVG, c geom.Vec, shape geom.Shape) {
	switch shape.Kind {
	case geom.KindRectangle:
		r := shape.Bounds(c)
		canvas.Rect(px(r.Min.X), px(r.Min.Y), px(r.Width()), px(r.Height()))
	default:
		canvas.Circle(px(c.X), px(c.Y), px(shape.Radius))
	}
}

// px rounds to the integer grid svgo draws on.
func px(v float64) int {
	return int(math.Round(v))
}
