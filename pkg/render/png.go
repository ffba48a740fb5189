package render

import (
	"fmt"
	"io"

	"github.com/fogleman/gg"

	"github.com/matzehuels/forcegraph/pkg/geom"
	"github.com/matzehuels/forcegraph/pkg/layout"
)

// PNG draws s into a raster image and encodes it as PNG. Layouts too large
// for a maxCanvasSide by maxCanvasSide canvas are scaled down to fit.
func PNG(w io.Writer, s *layout.Snapshot, opts Options) error {
	opts.setDefaults()
	sc := NewScene(s, opts.Margin)
	scale, err := fitScale(sc, opts.Scale)
	if err != nil {
		return err
	}
	opts.Scale = scale
	width, height := canvasSize(sc, opts.Scale)

	dc := gg.NewContext(width, height)
	dc.Scale(opts.Scale, opts.Scale)

	dc.SetHexColor(opts.Stroke)
	dc.SetLineWidth(1)
	for _, e := range sc.Edges {
		dc.DrawLine(e.From.X, e.From.Y, e.To.X, e.To.Y)
		dc.Stroke()
	}

	dc.SetHexColor(opts.Fill)
	for _, n := range sc.Nodes {
		drawShapePNG(dc, n.Position, n.Shape)
		dc.Fill()
	}

	if !opts.HideLabels {
		dc.SetHexColor(opts.Text)
		for _, n := range sc.Nodes {
			dc.DrawStringAnchored(n.Label, n.Position.X, n.Position.Y, 0.5, 0.5)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func drawShapePNG(dc *gg.Context, c geom.Vec, shape geom.Shape) {
	switch shape.Kind {
	case geom.KindRectangle:
		r := shape.Bounds(c)
		dc.DrawRectangle(r.Min.X, r.Min.Y, r.Width(), r.Height())
	default:
		dc.DrawCircle(c.X, c.Y, shape.Radius)
	}
}
