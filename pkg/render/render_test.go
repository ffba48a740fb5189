package render

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/geom"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
)

// testSnapshot places a circle and a rectangle 100 units apart, linked.
func testSnapshot(t *testing.T) *layout.Snapshot {
	t.Helper()
	b := graph.NewBuilder()
	a, _ := b.AddNode("a<b", geom.Circle(20))
	c, _ := b.AddNode("box", geom.Rectangle(40, 20))
	if err := b.Connect(a, c); err != nil {
		t.Fatal(err)
	}
	s, err := layout.NewSnapshotAt(b.Build(), []geom.Vec{geom.V(-50, 10), geom.V(50, 10)})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewScene(t *testing.T) {
	sc := NewScene(testSnapshot(t), 20)

	// Bounds span x [-70, 70], y [-10, 30].
	if sc.Width != 180 || sc.Height != 80 {
		t.Errorf("size = %vx%v, want 180x80", sc.Width, sc.Height)
	}
	if got := sc.Nodes[0].Position; got != geom.V(40, 40) {
		t.Errorf("circle at %v, want (40, 40)", got)
	}
	if got := sc.Nodes[1].Position; got != geom.V(140, 40) {
		t.Errorf("box at %v, want (140, 40)", got)
	}

	if len(sc.Edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(sc.Edges))
	}
	e := sc.Edges[0]
	if e.From.Dist(geom.V(60, 40)) > 1e-9 || e.To.Dist(geom.V(120, 40)) > 1e-9 {
		t.Errorf("edge = %v -> %v, want (60, 40) -> (120, 40)", e.From, e.To)
	}
}

func TestNewSceneSkipsOverlappingEdge(t *testing.T) {
	b := graph.NewBuilder()
	a, _ := b.AddNode("a", geom.Circle(20))
	c, _ := b.AddNode("c", geom.Circle(20))
	_ = b.Link(a, c)
	s, _ := layout.NewSnapshotAt(b.Build(), []geom.Vec{geom.V(0, 0), geom.V(30, 0)})

	sc := NewScene(s, 0)
	if len(sc.Edges) != 0 {
		t.Errorf("overlapping nodes should have no edge, got %v", sc.Edges)
	}
}

func TestNewSceneEmpty(t *testing.T) {
	s, _ := layout.NewSnapshotAt(graph.NewBuilder().Build(), nil)
	sc := NewScene(s, 20)
	if sc.Width != 40 || sc.Height != 40 || len(sc.Nodes) != 0 {
		t.Errorf("empty scene = %+v", sc)
	}
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, testSnapshot(t), DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		`width="180"`,
		`height="80"`,
		`<circle cx="40" cy="40" r="20"`,
		`<rect x="120" y="30" width="40" height="20"`,
		`<line x1="60" y1="40" x2="120" y2="40"`,
		"a&lt;b",
		DefaultFill,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q:\n%s", want, out)
		}
	}
	// Edges are drawn before shapes.
	if strings.Index(out, "<line") > strings.Index(out, "<circle") {
		t.Error("edges should be drawn under nodes")
	}
}

func TestSVGHideLabels(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.HideLabels = true
	if err := SVG(&buf, testSnapshot(t), opts); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<text") {
		t.Error("labels should be hidden")
	}
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Scale = 2
	if err := PNG(&buf, testSnapshot(t), opts); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 360 || b.Dy() != 160 {
		t.Errorf("size = %dx%d, want 360x160", b.Dx(), b.Dy())
	}
	// The circle center is filled.
	if _, _, _, a := img.At(80, 80).RGBA(); a == 0 {
		t.Error("expected a filled pixel at the circle center")
	}
	// The corner is in the margin.
	if _, _, _, a := img.At(1, 1).RGBA(); a != 0 {
		t.Error("expected a transparent margin")
	}
}

func TestPNGLargeLayoutIsScaledDown(t *testing.T) {
	b := graph.NewBuilder()
	b.AddNode("near", geom.Circle(20))
	b.AddNode("far", geom.Circle(20))
	s, err := layout.NewSnapshotAt(b.Build(), []geom.Vec{geom.V(0, 0), geom.V(3e9, 3e9)})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := PNG(&buf, s, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > maxCanvasSide+1 || bounds.Dy() > maxCanvasSide+1 {
		t.Errorf("size = %dx%d, want at most %d per side", bounds.Dx(), bounds.Dy(), maxCanvasSide)
	}
	if bounds.Dx()*bounds.Dy() > maxCanvasPixels+2*maxCanvasSide+1 {
		t.Errorf("area = %d, want at most %d", bounds.Dx()*bounds.Dy(), maxCanvasPixels)
	}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		scale   float64
		want    float64
		wantErr bool
	}{
		{"fits", 200, 100, 2, 2, false},
		{"wide", 4 * maxCanvasSide, 10, 1, 0.25, false},
		{"area", 8192, 8192, 1, math.Sqrt2 / 2, false},
		{"infinite", math.Inf(1), 10, 1, 0, true},
		{"nan", math.NaN(), 10, 1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fitScale(Scene{Width: tt.w, Height: tt.h}, tt.scale)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Fatalf("err = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("fitScale = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testSnapshot(t), DefaultOptions())
	for _, want := range []string{
		"graph G {",
		"layout=neato;",
		`"a<b" [label="a<b", shape=circle, width=0.56, height=0.56, pos="40.00,-40.00!"]`,
		`"box" [label="box", shape=box, width=0.56, height=0.28, pos="140.00,-40.00!"]`,
		`"a<b" -- "box";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestDotQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
		{"tab\there", "\"tab\there\""},
		{"🐶", `"🐶"`},
	}
	for _, tt := range tests {
		if got := dotQuote(tt.in); got != tt.want {
			t.Errorf("dotQuote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRenderGraphviz(t *testing.T) {
	out, err := Render(context.Background(), testSnapshot(t), FormatGraphviz, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, []byte("<svg")) {
		t.Errorf("expected SVG output, got %.200s", out)
	}
}

func TestRenderFormats(t *testing.T) {
	ctx := context.Background()
	s := testSnapshot(t)
	for _, format := range []string{FormatSVG, FormatPNG, FormatDOT} {
		t.Run(format, func(t *testing.T) {
			out, err := Render(ctx, s, format, DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			if len(out) == 0 {
				t.Error("empty output")
			}
		})
	}

	_, err := Render(ctx, s, "gif", DefaultOptions())
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) error = %v, want INVALID_FORMAT", err)
	}
}

func TestExtension(t *testing.T) {
	if Extension(FormatGraphviz) != "graphviz.svg" || Extension(FormatPNG) != "png" {
		t.Error("unexpected extensions")
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Margin: -1}
	opts.setDefaults()
	if opts.Margin != 0 || opts.Fill != DefaultFill || opts.Stroke != DefaultFill || math.Abs(opts.Scale-1) > 0 {
		t.Errorf("setDefaults() = %+v", opts)
	}
}
