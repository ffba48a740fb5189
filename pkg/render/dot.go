package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/forcegraph/pkg/geom"
	"github.com/matzehuels/forcegraph/pkg/layout"
)

// pointsPerInch converts layout units (points) to Graphviz inches.
const pointsPerInch = 72.0

// ToDOT converts s to an undirected Graphviz graph for the neato engine with
// every node pinned ("pos=x,y!") at its layout position. Graphviz's y axis
// points up, so y is negated.
func ToDOT(s *layout.Snapshot, opts Options) string {
	opts.setDefaults()
	sc := NewScene(s, opts.Margin)

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [style=filled, fillcolor=%s, color=%s, fontcolor=%s, fixedsize=true];\n",
		dotQuote(opts.Fill), dotQuote(opts.Fill), dotQuote(opts.Text))
	fmt.Fprintf(&buf, "  edge [color=%s];\n", dotQuote(opts.Stroke))
	buf.WriteString("\n")

	for _, n := range sc.Nodes {
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(n.Label), dotAttrs(n, opts))
	}

	buf.WriteString("\n")
	g := s.Graph()
	for i := range g.Len() {
		for j := i + 1; j < g.Len(); j++ {
			if g.Adjacent(i, j) {
				fmt.Fprintf(&buf, "  %s -- %s;\n", dotQuote(g.Label(i)), dotQuote(g.Label(j)))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotAttrs(n layout.Entry, opts Options) string {
	size := n.Shape.Size()
	shape := "circle"
	if n.Shape.Kind == geom.KindRectangle {
		shape = "box"
	}
	label := n.Label
	if opts.HideLabels {
		label = ""
	}
	return fmt.Sprintf("label=%s, shape=%s, width=%s, height=%s, pos=\"%s,%s!\"",
		dotQuote(label), shape,
		formatFloat(size.X/pointsPerInch), formatFloat(size.Y/pointsPerInch),
		formatFloat(n.Position.X), formatFloat(-n.Position.Y))
}

// dotQuote returns v as a DOT quoted string. DOT only understands escaped
// quotes and backslashes; every other rune is written as is.
func dotQuote(v string) string {
	return `"` + dotEscaper.Replace(v) + `"`
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// RenderGraphviz renders DOT source to SVG using the embedded Graphviz
// library with the neato engine, which honors pinned positions.
func RenderGraphviz(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the SVG scales like the svgo output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
