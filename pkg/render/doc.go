// Package render draws positioned snapshots.
//
// # Overview
//
// Every renderer draws the same picture: edges first, then node shapes,
// then labels centered on their nodes. The drawing is translated so that
// the top-left corner of the union of all node extents sits at the margin.
// Edges run between node boundaries, not centers, using
// [geom.Shape.BoundaryDistance].
//
// # Formats
//
//   - svg: vector output written with github.com/ajstarks/svgo
//   - png: raster output drawn with github.com/fogleman/gg
//   - dot: Graphviz source with every node pinned at its position
//   - graphviz: SVG rendered by Graphviz (neato) from the dot source
//   - pdf: the svg output converted with rsvg-convert
//
//	data, err := render.Render(ctx, snap, render.FormatSVG, render.DefaultOptions())
//
// [ToPDF] needs the external rsvg-convert tool (from librsvg) and fails with
// UNSUPPORTED when it is missing.
package render
