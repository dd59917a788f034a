// Package render converts rendered decision-tree SVG into other formats.
//
// # Overview
//
// Drawing happens in subpackages; this package holds the format conversion
// they share:
//
//   - [styles]: palette and per-type color resolution
//   - [shape]: the layered node renderer and its registry
//   - [canvas]: the SVG drawing surface and JSON scene export
//   - [nodelink]: Graphviz DOT export and Graphviz-laid-out SVG
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg):
//
//	svg := surface.Bytes()
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [styles]: github.com/matzehuels/treeflow/pkg/render/styles
// [shape]: github.com/matzehuels/treeflow/pkg/render/shape
// [canvas]: github.com/matzehuels/treeflow/pkg/render/canvas
// [nodelink]: github.com/matzehuels/treeflow/pkg/render/nodelink
package render
