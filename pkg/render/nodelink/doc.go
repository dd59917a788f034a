// Package nodelink exports decision-tree graphs as Graphviz diagrams.
//
// # Overview
//
// This package is an alternative to the canvas renderer for cases where a
// Graphviz layout or DOT source is wanted. Nodes appear as rounded boxes
// stroked and labeled with the same palette as the canvas.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, resolver, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)
//
// # DOT Format
//
// The generated DOT lays out left to right (rankdir=LR) to match the
// indented canvas layout. With Detailed set, labels include the price and
// badge lines.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
