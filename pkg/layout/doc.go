// Package layout positions graph nodes on a canvas.
//
// An [Engine] maps every node of a [graph.Graph] to a [Box] given the fixed
// node size. The rendering surface treats engines as opaque; [Indented] is
// the built-in engine and can be swapped for any other implementation.
//
// # Indented Layout
//
// [Indented] lays the tree out as an outline read left to right: each node
// sits Indent units to the right of its parent, and rows are RowHeight apart
// in pre-order. With DropCap disabled (the default) a node's first child
// shares its parent's row, which keeps chains of single children on one
// line:
//
//	r ── a ── a1
//	     │
//	     └─── a2
//	b
//
// # Edges
//
// [CubicHorizontal] routes an edge from the right port of the source box to
// the left port of the target box as a cubic Bézier whose control points are
// offset horizontally.
package layout
