package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/treeflow/pkg/graph"
)

// Size is a width and height in canvas units.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is a positioned node. X and Y are the top-left corner.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the right edge of the box.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the bottom edge of the box.
func (b Box) Bottom() float64 { return b.Y + b.H }

// LeftPort returns the middle of the left edge.
func (b Box) LeftPort() Point { return Point{X: b.X, Y: b.Y + b.H/2} }

// RightPort returns the middle of the right edge.
func (b Box) RightPort() Point { return Point{X: b.Right(), Y: b.Y + b.H/2} }

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	x, y := math.Min(b.X, o.X), math.Min(b.Y, o.Y)
	return Box{X: x, Y: y, W: math.Max(b.Right(), o.Right()) - x, H: math.Max(b.Bottom(), o.Bottom()) - y}
}

// Pad grows the box by p on every side.
func (b Box) Pad(p float64) Box {
	return Box{X: b.X - p, Y: b.Y - p, W: b.W + 2*p, H: b.H + 2*p}
}

// Positions maps node IDs to boxes.
type Positions map[string]Box

// Bounds returns the box containing every position, and false when empty.
func (p Positions) Bounds() (Box, bool) {
	var out Box
	first := true
	for _, b := range p {
		if first {
			out, first = b, false
			continue
		}
		out = out.Union(b)
	}
	return out, !first
}

// Engine computes node positions.
type Engine interface {
	Layout(g *graph.Graph, node Size) (Positions, error)
}

// EngineFunc adapts a function to [Engine].
type EngineFunc func(g *graph.Graph, node Size) (Positions, error)

func (f EngineFunc) Layout(g *graph.Graph, node Size) (Positions, error) { return f(g, node) }

// Path is a cubic Bézier curve.
type Path struct {
	Start Point `json:"start"`
	C1    Point `json:"c1"`
	C2    Point `json:"c2"`
	End   Point `json:"end"`
}

// D returns the SVG path data for p.
func (p Path) D() string {
	return fmt.Sprintf("M %.2f %.2f C %.2f %.2f, %.2f %.2f, %.2f %.2f",
		p.Start.X, p.Start.Y, p.C1.X, p.C1.Y, p.C2.X, p.C2.Y, p.End.X, p.End.Y)
}

// CubicHorizontal routes an edge between from's right port and to's left
// port with horizontal tangents at both ends.
func CubicHorizontal(from, to Box) Path {
	start, end := from.RightPort(), to.LeftPort()
	mid := (start.X + end.X) / 2
	return Path{
		Start: start,
		C1:    Point{X: mid, Y: start.Y},
		C2:    Point{X: mid, Y: end.Y},
		End:   end,
	}
}
