package layout

import (
	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/graph"
)

// Direction is the horizontal growth direction of an indented layout.
type Direction string

const (
	LeftToRight Direction = "LR"
	RightToLeft Direction = "RL"
)

// Default indented layout parameters.
const (
	DefaultIndent    = 300.0
	DefaultRowHeight = 60.0
)

// Indented is an outline layout. The zero value uses the defaults.
type Indented struct {
	Indent    float64
	RowHeight float64
	DropCap   bool
	Direction Direction
}

// NewIndented returns an Indented engine with default parameters.
func NewIndented() Indented {
	return Indented{Indent: DefaultIndent, RowHeight: DefaultRowHeight, Direction: LeftToRight}
}

// Layout places every node reachable from the graph root. A node reachable
// twice or not reachable at all is an error, since the engine only lays out
// trees.
func (in Indented) Layout(g *graph.Graph, node Size) (Positions, error) {
	root, ok := g.Root()
	if !ok {
		return Positions{}, nil
	}

	indent, rowHeight := in.Indent, in.RowHeight
	if indent <= 0 {
		indent = DefaultIndent
	}
	if rowHeight <= 0 {
		rowHeight = DefaultRowHeight
	}
	sign := 1.0
	if in.Direction == RightToLeft {
		sign = -1
	}

	pos := make(Positions, g.NodeCount())
	lastRow := 0

	var place func(id string, depth, row int) error
	place = func(id string, depth, row int) error {
		if _, seen := pos[id]; seen {
			return errors.New(errors.ErrCodeInvalidInput, "layout: node %q reached twice", id)
		}
		if _, ok := g.Node(id); !ok {
			return errors.New(errors.ErrCodeInvalidInput, "layout: unknown node %q", id)
		}
		pos[id] = Box{
			X: sign * float64(depth) * indent,
			Y: float64(row) * rowHeight,
			W: node.W,
			H: node.H,
		}
		for i, child := range g.Children(id) {
			childRow := row
			if i > 0 || in.DropCap {
				lastRow++
				childRow = lastRow
			}
			if err := place(child, depth+1, childRow); err != nil {
				return err
			}
		}
		return nil
	}

	if err := place(root.ID, 0, 0); err != nil {
		return nil, err
	}
	if len(pos) != g.NodeCount() {
		for _, n := range g.Nodes {
			if _, ok := pos[n.ID]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "layout: node %q not reachable from root %q", n.ID, root.ID)
			}
		}
	}
	return pos, nil
}
