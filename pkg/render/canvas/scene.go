package canvas

import (
	"encoding/json"

	"github.com/matzehuels/treeflow/pkg/graph"
	"github.com/matzehuels/treeflow/pkg/layout"
	"github.com/matzehuels/treeflow/pkg/render/shape"
)

// Scene is a fully positioned rendering of a graph.
type Scene struct {
	ViewBox layout.Box  `json:"view_box"`
	Fitted  bool        `json:"fitted"`
	Nodes   []SceneNode `json:"nodes"`
	Edges   []SceneEdge `json:"edges"`
}

// SceneNode is a node's box, interaction state and shape stack.
type SceneNode struct {
	ID     string        `json:"id"`
	Box    layout.Box    `json:"box"`
	State  shape.State   `json:"state"`
	Shapes []shape.Shape `json:"shapes"`
}

// SceneEdge is a routed edge.
type SceneEdge struct {
	Source string      `json:"source"`
	Target string      `json:"target"`
	Path   layout.Path `json:"path"`
}

// JSON returns the scene as indented JSON.
func (s *Scene) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// buildScene positions every node of g and routes every edge whose
// endpoints were placed.
func buildScene(g *graph.Graph, pos layout.Positions, r shape.NodeRenderer, states map[string]shape.States) *Scene {
	sc := &Scene{
		Nodes: make([]SceneNode, 0, len(g.Nodes)),
		Edges: make([]SceneEdge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		box, ok := pos[n.ID]
		if !ok {
			continue
		}
		st := states[n.ID]
		sc.Nodes = append(sc.Nodes, SceneNode{
			ID:     n.ID,
			Box:    box,
			State:  st.State(),
			Shapes: r.Render(n, st),
		})
	}
	for _, e := range g.Edges {
		src, okS := pos[e.Source]
		dst, okD := pos[e.Target]
		if !okS || !okD {
			continue
		}
		sc.Edges = append(sc.Edges, SceneEdge{
			Source: e.Source,
			Target: e.Target,
			Path:   layout.CubicHorizontal(src, dst),
		})
	}
	return sc
}
