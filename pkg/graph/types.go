package graph

import (
	"math"

	"github.com/matzehuels/treeflow/pkg/tree"
)

// Node is a flattened tree record.
type Node struct {
	ID       string    `json:"id" bson:"id"`
	Depth    int       `json:"depth" bson:"depth"`
	Type     tree.Type `json:"type" bson:"type"`
	Label    string    `json:"label" bson:"label"`
	Price    *float64  `json:"price,omitempty" bson:"price,omitempty"`
	Badge    string    `json:"badge,omitempty" bson:"badge,omitempty"`
	ChildIDs []string  `json:"child_ids,omitempty" bson:"child_ids,omitempty"`
}

// HasPrice reports whether the node carries a finite price.
func (n Node) HasPrice() bool {
	return n.Price != nil && !math.IsNaN(*n.Price) && !math.IsInf(*n.Price, 0)
}

// HasBadge reports whether the node carries a non-empty badge.
func (n Node) HasBadge() bool { return n.Badge != "" }

// Edge is a directed parent → child relation.
type Edge struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// Graph is an ordered node list plus an ordered edge list.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`

	index map[string]int
}

// New builds a Graph from nodes and edges, indexing nodes by ID.
// If an ID repeats, lookups resolve to the first occurrence; callers that
// need uniqueness validate before building (see package convert).
func New(nodes []Node, edges []Edge) *Graph {
	if nodes == nil {
		nodes = []Node{}
	}
	if edges == nil {
		edges = []Edge{}
	}
	g := &Graph{Nodes: nodes, Edges: edges}
	g.reindex()
	return g
}

func (g *Graph) reindex() {
	g.index = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, seen := g.index[n.ID]; !seen {
			g.index[n.ID] = i
		}
	}
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	if g.index == nil {
		g.reindex()
	}
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Children returns the child IDs of id in input order.
func (g *Graph) Children(id string) []string {
	n, ok := g.Node(id)
	if !ok {
		return nil
	}
	return n.ChildIDs
}

// Root returns the first node, which is the traversal root for converted
// graphs.
func (g *Graph) Root() (Node, bool) {
	if len(g.Nodes) == 0 {
		return Node{}, false
	}
	return g.Nodes[0], true
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }
