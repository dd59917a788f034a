package convert

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/graph"
	"github.com/matzehuels/treeflow/pkg/observability"
	"github.com/matzehuels/treeflow/pkg/tree"
)

// ErrDuplicateNodeID is matched by the error returned when a tree reuses
// a record id.
var ErrDuplicateNodeID = stderrors.New("duplicate node id")

// Reasons a child entry is skipped.
const (
	ReasonNullChild = "null child entry"
	ReasonMissingID = "child has no id"
)

// Warning describes a skipped child entry.
type Warning struct {
	ParentID string `json:"parent_id"`
	Index    int    `json:"index"`
	Reason   string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: children[%d]: %s", w.ParentID, w.Index, w.Reason)
}

// Result is the output of a conversion pass.
type Result struct {
	Graph    *graph.Graph
	Warnings []Warning
}

// Option configures [Convert].
type Option func(*config)

type config struct {
	ctx    context.Context
	logger *log.Logger
}

// WithLogger sets the logger used for malformed-child warnings.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithContext sets the context passed to observability hooks.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

type converter struct {
	cfg      config
	nodes    []graph.Node
	edges    []graph.Edge
	seen     map[string]struct{}
	warnings []Warning
}

// Convert flattens the tree rooted at root into a graph.
func Convert(root *tree.Record, opts ...Option) (*Result, error) {
	cfg := config{
		ctx:    context.Background(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree has no root record")
	}
	if root.ID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "root record has no id")
	}

	c := &converter{cfg: cfg, seen: make(map[string]struct{})}
	if err := c.visit(root); err != nil {
		return nil, err
	}
	return &Result{Graph: graph.New(c.nodes, c.edges), Warnings: c.warnings}, nil
}

func (c *converter) visit(rec *tree.Record) error {
	if _, dup := c.seen[rec.ID]; dup {
		return errors.Wrap(errors.ErrCodeDuplicateNode, ErrDuplicateNodeID, "node id %q appears more than once", rec.ID)
	}
	c.seen[rec.ID] = struct{}{}

	idx := len(c.nodes)
	c.nodes = append(c.nodes, graph.Node{
		ID:    rec.ID,
		Depth: rec.Depth,
		Type:  rec.Type,
		Label: rec.Label,
		Price: copyPrice(rec),
		Badge: rec.Badge,
	})

	var childIDs []string
	for i, child := range rec.Children {
		if reason := malformed(child); reason != "" {
			c.warn(Warning{ParentID: rec.ID, Index: i, Reason: reason})
			continue
		}
		childIDs = append(childIDs, child.ID)
		c.edges = append(c.edges, graph.Edge{Source: rec.ID, Target: child.ID})
		if err := c.visit(child); err != nil {
			return err
		}
	}
	c.nodes[idx].ChildIDs = childIDs
	return nil
}

func (c *converter) warn(w Warning) {
	c.warnings = append(c.warnings, w)
	c.cfg.logger.Warn("skipping malformed child", "parent", w.ParentID, "index", w.Index, "reason", w.Reason)
	observability.Pipeline().OnMalformedChild(c.cfg.ctx, w.ParentID, w.Index)
}

func malformed(child *tree.Record) string {
	switch {
	case child == nil:
		return ReasonNullChild
	case child.ID == "":
		return ReasonMissingID
	default:
		return ""
	}
}

// copyPrice drops non-finite prices; graphs must stay JSON-encodable.
func copyPrice(rec *tree.Record) *float64 {
	if !rec.HasPrice() {
		return nil
	}
	v := *rec.Price
	return &v
}
