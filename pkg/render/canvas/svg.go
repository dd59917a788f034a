package canvas

import (
	"bytes"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/graph"
	"github.com/matzehuels/treeflow/pkg/layout"
	"github.com/matzehuels/treeflow/pkg/render/shape"
	"github.com/matzehuels/treeflow/pkg/render/styles"
)

// Default frame and fit padding.
const (
	DefaultWidth   = 1200.0
	DefaultHeight  = 800.0
	DefaultPadding = 20.0
)

// Option configures an [SVG] surface.
type Option func(*SVG)

// WithFrame sets the frame size used as the viewBox before fitting.
func WithFrame(w, h float64) Option {
	return func(s *SVG) {
		if w > 0 && h > 0 {
			s.width, s.height = w, h
		}
	}
}

// WithPadding sets the padding added around content by FitView.
func WithPadding(p float64) Option {
	return func(s *SVG) {
		if p >= 0 {
			s.padding = p
		}
	}
}

// WithPalette sets the edge and interaction colors.
func WithPalette(p styles.Palette) Option { return func(s *SVG) { s.palette = p } }

// WithoutInteraction omits the embedded stylesheet and script.
func WithoutInteraction() Option { return func(s *SVG) { s.interactive = false } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *SVG) {
		if l != nil {
			s.logger = l
		}
	}
}

type subscriber struct {
	id int
	fn func()
}

// SVG is a drawing surface that produces a standalone SVG document.
type SVG struct {
	width, height float64
	padding       float64
	palette       styles.Palette
	interactive   bool
	logger        *log.Logger

	graph    *graph.Graph
	renderer shape.NodeRenderer
	engine   layout.Engine
	states   map[string]shape.States

	scene   *Scene
	viewBox layout.Box
	doc     []byte

	subs   []subscriber
	nextID int
}

// New returns an unmounted surface.
func New(opts ...Option) *SVG {
	s := &SVG{
		width:       DefaultWidth,
		height:      DefaultHeight,
		padding:     DefaultPadding,
		palette:     styles.DefaultPalette(),
		interactive: true,
		logger:      log.NewWithOptions(io.Discard, log.Options{}),
		states:      make(map[string]shape.States),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.viewBox = s.frame()
	return s
}

// Mount attaches the graph, node renderer and layout engine. Mounting
// clears interaction state and any previous rendering.
func (s *SVG) Mount(g *graph.Graph, r shape.NodeRenderer, e layout.Engine) error {
	if g == nil || r == nil || e == nil {
		return errors.New(errors.ErrCodeInvalidInput, "mount: graph, renderer and layout engine are required")
	}
	s.graph, s.renderer, s.engine = g, r, e
	s.states = make(map[string]shape.States)
	s.scene, s.doc = nil, nil
	s.viewBox = s.frame()
	return nil
}

// SetState records the interaction state of a node. It takes effect on the
// next Render.
func (s *SVG) SetState(id string, st shape.State) {
	s.SetStates(id, shape.StatesOf(st))
}

// SetStates records raw interaction flags for a node.
func (s *SVG) SetStates(id string, st shape.States) {
	if st == (shape.States{}) {
		delete(s.states, id)
		return
	}
	s.states[id] = st
}

// States returns the interaction flags recorded for id.
func (s *SVG) States(id string) shape.States { return s.states[id] }

// Render lays out and draws the mounted graph, then notifies after-render
// subscribers.
func (s *SVG) Render(ctx context.Context) error {
	if s.graph == nil {
		return errors.New(errors.ErrCodeInvalidState, "render: surface not mounted")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	w, h := s.renderer.Size()
	pos, err := s.engine.Layout(s.graph, layout.Size{W: w, H: h})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "layout")
	}

	s.scene = buildScene(s.graph, pos, s.renderer, s.states)
	s.scene.ViewBox = s.viewBox
	s.scene.Fitted = s.viewBox != s.frame()
	s.doc = s.write()

	s.logger.Debug("rendered canvas", "nodes", len(s.scene.Nodes), "edges", len(s.scene.Edges))
	s.emitAfterRender()
	return nil
}

// OnAfterRender subscribes fn to after-render events. The returned function
// removes the subscription and may be called from inside fn.
func (s *SVG) OnAfterRender(fn func()) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of active after-render subscriptions.
func (s *SVG) Subscribers() int { return len(s.subs) }

func (s *SVG) emitAfterRender() {
	subs := append([]subscriber(nil), s.subs...)
	for _, sub := range subs {
		sub.fn()
	}
}

// FitView sets the viewBox to the content bounds plus padding. Before the
// first render, or for an empty graph, it leaves the frame in place.
func (s *SVG) FitView() {
	if s.scene == nil {
		return
	}
	pos := make(layout.Positions, len(s.scene.Nodes))
	for _, n := range s.scene.Nodes {
		pos[n.ID] = n.Box
	}
	bounds, ok := pos.Bounds()
	if !ok {
		return
	}
	s.viewBox = bounds.Pad(s.padding)
	s.scene.ViewBox = s.viewBox
	s.scene.Fitted = true
	s.doc = s.write()
	s.logger.Debug("fitted view", "x", s.viewBox.X, "y", s.viewBox.Y, "w", s.viewBox.W, "h", s.viewBox.H)
}

// ViewBox returns the current viewBox.
func (s *SVG) ViewBox() layout.Box { return s.viewBox }

// Graph returns the mounted graph, or nil before Mount.
func (s *SVG) Graph() *graph.Graph { return s.graph }

// Scene returns the last rendered scene, or nil before the first render.
func (s *SVG) Scene() *Scene { return s.scene }

// Bytes returns the current SVG document, or nil before the first render.
func (s *SVG) Bytes() []byte { return s.doc }

// WriteTo writes the current SVG document to w.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	if s.doc == nil {
		return 0, errors.New(errors.ErrCodeInvalidState, "write: nothing rendered")
	}
	return bytes.NewReader(s.doc).WriteTo(w)
}

func (s *SVG) frame() layout.Box {
	return layout.Box{W: s.width, H: s.height}
}
