package lifecycle

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/treeflow/pkg/convert"
	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/graph"
	"github.com/matzehuels/treeflow/pkg/layout"
	"github.com/matzehuels/treeflow/pkg/observability"
	"github.com/matzehuels/treeflow/pkg/render/shape"
	"github.com/matzehuels/treeflow/pkg/render/styles"
	"github.com/matzehuels/treeflow/pkg/source"
	"github.com/matzehuels/treeflow/pkg/tree"
)

// Surface is the drawing surface the controller renders onto.
type Surface interface {
	Mount(g *graph.Graph, r shape.NodeRenderer, e layout.Engine) error
	Render(ctx context.Context) error
	OnAfterRender(fn func()) (unsubscribe func())
	FitView()
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegistry sets the renderer registry and the node type to draw with.
// A nil registry or empty node type keeps the default.
func WithRegistry(reg *shape.Registry, nodeType string) Option {
	return func(c *Controller) {
		if reg != nil {
			c.registry = reg
		}
		if nodeType != "" {
			c.nodeType = nodeType
		}
	}
}

// WithLayout sets the layout engine.
func WithLayout(e layout.Engine) Option {
	return func(c *Controller) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithID sets the controller id, for callers that already have a request id.
func WithID(id uuid.UUID) Option { return func(c *Controller) { c.id = id } }

// Controller runs one fetch → convert → render → fit cycle.
// It is not safe for concurrent use.
type Controller struct {
	id       uuid.UUID
	src      source.Source
	surface  Surface
	registry *shape.Registry
	nodeType string
	engine   layout.Engine
	logger   *log.Logger

	state   State
	history []Transition
	hookCtx context.Context

	raw    []byte
	result *convert.Result
	err    error

	unsubscribe func()
	fits        int
}

// New returns an Idle controller.
func New(src source.Source, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		id:       uuid.New(),
		src:      src,
		surface:  surface,
		registry: shape.DefaultRegistry(styles.NewResolver(styles.DefaultPalette())),
		nodeType: shape.NodeType,
		engine:   layout.NewIndented(),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		state:    Idle,
		hookCtx:  context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("lifecycle", c.id.String())
	return c
}

// Activate runs the cycle. It may be called once; later calls fail with
// INVALID_STATE. When the surface reports render completion synchronously
// the controller is Fitted on return, otherwise it stays Rendered until the
// surface's after-render event fires. If Render reports an error after the
// view was already fitted, Activate returns it and the controller stays
// Fitted.
func (c *Controller) Activate(ctx context.Context) error {
	if c.state != Idle {
		return errors.New(errors.ErrCodeInvalidState, "lifecycle %s already activated (state %s)", c.id, c.state)
	}
	if c.src == nil || c.surface == nil {
		return errors.New(errors.ErrCodeInvalidInput, "lifecycle needs a source and a surface")
	}
	c.hookCtx = context.WithoutCancel(ctx)

	renderer, err := c.registry.Lookup(c.nodeType)
	if err != nil {
		return c.fail(err)
	}

	c.move(Loading)
	c.logger.Debug("fetching tree", "source", c.src.String())
	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, c.src.String())
	start := time.Now()
	raw, err := c.src.Fetch(ctx)
	hooks.OnFetchComplete(ctx, c.src.String(), time.Since(start), err)
	if err != nil {
		return c.fail(errors.Wrap(errors.ErrCodeFetchFailed, err, "fetch %s", c.src))
	}
	c.raw = raw

	start = time.Now()
	res, err := c.convert(ctx, raw)
	if res != nil {
		hooks.OnConvertComplete(ctx, res.Graph.NodeCount(), res.Graph.EdgeCount(), len(res.Warnings), time.Since(start), nil)
	} else {
		hooks.OnConvertComplete(ctx, 0, 0, 0, time.Since(start), err)
	}
	if err != nil {
		return c.fail(err)
	}
	c.result = res
	c.move(Converted)
	c.logger.Debug("converted tree", "nodes", res.Graph.NodeCount(), "edges", res.Graph.EdgeCount(), "warnings", len(res.Warnings))

	if err := c.surface.Mount(res.Graph, renderer, c.engine); err != nil {
		return c.fail(err)
	}
	c.unsubscribe = c.surface.OnAfterRender(c.afterRender)
	c.move(Rendered)
	if err := c.surface.Render(ctx); err != nil {
		c.drop()
		return c.fail(err)
	}
	return nil
}

func (c *Controller) convert(ctx context.Context, raw []byte) (*convert.Result, error) {
	rec, err := tree.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse tree from %s", c.src)
	}
	return convert.Convert(rec, convert.WithLogger(c.logger), convert.WithContext(ctx))
}

// afterRender fits the view on the first render-complete event only.
func (c *Controller) afterRender() {
	if c.state != Rendered {
		return
	}
	c.drop()
	c.surface.FitView()
	c.fits++
	c.move(Fitted)
}

func (c *Controller) drop() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Controller) move(to State) {
	from := c.state
	if !canMove(from, to) {
		c.logger.Error("illegal transition", "from", from, "to", to)
		return
	}
	c.state = to
	c.history = append(c.history, Transition{From: from, To: to, At: time.Now()})
	c.logger.Debug("transition", "from", from, "to", to)
	observability.Lifecycle().OnTransition(c.hookCtx, c.id.String(), from.String(), to.String())
}

func (c *Controller) fail(err error) error {
	c.err = err
	if c.state.Terminal() {
		c.logger.Error("error after completion", "state", c.state, "code", errors.GetCode(err), "err", err)
		return err
	}
	c.logger.Error("lifecycle failed", "state", c.state, "code", errors.GetCode(err), "err", err)
	c.move(Failed)
	return err
}

// ID returns the controller id.
func (c *Controller) ID() uuid.UUID { return c.id }

// State returns the current state.
func (c *Controller) State() State { return c.state }

// History returns the transitions so far, oldest first.
func (c *Controller) History() []Transition { return append([]Transition(nil), c.history...) }

// Err returns the error that moved the controller to Failed, or a render
// error reported after the fit.
func (c *Controller) Err() error { return c.err }

// Raw returns the fetched JSON.
func (c *Controller) Raw() []byte { return c.raw }

// Graph returns the converted graph, or nil before conversion.
func (c *Controller) Graph() *graph.Graph {
	if c.result == nil {
		return nil
	}
	return c.result.Graph
}

// Warnings returns the malformed-child warnings from conversion.
func (c *Controller) Warnings() []convert.Warning {
	if c.result == nil {
		return nil
	}
	return c.result.Warnings
}

// Fits returns how many times the controller fitted the view.
func (c *Controller) Fits() int { return c.fits }
