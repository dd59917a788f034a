package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/graph"
	"github.com/matzehuels/treeflow/pkg/layout"
	"github.com/matzehuels/treeflow/pkg/render/shape"
	"github.com/matzehuels/treeflow/pkg/render/styles"
	"github.com/matzehuels/treeflow/pkg/tree"
)

func sampleGraph() *graph.Graph {
	return graph.New(
		[]graph.Node{
			{ID: "r", Type: tree.TypeRoot, Depth: 0, Label: "Start", ChildIDs: []string{"c1", "c2"}},
			{ID: "c1", Type: tree.TypeLeaf, Depth: 1, Label: "A", Price: tree.Float(5)},
			{ID: "c2", Type: tree.TypeLeaf, Depth: 1, Label: "B & <C>", Badge: "NEW"},
		},
		[]graph.Edge{{Source: "r", Target: "c1"}, {Source: "r", Target: "c2"}},
	)
}

func mounted(t *testing.T, opts ...Option) *SVG {
	t.Helper()
	s := New(opts...)
	r := shape.NewComposite(styles.NewResolver(styles.DefaultPalette()))
	if err := s.Mount(sampleGraph(), r, layout.NewIndented()); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return s
}

func TestRenderDrawsNodesAndEdges(t *testing.T) {
	s := mounted(t)
	if err := s.Render(context.Background()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	svg := string(s.Bytes())
	for _, want := range []string{
		`viewBox="0.00 0.00 1200.00 800.00"`,
		`id="node-r"`,
		`id="node-c1"`,
		`transform="translate(300.00 60.00)"`,
		`R$ 5.00`,
		`B &amp; &lt;C&gt;`,
		`>NEW</text>`,
		`class="edge" data-source="r" data-target="c1"`,
		`stroke="#CED4D9" stroke-width="1"`,
		`<style>`,
		`<script`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}

	// Edges are drawn beneath nodes.
	if strings.Index(svg, `class="edges"`) > strings.Index(svg, `class="nodes"`) {
		t.Error("edges should be drawn before nodes")
	}
}

func TestRenderRequiresMount(t *testing.T) {
	err := New().Render(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("err = %v, want INVALID_STATE", err)
	}
}

func TestRenderHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := mounted(t).Render(ctx); err == nil {
		t.Error("expected context error")
	}
}

func TestMountValidates(t *testing.T) {
	if err := New().Mount(nil, nil, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestAfterRenderSubscription(t *testing.T) {
	s := mounted(t)

	var calls int
	var unsubscribe func()
	unsubscribe = s.OnAfterRender(func() {
		calls++
		unsubscribe()
	})
	var other int
	s.OnAfterRender(func() { other++ })

	for i := 0; i < 3; i++ {
		if err := s.Render(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	if calls != 1 {
		t.Errorf("self-unsubscribing handler called %d times, want 1", calls)
	}
	if other != 3 {
		t.Errorf("persistent handler called %d times, want 3", other)
	}
	if s.Subscribers() != 1 {
		t.Errorf("Subscribers = %d, want 1", s.Subscribers())
	}
}

func TestFitView(t *testing.T) {
	s := mounted(t, WithPadding(20))

	s.FitView()
	if s.ViewBox() != (layout.Box{W: DefaultWidth, H: DefaultHeight}) {
		t.Errorf("FitView before render should keep frame, got %+v", s.ViewBox())
	}

	if err := s.Render(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.FitView()

	want := layout.Box{X: -20, Y: -20, W: 440, H: 150}
	if s.ViewBox() != want {
		t.Errorf("ViewBox = %+v, want %+v", s.ViewBox(), want)
	}
	if !strings.Contains(string(s.Bytes()), `viewBox="-20.00 -20.00 440.00 150.00"`) {
		t.Error("document not rewritten with fitted viewBox")
	}
	if !s.Scene().Fitted {
		t.Error("scene should be marked fitted")
	}
}

func TestSetState(t *testing.T) {
	s := mounted(t)
	s.SetState("c1", shape.StateSelected)
	s.SetState("c2", shape.StateHover)
	if err := s.Render(context.Background()); err != nil {
		t.Fatal(err)
	}

	svg := string(s.Bytes())
	if !strings.Contains(svg, `class="node selected" id="node-c1"`) {
		t.Error("c1 should be rendered selected")
	}
	if !strings.Contains(svg, `stroke="#F46649" stroke-width="3.0"`) {
		t.Error("selected stroke missing")
	}
	if !strings.Contains(svg, `class="node hover" id="node-c2"`) {
		t.Error("c2 should be rendered hovered")
	}

	s.SetState("c1", shape.StateDefault)
	if s.States("c1") != (shape.States{}) {
		t.Error("default state should clear flags")
	}

	// Mounting resets interaction state.
	_ = s.Mount(sampleGraph(), shape.NewComposite(styles.NewResolver(styles.DefaultPalette())), layout.NewIndented())
	if s.States("c2") != (shape.States{}) {
		t.Error("Mount should reset states")
	}
}

func TestWithoutInteraction(t *testing.T) {
	s := mounted(t, WithoutInteraction())
	_ = s.Render(context.Background())
	if strings.Contains(string(s.Bytes()), "<script") {
		t.Error("script should be omitted")
	}
}

func TestSceneJSON(t *testing.T) {
	s := mounted(t)
	if s.Scene() != nil {
		t.Error("Scene before render should be nil")
	}
	_ = s.Render(context.Background())

	data, err := s.Scene().JSON()
	if err != nil {
		t.Fatal(err)
	}
	var got Scene
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Nodes) != 3 || len(got.Edges) != 2 {
		t.Fatalf("scene = %d nodes, %d edges", len(got.Nodes), len(got.Edges))
	}
	if _, ok := shape.Find(got.Nodes[1].Shapes, shape.LayerPrice); !ok {
		t.Error("c1 should carry a price layer")
	}
	if got.Nodes[0].Box != (layout.Box{W: 100, H: 50}) {
		t.Errorf("root box = %+v", got.Nodes[0].Box)
	}
}

func TestWriteTo(t *testing.T) {
	s := mounted(t)
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("WriteTo before render: %v", err)
	}
	_ = s.Render(context.Background())
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), s.Bytes()) {
		t.Error("WriteTo should write the document")
	}
}
