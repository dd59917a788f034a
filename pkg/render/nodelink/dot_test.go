package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/treeflow/pkg/graph"
	"github.com/matzehuels/treeflow/pkg/render/styles"
	"github.com/matzehuels/treeflow/pkg/tree"
)

func sampleGraph() *graph.Graph {
	return graph.New(
		[]graph.Node{
			{ID: "r", Type: tree.TypeRoot, Depth: 0, Label: "Start", ChildIDs: []string{"c1", "c2"}},
			{ID: "c1", Type: tree.TypeLeaf, Depth: 1, Label: "A", Price: tree.Float(5), Badge: "NEW"},
			{ID: "c2", Type: tree.TypeLeaf, Depth: 1},
		},
		[]graph.Edge{{Source: "r", Target: "c1"}, {Source: "r", Target: "c2"}},
	)
}

var resolver = styles.NewResolver(styles.DefaultPalette())

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sampleGraph(), resolver, Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=LR;",
		`"r" [label="Start"`,
		`"c2" [label="c2"`,
		`"r" -> "c1";`,
		`"r" -> "c2";`,
		`edge [color="#CED4D9"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
	if strings.Contains(dot, "R$") {
		t.Error("non-detailed output should omit prices")
	}
}

func TestToDOT_Colors(t *testing.T) {
	dot := ToDOT(sampleGraph(), resolver, Options{})

	if !strings.Contains(dot, `"r" [label="Start", color="#1783FF", fontcolor="#1783FF", fontname="Helvetica-Bold"]`) {
		t.Errorf("root attrs wrong:\n%s", dot)
	}
	if !strings.Contains(dot, `"c1" [label="A", color="#CED4D9", fontcolor="#60C42D"]`) {
		t.Errorf("leaf attrs wrong:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sampleGraph(), resolver, Options{Detailed: true, RankDir: "TB"})

	if !strings.Contains(dot, `label="[NEW]\nA\nR$ 5.00"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
	if !strings.Contains(dot, "rankdir=TB;") {
		t.Error("RankDir override ignored")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}

	if got := normalizeViewBox([]byte("<svg></svg>")); string(got) != "<svg></svg>" {
		t.Error("svg without viewBox should pass through")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleGraph(), resolver, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "Start") {
		t.Error("RenderSVG output missing svg root or node label")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected parse error")
	}
}
