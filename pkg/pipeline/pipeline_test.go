package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/treeflow/pkg/cache"
	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/layout"
	"github.com/matzehuels/treeflow/pkg/lifecycle"
	"github.com/matzehuels/treeflow/pkg/render/canvas"
	"github.com/matzehuels/treeflow/pkg/render/styles"
	"github.com/matzehuels/treeflow/pkg/source"
)

const sampleTree = `{
	"id": "r", "type": "root", "depth": 0, "label": "Start",
	"children": [
		{"id": "c1", "type": "leaf", "depth": 1, "label": "A", "price": 5, "badge": "NEW"},
		{"id": "c2", "type": "leaf", "depth": 1, "label": "B"},
		null
	]
}`

const fittedViewBox = `viewBox="-20.00 -20.00 440.00 150.00"`

func bytesSource(data string) source.Source {
	return &source.Bytes{Data: []byte(data), Name: "test"}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"dot", false},
		{"nodelink", false},
		{"png", false},
		{"pdf", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Palette != styles.DefaultPalette() {
		t.Error("empty palette should resolve to the default palette")
	}
	if opts.LayoutEngine() != layout.NewIndented() {
		t.Errorf("LayoutEngine() = %+v", opts.LayoutEngine())
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight || opts.Scale != DefaultScale {
		t.Errorf("frame = %gx%g scale %g", opts.Width, opts.Height, opts.Scale)
	}
	if !opts.IsInteractive() {
		t.Error("interaction should default to on")
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidInput},
		{"state", Options{States: map[string]string{"c1": "pressed"}}, errors.ErrCodeInvalidInput},
		{"direction", Options{Direction: "TB"}, errors.ErrCodeInvalidInput},
		{"negative indent", Options{Indent: -5}, errors.ErrCodeInvalidInput},
		{"palette", Options{Palette: styles.Palette{Fill: "white"}}, errors.ErrCodeInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	a := Options{}
	b := Options{Palette: styles.Palette{Label: styles.TypeColors{Root: "#000000"}}}
	_ = a.ValidateAndSetDefaults()
	_ = b.ValidateAndSetDefaults()

	keyer := cache.NewDefaultKeyer()
	if keyer.ArtifactKey("h", a.ArtifactKeyOpts(FormatSVG)) == keyer.ArtifactKey("h", b.ArtifactKeyOpts(FormatSVG)) {
		t.Error("palette change should change the artifact key")
	}
	if keyer.ArtifactKey("h", a.ArtifactKeyOpts(FormatSVG)) == keyer.ArtifactKey("h", a.ArtifactKeyOpts(FormatJSON)) {
		t.Error("format should be part of the artifact key")
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), bytesSource(sampleTree), Options{
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.State != lifecycle.Fitted {
		t.Errorf("State = %v, want fitted", result.State)
	}
	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 2 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Index != 2 {
		t.Errorf("Warnings = %v, want one for children[2]", result.Warnings)
	}
	if result.TreeHash != cache.Hash([]byte(sampleTree)) {
		t.Error("TreeHash should hash the raw tree JSON")
	}

	svg := string(result.Artifacts[FormatSVG])
	for _, want := range []string{fittedViewBox, `id="node-r"`, `id="node-c1"`, `id="node-c2"`, `class="edge"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}

	var scene canvas.Scene
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &scene); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if !scene.Fitted || len(scene.Nodes) != 3 || len(scene.Edges) != 2 {
		t.Errorf("scene fitted=%t nodes=%d edges=%d", scene.Fitted, len(scene.Nodes), len(scene.Edges))
	}

	dot := string(result.Artifacts[FormatDOT])
	if !strings.Contains(dot, `"r" -> "c1";`) || !strings.Contains(dot, "rankdir=LR;") {
		t.Errorf("dot artifact:\n%s", dot)
	}
}

func TestExecute_States(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), bytesSource(sampleTree), Options{
		States: map[string]string{"c1": "selected", "c2": "hover"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	svg := string(result.Artifacts[FormatSVG])
	if !strings.Contains(svg, `class="node selected" id="node-c1"`) {
		t.Error("c1 should render selected")
	}
	if !strings.Contains(svg, `class="node hover" id="node-c2"`) {
		t.Error("c2 should render hovered")
	}
	if !strings.Contains(svg, fittedViewBox) {
		t.Error("redraw after applying states should keep the fitted viewBox")
	}
}

func TestExecute_Cache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	opts := Options{Formats: []string{FormatSVG, FormatJSON}}

	first, err := runner.Execute(context.Background(), bytesSource(sampleTree), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.ExportHit {
		t.Error("first run should miss the cache")
	}

	second, err := runner.Execute(context.Background(), bytesSource(sampleTree), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.ExportHit {
		t.Error("second run should hit the cache")
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	opts.Refresh = true
	third, err := runner.Execute(context.Background(), bytesSource(sampleTree), opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.ExportHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecute_Failures(t *testing.T) {
	tests := []struct {
		name string
		src  source.Source
		code errors.Code
	}{
		{"missing file", &source.File{Path: filepath.Join(t.TempDir(), "missing.json")}, errors.ErrCodeFetchFailed},
		{"bad json", bytesSource(`{"id": `), errors.ErrCodeInvalidFormat},
		{"duplicate id", bytesSource(`{"id":"r","type":"root","children":[{"id":"r","type":"leaf","depth":1}]}`), errors.ErrCodeDuplicateNode},
		{"no root id", bytesSource(`{"type":"root"}`), errors.ErrCodeInvalidInput},
	}

	runner := NewRunner(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := runner.Execute(context.Background(), tt.src, Options{})
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
			if result == nil || result.State != lifecycle.Failed {
				t.Errorf("result = %+v, want Failed state", result)
			}
		})
	}
}

func TestConvertWithCacheInfo(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	ctx := context.Background()

	res, hit, err := runner.ConvertWithCacheInfo(ctx, []byte(sampleTree), Options{})
	if err != nil {
		t.Fatalf("ConvertWithCacheInfo: %v", err)
	}
	if hit {
		t.Error("first conversion should miss")
	}

	cached, hit, err := runner.ConvertWithCacheInfo(ctx, []byte(sampleTree), Options{})
	if err != nil {
		t.Fatalf("ConvertWithCacheInfo (cached): %v", err)
	}
	if !hit {
		t.Error("second conversion should hit")
	}
	if cached.Graph.NodeCount() != res.Graph.NodeCount() || len(cached.Warnings) != len(res.Warnings) {
		t.Errorf("cached result differs: %d nodes %d warnings", cached.Graph.NodeCount(), len(cached.Warnings))
	}
	if _, ok := cached.Graph.Node("c1"); !ok {
		t.Error("cached graph should be indexed")
	}
}

func TestRenderTree(t *testing.T) {
	var mount bytes.Buffer
	result, err := RenderTree(context.Background(), []byte(sampleTree), &mount, Options{Formats: []string{FormatPDF}})
	if err != nil {
		t.Fatalf("RenderTree: %v", err)
	}
	if result.State != lifecycle.Fitted {
		t.Errorf("State = %v", result.State)
	}
	if !strings.HasPrefix(mount.String(), "<svg") || !strings.Contains(mount.String(), fittedViewBox) {
		t.Error("mount should receive the fitted svg document")
	}
}

func TestRenderTree_NilMount(t *testing.T) {
	if _, err := RenderTree(context.Background(), []byte(sampleTree), nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestOptionsClone(t *testing.T) {
	base := Options{States: map[string]string{"c1": "hover"}}
	if err := base.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	c := base.Clone()
	c.Direction = "TB"
	c.States["c2"] = "selected"
	if err := c.ValidateAndSetDefaults(); err == nil {
		t.Error("clone should be validated again")
	}
	if len(base.States) != 1 {
		t.Error("clone should not share the States map")
	}
}
