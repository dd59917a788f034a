package tree

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `{
		"id": "r", "type": "root", "depth": 0, "label": "Start",
		"children": [
			{"id": "c1", "type": "leaf", "depth": 1, "label": "A", "price": 5},
			{"id": "c2", "type": "leaf", "depth": 1, "label": "B", "badge": "NEW"}
		]
	}`

	r, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.ID != "r" || r.Type != TypeRoot || r.Label != "Start" {
		t.Errorf("root = %+v", r)
	}
	if len(r.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(r.Children))
	}
	if !r.Children[0].HasPrice() || *r.Children[0].Price != 5 {
		t.Errorf("c1 price = %v, want 5", r.Children[0].Price)
	}
	if r.Children[1].HasPrice() {
		t.Error("c2 should have no price")
	}
	if r.Children[1].Badge != "NEW" {
		t.Errorf("c2 badge = %q, want NEW", r.Children[1].Badge)
	}
}

func TestParseLenientOptionalFields(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantPrice bool
		wantBadge string
		wantLabel string
	}{
		{"number price", `{"id":"a","price":19.9}`, true, "", ""},
		{"string price", `{"id":"a","price":"19.9"}`, false, "", ""},
		{"null price", `{"id":"a","price":null}`, false, "", ""},
		{"bool price", `{"id":"a","price":true}`, false, "", ""},
		{"numeric badge", `{"id":"a","badge":7}`, false, "", ""},
		{"empty badge", `{"id":"a","badge":""}`, false, "", ""},
		{"string badge", `{"id":"a","badge":"HOT"}`, false, "HOT", ""},
		{"null label", `{"id":"a","label":null}`, false, "", ""},
		{"object label", `{"id":"a","label":{"x":1}}`, false, "", ""},
		{"label", `{"id":"a","label":"Go"}`, false, "", "Go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if r.HasPrice() != tt.wantPrice {
				t.Errorf("HasPrice() = %v, want %v", r.HasPrice(), tt.wantPrice)
			}
			if r.Badge != tt.wantBadge {
				t.Errorf("Badge = %q, want %q", r.Badge, tt.wantBadge)
			}
			if r.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", r.Label, tt.wantLabel)
			}
		})
	}
}

func TestParseMistypedRequiredFields(t *testing.T) {
	r, err := Parse([]byte(`{"id":7,"type":3,"depth":"one"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.ID != "" || r.Type != "" || r.Depth != 0 {
		t.Errorf("got id=%q type=%q depth=%d, want zero values", r.ID, r.Type, r.Depth)
	}
	if d, _ := Parse([]byte(`{"id":"a","depth":2}`)); d.Depth != 2 {
		t.Errorf("Depth = %d, want 2", d.Depth)
	}
}

func TestParseMalformedChildren(t *testing.T) {
	r, err := Parse([]byte(`{"id":"p","children":[{"id":"a"},{},null,"x",{"id":"b"},{"id":5,"label":"Five"}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(r.Children) != 6 {
		t.Fatalf("children = %d, want 6", len(r.Children))
	}
	if r.Children[0].ID != "a" || r.Children[4].ID != "b" {
		t.Errorf("valid children not preserved in order")
	}
	if r.Children[1] == nil || r.Children[1].ID != "" {
		t.Errorf("empty object should decode as record with empty id")
	}
	if c := r.Children[5]; c == nil || c.ID != "" || c.Label != "Five" {
		t.Errorf("numeric id should decode as record with empty id, got %+v", c)
	}
	if r.Children[2] != nil || r.Children[3] != nil {
		t.Errorf("null and non-object entries should decode as nil")
	}
}

func TestParseChildrenAbsentVsEmpty(t *testing.T) {
	absent, _ := Parse([]byte(`{"id":"a"}`))
	if absent.Children != nil {
		t.Error("absent children should be nil")
	}
	empty, _ := Parse([]byte(`{"id":"a","children":[]}`))
	if empty.Children == nil || len(empty.Children) != 0 {
		t.Error("empty children should be a non-nil empty slice")
	}
	if !absent.IsLeaf() || !empty.IsLeaf() {
		t.Error("both records should be leaves")
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte(`{invalid`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := Parse([]byte(`{"id":"a","children":[{"id":"b","children":{"x":1}}]}`)); err == nil {
		t.Error("expected error for non-array children")
	}
}

func TestHasPriceNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		r := &Record{ID: "a", Price: Float(v)}
		if r.HasPrice() {
			t.Errorf("HasPrice() = true for %v", v)
		}
	}
	if !(&Record{Price: Float(0)}).HasPrice() {
		t.Error("zero is a finite price")
	}
}

func TestWalkOrder(t *testing.T) {
	r := &Record{ID: "r", Children: []*Record{
		{ID: "a", Children: []*Record{{ID: "a1"}, nil, {ID: "a2"}}},
		{ID: "b"},
	}}

	var got []string
	r.Walk(func(rec *Record) bool {
		got = append(got, rec.ID)
		return true
	})
	if want := "r,a,a1,a2,b"; strings.Join(got, ",") != want {
		t.Errorf("Walk order = %v, want %s", got, want)
	}
	if r.Count() != 5 {
		t.Errorf("Count() = %d, want 5", r.Count())
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := os.WriteFile(path, []byte(`{"id":"root","type":"root"}`), 0644); err != nil {
		t.Fatal(err)
	}
	r, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if r.ID != "root" {
		t.Errorf("ID = %q, want root", r.ID)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTypeKnown(t *testing.T) {
	for _, typ := range []Type{TypeRoot, TypeInternal, TypeLeaf} {
		if !typ.Known() {
			t.Errorf("%q should be known", typ)
		}
	}
	if Type("decision").Known() {
		t.Error("unexpected type reported as known")
	}
}
