package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// Type classifies a record's role in the decision tree.
type Type string

// Known record types. Any other value is preserved verbatim and styled with
// the fallback palette entries.
const (
	TypeRoot     Type = "root"
	TypeInternal Type = "internal"
	TypeLeaf     Type = "leaf"
)

// Known reports whether t is one of the three recognized types.
func (t Type) Known() bool {
	return t == TypeRoot || t == TypeInternal || t == TypeLeaf
}

// Record is one node of the nested input tree.
type Record struct {
	ID       string    `json:"id"`
	Type     Type      `json:"type"`
	Depth    int       `json:"depth"`
	Label    string    `json:"label,omitempty"`
	Price    *float64  `json:"price,omitempty"`
	Badge    string    `json:"badge,omitempty"`
	Children []*Record `json:"children,omitempty"`
}

// HasPrice reports whether the record carries a finite price.
func (r *Record) HasPrice() bool {
	return r.Price != nil && !math.IsNaN(*r.Price) && !math.IsInf(*r.Price, 0)
}

// IsLeaf reports whether the record has no child entries at all.
func (r *Record) IsLeaf() bool { return len(r.Children) == 0 }

// Walk visits r and its descendants in pre-order, left to right.
// Nil child entries are skipped. Returning false from fn stops the walk.
func (r *Record) Walk(fn func(rec *Record) bool) bool {
	if r == nil {
		return true
	}
	if !fn(r) {
		return false
	}
	for _, c := range r.Children {
		if c == nil {
			continue
		}
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Count returns the number of non-nil records in the tree rooted at r.
func (r *Record) Count() int {
	n := 0
	r.Walk(func(*Record) bool { n++; return true })
	return n
}

// rawRecord mirrors Record with loosely typed optional fields.
type rawRecord struct {
	ID       json.RawMessage   `json:"id"`
	Type     json.RawMessage   `json:"type"`
	Depth    json.RawMessage   `json:"depth"`
	Label    json.RawMessage   `json:"label"`
	Price    json.RawMessage   `json:"price"`
	Badge    json.RawMessage   `json:"badge"`
	Children []json.RawMessage `json:"children"`
}

// UnmarshalJSON decodes a record, treating mistyped fields as absent. A
// record whose id is not a string gets an empty ID, which the converter
// reports as a malformed child.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Record{
		ID:    decodeString(raw.ID),
		Type:  Type(decodeString(raw.Type)),
		Depth: decodeInt(raw.Depth),
		Label: decodeString(raw.Label),
		Badge: decodeString(raw.Badge),
		Price: decodeNumber(raw.Price),
	}

	if raw.Children == nil {
		return nil
	}
	r.Children = make([]*Record, 0, len(raw.Children))
	for i, msg := range raw.Children {
		child, err := decodeChild(msg)
		if err != nil {
			return fmt.Errorf("children[%d] of %q: %w", i, r.ID, err)
		}
		r.Children = append(r.Children, child)
	}
	return nil
}

// decodeChild returns nil for null or non-object entries so the converter
// sees them as malformed references.
func decodeChild(msg json.RawMessage) (*Record, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, nil
	}
	var child Record
	if err := json.Unmarshal(trimmed, &child); err != nil {
		return nil, err
	}
	return &child, nil
}

func decodeString(msg json.RawMessage) string {
	var s string
	if len(msg) == 0 || json.Unmarshal(msg, &s) != nil {
		return ""
	}
	return s
}

func decodeInt(msg json.RawMessage) int {
	f := decodeNumber(msg)
	if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
		return 0
	}
	return int(*f)
}

func decodeNumber(msg json.RawMessage) *float64 {
	var f float64
	if len(msg) == 0 || string(bytes.TrimSpace(msg)) == "null" || json.Unmarshal(msg, &f) != nil {
		return nil
	}
	return &f
}

// Read decodes a JSON tree from r.
func Read(r io.Reader) (*Record, error) {
	var rec Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &rec, nil
}

// Parse decodes a JSON tree from bytes.
func Parse(data []byte) (*Record, error) {
	return Read(bytes.NewReader(data))
}

// ReadFile decodes a JSON tree from the file at path.
func ReadFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Float returns a pointer to v. It is a convenience for building records
// in code.
func Float(v float64) *float64 { return &v }
