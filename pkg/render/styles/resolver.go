package styles

import "github.com/matzehuels/treeflow/pkg/tree"

// Weight is a font weight.
type Weight string

const (
	WeightNormal Weight = "normal"
	WeightBold   Weight = "bold"
)

// Resolver maps node semantics to colors and weights.
// It holds a copy of its palette and has no other state.
type Resolver struct {
	palette Palette
}

// NewResolver returns a Resolver over p.
func NewResolver(p Palette) Resolver {
	return Resolver{palette: p}
}

// Palette returns the resolver's palette.
func (r Resolver) Palette() Palette { return r.palette }

// LabelColor returns the label text color for t.
func (r Resolver) LabelColor(t tree.Type) string { return r.palette.Label.For(t) }

// PriceColor returns the price text color for t.
func (r Resolver) PriceColor(t tree.Type) string { return r.palette.Price.For(t) }

// BadgeColor returns the badge fill color for t.
func (r Resolver) BadgeColor(t tree.Type) string { return r.palette.Badge.For(t) }

// StrokeColor returns the card border color for t.
func (r Resolver) StrokeColor(t tree.Type) string { return r.palette.Stroke.For(t) }

// LabelWeight is bold for the root depth and normal below it.
func (r Resolver) LabelWeight(depth int) Weight {
	if depth == 0 {
		return WeightBold
	}
	return WeightNormal
}
