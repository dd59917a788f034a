package styles

import (
	"github.com/matzehuels/treeflow/pkg/errors"
	"github.com/matzehuels/treeflow/pkg/tree"
)

// Base colors shared across categories.
const (
	ColorBlue   = "#1783FF"
	ColorRed    = "#F46649"
	ColorYellow = "#DB9D0D"
	ColorGreen  = "#60C42D"
	ColorDim    = "#A7A7A7"
	ColorGrey   = "#CED4D9"
	ColorWhite  = "#ffffff"
	ColorShadow = "rgba(0,0,0,0.1)"
)

// DefaultCurrency is the prefix used when formatting prices.
const DefaultCurrency = "R$"

// TypeColors maps the three record types, plus a fallback, to colors.
type TypeColors struct {
	Root     string `toml:"root" json:"root"`
	Internal string `toml:"internal" json:"internal"`
	Leaf     string `toml:"leaf" json:"leaf"`
	Fallback string `toml:"fallback" json:"fallback"`
}

// For returns the color for t, or Fallback for unknown types.
func (c TypeColors) For(t tree.Type) string {
	switch t {
	case tree.TypeRoot:
		return c.Root
	case tree.TypeInternal:
		return c.Internal
	case tree.TypeLeaf:
		return c.Leaf
	default:
		return c.Fallback
	}
}

func (c TypeColors) merge(o TypeColors) TypeColors {
	c.Root = pick(o.Root, c.Root)
	c.Internal = pick(o.Internal, c.Internal)
	c.Leaf = pick(o.Leaf, c.Leaf)
	c.Fallback = pick(o.Fallback, c.Fallback)
	return c
}

func (c TypeColors) colors() []string {
	return []string{c.Root, c.Internal, c.Leaf, c.Fallback}
}

// Palette is the complete color configuration for node rendering.
type Palette struct {
	Label  TypeColors `toml:"label" json:"label"`
	Price  TypeColors `toml:"price" json:"price"`
	Badge  TypeColors `toml:"badge" json:"badge"`
	Stroke TypeColors `toml:"stroke" json:"stroke"`

	Fill     string `toml:"fill" json:"fill"`
	Edge     string `toml:"edge" json:"edge"`
	Selected string `toml:"selected" json:"selected"`
	Hover    string `toml:"hover" json:"hover"`
	Shadow   string `toml:"shadow" json:"shadow"`
	Currency string `toml:"currency" json:"currency"`
}

// DefaultPalette returns the stock decision-tree colors.
func DefaultPalette() Palette {
	return Palette{
		Label:    TypeColors{Root: ColorBlue, Internal: ColorDim, Leaf: ColorGreen, Fallback: ColorDim},
		Price:    TypeColors{Root: ColorRed, Internal: ColorBlue, Leaf: ColorYellow, Fallback: ColorBlue},
		Badge:    TypeColors{Root: ColorYellow, Internal: ColorDim, Leaf: ColorBlue, Fallback: ColorDim},
		Stroke:   TypeColors{Root: ColorBlue, Internal: ColorGrey, Leaf: ColorGrey, Fallback: ColorGrey},
		Fill:     ColorWhite,
		Edge:     ColorGrey,
		Selected: ColorRed,
		Hover:    ColorGreen,
		Shadow:   ColorShadow,
		Currency: DefaultCurrency,
	}
}

// Merge returns p with every non-empty field of o applied on top.
func (p Palette) Merge(o Palette) Palette {
	p.Label = p.Label.merge(o.Label)
	p.Price = p.Price.merge(o.Price)
	p.Badge = p.Badge.merge(o.Badge)
	p.Stroke = p.Stroke.merge(o.Stroke)
	p.Fill = pick(o.Fill, p.Fill)
	p.Edge = pick(o.Edge, p.Edge)
	p.Selected = pick(o.Selected, p.Selected)
	p.Hover = pick(o.Hover, p.Hover)
	p.Shadow = pick(o.Shadow, p.Shadow)
	p.Currency = pick(o.Currency, p.Currency)
	return p
}

// Validate checks every color and that label, price and badge stay
// distinguishable for each known type.
func (p Palette) Validate() error {
	groups := map[string]TypeColors{
		"label": p.Label, "price": p.Price, "badge": p.Badge, "stroke": p.Stroke,
	}
	for name, g := range groups {
		for _, c := range g.colors() {
			if err := errors.ValidateColor(c); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidColor, err, "palette.%s", name)
			}
		}
	}
	for name, c := range map[string]string{
		"fill": p.Fill, "edge": p.Edge, "selected": p.Selected, "hover": p.Hover, "shadow": p.Shadow,
	} {
		if err := errors.ValidateColor(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidColor, err, "palette.%s", name)
		}
	}

	for _, t := range []tree.Type{tree.TypeRoot, tree.TypeInternal, tree.TypeLeaf} {
		if p.Label.For(t) == p.Price.For(t) {
			return errors.New(errors.ErrCodeInvalidColor, "palette: %s label and price share color %s", t, p.Label.For(t))
		}
		if p.Price.For(t) == p.Badge.For(t) {
			return errors.New(errors.ErrCodeInvalidColor, "palette: %s price and badge share color %s", t, p.Price.For(t))
		}
	}
	return nil
}

func pick(override, base string) string {
	if override != "" {
		return override
	}
	return base
}
