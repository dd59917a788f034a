package shape

import (
	"github.com/matzehuels/treeflow/pkg/graph"
	"github.com/matzehuels/treeflow/pkg/render/styles"
)

// Fixed node geometry in logical units.
const (
	NodeWidth  = 100.0
	NodeHeight = 50.0
	NodeRadius = 4.0

	strokeWidth         = 2.0
	selectedStrokeWidth = 3.0
	shadowBlur          = 5.0
	hoverShadowBlur     = 10.0

	labelFontSize = 14.0
	priceFontSize = 12.0
	badgeFontSize = 10.0

	priceX = NodeWidth - 4
	priceY = 14.0
	badgeX = 6.0
	badgeY = 12.0
)

// NodeRenderer produces the shape stack of a node.
type NodeRenderer interface {
	Render(n graph.Node, st States) []Shape
	Size() (w, h float64)
}

// Composite is the decision-tree node renderer.
type Composite struct {
	resolver styles.Resolver
}

// NewComposite returns a Composite drawing with r.
func NewComposite(r styles.Resolver) *Composite {
	return &Composite{resolver: r}
}

// Size returns the fixed node size.
func (c *Composite) Size() (w, h float64) { return NodeWidth, NodeHeight }

// Render returns the node's shapes bottom to top.
func (c *Composite) Render(n graph.Node, st States) []Shape {
	shapes := make([]Shape, 0, 4)
	shapes = append(shapes, c.rect(n, st), c.label(n))
	if n.HasPrice() {
		shapes = append(shapes, c.price(n))
	}
	if n.HasBadge() {
		shapes = append(shapes, c.badge(n))
	}
	return shapes
}

func (c *Composite) rect(n graph.Node, st States) Shape {
	p := c.resolver.Palette()
	stroke := Stroke{Color: c.resolver.StrokeColor(n.Type), Width: strokeWidth}
	shadow := Shadow{Color: p.Shadow, Blur: shadowBlur}

	switch st.State() {
	case StateSelected:
		stroke = Stroke{Color: p.Selected, Width: selectedStrokeWidth}
	case StateHover:
		stroke.Color = p.Hover
		shadow.Blur = hoverShadowBlur
	}

	return Shape{
		Layer:    LayerRect,
		Kind:     KindRect,
		Geometry: Geometry{W: NodeWidth, H: NodeHeight, Radius: NodeRadius},
		Fill:     p.Fill,
		Stroke:   &stroke,
		Shadow:   &shadow,
	}
}

func (c *Composite) label(n graph.Node) Shape {
	return Shape{
		Layer:    LayerLabel,
		Kind:     KindText,
		Geometry: Geometry{X: NodeWidth / 2, Y: NodeHeight / 2},
		Fill:     c.resolver.LabelColor(n.Type),
		Text: &Text{
			Content:  n.Label,
			FontSize: labelFontSize,
			Weight:   c.resolver.LabelWeight(n.Depth),
			Align:    AlignCenter,
			Baseline: BaselineMiddle,
		},
	}
}

func (c *Composite) price(n graph.Node) Shape {
	return Shape{
		Layer:    LayerPrice,
		Kind:     KindText,
		Geometry: Geometry{X: priceX, Y: priceY},
		Fill:     c.resolver.PriceColor(n.Type),
		Text: &Text{
			Content:  styles.FormatPrice(c.resolver.Palette().Currency, *n.Price),
			FontSize: priceFontSize,
			Weight:   styles.WeightNormal,
			Align:    AlignRight,
			Baseline: BaselineMiddle,
		},
	}
}

func (c *Composite) badge(n graph.Node) Shape {
	return Shape{
		Layer:    LayerBadge,
		Kind:     KindText,
		Geometry: Geometry{X: badgeX, Y: badgeY},
		Fill:     c.resolver.BadgeColor(n.Type),
		Text: &Text{
			Content:  n.Badge,
			FontSize: badgeFontSize,
			Weight:   styles.WeightBold,
			Align:    AlignLeft,
			Baseline: BaselineMiddle,
		},
	}
}
