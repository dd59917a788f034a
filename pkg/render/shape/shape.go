package shape

import "github.com/matzehuels/treeflow/pkg/render/styles"

// Kind is the primitive type of a shape.
type Kind string

const (
	KindRect Kind = "rect"
	KindText Kind = "text"
)

// Layer names, in drawing order.
const (
	LayerRect  = "rect"
	LayerLabel = "label"
	LayerPrice = "price"
	LayerBadge = "badge"
)

// Align is horizontal text alignment relative to the anchor point.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Baseline is vertical text alignment relative to the anchor point.
type Baseline string

const (
	BaselineMiddle     Baseline = "middle"
	BaselineAlphabetic Baseline = "alphabetic"
)

// Geometry positions a shape in node-local coordinates. Rectangles use all
// fields; text uses X and Y as its anchor.
type Geometry struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w,omitempty"`
	H      float64 `json:"h,omitempty"`
	Radius float64 `json:"radius,omitempty"`
}

// Stroke is an outline color and width.
type Stroke struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Shadow is a drop shadow.
type Shadow struct {
	Color string  `json:"color"`
	Blur  float64 `json:"blur"`
}

// Text is the content and font of a text shape.
type Text struct {
	Content  string        `json:"content"`
	FontSize float64       `json:"font_size"`
	Weight   styles.Weight `json:"weight"`
	Align    Align         `json:"align"`
	Baseline Baseline      `json:"baseline"`
}

// Shape is one drawable primitive. For text shapes Fill is the text color.
type Shape struct {
	Layer    string   `json:"layer"`
	Kind     Kind     `json:"kind"`
	Geometry Geometry `json:"geometry"`
	Fill     string   `json:"fill"`
	Stroke   *Stroke  `json:"stroke,omitempty"`
	Shadow   *Shadow  `json:"shadow,omitempty"`
	Text     *Text    `json:"text,omitempty"`
}

// Find returns the first shape in shapes with the given layer name.
func Find(shapes []Shape, layer string) (Shape, bool) {
	for _, s := range shapes {
		if s.Layer == layer {
			return s, true
		}
	}
	return Shape{}, false
}
