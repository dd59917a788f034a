// Package shape builds the layered visual of a single decision-tree node.
//
// A node is drawn as a fixed stack of [Shape] primitives, bottom to top:
//
//  1. "rect": the 100×50 base rectangle, stroked by type or interaction state
//  2. "label": centered label text, bold at depth 0
//  3. "price": right-aligned price, only when the node has a finite price
//  4. "badge": left-aligned badge, only when the node has a non-empty badge
//
// Layers 3 and 4 are overlays at fixed offsets; their presence never moves
// the rectangle or the label.
//
// # Interaction State
//
// [States] carries the hover and selected flags written by the interaction
// layer. [States.State] collapses them into a single [State], with selected
// taking precedence over hover.
//
// # Registry
//
// Node renderers are looked up by type tag through a [Registry] populated
// once at startup:
//
//	reg := shape.DefaultRegistry(styles.NewResolver(styles.DefaultPalette()))
//	r, err := reg.Lookup(shape.NodeType)
//	shapes := r.Render(node, shape.States{Hover: true})
package shape
