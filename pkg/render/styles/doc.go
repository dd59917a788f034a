// Package styles resolves node semantics to visual attributes.
//
// # Palette
//
// A [Palette] is an immutable configuration value holding one [TypeColors]
// entry per attribute category:
//
//   - Label: node label text
//   - Price: price annotation
//   - Badge: badge annotation
//   - Stroke: base rectangle outline
//
// Each category keeps its own colors so that, for example, a root node's
// label never shares the root price color. [DefaultPalette] returns the
// stock colors; [Palette.Merge] overlays partial overrides loaded from a
// config file, and [Palette.Validate] checks the result.
//
// # Resolver
//
// [Resolver] wraps a Palette and exposes pure lookups by record type:
//
//	r := styles.NewResolver(styles.DefaultPalette())
//	r.LabelColor(tree.TypeRoot)  // "#1783FF"
//	r.PriceColor(tree.TypeLeaf)  // "#DB9D0D"
//	r.LabelWeight(0)             // styles.WeightBold
//
// Unknown types resolve to each category's Fallback color. Label weight is
// the only attribute driven by depth rather than type.
package styles
