// Package canvas is the SVG drawing surface for decision-tree graphs.
//
// An [SVG] surface is mounted with a graph, a node renderer and a layout
// engine, then rendered. Rendering lays the graph out, draws the edges as
// grey cubic-horizontal curves, draws each node's shape stack translated to
// its position, and then notifies after-render subscribers.
//
//	surface := canvas.New(canvas.WithFrame(1200, 800))
//	_ = surface.Mount(g, renderer, layout.NewIndented())
//	unsubscribe := surface.OnAfterRender(func() { surface.FitView() })
//	_ = surface.Render(ctx)
//	unsubscribe()
//	os.Stdout.Write(surface.Bytes())
//
// # Viewport
//
// Before fitting, the SVG viewBox is the frame. [SVG.FitView] sets it to
// the content bounds plus padding.
//
// # Interaction
//
// The surface never handles input. It embeds a small stylesheet and script
// in the document so a browser can hover, select, zoom and pan. Server-side
// interaction state is written through [SVG.SetState] and applied on the
// next render.
//
// # Scene
//
// [SVG.Scene] exposes the positioned shape stacks as a [Scene] value, which
// serializes to JSON for consumers that draw with their own toolkit.
//
// An SVG is not safe for concurrent use.
package canvas
