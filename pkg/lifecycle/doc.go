// Package lifecycle drives one render of a decision tree from fetch to a
// fitted viewport.
//
// A [Controller] moves through a fixed sequence of states:
//
//	Idle → Loading → Converted → Rendered → Fitted
//
// with Failed as the terminal state for any error. Every transition is
// one-shot and forward-only; a controller is used for exactly one
// activation.
//
//   - Idle → Loading: [Controller.Activate] fetches raw JSON from the
//     [source.Source]. This is the only blocking step.
//   - Loading → Converted: the JSON is parsed and flattened with
//     [convert.Convert].
//   - Converted → Rendered: the graph, node renderer and layout engine are
//     mounted on the [Surface], and the surface is asked to render.
//   - Rendered → Fitted: on the surface's first after-render event the view
//     is fitted once and the subscription is dropped, so later re-renders
//     never refit.
//
// A fetch failure moves the controller to Failed and returns a FETCH_FAILED
// error; conversion and render failures do the same with their own codes.
//
// Each controller has a UUID that tags its log lines and the transitions
// reported to [observability.LifecycleHooks].
package lifecycle
