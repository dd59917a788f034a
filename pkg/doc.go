// Package pkg provides the core libraries for treeflow decision-tree
// visualization.
//
// # Overview
//
// treeflow turns a nested decision tree (JSON records with a type, depth,
// label, optional price and badge, and ordered children) into a left-to-right
// node-link diagram. Every node is drawn as a composite of a rounded rectangle,
// a label, a price and a badge, colored by node type. The pkg directory is
// organized into four areas:
//
//  1. Model: [tree] input records and [graph] flat node-edge graphs
//  2. Domain logic: [convert], [layout], [render], [render/canvas] and [lifecycle]
//  3. Infrastructure: [source], [cache], [httputil], [config] and [observability]
//  4. Orchestration: [pipeline]
//
// # Architecture
//
// The data flow through treeflow:
//
//	HTTP URL / file / bytes
//	         ↓
//	    [source] package (fetch raw JSON, cached)
//	         ↓
//	    [tree] package (decode records)
//	         ↓
//	    [convert] package (pre-order flattening, malformed children skipped)
//	         ↓
//	    [layout] package (indented rows, cubic edge routes)
//	         ↓
//	    [render/canvas] package (composite node shapes, SVG, fit view)
//	         ↓
//	    SVG/JSON/DOT/PNG/PDF output
//
// [lifecycle] drives one pass through these stages as a forward-only state
// machine (idle → loading → converted → rendered → fitted) and fits the view
// exactly once, after the first render completes.
//
// # Quick Start
//
//	var buf bytes.Buffer
//	result, err := pipeline.RenderTree(ctx, raw, &buf, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.State) // fitted
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/render/...             # Specific packages
//	go test -run Example ./pkg/...       # Examples only
//
// Mongo cache tests run only when TREEFLOW_TEST_MONGO_URI is set.
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/treeflow/pkg/tree
// [graph]: https://pkg.go.dev/github.com/matzehuels/treeflow/pkg/graph
// [convert]: https://pkg.go.dev/github.com/matzehuels/treeflow/pkg/convert
// [layout]: https://pkg.go.dev/github.com/matzehuels/treeflow/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/treeflow/pkg/render
// [render/canvas]: https://pkg.go.dev/github.com/matzehuels/treeflow/pkg/render/canvas
// [lifecycle]: https://pkg.go.dev/github.com/matzehuels/treeflow/pkg/lifecycle
// [source]: https://pkg.go.dev/github.com/matzehuels/treeflow/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/treeflow/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/treeflow/pkg/httputil
// [config]: https://pkg.go.dev/github.com/matzehuels/treeflow/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/treeflow/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/treeflow/pkg/pipeline
package pkg
