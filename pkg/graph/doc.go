// Package graph provides the flattened node/edge representation of a tree.
//
// A [Graph] is what package convert produces from a nested tree and what the
// layout engines and renderers consume. Parent/child relations are expressed
// only through [Node.ChildIDs] and the [Edge] list; nodes never point at each
// other.
//
// # Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [
//	    {"id": "r", "type": "root", "depth": 0, "label": "Start", "child_ids": ["c1"]},
//	    {"id": "c1", "type": "leaf", "depth": 1, "label": "A", "price": 5}
//	  ],
//	  "edges": [{"source": "r", "target": "c1"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadFile("graph.json")    // File → Graph
//	graph.WriteFile(g, "output.json")       // Graph → File
//	data, _ := graph.Marshal(g)             // Graph → []byte
//
// Node order is the converter's pre-order traversal and is preserved through
// serialization, so layouts that depend on sibling order stay stable.
//
// # Concurrency
//
// A Graph built with [New] or [Read] is immutable and safe for concurrent
// reads. A Graph decoded directly with encoding/json indexes itself lazily on
// first lookup, so do one lookup before sharing it.
package graph
