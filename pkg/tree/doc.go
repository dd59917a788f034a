// Package tree defines the hierarchical input records that treeflow renders.
//
// A decision tree arrives as nested JSON:
//
//	{
//	  "id": "r", "type": "root", "depth": 0, "label": "Start",
//	  "children": [
//	    {"id": "c1", "type": "leaf", "depth": 1, "label": "A", "price": 5},
//	    {"id": "c2", "type": "leaf", "depth": 1, "label": "B", "badge": "NEW"}
//	  ]
//	}
//
// Decoding is lenient about optional fields: a price that is not a JSON
// number and a badge that is not a JSON string decode as absent rather than
// failing. Child entries that are null or lack an id are kept as-is so that
// the converter can report them; see package convert.
//
// Records are read-only input. Nothing in treeflow mutates a [Record] after
// decoding.
package tree
