// Package convert flattens a nested decision tree into a graph.
//
// [Convert] walks the tree depth-first in pre-order, preserving the input
// order of children, and emits one [graph.Node] per record and one
// [graph.Edge] per valid parent → child reference. Nodes carry their child
// IDs; there are no parent pointers.
//
// # Malformed Children
//
// A child entry that is null or lacks an id is not an error. It is skipped,
// recorded as a [Warning] on the [Result], logged at warn level, and reported
// to the registered observability hooks. Traversal continues with the next
// sibling.
//
// # Errors
//
// A nil root or a root without an id fails with INVALID_INPUT. An id that
// appears more than once anywhere in the tree fails with DUPLICATE_NODE;
// the error matches [ErrDuplicateNodeID] with the standard errors.Is.
//
//	res, err := convert.Convert(root, convert.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	for _, w := range res.Warnings {
//	    fmt.Println(w)
//	}
//
// Convert is pure: identical input yields identical output.
package convert
