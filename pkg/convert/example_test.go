package convert_test

import (
	"fmt"

	"github.com/matzehuels/treeflow/pkg/convert"
	"github.com/matzehuels/treeflow/pkg/tree"
)

func ExampleConvert() {
	root, _ := tree.Parse([]byte(`{
		"id": "r", "type": "root", "depth": 0, "label": "Start",
		"children": [
			{"id": "c1", "type": "leaf", "depth": 1, "label": "A", "price": 5},
			{},
			{"id": "c2", "type": "leaf", "depth": 1, "label": "B"}
		]
	}`))

	res, err := convert.Convert(root)
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, e := range res.Graph.Edges {
		fmt.Printf("%s -> %s\n", e.Source, e.Target)
	}
	for _, w := range res.Warnings {
		fmt.Println("warning:", w)
	}
	// Output:
	// r -> c1
	// r -> c2
	// warning: r: children[1]: child has no id
}
