package tree_test

import "github.com/cqfn/patternika-sub000/pkg/tree"

func leaf(nodeType, data string) *tree.Draft {
	return tree.NewBuilder(nodeType).WithData(data).WithMaxChildren(0).Build()
}

func node(nodeType, data string, children ...tree.Node) *tree.Draft {
	return tree.NewBuilder(nodeType).WithData(data).WithChildren(children...).Build()
}

func ordered(nodeType, data string, children ...tree.Node) *tree.Draft {
	return tree.NewBuilder(nodeType).
		WithData(data).
		WithChildren(children...).
		WithMaxChildren(len(children)).
		Build()
}

// makeTestTree builds:
//
//	     root
//	    / |  \
//	  c1 c2  c3
//	  /      / \
//	gc1    gc2 gc3
func makeTestTree() *tree.Draft {
	return node("Root", "",
		node("Child", "c1", leaf("Grandchild", "gc1")),
		leaf("Child", "c2"),
		node("Child", "c3", leaf("Grandchild", "gc2"), leaf("Grandchild", "gc3")),
	)
}

func dataOf[N tree.Node](nodes []N) []string {
	out := make([]string, 0, len(nodes))

	for _, n := range nodes {
		if n.Data() == "" {
			out = append(out, n.Type())

			continue
		}

		out = append(out, n.Data())
	}

	return out
}
