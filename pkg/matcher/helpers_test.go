package matcher_test

import "github.com/cqfn/patternika-sub000/pkg/tree"

func leaf(nodeType, data string) *tree.Draft {
	return tree.NewBuilder(nodeType).WithData(data).WithMaxChildren(0).Build()
}

func node(nodeType, data string, children ...tree.Node) *tree.Draft {
	return tree.NewBuilder(nodeType).WithData(data).WithChildren(children...).Build()
}

// path follows child indexes from root.
func path(root *tree.Extended, indexes ...int) *tree.Extended {
	current := root
	for _, idx := range indexes {
		current = current.ChildAt(idx)
	}

	return current
}
