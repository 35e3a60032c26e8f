package tree

// BreadthFirst returns the nodes of the subtree rooted at root level by level,
// left to right. N is usually Node or *Extended; children are converted with a
// type assertion, so every node of the tree must be an N.
func BreadthFirst[N Node](root N) []N {
	result := []N{root}

	for head := 0; head < len(result); head++ {
		current := result[head]

		for idx := range current.ChildCount() {
			result = append(result, current.Child(idx).(N)) //nolint:forcetypeassert // invariant of the tree type.
		}
	}

	return result
}

// DepthFirst returns the nodes of the subtree rooted at root in pre-order.
func DepthFirst[N Node](root N) []N {
	var result []N

	stack := []N{root}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		result = append(result, current)

		for idx := current.ChildCount() - 1; idx >= 0; idx-- {
			stack = append(stack, current.Child(idx).(N)) //nolint:forcetypeassert // invariant of the tree type.
		}
	}

	return result
}

type postOrderFrame[N Node] struct {
	node N
	next int
}

// DepthDescending returns the nodes of the subtree rooted at root in
// post-order: every node comes after all of its descendants, so leaves are
// visited before the root.
func DepthDescending[N Node](root N) []N {
	var result []N

	stack := []postOrderFrame[N]{{node: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.next < top.node.ChildCount() {
			child := top.node.Child(top.next).(N) //nolint:forcetypeassert // invariant of the tree type.
			top.next++

			stack = append(stack, postOrderFrame[N]{node: child})

			continue
		}

		result = append(result, top.node)
		stack = stack[:len(stack)-1]
	}

	return result
}
