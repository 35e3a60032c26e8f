package tree

// Extended is a parent-aware view over a node. It adds the parent, the index
// among the parent's children, the depth, and sibling navigation. Children are
// wrapped lazily on first access and cached, so the view of a tree is built at
// most once per Extend call.
//
// Extended implements Node; its Child method returns *Extended values.
type Extended struct {
	node     Node
	parent   *Extended
	children []*Extended
	order    int
	depth    int
	built    bool
}

// Extend wraps root in a parent-aware view. It panics if root is nil or is
// already an extended view: only one level of wrapping is allowed.
func Extend(root Node) *Extended {
	if root == nil {
		panic("tree: cannot extend a nil node")
	}

	if _, ok := root.(*Extended); ok {
		panic("tree: node is already an extended view")
	}

	return &Extended{node: root}
}

// Unwrap returns the underlying node.
func (ext *Extended) Unwrap() Node { return ext.node }

// Type implements Node.
func (ext *Extended) Type() string { return ext.node.Type() }

// Data implements Node.
func (ext *Extended) Data() string { return ext.node.Data() }

// Fragment implements Node.
func (ext *Extended) Fragment() Fragment { return ext.node.Fragment() }

// ChildCount implements Node.
func (ext *Extended) ChildCount() int { return ext.node.ChildCount() }

// MaxChildCount implements Node.
func (ext *Extended) MaxChildCount() int { return ext.node.MaxChildCount() }

// Child implements Node. The returned value is always an *Extended.
func (ext *Extended) Child(index int) Node {
	return ext.ChildAt(index)
}

// ChildAt returns the extended view of the child at index.
// It panics if index is out of range.
func (ext *Extended) ChildAt(index int) *Extended {
	children := ext.Children()
	if index < 0 || index >= len(children) {
		panic(childIndexError(ext.Type(), index, len(children)))
	}

	return children[index]
}

// Children returns the extended views of all children. The slice is shared
// with the view and must not be modified.
func (ext *Extended) Children() []*Extended {
	if ext.built {
		return ext.children
	}

	count := ext.node.ChildCount()
	ext.children = make([]*Extended, count)

	for idx := range count {
		ext.children[idx] = &Extended{
			node:   ext.node.Child(idx),
			parent: ext,
			order:  idx,
			depth:  ext.depth + 1,
		}
	}

	ext.built = true

	return ext.children
}

// Matches implements Node. Extended operands are unwrapped so the comparison
// is always made between underlying nodes.
func (ext *Extended) Matches(other Node) bool {
	if other == nil {
		return false
	}

	if wrapped, ok := other.(*Extended); ok {
		other = wrapped.node
	}

	return ext.node.Matches(other)
}

// Parent returns the parent view, or nil at the root of the view.
func (ext *Extended) Parent() *Extended { return ext.parent }

// Order returns the index among the parent's children; 0 for the root.
func (ext *Extended) Order() int { return ext.order }

// Depth returns the distance to the root of the view; 0 for the root.
func (ext *Extended) Depth() int { return ext.depth }

// Previous returns the preceding sibling, or nil at the boundary.
func (ext *Extended) Previous() *Extended {
	if ext.parent == nil || ext.order == 0 {
		return nil
	}

	return ext.parent.Children()[ext.order-1]
}

// Next returns the following sibling, or nil at the boundary.
func (ext *Extended) Next() *Extended {
	if ext.parent == nil {
		return nil
	}

	siblings := ext.parent.Children()
	if ext.order+1 >= len(siblings) {
		return nil
	}

	return siblings[ext.order+1]
}

// Root returns the root of the view.
func (ext *Extended) Root() *Extended {
	current := ext
	for current.parent != nil {
		current = current.parent
	}

	return current
}

// Ancestor returns the ancestor (or ext itself) located at the given depth.
// It returns nil when depth is negative or deeper than ext.
func (ext *Extended) Ancestor(depth int) *Extended {
	if depth < 0 || depth > ext.depth {
		return nil
	}

	current := ext
	for current.depth > depth {
		current = current.parent
	}

	return current
}

// String renders the underlying subtree as an s-expression.
func (ext *Extended) String() string {
	return String(ext.node)
}
