package tree

import "strconv"

// HoleType is the type identifier reported by hole nodes.
const HoleType = "Hole"

// Draft is the general-purpose immutable node implementation. It is what the
// construction registry and the YAML loader produce.
type Draft struct {
	nodeType    string
	data        string
	fragment    Fragment
	children    []Node
	maxChildren int
}

// NewDraft creates a node. It panics when nodeType is empty, a child is nil,
// or the number of children exceeds a bounded maxChildren.
func NewDraft(nodeType, data string, fragment Fragment, children []Node, maxChildren int) *Draft {
	if nodeType == "" {
		panic("tree: node type must not be empty")
	}

	if maxChildren != Unbounded && len(children) > maxChildren {
		panic("tree: " + nodeType + " accepts at most " + strconv.Itoa(maxChildren) +
			" children, got " + strconv.Itoa(len(children)))
	}

	for idx, child := range children {
		if child == nil {
			panic("tree: nil child at index " + strconv.Itoa(idx) + " of " + nodeType)
		}
	}

	owned := make([]Node, len(children))
	copy(owned, children)

	return &Draft{
		nodeType:    nodeType,
		data:        data,
		fragment:    fragment,
		children:    owned,
		maxChildren: maxChildren,
	}
}

// Type implements Node.
func (draft *Draft) Type() string { return draft.nodeType }

// Data implements Node.
func (draft *Draft) Data() string { return draft.data }

// Fragment implements Node.
func (draft *Draft) Fragment() Fragment { return draft.fragment }

// ChildCount implements Node.
func (draft *Draft) ChildCount() int { return len(draft.children) }

// MaxChildCount implements Node.
func (draft *Draft) MaxChildCount() int { return draft.maxChildren }

// Child implements Node.
func (draft *Draft) Child(index int) Node {
	if index < 0 || index >= len(draft.children) {
		panic(childIndexError(draft.nodeType, index, len(draft.children)))
	}

	return draft.children[index]
}

// Matches implements Node. It reads the other operand through the Node
// methods, so it gives the same answer for a raw node and its extended view.
func (draft *Draft) Matches(other Node) bool {
	if other == nil {
		return false
	}

	return draft.nodeType == other.Type() && draft.data == other.Data()
}

// Equal reports whether other has the same type, data, and arity.
func (draft *Draft) Equal(other Node) bool {
	if other == nil {
		return false
	}

	return draft.Matches(other) &&
		draft.maxChildren == other.MaxChildCount() &&
		len(draft.children) == other.ChildCount()
}

// String renders the subtree as an s-expression.
func (draft *Draft) String() string {
	return String(draft)
}

// HoleNode is a wildcard leaf identified by an integer.
type HoleNode struct {
	fragment Fragment
	id       int
}

// NewHole creates a hole with the given identifier.
func NewHole(id int) *HoleNode {
	return &HoleNode{id: id}
}

// NewHoleAt creates a hole that remembers the fragment it replaces.
func NewHoleAt(id int, fragment Fragment) *HoleNode {
	return &HoleNode{id: id, fragment: fragment}
}

// HoleID implements Hole.
func (hole *HoleNode) HoleID() int { return hole.id }

// Type implements Node.
func (hole *HoleNode) Type() string { return HoleType }

// Data implements Node. Holes carry their identifier as data so that two
// holes match iff they share an identifier.
func (hole *HoleNode) Data() string { return "#" + strconv.Itoa(hole.id) }

// Fragment implements Node.
func (hole *HoleNode) Fragment() Fragment { return hole.fragment }

// ChildCount implements Node.
func (hole *HoleNode) ChildCount() int { return 0 }

// MaxChildCount implements Node.
func (hole *HoleNode) MaxChildCount() int { return 0 }

// Child implements Node. Holes have no children.
func (hole *HoleNode) Child(index int) Node {
	panic(childIndexError(HoleType, index, 0))
}

// Matches implements Node.
func (hole *HoleNode) Matches(other Node) bool {
	if other == nil {
		return false
	}

	return other.Type() == HoleType && other.Data() == hole.Data()
}

// String renders the hole as #id.
func (hole *HoleNode) String() string {
	return String(hole)
}

// Builder provides a fluent interface for building Draft nodes.
type Builder struct {
	nodeType    string
	data        string
	fragment    Fragment
	children    []Node
	maxChildren int
}

// NewBuilder creates a builder for a node of the given type. Nodes are
// unbounded unless WithMaxChildren is called.
func NewBuilder(nodeType string) *Builder {
	return &Builder{nodeType: nodeType, maxChildren: Unbounded}
}

// WithData sets the node data.
func (builder *Builder) WithData(data string) *Builder {
	builder.data = data

	return builder
}

// WithFragment sets the source fragment.
func (builder *Builder) WithFragment(fragment Fragment) *Builder {
	builder.fragment = fragment

	return builder
}

// WithChildren appends children.
func (builder *Builder) WithChildren(children ...Node) *Builder {
	builder.children = append(builder.children, children...)

	return builder
}

// WithMaxChildren bounds the child count, which also makes child order strict.
func (builder *Builder) WithMaxChildren(maxChildren int) *Builder {
	builder.maxChildren = maxChildren

	return builder
}

// Build creates the node.
func (builder *Builder) Build() *Draft {
	return NewDraft(builder.nodeType, builder.data, builder.fragment, builder.children, builder.maxChildren)
}
