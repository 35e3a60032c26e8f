// Package tree provides the read-only node contract consumed by the matching
// engine, a parent-aware extended view over it, traversal helpers, structural
// hashing, and hole-aware deep matching predicates.
//
// A node's identity is its interface value. Every implementation in this
// module is a pointer type, so two structurally equal nodes at different tree
// positions are always distinct keys in identity-keyed tables.
package tree

import (
	"fmt"
	"strconv"
	"strings"
)

// Unbounded is the maximum child count of nodes that accept any number of
// children, such as statement lists. Such nodes are order-insensitive for
// matching purposes.
const Unbounded = -1

// Position is a point in source text. Line and Column are 1-based, Offset is
// a byte offset.
type Position struct {
	Line   uint `json:"line,omitempty"   yaml:"line,omitempty"`
	Column uint `json:"column,omitempty" yaml:"column,omitempty"`
	Offset uint `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// Fragment references the piece of source a node was built from.
// The zero value means "no fragment".
type Fragment struct {
	Source string   `json:"source,omitempty" yaml:"source,omitempty"`
	Begin  Position `json:"begin"            yaml:"begin"`
	End    Position `json:"end"              yaml:"end"`
}

// IsEmpty reports whether the fragment carries no location.
func (fragment Fragment) IsEmpty() bool {
	return fragment == Fragment{}
}

// String renders the fragment as source:line:col-line:col, or just the
// source when no position is known.
func (fragment Fragment) String() string {
	if fragment.IsEmpty() {
		return ""
	}

	if fragment.Begin == (Position{}) && fragment.End == (Position{}) {
		return fragment.Source
	}

	return fmt.Sprintf("%s:%d:%d-%d:%d",
		fragment.Source,
		fragment.Begin.Line, fragment.Begin.Column,
		fragment.End.Line, fragment.End.Column)
}

// Node is a read-only syntax tree node. Children are fixed at construction.
type Node interface {
	// Type returns the node type identifier.
	Type() string
	// Data returns the optional textual payload, or "" when there is none.
	Data() string
	// Fragment returns the source fragment the node was built from.
	Fragment() Fragment
	// ChildCount returns the number of children.
	ChildCount() int
	// Child returns the child at index. It panics if index is out of range.
	Child(index int) Node
	// MaxChildCount returns the maximum number of children, or Unbounded.
	MaxChildCount() int
	// Matches reports whether other has the same type and data.
	// Children are never compared. A nil other never matches.
	Matches(other Node) bool
}

// Hole is a wildcard node. When either side of a deep comparison is a hole,
// the whole subtree pair matches.
type Hole interface {
	Node
	HoleID() int
}

// Wrapper is implemented by views that decorate another node.
type Wrapper interface {
	Unwrap() Node
}

// Equaler is implemented by nodes with a value equality that is stricter or
// looser than Matches. DeepEquals uses it when present.
type Equaler interface {
	Equal(other Node) bool
}

// Unwrap strips every view layer around n and returns the underlying node.
func Unwrap(n Node) Node {
	for {
		wrapper, ok := n.(Wrapper)
		if !ok {
			return n
		}

		n = wrapper.Unwrap()
	}
}

// AsHole returns the hole behind n, looking through view wrappers.
func AsHole(n Node) (Hole, bool) {
	if n == nil {
		return nil, false
	}

	hole, ok := Unwrap(n).(Hole)

	return hole, ok
}

// IsHole reports whether n is a hole, looking through view wrappers.
func IsHole(n Node) bool {
	_, ok := AsHole(n)

	return ok
}

// IsOrdered reports whether the child order of n is significant.
// Order is strict iff the maximum child count is bounded.
func IsOrdered(n Node) bool {
	return n.MaxChildCount() != Unbounded
}

// Children returns the children of n as a fresh slice.
func Children(n Node) []Node {
	count := n.ChildCount()
	children := make([]Node, count)

	for idx := range count {
		children[idx] = n.Child(idx)
	}

	return children
}

// Size returns the number of nodes in the subtree rooted at n.
func Size(n Node) int {
	if n == nil {
		return 0
	}

	total := 1

	for idx := range n.ChildCount() {
		total += Size(n.Child(idx))
	}

	return total
}

// String renders the subtree rooted at n as an s-expression, e.g.
// A<"a">(B<"b">, C<"c">). Holes render as #id.
func String(n Node) string {
	var buf strings.Builder

	writeNode(&buf, n)

	return buf.String()
}

func writeNode(buf *strings.Builder, n Node) {
	if n == nil {
		buf.WriteString("nil")

		return
	}

	if hole, ok := AsHole(n); ok {
		buf.WriteString("#")
		buf.WriteString(strconv.Itoa(hole.HoleID()))

		return
	}

	buf.WriteString(n.Type())

	if data := n.Data(); data != "" {
		buf.WriteString("<")
		buf.WriteString(strconv.Quote(data))
		buf.WriteString(">")
	}

	count := n.ChildCount()
	if count == 0 {
		return
	}

	buf.WriteString("(")

	for idx := range count {
		if idx > 0 {
			buf.WriteString(", ")
		}

		writeNode(buf, n.Child(idx))
	}

	buf.WriteString(")")
}

// Find returns every node of the subtree rooted at n, in pre-order, for which
// predicate holds.
func Find(n Node, predicate func(Node) bool) []Node {
	var result []Node

	for _, visited := range DepthFirst(n) {
		if predicate(visited) {
			result = append(result, visited)
		}
	}

	return result
}

// childIndexError formats the panic message for an out-of-range child access.
func childIndexError(nodeType string, index, count int) string {
	return fmt.Sprintf("tree: child index %d out of range [0,%d) for %s node", index, count, nodeType)
}
