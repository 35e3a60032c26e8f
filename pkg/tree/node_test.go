package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqfn/patternika-sub000/pkg/tree"
)

func TestDraft_Accessors(t *testing.T) {
	t.Parallel()

	fragment := tree.Fragment{
		Source: "main.go",
		Begin:  tree.Position{Line: 1, Column: 1},
		End:    tree.Position{Line: 1, Column: 9, Offset: 8},
	}

	child := leaf("Identifier", "x")
	root := tree.NewDraft("Return", "", fragment, []tree.Node{child}, 1)

	assert.Equal(t, "Return", root.Type())
	assert.Empty(t, root.Data())
	assert.Equal(t, fragment, root.Fragment())
	assert.Equal(t, 1, root.ChildCount())
	assert.Equal(t, 1, root.MaxChildCount())
	assert.Same(t, child, root.Child(0))
	assert.True(t, tree.IsOrdered(root))
	assert.Equal(t, "main.go:1:1-1:9", fragment.String())
	assert.Equal(t, "main.go", tree.Fragment{Source: "main.go"}.String())
	assert.Empty(t, tree.Fragment{}.String())
}

func TestDraft_ChildOutOfRangePanics(t *testing.T) {
	t.Parallel()

	root := node("Block", "", leaf("Stmt", "a"))

	assert.Panics(t, func() { root.Child(1) })
	assert.Panics(t, func() { root.Child(-1) })
}

func TestNewDraft_InvalidInputPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { tree.NewDraft("", "", tree.Fragment{}, nil, tree.Unbounded) })
	assert.Panics(t, func() { tree.NewDraft("A", "", tree.Fragment{}, []tree.Node{nil}, tree.Unbounded) })
	assert.Panics(t, func() {
		tree.NewDraft("A", "", tree.Fragment{}, []tree.Node{leaf("B", ""), leaf("C", "")}, 1)
	})
}

func TestDraft_ChildrenAreCopied(t *testing.T) {
	t.Parallel()

	children := []tree.Node{leaf("B", "b")}
	root := tree.NewDraft("A", "", tree.Fragment{}, children, tree.Unbounded)

	children[0] = leaf("C", "c")

	assert.Equal(t, "B", root.Child(0).Type())
}

func TestDraft_Matches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		first  tree.Node
		second tree.Node
		want   bool
	}{
		{"same type and data", leaf("Identifier", "x"), leaf("Identifier", "x"), true},
		{"different data", leaf("Identifier", "x"), leaf("Identifier", "y"), false},
		{"different type", leaf("Identifier", "x"), leaf("Literal", "x"), false},
		{"children ignored", node("Call", "f", leaf("Arg", "1")), node("Call", "f"), true},
		{"nil never matches", leaf("Identifier", "x"), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.first.Matches(tt.second))
		})
	}
}

func TestHole(t *testing.T) {
	t.Parallel()

	hole := tree.NewHole(3)

	got, ok := tree.AsHole(hole)
	require.True(t, ok)
	assert.Equal(t, 3, got.HoleID())
	assert.Equal(t, tree.HoleType, hole.Type())
	assert.Equal(t, 0, hole.ChildCount())
	assert.True(t, hole.Matches(tree.NewHole(3)))
	assert.False(t, hole.Matches(tree.NewHole(4)))
	assert.Panics(t, func() { hole.Child(0) })
	assert.True(t, tree.IsHole(tree.Extend(hole)))
	assert.False(t, tree.IsHole(leaf("A", "")))
	assert.False(t, tree.IsHole(nil))
}

func TestString(t *testing.T) {
	t.Parallel()

	root := node("A", "a", leaf("B", "b"), tree.NewHole(1), node("C", ""))

	assert.Equal(t, `A<"a">(B<"b">, #1, C)`, tree.String(root))
	assert.Equal(t, "nil", tree.String(nil))
}

func TestSizeAndFind(t *testing.T) {
	t.Parallel()

	root := makeTestTree()

	assert.Equal(t, 7, tree.Size(root))
	assert.Equal(t, 0, tree.Size(nil))

	found := tree.Find(root, func(n tree.Node) bool { return n.Type() == "Grandchild" })
	assert.Equal(t, []string{"gc1", "gc2", "gc3"}, dataOf(found))
}

func TestExtend_ParentOrderDepth(t *testing.T) {
	t.Parallel()

	root := tree.Extend(makeTestTree())

	assert.Nil(t, root.Parent())
	assert.Equal(t, 0, root.Order())
	assert.Equal(t, 0, root.Depth())

	c3 := root.ChildAt(2)
	gc3 := c3.ChildAt(1)

	assert.Same(t, root, c3.Parent())
	assert.Equal(t, 2, c3.Order())
	assert.Equal(t, 1, c3.Depth())
	assert.Equal(t, 2, gc3.Depth())
	assert.Equal(t, "gc3", gc3.Data())
	assert.Same(t, root, gc3.Root())
	assert.Same(t, c3, gc3.Ancestor(1))
	assert.Same(t, gc3, gc3.Ancestor(2))
	assert.Nil(t, gc3.Ancestor(3))
}

func TestExtend_ChildrenAreCached(t *testing.T) {
	t.Parallel()

	root := tree.Extend(makeTestTree())

	first := root.ChildAt(0)
	second := root.Child(0)

	assert.Same(t, first, second)
	assert.Same(t, root.Unwrap().Child(0), first.Unwrap())
}

func TestExtend_Siblings(t *testing.T) {
	t.Parallel()

	root := tree.Extend(makeTestTree())

	c1, c2, c3 := root.ChildAt(0), root.ChildAt(1), root.ChildAt(2)

	assert.Nil(t, c1.Previous())
	assert.Same(t, c2, c1.Next())
	assert.Same(t, c1, c2.Previous())
	assert.Same(t, c3, c2.Next())
	assert.Nil(t, c3.Next())
	assert.Nil(t, root.Previous())
	assert.Nil(t, root.Next())
}

func TestExtend_RejectsDoubleWrapping(t *testing.T) {
	t.Parallel()

	ext := tree.Extend(leaf("A", ""))

	assert.Panics(t, func() { tree.Extend(ext) })
	assert.Panics(t, func() { tree.Extend(nil) })
}

func TestExtend_ChildOutOfRangePanics(t *testing.T) {
	t.Parallel()

	ext := tree.Extend(node("A", "", leaf("B", "")))

	assert.Panics(t, func() { ext.ChildAt(1) })
}

func TestExtended_MatchesUnwraps(t *testing.T) {
	t.Parallel()

	raw := leaf("Identifier", "x")
	other := leaf("Identifier", "x")
	ext := tree.Extend(raw)
	otherExt := tree.Extend(other)

	assert.True(t, ext.Matches(other))
	assert.True(t, ext.Matches(otherExt))
	assert.False(t, ext.Matches(nil))
	assert.False(t, ext.Matches(leaf("Identifier", "y")))
}

// Draft reads its operand through the Node methods, so for Draft nodes the
// comparison gives the same answer whichever side is wrapped.
func TestExtended_MatchesMixedOperandOrder(t *testing.T) {
	t.Parallel()

	raw := leaf("Identifier", "x")
	ext := tree.Extend(leaf("Identifier", "x"))

	assert.Equal(t, ext.Matches(raw), raw.Matches(ext))

	mismatch := tree.Extend(leaf("Identifier", "y"))
	assert.Equal(t, mismatch.Matches(raw), raw.Matches(mismatch))
}

// A node that compares concrete types cannot see through an extended
// operand; the extended side must be the receiver to get unwrapping.
func TestExtended_MatchesAsymmetryWithStrictNodes(t *testing.T) {
	t.Parallel()

	raw := &strictNode{nodeType: "Identifier", data: "x"}
	ext := tree.Extend(&strictNode{nodeType: "Identifier", data: "x"})

	assert.True(t, ext.Matches(raw))
	assert.False(t, raw.Matches(ext))
}

type strictNode struct {
	nodeType string
	data     string
}

func (s *strictNode) Type() string            { return s.nodeType }
func (s *strictNode) Data() string            { return s.data }
func (s *strictNode) Fragment() tree.Fragment { return tree.Fragment{} }
func (s *strictNode) ChildCount() int         { return 0 }
func (s *strictNode) Child(int) tree.Node     { panic("no children") }
func (s *strictNode) MaxChildCount() int      { return 0 }

func (s *strictNode) Matches(other tree.Node) bool {
	strict, ok := other.(*strictNode)

	return ok && strict.nodeType == s.nodeType && strict.data == s.data
}

func TestTraversal(t *testing.T) {
	t.Parallel()

	root := makeTestTree()

	assert.Equal(t,
		[]string{"Root", "c1", "c2", "c3", "gc1", "gc2", "gc3"},
		dataOf(tree.BreadthFirst[tree.Node](root)))
	assert.Equal(t,
		[]string{"Root", "c1", "gc1", "c2", "c3", "gc2", "gc3"},
		dataOf(tree.DepthFirst[tree.Node](root)))
	assert.Equal(t,
		[]string{"gc1", "c1", "c2", "gc2", "gc3", "c3", "Root"},
		dataOf(tree.DepthDescending[tree.Node](root)))
}

func TestTraversal_Extended(t *testing.T) {
	t.Parallel()

	root := tree.Extend(makeTestTree())

	nodes := tree.BreadthFirst(root)
	require.Len(t, nodes, 7)

	for _, ext := range nodes[1:] {
		assert.NotNil(t, ext.Parent())
	}

	assert.Same(t, root.ChildAt(2).ChildAt(1), nodes[6])
	assert.Same(t, root, tree.DepthDescending(root)[6])
}
