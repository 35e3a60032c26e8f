package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cqfn/patternika-sub000/pkg/tree"
)

func TestHasher_Deterministic(t *testing.T) {
	t.Parallel()

	root := makeTestTree()
	hasher := tree.NewHasher()

	assert.Equal(t, hasher.Isomorphism(root), hasher.Isomorphism(root))
	assert.Equal(t, hasher.Similarity(root), hasher.Similarity(root))
	assert.Equal(t, hasher.Similarity(root), tree.NewHasher().Similarity(root))
}

func TestHasher_EqualTreesFromDifferentInstances(t *testing.T) {
	t.Parallel()

	hasher := tree.NewHasher()
	first, second := makeTestTree(), makeTestTree()

	require.NotSame(t, first, second)
	assert.Equal(t, hasher.Similarity(first), hasher.Similarity(second))
	assert.Equal(t, hasher.Isomorphism(first), hasher.Isomorphism(second))
}

func TestHasher_DataChangeAffectsOnlySimilarity(t *testing.T) {
	t.Parallel()

	hasher := tree.NewHasher()
	first := leaf("Identifier", "x")
	second := leaf("Identifier", "y")

	assert.Equal(t, hasher.Isomorphism(first), hasher.Isomorphism(second))
	assert.NotEqual(t, hasher.Similarity(first), hasher.Similarity(second))
}

func TestHasher_DeepDataChange(t *testing.T) {
	t.Parallel()

	hasher := tree.NewHasher()
	first := node("A", "", node("B", "", leaf("C", "1")))
	second := node("A", "", node("B", "", leaf("C", "2")))

	assert.Equal(t, hasher.Isomorphism(first), hasher.Isomorphism(second))
	assert.NotEqual(t, hasher.Similarity(first), hasher.Similarity(second))
}

func TestHasher_ChildOrderMatters(t *testing.T) {
	t.Parallel()

	hasher := tree.NewHasher()
	first := node("A", "", leaf("B", ""), leaf("C", ""))
	second := node("A", "", leaf("C", ""), leaf("B", ""))

	assert.NotEqual(t, hasher.Isomorphism(first), hasher.Isomorphism(second))
	assert.NotEqual(t, hasher.Similarity(first), hasher.Similarity(second))
}

func TestHasher_TypeAndDataDoNotBleed(t *testing.T) {
	t.Parallel()

	hasher := tree.NewHasher()

	assert.NotEqual(t, hasher.Similarity(leaf("ab", "")), hasher.Similarity(leaf("a", "b")))
}

func TestHasher_ExtendedViewHashesLikeUnderlying(t *testing.T) {
	t.Parallel()

	hasher := tree.NewHasher()
	raw := makeTestTree()

	assert.Equal(t, hasher.Similarity(raw), hasher.Similarity(tree.Extend(raw)))
	assert.Equal(t, hasher.Isomorphism(raw), hasher.Isomorphism(tree.Extend(raw)))
}

func TestHasher_Families(t *testing.T) {
	t.Parallel()

	// Two call sites with the same shape but different names, plus an
	// unrelated statement.
	root := node("Block", "",
		node("Call", "f", leaf("Arg", "1"), leaf("Arg", "2")),
		node("Return", "", leaf("Identifier", "x")),
		node("Call", "g", leaf("Arg", "3"), leaf("Arg", "4")),
	)

	families := tree.NewHasher().Families(root)

	require.Len(t, families, 1)
	assert.Equal(t, 3, families[0].Size)
	assert.Equal(t, []string{"f", "g"}, dataOf(families[0].Members))
}

func BenchmarkHasher_Similarity(b *testing.B) {
	children := make([]tree.Node, 0, 256)
	for range 256 {
		children = append(children, node("Stmt", "s", leaf("Identifier", "x"), leaf("Literal", "1")))
	}

	root := node("Block", "", children...)

	b.ResetTimer()

	for range b.N {
		tree.NewHasher().Similarity(root)
	}
}
