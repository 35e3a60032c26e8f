package matcher

import (
	"github.com/cqfn/patternika-sub000/pkg/mapping"
	"github.com/cqfn/patternika-sub000/pkg/tree"
)

// Result is the outcome of one mapping run.
type Result struct {
	Left    *tree.Extended
	Right   *tree.Extended
	Mapping *Table
	Stats   Stats
}

// Pair is a connected left/right pair.
type Pair struct {
	Left  *tree.Extended
	Right *tree.Extended
}

// MapTrees extends both trees and maps them with the given strategy.
func MapTrees(mapper Mapper, left, right tree.Node) *Result {
	return mapper.Map(tree.Extend(left), tree.Extend(right))
}

// Pairs returns every connected pair, left nodes in breadth-first order.
func (result *Result) Pairs() []Pair {
	var pairs []Pair

	for _, current := range tree.BreadthFirst(result.Left) {
		if partner, ok := result.Mapping.Get(current); ok {
			pairs = append(pairs, Pair{Left: current, Right: partner})
		}
	}

	return pairs
}

// Updated returns the connected pairs whose nodes do not match, i.e. nodes
// that kept their place but changed type or data.
func (result *Result) Updated() []Pair {
	var updated []Pair

	for _, pair := range result.Pairs() {
		if !pair.Left.Matches(pair.Right) {
			updated = append(updated, pair)
		}
	}

	return updated
}

// Unmapped returns the nodes of each tree that have no partner, in
// breadth-first order: deleted nodes on the left, inserted nodes on the right.
//
//nolint:nonamedreturns // names document which side each slice belongs to.
func (result *Result) Unmapped() (left, right []*tree.Extended) {
	return unmappedNodes(result.Mapping, result.Left), unmappedNodes(result.Mapping, result.Right)
}

// Nodes returns the mapping expressed over the underlying nodes instead of
// their extended views, for consumers that work on plain trees.
func (result *Result) Nodes() *mapping.Mapping[tree.Node] {
	return mapping.Convert(result.Mapping, func(ext *tree.Extended) tree.Node { return ext.Unwrap() })
}

func unmappedNodes(table *Table, root *tree.Extended) []*tree.Extended {
	var nodes []*tree.Extended

	for _, current := range tree.BreadthFirst(root) {
		if !table.Contains(current) {
			nodes = append(nodes, current)
		}
	}

	return nodes
}
