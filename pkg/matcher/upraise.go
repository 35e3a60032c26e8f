package matcher

import "github.com/cqfn/patternika-sub000/pkg/tree"

// Upraise connects left and right and climbs toward the roots, connecting
// each pair of parents in turn. A pair is connected when neither node is
// mapped yet, or when the pair matches and either both nodes have exactly one
// child or neither node's current partner matches it. Climbing stops at a
// root, at a type mismatch, or at the first pair that fails the rule.
func (session *Session) Upraise(table *Table, left, right *tree.Extended) {
	for left != nil && right != nil {
		if left.Type() != right.Type() || !shouldRaise(table, left, right) {
			return
		}

		if !table.Connected(left, right) {
			table.Connect(left, right)
			session.stats.Raised++
		}

		left, right = left.Parent(), right.Parent()
	}
}

func shouldRaise(table *Table, left, right *tree.Extended) bool {
	if !table.Contains(left) && !table.Contains(right) {
		return true
	}

	if !left.Matches(right) {
		return false
	}

	if left.ChildCount() == 1 && right.ChildCount() == 1 {
		return true
	}

	return !partnerMatches(table, left) && !partnerMatches(table, right)
}

func partnerMatches(table *Table, node *tree.Extended) bool {
	partner, ok := table.Get(node)

	return ok && node.Matches(partner)
}
