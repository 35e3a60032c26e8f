package matcher

import "github.com/cqfn/patternika-sub000/pkg/tree"

// WeakChain removes speculative connections. For every node of the sequence
// whose partner does not match it, the pair is disconnected when the child
// counts differ, when only one of them has a parent, when the parents are not
// connected to each other or do not match, or when some child is unmapped or
// mapped to a partner it does not match.
//
// Nodes must come parents first (breadth-first) so the parent check sees the
// final state of the parents. The pass is idempotent. It returns the number
// of pairs removed.
func WeakChain(table *Table, nodes []*tree.Extended) int {
	removed := 0

	for _, current := range nodes {
		partner, ok := table.Get(current)
		if !ok || current.Matches(partner) {
			continue
		}

		if isWeak(table, current, partner) {
			table.Disconnect(current)

			removed++
		}
	}

	return removed
}

func isWeak(table *Table, current, partner *tree.Extended) bool {
	if current.ChildCount() != partner.ChildCount() {
		return true
	}

	parent, partnerParent := current.Parent(), partner.Parent()
	if (parent == nil) != (partnerParent == nil) {
		return true
	}

	if parent != nil && (!table.Connected(parent, partnerParent) || !parent.Matches(partnerParent)) {
		return true
	}

	for _, child := range current.Children() {
		if !partnerMatches(table, child) {
			return true
		}
	}

	return false
}
