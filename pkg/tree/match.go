package tree

// DeepEquals reports whether two subtrees are equal. Roots must be equal
// (through Equaler when either side implements it, tried in both directions,
// otherwise through Matches) and children must be equal pairwise by index.
// A hole on either side at any level makes that subtree pair equal.
func DeepEquals(first, second Node) bool {
	if first == nil || second == nil {
		return first == second
	}

	if IsHole(first) || IsHole(second) {
		return true
	}

	if !nodesEqual(first, second) || first.ChildCount() != second.ChildCount() {
		return false
	}

	for idx := range first.ChildCount() {
		if !DeepEquals(first.Child(idx), second.Child(idx)) {
			return false
		}
	}

	return true
}

func nodesEqual(first, second Node) bool {
	if first == second {
		return true
	}

	firstEq, firstOK := Unwrap(first).(Equaler)
	secondEq, secondOK := Unwrap(second).(Equaler)

	if !firstOK && !secondOK {
		return first.Matches(second)
	}

	return (firstOK && firstEq.Equal(Unwrap(second))) ||
		(secondOK && secondEq.Equal(Unwrap(first)))
}

// DeepMatches reports whether two subtrees match in order: roots must be
// identical, match, or be holes, and children must match pairwise by index.
// Mismatched child counts fail. A nil operand only matches nil.
func DeepMatches(first, second Node) bool {
	if first == nil || second == nil {
		return first == second
	}

	if first == second || IsHole(first) || IsHole(second) {
		return true
	}

	if !first.Matches(second) || first.ChildCount() != second.ChildCount() {
		return false
	}

	for idx := range first.ChildCount() {
		if !DeepMatches(first.Child(idx), second.Child(idx)) {
			return false
		}
	}

	return true
}

// DeepMatchesAnyOrder reports whether two subtrees match regardless of child
// order. Each child of first is paired with the first still-unused child of
// second that recursively matches it. The search is greedy: it may miss an
// assignment that a different local choice would have found.
func DeepMatchesAnyOrder(first, second Node) bool {
	if first == nil || second == nil {
		return first == second
	}

	if first == second || IsHole(first) || IsHole(second) {
		return true
	}

	count := first.ChildCount()
	if !first.Matches(second) || count != second.ChildCount() {
		return false
	}

	used := make([]bool, count)

	for idx := range count {
		if !claimMatchingChild(first.Child(idx), second, used) {
			return false
		}
	}

	return true
}

func claimMatchingChild(child, parent Node, used []bool) bool {
	for idx := range parent.ChildCount() {
		if used[idx] {
			continue
		}

		if DeepMatchesAnyOrder(child, parent.Child(idx)) {
			used[idx] = true

			return true
		}
	}

	return false
}

// DeepMatchesAuto uses ordered matching for nodes with strict child order and
// any-order matching for unbounded nodes, deciding at every level.
func DeepMatchesAuto(first, second Node) bool {
	if first == nil || second == nil {
		return first == second
	}

	if first == second || IsHole(first) || IsHole(second) {
		return true
	}

	count := first.ChildCount()
	if !first.Matches(second) || count != second.ChildCount() {
		return false
	}

	if IsOrdered(first) && IsOrdered(second) {
		for idx := range count {
			if !DeepMatchesAuto(first.Child(idx), second.Child(idx)) {
				return false
			}
		}

		return true
	}

	used := make([]bool, count)

	for idx := range count {
		if !claimAutoChild(first.Child(idx), second, used) {
			return false
		}
	}

	return true
}

func claimAutoChild(child, parent Node, used []bool) bool {
	for idx := range parent.ChildCount() {
		if !used[idx] && DeepMatchesAuto(child, parent.Child(idx)) {
			used[idx] = true

			return true
		}
	}

	return false
}
