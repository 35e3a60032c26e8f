package matcher

import "github.com/cqfn/patternika-sub000/pkg/tree"

// PushDown extends a connected pair of equal type into their unconnected
// children. Four passes of decreasing strictness run in turn, each only while
// both sides still have unconnected children:
//
//  1. by position, equal similarity hash;
//  2. every left child against every right child, equal similarity hash;
//  3. every left child against every right child, Matches;
//  4. by position, equal type and child count, only when both sides have the
//     same number of unconnected children left.
//
// Every pair connected by a pass is pushed down recursively.
func (session *Session) PushDown(table *Table, left, right *tree.Extended) {
	if left.Type() != right.Type() {
		return
	}

	leftChildren, rightChildren := left.Children(), right.Children()

	passes := []func(*Table, []*tree.Extended, []*tree.Extended){
		session.linearHashPass,
		session.productHashPass,
		session.productMatchPass,
		session.linearShapePass,
	}

	for _, pass := range passes {
		if !anyUnconnected(table, leftChildren) || !anyUnconnected(table, rightChildren) {
			return
		}

		pass(table, leftChildren, rightChildren)
	}
}

func anyUnconnected(table *Table, nodes []*tree.Extended) bool {
	for _, current := range nodes {
		if !table.Contains(current) {
			return true
		}
	}

	return false
}

func unconnected(table *Table, nodes []*tree.Extended) []*tree.Extended {
	result := make([]*tree.Extended, 0, len(nodes))

	for _, current := range nodes {
		if !table.Contains(current) {
			result = append(result, current)
		}
	}

	return result
}

func (session *Session) linearHashPass(table *Table, left, right []*tree.Extended) {
	for idx := range min(len(left), len(right)) {
		leftChild, rightChild := left[idx], right[idx]

		if table.Contains(leftChild) || table.Contains(rightChild) {
			continue
		}

		if session.hasher.Similarity(leftChild) == session.hasher.Similarity(rightChild) {
			session.connect(table, leftChild, rightChild)
		}
	}
}

func (session *Session) productHashPass(table *Table, left, right []*tree.Extended) {
	session.productPass(table, left, right, func(leftChild, rightChild *tree.Extended) bool {
		return session.hasher.Similarity(leftChild) == session.hasher.Similarity(rightChild)
	})
}

func (session *Session) productMatchPass(table *Table, left, right []*tree.Extended) {
	session.productPass(table, left, right, func(leftChild, rightChild *tree.Extended) bool {
		return leftChild.Matches(rightChild)
	})
}

// productPass connects every unconnected left node to the first unconnected
// right node accepted by the predicate.
func (session *Session) productPass(
	table *Table, left, right []*tree.Extended, accept func(*tree.Extended, *tree.Extended) bool,
) {
	for _, leftChild := range left {
		if table.Contains(leftChild) {
			continue
		}

		for _, rightChild := range right {
			if table.Contains(rightChild) || !accept(leftChild, rightChild) {
				continue
			}

			session.connect(table, leftChild, rightChild)

			break
		}
	}
}

func (session *Session) linearShapePass(table *Table, left, right []*tree.Extended) {
	leftRest, rightRest := unconnected(table, left), unconnected(table, right)
	if len(leftRest) != len(rightRest) {
		return
	}

	for idx, leftChild := range leftRest {
		rightChild := rightRest[idx]

		if leftChild.Type() == rightChild.Type() && leftChild.ChildCount() == rightChild.ChildCount() {
			session.connect(table, leftChild, rightChild)
		}
	}
}
