package matcher

import "github.com/cqfn/patternika-sub000/pkg/tree"

// ChangeType classifies a node-level difference between two trees.
type ChangeType int

// Change type constants.
const (
	ChangeAdded ChangeType = iota
	ChangeRemoved
	ChangeModified
)

func (ct ChangeType) String() string {
	switch ct {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Change is one difference derived from a mapping. Before is nil for added
// nodes and After is nil for removed ones.
type Change struct {
	Before *tree.Extended
	After  *tree.Extended
	Type   ChangeType
}

// Changes lists removed left nodes, then modified pairs, then added right
// nodes, each group in breadth-first order.
func (result *Result) Changes() []Change {
	removed, added := result.Unmapped()
	updated := result.Updated()

	changes := make([]Change, 0, len(removed)+len(updated)+len(added))

	for _, node := range removed {
		changes = append(changes, Change{Before: node, Type: ChangeRemoved})
	}

	for _, pair := range updated {
		changes = append(changes, Change{Before: pair.Left, After: pair.Right, Type: ChangeModified})
	}

	for _, node := range added {
		changes = append(changes, Change{After: node, Type: ChangeAdded})
	}

	return changes
}
