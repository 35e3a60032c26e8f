package matcher

import "github.com/cqfn/patternika-sub000/pkg/tree"

// Position score weights: a level of the ancestor path contributes one unit
// for equal sibling order and one for equal type.
const scoreUnitsPerLevel = 2

type positionKey struct {
	first  *tree.Extended
	second *tree.Extended
}

// PositionMetric scores how similarly two nodes are placed in their trees,
// in [0, 1]. The deeper node is first lifted to the depth of the shallower
// one; the two ancestors found this way are compared level by level up to the
// roots (sibling order and type), and the result is divided by one plus the
// depth difference.
//
// Path scores are memoized per unordered pair of common-depth ancestors and
// written once; they are never invalidated.
type PositionMetric struct {
	scores map[positionKey]float64
	hits   int
	misses int
}

// NewPositionMetric creates an empty metric.
func NewPositionMetric() *PositionMetric {
	return &PositionMetric{scores: make(map[positionKey]float64)}
}

// Score returns the position similarity of first and second.
func (metric *PositionMetric) Score(first, second *tree.Extended) float64 {
	depth := min(first.Depth(), second.Depth())
	path := metric.pathScore(first.Ancestor(depth), second.Ancestor(depth))

	gap := first.Depth() - second.Depth()
	if gap < 0 {
		gap = -gap
	}

	return path / float64(1+gap)
}

// CacheStats returns the number of cache hits and misses so far.
func (metric *PositionMetric) CacheStats() (hits, misses int) {
	return metric.hits, metric.misses
}

func (metric *PositionMetric) pathScore(first, second *tree.Extended) float64 {
	key := positionKey{first: first, second: second}

	if cached, ok := metric.scores[key]; ok {
		metric.hits++

		return cached
	}

	metric.misses++

	levels, units := 0, 0

	for left, right := first, second; left != nil && right != nil; left, right = left.Parent(), right.Parent() {
		levels++

		if left.Order() == right.Order() {
			units++
		}

		if left.Type() == right.Type() {
			units++
		}
	}

	score := float64(units) / float64(levels*scoreUnitsPerLevel)

	metric.scores[key] = score
	metric.scores[positionKey{first: second, second: first}] = score

	return score
}
