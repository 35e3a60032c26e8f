package matcher

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cqfn/patternika-sub000/pkg/mapping"
	"github.com/cqfn/patternika-sub000/pkg/tree"
)

// Strategy names accepted by NewMapper.
const (
	StrategyHash = "hash"
	StrategyRoot = "root"
)

// ErrUnknownStrategy is returned by NewMapper for an unsupported name.
var ErrUnknownStrategy = errors.New("unknown mapper strategy")

// Mapper builds the correspondence between two extended trees.
type Mapper interface {
	Map(left, right *tree.Extended) *Result
}

// AnchorFunc seeds the table before propagation. Implementations connect
// pairs they are confident about; the pipeline extends them.
type AnchorFunc func(session *Session, table *Table, left, right *tree.Extended)

// Pipeline is the template strategy shared by every mapper:
//
//  1. the Anchor hook, when set;
//  2. connect the roots if their types agree and neither is mapped yet;
//  3. push down from the roots;
//  4. for every left node, breadth-first, that is still unmapped, push down
//     from its parent and the parent's partner;
//  5. weak-connection pruning over the breadth-first left sequence.
type Pipeline struct {
	Anchor AnchorFunc
	Name   string
	opts   []Option
}

// NewRootMapper returns a pipeline with no anchor hook: the roots are the
// only anchor.
func NewRootMapper(opts ...Option) *Pipeline {
	return &Pipeline{Name: StrategyRoot, opts: opts}
}

// NewHashMapper returns a pipeline that anchors identical subtrees found
// through the similarity hash before propagating from the roots.
func NewHashMapper(opts ...Option) *Pipeline {
	return &Pipeline{Name: StrategyHash, Anchor: HashAnchor, opts: opts}
}

// NewMapper returns the strategy registered under name.
func NewMapper(name string, opts ...Option) (*Pipeline, error) {
	switch name {
	case StrategyHash:
		return NewHashMapper(opts...), nil
	case StrategyRoot:
		return NewRootMapper(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Map runs the pipeline in a fresh session.
func (pipeline *Pipeline) Map(left, right *tree.Extended) *Result {
	return pipeline.Run(NewSession(pipeline.opts...), left, right)
}

// Run runs the pipeline in the given session, reusing its caches.
func (pipeline *Pipeline) Run(session *Session, left, right *tree.Extended) *Result {
	started := time.Now()
	table := mapping.New[*tree.Extended]()

	leftNodes := tree.BreadthFirst(left)
	session.stats.LeftSize = len(leftNodes)
	session.stats.RightSize = len(tree.BreadthFirst(right))

	if pipeline.Anchor != nil {
		pipeline.Anchor(session, table, left, right)
	}

	if left.Type() == right.Type() && !table.Contains(left) && !table.Contains(right) {
		table.Connect(left, right)
	}

	if table.Connected(left, right) {
		session.PushDown(table, left, right)
	}

	for _, current := range leftNodes {
		session.recoverFromParent(table, current)
	}

	if session.opts.prune {
		session.stats.Pruned = WeakChain(table, leftNodes)
	}

	session.stats.Mapped = countMapped(table, leftNodes)
	session.stats.Duration = time.Since(started)

	session.logger.Debug("tree mapping complete",
		slog.String("strategy", pipeline.Name),
		slog.Int("left_size", session.stats.LeftSize),
		slog.Int("right_size", session.stats.RightSize),
		slog.Int("anchored", session.stats.Anchored),
		slog.Int("pushed_down", session.stats.PushedDown),
		slog.Int("raised", session.stats.Raised),
		slog.Int("pruned", session.stats.Pruned),
		slog.Int("mapped", session.stats.Mapped),
		slog.Duration("duration", session.stats.Duration),
	)

	return &Result{Left: left, Right: right, Mapping: table, Stats: session.stats}
}

// recoverFromParent retries propagation for an unmapped node whose parent
// is mapped, catching children the first descent missed.
func (session *Session) recoverFromParent(table *Table, current *tree.Extended) {
	if table.Contains(current) {
		return
	}

	parent := current.Parent()
	if parent == nil {
		return
	}

	if partner, ok := table.Get(parent); ok {
		session.PushDown(table, parent, partner)
	}
}

func countMapped(table *Table, nodes []*tree.Extended) int {
	mapped := 0

	for _, current := range nodes {
		if table.Contains(current) {
			mapped++
		}
	}

	return mapped
}

// HashAnchor connects unmapped left subtrees, largest first, to unmapped
// right subtrees with the same similarity hash that also deep-match them.
// Among several candidates the one with the best position score wins, the
// earliest breadth-first on ties. Every anchor is pushed down and its parents
// are upraised.
func HashAnchor(session *Session, table *Table, left, right *tree.Extended) {
	hasher := session.hasher

	candidates := make(map[uint64][]*tree.Extended)
	for _, current := range tree.BreadthFirst(right) {
		key := hasher.Similarity(current)
		candidates[key] = append(candidates[key], current)
	}

	sizes := subtreeSizes(left)
	leftNodes := tree.BreadthFirst(left)

	sort.SliceStable(leftNodes, func(i, j int) bool {
		return sizes[leftNodes[i]] > sizes[leftNodes[j]]
	})

	for _, current := range leftNodes {
		if sizes[current] < session.opts.minAnchorSize || table.Contains(current) {
			continue
		}

		best := session.bestCandidate(table, current, candidates[hasher.Similarity(current)])
		if best == nil {
			continue
		}

		table.Connect(current, best)
		session.stats.Anchored++

		session.PushDown(table, current, best)

		if current.Parent() != nil && best.Parent() != nil {
			session.Upraise(table, current.Parent(), best.Parent())
		}
	}
}

func (session *Session) bestCandidate(table *Table, current *tree.Extended, bucket []*tree.Extended) *tree.Extended {
	var (
		best      *tree.Extended
		bestScore float64
	)

	for _, candidate := range bucket {
		if table.Contains(candidate) || !tree.DeepMatches(current, candidate) {
			continue
		}

		score := session.position.Score(current, candidate)
		if best == nil || score > bestScore {
			best, bestScore = candidate, score
		}
	}

	return best
}

func subtreeSizes(root *tree.Extended) map[*tree.Extended]int {
	sizes := make(map[*tree.Extended]int)

	for _, current := range tree.DepthDescending(root) {
		size := 1
		for _, child := range current.Children() {
			size += sizes[child]
		}

		sizes[current] = size
	}

	return sizes
}
