// Package matcher builds node correspondences between two trees.
//
// A matching session extends a few high-confidence anchors into a full
// mapping. PushDown propagates a connected pair into its children, Upraise
// propagates toward the roots, and WeakChain prunes connections whose
// neighbourhood is inconsistent. Mapper strategies orchestrate the phases.
//
// The engine is single-threaded and deterministic. Every cache (structural
// hashes, position scores) belongs to one Session and must not be shared
// across concurrent sessions.
package matcher

import (
	"io"
	"log/slog"
	"time"

	"github.com/cqfn/patternika-sub000/pkg/mapping"
	"github.com/cqfn/patternika-sub000/pkg/tree"
)

// Table is the correspondence between the extended views of two trees.
type Table = mapping.Mapping[*tree.Extended]

// defaultMinAnchorSize excludes single leaves from hash anchoring: identical
// identifiers occur everywhere and make poor anchors.
const defaultMinAnchorSize = 2

// Stats counts what each phase of a session did.
type Stats struct {
	LeftSize   int
	RightSize  int
	Anchored   int
	PushedDown int
	Raised     int
	Pruned     int
	Mapped     int
	Duration   time.Duration
}

type options struct {
	logger        *slog.Logger
	minAnchorSize int
	prune         bool
}

// Option configures a Session or a Mapper.
type Option func(*options)

// WithLogger sets the logger that receives the debug summary of each run.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithPruning enables or disables the final weak-connection pruning phase.
// It is enabled by default.
func WithPruning(enabled bool) Option {
	return func(opts *options) {
		opts.prune = enabled
	}
}

// WithMinAnchorSize sets the smallest subtree, in nodes, that hash anchoring
// may connect. Values below 1 are treated as 1.
func WithMinAnchorSize(size int) Option {
	return func(opts *options) {
		opts.minAnchorSize = max(size, 1)
	}
}

func buildOptions(opts []Option) options {
	built := options{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		minAnchorSize: defaultMinAnchorSize,
		prune:         true,
	}

	for _, opt := range opts {
		opt(&built)
	}

	return built
}

// Session owns the caches of one matching run.
type Session struct {
	hasher   *tree.Hasher
	position *PositionMetric
	logger   *slog.Logger
	opts     options
	stats    Stats
}

// NewSession creates a session with fresh caches.
func NewSession(opts ...Option) *Session {
	built := buildOptions(opts)

	return &Session{
		hasher:   tree.NewHasher(),
		position: NewPositionMetric(),
		logger:   built.logger,
		opts:     built,
	}
}

// Hasher returns the session's structural hasher.
func (session *Session) Hasher() *tree.Hasher { return session.hasher }

// Position returns the session's position metric.
func (session *Session) Position() *PositionMetric { return session.position }

// Stats returns the counters accumulated so far.
func (session *Session) Stats() Stats { return session.stats }

// connect links a pair found by propagation and descends into it.
func (session *Session) connect(table *Table, left, right *tree.Extended) {
	table.Connect(left, right)
	session.stats.PushedDown++
	session.PushDown(table, left, right)
}
