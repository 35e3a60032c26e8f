// Package registry builds trees from type names. A Registry maps a node type
// identifier to a constructor, so tests and pattern files can describe trees
// without a dedicated Go type per node kind.
package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/cqfn/patternika-sub000/pkg/tree"
)

// Sentinel errors for tree construction.
var (
	ErrUnknownType = errors.New("unknown node type")
	ErrInvalidTree = errors.New("invalid tree description")
)

// Constructor creates a node of one type from its fragment, data, and children.
type Constructor func(fragment tree.Fragment, data string, children []tree.Node) (tree.Node, error)

// Registry maps node type identifiers to constructors. It is not safe for
// concurrent registration; lookups after setup are read-only.
type Registry struct {
	constructors map[string]Constructor
	lenient      bool
}

// New creates an empty strict registry: creating an unregistered type fails.
func New() *Registry {
	return &Registry{constructors: make(map[string]Constructor)}
}

// NewLenient creates a registry that builds unbounded Draft nodes for any
// type that has no registered constructor.
func NewLenient() *Registry {
	registry := New()
	registry.lenient = true

	return registry
}

// Register binds a constructor to a type. It panics on an empty type or a nil
// constructor, and replaces any previous binding.
func (registry *Registry) Register(nodeType string, constructor Constructor) *Registry {
	if nodeType == "" {
		panic("registry: empty node type")
	}

	if constructor == nil {
		panic("registry: nil constructor for " + nodeType)
	}

	registry.constructors[nodeType] = constructor

	return registry
}

// Generic registers a Draft-backed constructor for nodeType with the given
// maximum child count (tree.Unbounded for lists).
func (registry *Registry) Generic(nodeType string, maxChildren int) *Registry {
	return registry.Register(nodeType, DraftConstructor(nodeType, maxChildren))
}

// DraftConstructor returns a constructor producing Draft nodes. It fails
// instead of panicking when the children exceed maxChildren.
func DraftConstructor(nodeType string, maxChildren int) Constructor {
	return func(fragment tree.Fragment, data string, children []tree.Node) (tree.Node, error) {
		if maxChildren != tree.Unbounded && len(children) > maxChildren {
			return nil, fmt.Errorf("%w: %s accepts at most %d children, got %d",
				ErrInvalidTree, nodeType, maxChildren, len(children))
		}

		return tree.NewDraft(nodeType, data, fragment, children, maxChildren), nil
	}
}

// Has reports whether a constructor is registered for nodeType.
func (registry *Registry) Has(nodeType string) bool {
	_, ok := registry.constructors[nodeType]

	return ok
}

// Types returns the registered type identifiers in sorted order.
func (registry *Registry) Types() []string {
	return slices.Sorted(maps.Keys(registry.constructors))
}

// Create builds a node of the given type.
func (registry *Registry) Create(
	nodeType string, fragment tree.Fragment, data string, children []tree.Node,
) (tree.Node, error) {
	constructor, ok := registry.constructors[nodeType]
	if !ok {
		if !registry.lenient || nodeType == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, nodeType)
		}

		constructor = DraftConstructor(nodeType, tree.Unbounded)
	}

	created, err := constructor(fragment, data, children)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", nodeType, err)
	}

	return created, nil
}

// MustCreate is like Create but panics on error. It is meant for test
// fixtures and pattern code where an unknown type is a programming error.
func (registry *Registry) MustCreate(
	nodeType string, fragment tree.Fragment, data string, children ...tree.Node,
) tree.Node {
	created, err := registry.Create(nodeType, fragment, data, children)
	if err != nil {
		panic(err)
	}

	return created
}
