package uast

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/cqfn/patternika-sub000/pkg/tree"
	"github.com/cqfn/patternika-sub000/pkg/tree/registry"
)

// ErrInvalidHole is returned for a Hole node without a valid numeric id or
// with children.
var ErrInvalidHole = errors.New("invalid hole")

// containerTypes are adapted as unbounded, unordered-compare nodes.
//
//nolint:gochecknoglobals // Read-only default set.
var containerTypes = []Type{
	TypeFile, TypeModule, TypePackage, TypeNamespace, TypeBlock,
	TypeClass, TypeStruct, TypeInterface, TypeEnum, TypeSwitch,
	TypeList, TypeDict, TypeSet, TypeTuple,
}

// Adapter converts UAST nodes to tree nodes.
//
// Token becomes the node data and Positions the fragment. Types known to the
// adapter's registry are built through it; every other type becomes a Draft
// whose arity is fixed to its child count. A "Hole" node becomes a tree hole
// numbered by its "id" property. Roles, IDs and the remaining properties do
// not take part in matching and are dropped.
type Adapter struct {
	registry *registry.Registry
	source   string
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithSource sets the source name recorded in every fragment.
func WithSource(source string) AdapterOption {
	return func(adapter *Adapter) {
		adapter.source = source
	}
}

// WithRegistry replaces the default registry, which knows the container types
// as unbounded nodes.
func WithRegistry(reg *registry.Registry) AdapterOption {
	return func(adapter *Adapter) {
		if reg != nil {
			adapter.registry = reg
		}
	}
}

// DefaultRegistry returns a strict registry with every container type
// registered as unbounded.
func DefaultRegistry() *registry.Registry {
	reg := registry.New()

	for _, containerType := range containerTypes {
		reg.Generic(string(containerType), tree.Unbounded)
	}

	return reg
}

// NewAdapter creates an adapter.
func NewAdapter(opts ...AdapterOption) *Adapter {
	adapter := &Adapter{registry: DefaultRegistry()}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// Adapt converts a UAST tree with the default adapter settings.
func Adapt(root *Node, opts ...AdapterOption) (tree.Node, error) {
	return NewAdapter(opts...).Adapt(root)
}

// Adapt converts the subtree rooted at root.
func (adapter *Adapter) Adapt(root *Node) (tree.Node, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrSchema)
	}

	return adapter.adapt(root, "$")
}

func (adapter *Adapter) adapt(uastNode *Node, path string) (tree.Node, error) {
	fragment := adapter.fragment(uastNode.Pos)

	if uastNode.Type == TypeHole {
		return adaptHole(uastNode, fragment, path)
	}

	children := make([]tree.Node, 0, len(uastNode.Children))

	for idx, child := range uastNode.Children {
		if child == nil {
			return nil, fmt.Errorf("%w: %s.children[%d] is null", ErrSchema, path, idx)
		}

		adapted, err := adapter.adapt(child, path+".children["+strconv.Itoa(idx)+"]")
		if err != nil {
			return nil, err
		}

		children = append(children, adapted)
	}

	nodeType := string(uastNode.Type)
	if nodeType == "" {
		return nil, fmt.Errorf("%w: %s has no type", ErrSchema, path)
	}

	if adapter.registry.Has(nodeType) {
		created, err := adapter.registry.Create(nodeType, fragment, uastNode.Token, children)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		return created, nil
	}

	return tree.NewDraft(nodeType, uastNode.Token, fragment, children, len(children)), nil
}

func adaptHole(uastNode *Node, fragment tree.Fragment, path string) (tree.Node, error) {
	if len(uastNode.Children) > 0 {
		return nil, fmt.Errorf("%w: %s has children", ErrInvalidHole, path)
	}

	holeID, err := strconv.Atoi(uastNode.Props[PropHoleID])
	if err != nil || holeID < 0 {
		return nil, fmt.Errorf("%w: %s has id %q", ErrInvalidHole, path, uastNode.Props[PropHoleID])
	}

	return tree.NewHoleAt(holeID, fragment), nil
}

func (adapter *Adapter) fragment(pos *Positions) tree.Fragment {
	if pos == nil {
		return tree.Fragment{Source: adapter.source}
	}

	return tree.Fragment{
		Source: adapter.source,
		Begin:  tree.Position{Line: pos.StartLine, Column: pos.StartCol, Offset: pos.StartOffset},
		End:    tree.Position{Line: pos.EndLine, Column: pos.EndCol, Offset: pos.EndOffset},
	}
}
