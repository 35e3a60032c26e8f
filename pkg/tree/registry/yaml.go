package registry

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cqfn/patternika-sub000/pkg/tree"
)

// Description is the serializable form of a tree:
//
//	type: Call
//	data: print
//	children:
//	  - type: Literal
//	    data: "1"
//	  - hole: 1
//
// An entry with a hole key describes a hole and ignores every other field.
type Description struct {
	Hole     *int           `json:"hole,omitempty"     yaml:"hole,omitempty"`
	Fragment *tree.Fragment `json:"fragment,omitempty" yaml:"fragment,omitempty"`
	Type     string         `json:"type,omitempty"     yaml:"type,omitempty"`
	Data     string         `json:"data,omitempty"     yaml:"data,omitempty"`
	Children []Description  `json:"children,omitempty" yaml:"children,omitempty"`
}

// DecodeYAML reads one tree description from reader and builds it.
func (registry *Registry) DecodeYAML(reader io.Reader) (tree.Node, error) {
	var desc Description

	err := yaml.NewDecoder(reader).Decode(&desc)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidTree)
		}

		return nil, fmt.Errorf("decode tree yaml: %w", err)
	}

	return registry.Build(desc)
}

// Build constructs the tree described by desc, children first.
func (registry *Registry) Build(desc Description) (tree.Node, error) {
	return registry.build(desc, "$")
}

func (registry *Registry) build(desc Description, path string) (tree.Node, error) {
	var fragment tree.Fragment
	if desc.Fragment != nil {
		fragment = *desc.Fragment
	}

	if desc.Hole != nil {
		return tree.NewHoleAt(*desc.Hole, fragment), nil
	}

	if desc.Type == "" {
		return nil, fmt.Errorf("%w: missing type at %s", ErrInvalidTree, path)
	}

	children := make([]tree.Node, 0, len(desc.Children))

	for idx, childDesc := range desc.Children {
		child, err := registry.build(childDesc, fmt.Sprintf("%s.children[%d]", path, idx))
		if err != nil {
			return nil, err
		}

		children = append(children, child)
	}

	created, err := registry.Create(desc.Type, fragment, desc.Data, children)
	if err != nil {
		return nil, fmt.Errorf("at %s: %w", path, err)
	}

	return created, nil
}

// Describe converts a tree back into its serializable form. Extended views
// are described through their underlying nodes.
func Describe(n tree.Node) Description {
	if hole, ok := tree.AsHole(n); ok {
		id := hole.HoleID()

		return Description{Hole: &id, Fragment: fragmentPtr(hole.Fragment())}
	}

	desc := Description{
		Type:     n.Type(),
		Data:     n.Data(),
		Fragment: fragmentPtr(n.Fragment()),
	}

	for idx := range n.ChildCount() {
		desc.Children = append(desc.Children, Describe(n.Child(idx)))
	}

	return desc
}

func fragmentPtr(fragment tree.Fragment) *tree.Fragment {
	if fragment.IsEmpty() {
		return nil
	}

	return &fragment
}
