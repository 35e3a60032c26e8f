// Package uast reads trees in the UAST JSON interchange format and adapts
// them to tree.Node so they can be matched.
package uast

import (
	"strings"
)

// Node types with an open number of children. Every other type is adapted
// with a fixed arity equal to its child count.
const (
	TypeFile      Type = "File"
	TypeModule    Type = "Module"
	TypePackage   Type = "Package"
	TypeNamespace Type = "Namespace"
	TypeBlock     Type = "Block"
	TypeClass     Type = "Class"
	TypeStruct    Type = "Struct"
	TypeInterface Type = "Interface"
	TypeEnum      Type = "Enum"
	TypeSwitch    Type = "Switch"
	TypeList      Type = "List"
	TypeDict      Type = "Dict"
	TypeSet       Type = "Set"
	TypeTuple     Type = "Tuple"
)

// TypeHole marks a pattern placeholder. Its "id" property holds the hole
// number.
const TypeHole Type = "Hole"

// PropHoleID is the property holding a hole's number.
const PropHoleID = "id"

// Role is a syntactic or semantic label of a node.
type Role string

// Type is the type label of a node.
type Type string

// Positions holds the line/column (1-based) and byte offsets of a node.
type Positions struct {
	StartLine   uint `json:"start_line,omitempty"`
	StartCol    uint `json:"start_col,omitempty"`
	StartOffset uint `json:"start_offset,omitempty"`
	EndLine     uint `json:"end_line,omitempty"`
	EndCol      uint `json:"end_col,omitempty"`
	EndOffset   uint `json:"end_offset,omitempty"`
}

// Node is one node of a UAST document.
type Node struct {
	ID       string            `json:"id,omitempty"`
	Token    string            `json:"token,omitempty"`
	Type     Type              `json:"type,omitempty"`
	Roles    []Role            `json:"roles,omitempty"`
	Pos      *Positions        `json:"pos,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// Size returns the number of nodes in the subtree. A nil node has size 0.
func (uastNode *Node) Size() int {
	if uastNode == nil {
		return 0
	}

	size := 0
	stack := []*Node{uastNode}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current == nil {
			continue
		}

		size++

		stack = append(stack, current.Children...)
	}

	return size
}

// String renders the node as Type(token)[roles]{children}.
func (uastNode *Node) String() string {
	if uastNode == nil {
		return "<nil>"
	}

	var buf strings.Builder

	writeNode(&buf, uastNode)

	return buf.String()
}

func writeNode(buf *strings.Builder, uastNode *Node) {
	if uastNode == nil {
		buf.WriteString("<nil>")

		return
	}

	buf.WriteString(string(uastNode.Type))

	if uastNode.Token != "" {
		buf.WriteString("(")
		buf.WriteString(uastNode.Token)
		buf.WriteString(")")
	}

	if len(uastNode.Roles) > 0 {
		roles := make([]string, len(uastNode.Roles))
		for idx, role := range uastNode.Roles {
			roles[idx] = string(role)
		}

		buf.WriteString("[")
		buf.WriteString(strings.Join(roles, ","))
		buf.WriteString("]")
	}

	if len(uastNode.Children) == 0 {
		return
	}

	buf.WriteString("{")

	for idx, child := range uastNode.Children {
		if idx > 0 {
			buf.WriteString(", ")
		}

		writeNode(buf, child)
	}

	buf.WriteString("}")
}
