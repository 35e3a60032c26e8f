package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"

	"github.com/cqfn/patternika-sub000/pkg/config"
	"github.com/cqfn/patternika-sub000/pkg/textutil"
	"github.com/cqfn/patternika-sub000/pkg/tree"
)

// ErrUnsupportedFormat is returned for an unknown --format value.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// nodeView is the printable identity of one extended node.
type nodeView struct {
	Path     string `json:"path"               yaml:"path"`
	Type     string `json:"type"               yaml:"type"`
	Data     string `json:"data,omitempty"     yaml:"data,omitempty"`
	Fragment string `json:"fragment,omitempty" yaml:"fragment,omitempty"`
}

func viewOf(ext *tree.Extended) nodeView {
	return nodeView{
		Path:     nodePath(ext),
		Type:     ext.Type(),
		Data:     ext.Data(),
		Fragment: ext.Fragment().String(),
	}
}

func viewPtr(ext *tree.Extended) *nodeView {
	if ext == nil {
		return nil
	}

	view := viewOf(ext)

	return &view
}

// nodePath renders the child indexes leading from the root to ext, e.g.
// "/0/2". The root is "/".
func nodePath(ext *tree.Extended) string {
	var orders []string

	for current := ext; current.Parent() != nil; current = current.Parent() {
		orders = append(orders, strconv.Itoa(current.Order()))
	}

	if len(orders) == 0 {
		return "/"
	}

	var buf strings.Builder

	for idx := len(orders) - 1; idx >= 0; idx-- {
		buf.WriteString("/")
		buf.WriteString(orders[idx])
	}

	return buf.String()
}

// maxLabelData caps the data shown in a table cell.
const maxLabelData = 60

// label is the one-cell rendering of a node: path, type, and quoted data.
func (view nodeView) label() string {
	rendered := view.Path + " " + view.Type
	if view.Data != "" {
		rendered += " " + strconv.Quote(textutil.Truncate(view.Data, maxLabelData))
	}

	return textutil.ForTerminal(rendered)
}

// dataDiff renders a character diff of two data strings with [-deleted-]
// and {+inserted+} markers. Equal strings yield "".
func dataDiff(before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	var buf strings.Builder

	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			buf.WriteString("[-" + diff.Text + "-]")
		case diffmatchpatch.DiffInsert:
			buf.WriteString("{+" + diff.Text + "+}")
		case diffmatchpatch.DiffEqual:
			buf.WriteString(diff.Text)
		}
	}

	return buf.String()
}

// newTable returns a borderless go-pretty table writing to writer. Footers
// keep their case.
func newTable(writer io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(writer)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Format.Footer = text.FormatDefault

	return tbl
}

// writeStructured encodes report as JSON or YAML.
func writeStructured(writer io.Writer, format string, report any) error {
	switch format {
	case config.OutputJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case config.OutputYAML:
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(2)

		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		if err := encoder.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func validOutputFormat(format string) error {
	switch format {
	case config.OutputTable, config.OutputJSON, config.OutputYAML:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
