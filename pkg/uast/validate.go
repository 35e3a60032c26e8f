package uast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/xeipuuv/gojsonschema"

	"github.com/cqfn/patternika-sub000/pkg/uast/spec"
)

// complianceMax is the compliance of a document without errors.
const complianceMax = 100

// Sentinel errors for UAST loading.
var (
	ErrInvalidJSON = errors.New("invalid UAST JSON")
	ErrSchema      = errors.New("UAST schema violation")
)

// ValidationError describes one schema violation.
type ValidationError struct {
	Field       string
	Description string
	Value       string
}

// Report is the outcome of validating a UAST document.
type Report struct {
	Errors     []ValidationError
	Nodes      int
	Compliance int
}

// Valid reports whether the document satisfies the schema.
func (report *Report) Valid() bool {
	return len(report.Errors) == 0
}

// Validate checks a UAST document against the embedded schema. Malformed
// JSON is an error; schema violations are listed in the report.
func Validate(data []byte) (*Report, error) {
	var document any

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	if err := decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(spec.Schema),
		gojsonschema.NewGoLoader(document),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	report := &Report{Nodes: countNodes(document)}

	for _, resultErr := range result.Errors() {
		report.Errors = append(report.Errors, ValidationError{
			Field:       resultErr.Field(),
			Description: resultErr.Description(),
			Value:       formatValue(resultErr.Value()),
		})
	}

	report.Compliance = compliance(report.Nodes, len(report.Errors))

	return report, nil
}

// Parse validates a UAST document and decodes it.
func Parse(data []byte) (*Node, error) {
	report, err := Validate(data)
	if err != nil {
		return nil, err
	}

	if !report.Valid() {
		first := report.Errors[0]

		return nil, fmt.Errorf("%w: %s: %s (%d errors)", ErrSchema, first.Field, first.Description, len(report.Errors))
	}

	var root Node

	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	return &root, nil
}

// Load reads, validates, and decodes a UAST document.
func Load(reader io.Reader) (*Node, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read UAST: %w", err)
	}

	return Parse(data)
}

func compliance(nodes, errorCount int) int {
	if nodes == 0 {
		return 0
	}

	valid := nodes - errorCount

	return min(max(valid*complianceMax/nodes, 0), complianceMax)
}

func countNodes(data any) int {
	object, ok := data.(map[string]any)
	if !ok {
		return 0
	}

	count := 1

	if children, hasChildren := object["children"].([]any); hasChildren {
		for _, child := range children {
			count += countNodes(child)
		}
	}

	return count
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case json.Number:
		return typed.String()
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}
