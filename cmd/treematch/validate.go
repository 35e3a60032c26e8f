package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cqfn/patternika-sub000/pkg/textutil"
	"github.com/cqfn/patternika-sub000/pkg/uast"
)

// ErrValidationFailed is returned when a document violates the schema.
var ErrValidationFailed = errors.New("UAST validation failed")

func validateCmd(state *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a UAST JSON file against the UAST schema",
		Long: `Validate a UAST JSON file against the embedded UAST schema.

Examples:
  treematch validate tree.json
  treematch validate --quiet tree.json && echo ok`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.runValidate(cmd.OutOrStdout(), args[0], quiet)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print nothing, only set the exit status")

	return cmd
}

func (state *app) runValidate(writer io.Writer, path string, quiet bool) error {
	content, _, err := readLimited(path, state.cfg.Input.MaxFileBytes)
	if err != nil {
		return err
	}

	report, err := uast.Validate(content)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if report.Valid() {
		if !quiet {
			state.palette.ok.Fprintf(writer, "UAST is valid (%s)\n", path)
			fmt.Fprintf(writer, "  Nodes: %d\n", report.Nodes)
		}

		return nil
	}

	if quiet {
		return fmt.Errorf("%w: %s", ErrValidationFailed, path)
	}

	state.palette.failed.Fprintf(writer, "UAST validation failed (%s)\n", path)
	state.palette.modified.Fprintf(writer, "  Compliance: %d%%\n", report.Compliance)

	fmt.Fprintf(writer, "\nErrors:\n")

	for _, validationErr := range report.Errors {
		if validationErr.Value != "" {
			state.palette.removed.Fprintf(writer, "  - %s: %s (got %q)\n",
				validationErr.Field, validationErr.Description, textutil.ForTerminal(validationErr.Value))
		} else {
			state.palette.removed.Fprintf(writer, "  - %s: %s\n", validationErr.Field, validationErr.Description)
		}
	}

	if hints := recommendations(report.Errors); len(hints) > 0 {
		fmt.Fprintf(writer, "\nRecommendations:\n")

		for _, hint := range hints {
			state.palette.hint.Fprintf(writer, "  - %s\n", hint)
		}
	}

	return fmt.Errorf("%w: %s: %d errors", ErrValidationFailed, path, len(report.Errors))
}

// recommendations maps schema errors to fixes, once per kind, in the order
// the kinds first occur.
func recommendations(validationErrors []uast.ValidationError) []string {
	var hints []string

	seen := make(map[string]bool)

	for _, validationErr := range validationErrors {
		hint := classifyRecommendation(validationErr.Field, validationErr.Description)
		if hint == "" || seen[hint] {
			continue
		}

		seen[hint] = true
		hints = append(hints, hint)
	}

	return hints
}

func classifyRecommendation(field, description string) string {
	switch {
	case strings.Contains(description, "type is required"):
		return "Every UAST node must have a 'type' field"
	case strings.HasPrefix(field, "pos") || strings.Contains(field, ".pos"):
		return "Position fields are non-negative integers: " +
			"start_line, start_col, start_offset, end_line, end_col, end_offset"
	case strings.Contains(field, "props"):
		return "Properties in 'props' must be string key-value pairs; a Hole needs a numeric 'id'"
	case strings.Contains(description, "Additional property"):
		return "Allowed node fields are id, type, token, roles, pos, props, children"
	case strings.Contains(field, "roles"):
		return "Roles must be a list of distinct non-empty strings"
	case strings.Contains(field, "children"):
		return "Children must be an array of UAST nodes"
	default:
		return ""
	}
}
