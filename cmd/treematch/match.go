package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cqfn/patternika-sub000/pkg/config"
	"github.com/cqfn/patternika-sub000/pkg/matcher"
	"github.com/cqfn/patternika-sub000/pkg/textutil"
)

// matchArgCount is the number of arguments expected by the match command.
const matchArgCount = 2

type matchOptions struct {
	strategy      string
	format        string
	input         string
	minAnchorSize int
	noPrune       bool
	pairs         bool
}

type statsView struct {
	Duration   string `json:"duration"    yaml:"duration"`
	LeftSize   int    `json:"left_size"   yaml:"left_size"`
	RightSize  int    `json:"right_size"  yaml:"right_size"`
	Anchored   int    `json:"anchored"    yaml:"anchored"`
	PushedDown int    `json:"pushed_down" yaml:"pushed_down"`
	Raised     int    `json:"raised"      yaml:"raised"`
	Pruned     int    `json:"pruned"      yaml:"pruned"`
	Mapped     int    `json:"mapped"      yaml:"mapped"`
}

type changeView struct {
	Before *nodeView `json:"before,omitempty" yaml:"before,omitempty"`
	After  *nodeView `json:"after,omitempty"  yaml:"after,omitempty"`
	Kind   string    `json:"kind"             yaml:"kind"`
	Diff   string    `json:"diff,omitempty"   yaml:"diff,omitempty"`
}

type pairView struct {
	Left  nodeView `json:"left"  yaml:"left"`
	Right nodeView `json:"right" yaml:"right"`
}

type matchReport struct {
	Left     string       `json:"left"            yaml:"left"`
	Right    string       `json:"right"           yaml:"right"`
	Strategy string       `json:"strategy"        yaml:"strategy"`
	Changes  []changeView `json:"changes"         yaml:"changes"`
	Pairs    []pairView   `json:"pairs,omitempty" yaml:"pairs,omitempty"`
	Stats    statsView    `json:"stats"           yaml:"stats"`
}

func matchCmd(state *app) *cobra.Command {
	var opts matchOptions

	cmd := &cobra.Command{
		Use:   "match LEFT RIGHT",
		Short: "Map the nodes of two trees and list the differences",
		Long: `Map the nodes of two trees and list removed, added, and modified nodes.

Examples:
  treematch match before.yaml after.yaml
  treematch match --strategy root before.json after.json
  treematch match -f json --pairs before.yaml after.yaml`,
		Args: cobra.ExactArgs(matchArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.runMatch(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "mapping strategy: hash, root (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: table, json, yaml (default from config)")
	cmd.Flags().StringVar(&opts.input, "input", "", "input format: auto, yaml, uast (default from config)")
	cmd.Flags().IntVar(&opts.minAnchorSize, "min-anchor-size", 0, "smallest subtree hash anchoring may connect")
	cmd.Flags().BoolVar(&opts.noPrune, "no-prune", false, "keep weak connections")
	cmd.Flags().BoolVar(&opts.pairs, "pairs", false, "also list every mapped pair")

	return cmd
}

// resolve overlays the flags set on the command line onto the configuration.
//
//nolint:gocritic // config sections are small values copied on purpose.
func (opts matchOptions) resolve(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	if cmd.Flags().Changed("strategy") {
		cfg.Matcher.Strategy = opts.strategy
	}

	if cmd.Flags().Changed("min-anchor-size") {
		cfg.Matcher.MinAnchorSize = opts.minAnchorSize
	}

	if opts.noPrune {
		cfg.Matcher.Prune = false
	}

	if cmd.Flags().Changed("format") {
		cfg.Output.Format = opts.format
	}

	if cmd.Flags().Changed("input") {
		if err := validInputFormat(opts.input); err != nil {
			return cfg, err
		}

		cfg.Input.Format = opts.input
	}

	return cfg, validOutputFormat(cfg.Output.Format)
}

func (state *app) runMatch(cmd *cobra.Command, leftPath, rightPath string, opts matchOptions) error {
	cfg, err := opts.resolve(cmd, *state.cfg)
	if err != nil {
		return err
	}

	ctx, span := state.providers.Tracer.Start(cmd.Context(), "treematch.match",
		trace.WithAttributes(attribute.String("treematch.strategy", cfg.Matcher.Strategy)))
	defer span.End()

	mapper, err := matcher.NewMapper(cfg.Matcher.Strategy,
		append(cfg.Matcher.MatcherOptions(), matcher.WithLogger(state.providers.Logger))...)
	if err != nil {
		return err
	}

	left, err := loadTree(leftPath, cfg.Input)
	if err != nil {
		state.metrics.RecordError(ctx, "load")
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	right, err := loadTree(rightPath, cfg.Input)
	if err != nil {
		state.metrics.RecordError(ctx, "load")
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	result := matcher.MapTrees(mapper, left, right)

	state.metrics.RecordRun(ctx, cfg.Matcher.Strategy, result.Stats)
	span.SetAttributes(
		attribute.Int("treematch.left_size", result.Stats.LeftSize),
		attribute.Int("treematch.right_size", result.Stats.RightSize),
		attribute.Int("treematch.mapped", result.Stats.Mapped),
	)

	state.providers.Logger.InfoContext(ctx, "trees matched",
		"left", leftPath, "right", rightPath, "mapped", result.Stats.Mapped)

	report := buildMatchReport(leftPath, rightPath, cfg.Matcher.Strategy, result, opts.pairs)

	if cfg.Output.Format == config.OutputTable {
		state.palette.renderMatch(cmd.OutOrStdout(), report)

		return nil
	}

	return writeStructured(cmd.OutOrStdout(), cfg.Output.Format, report)
}

func buildMatchReport(leftPath, rightPath, strategy string, result *matcher.Result, withPairs bool) matchReport {
	report := matchReport{
		Left:     leftPath,
		Right:    rightPath,
		Strategy: strategy,
		Changes:  []changeView{},
		Stats: statsView{
			Duration:   result.Stats.Duration.String(),
			LeftSize:   result.Stats.LeftSize,
			RightSize:  result.Stats.RightSize,
			Anchored:   result.Stats.Anchored,
			PushedDown: result.Stats.PushedDown,
			Raised:     result.Stats.Raised,
			Pruned:     result.Stats.Pruned,
			Mapped:     result.Stats.Mapped,
		},
	}

	for _, change := range result.Changes() {
		view := changeView{
			Kind:   change.Type.String(),
			Before: viewPtr(change.Before),
			After:  viewPtr(change.After),
		}

		if change.Type == matcher.ChangeModified {
			view.Diff = dataDiff(change.Before.Data(), change.After.Data())
		}

		report.Changes = append(report.Changes, view)
	}

	if withPairs {
		for _, pair := range result.Pairs() {
			report.Pairs = append(report.Pairs, pairView{Left: viewOf(pair.Left), Right: viewOf(pair.Right)})
		}
	}

	return report
}

func (colors palette) renderMatch(writer io.Writer, report matchReport) {
	counts := make(map[string]int)

	if len(report.Changes) == 0 {
		colors.ok.Fprintln(writer, "No differences.")
	} else {
		tbl := newTable(writer)
		tbl.AppendHeader(table.Row{"Change", "Left", "Right", "Diff"})

		for _, change := range report.Changes {
			counts[change.Kind]++

			tbl.AppendRow(table.Row{
				colors.forKind(change.Kind).Sprint(change.Kind),
				labelOf(change.Before),
				labelOf(change.After),
				textutil.ForTerminal(change.Diff),
			})
		}

		tbl.Render()
	}

	if len(report.Pairs) > 0 {
		fmt.Fprintln(writer)

		tbl := newTable(writer)
		tbl.AppendHeader(table.Row{"Left", "Right"})

		for _, pair := range report.Pairs {
			tbl.AppendRow(table.Row{pair.Left.label(), pair.Right.label()})
		}

		tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %s pairs", humanize.Comma(int64(len(report.Pairs))))})
		tbl.Render()
	}

	fmt.Fprintf(writer, "\n%s of %s left nodes mapped to %s right nodes: %s removed, %s added, %s modified, %s pruned (%s)\n",
		humanize.Comma(int64(report.Stats.Mapped)),
		humanize.Comma(int64(report.Stats.LeftSize)),
		humanize.Comma(int64(report.Stats.RightSize)),
		humanize.Comma(int64(counts[matcher.ChangeRemoved.String()])),
		humanize.Comma(int64(counts[matcher.ChangeAdded.String()])),
		humanize.Comma(int64(counts[matcher.ChangeModified.String()])),
		humanize.Comma(int64(report.Stats.Pruned)),
		report.Stats.Duration,
	)
}

func (colors palette) forKind(kind string) *color.Color {
	switch kind {
	case matcher.ChangeRemoved.String():
		return colors.removed
	case matcher.ChangeAdded.String():
		return colors.added
	default:
		return colors.modified
	}
}

func labelOf(view *nodeView) string {
	if view == nil {
		return ""
	}

	return view.label()
}
