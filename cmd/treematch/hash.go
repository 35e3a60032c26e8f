package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cqfn/patternika-sub000/pkg/config"
	"github.com/cqfn/patternika-sub000/pkg/tree"
)

type hashView struct {
	nodeView `yaml:",inline"`

	Isomorphism string `json:"isomorphism" yaml:"isomorphism"`
	Similarity  string `json:"similarity"  yaml:"similarity"`
	Size        int    `json:"size"        yaml:"size"`
}

type familyView struct {
	Hash    string   `json:"hash"    yaml:"hash"`
	Members []string `json:"members" yaml:"members"`
	Size    int      `json:"size"    yaml:"size"`
}

type hashReport struct {
	File     string       `json:"file"     yaml:"file"`
	Nodes    []hashView   `json:"nodes"    yaml:"nodes"`
	Families []familyView `json:"families" yaml:"families"`
}

func hashCmd(state *app) *cobra.Command {
	var format, input string

	cmd := &cobra.Command{
		Use:   "hash FILE",
		Short: "Print structural hashes and duplicate subtree families",
		Long: `Print the isomorphism and similarity hash of every subtree, then the
families of structurally identical subtrees (same types, any data).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *state.cfg

			if cmd.Flags().Changed("format") {
				cfg.Output.Format = format
			}

			if cmd.Flags().Changed("input") {
				if err := validInputFormat(input); err != nil {
					return err
				}

				cfg.Input.Format = input
			}

			if err := validOutputFormat(cfg.Output.Format); err != nil {
				return err
			}

			root, err := loadTree(args[0], cfg.Input)
			if err != nil {
				return err
			}

			report := buildHashReport(args[0], root)

			if cfg.Output.Format == config.OutputTable {
				renderHash(cmd.OutOrStdout(), report)

				return nil
			}

			return writeStructured(cmd.OutOrStdout(), cfg.Output.Format, report)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: table, json, yaml (default from config)")
	cmd.Flags().StringVar(&input, "input", "", "input format: auto, yaml, uast (default from config)")

	return cmd
}

func buildHashReport(file string, root tree.Node) hashReport {
	hasher := tree.NewHasher()
	extended := tree.Extend(root)

	report := hashReport{File: file, Families: []familyView{}}

	for _, current := range tree.DepthFirst(extended) {
		report.Nodes = append(report.Nodes, hashView{
			nodeView:    viewOf(current),
			Isomorphism: formatHash(hasher.Isomorphism(current)),
			Similarity:  formatHash(hasher.Similarity(current)),
			Size:        tree.Size(current),
		})
	}

	for _, family := range hasher.Families(extended) {
		view := familyView{Hash: formatHash(family.Hash), Size: family.Size}

		for _, member := range family.Members {
			if ext, ok := member.(*tree.Extended); ok {
				view.Members = append(view.Members, nodePath(ext))
			}
		}

		report.Families = append(report.Families, view)
	}

	return report
}

func formatHash(value uint64) string {
	return fmt.Sprintf("%016x", value)
}

func renderHash(writer io.Writer, report hashReport) {
	nodes := newTable(writer)
	nodes.AppendHeader(table.Row{"Node", "Size", "Isomorphism", "Similarity"})

	for _, view := range report.Nodes {
		nodes.AppendRow(table.Row{view.label(), humanize.Comma(int64(view.Size)), view.Isomorphism, view.Similarity})
	}

	nodes.Render()

	fmt.Fprintln(writer)

	if len(report.Families) == 0 {
		fmt.Fprintln(writer, "No duplicate subtrees.")

		return
	}

	families := newTable(writer)
	families.AppendHeader(table.Row{"Family", "Size", "Members"})

	for _, family := range report.Families {
		families.AppendRow(table.Row{family.Hash, family.Size, strings.Join(family.Members, " ")})
	}

	families.AppendFooter(table.Row{fmt.Sprintf("Total: %d families", len(report.Families))})
	families.Render()
}
