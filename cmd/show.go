package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/msalah0e/filemap/internal/layout"
	"github.com/msalah0e/filemap/internal/ui"
	"github.com/msalah0e/filemap/internal/workspace"
	"github.com/spf13/cobra"
)

func showCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "show",
		Short:   "List nodes and arrows",
		Aliases: []string{"ls"},
		Run: func(cmd *cobra.Command, args []string) {
			g, store := openLayout()
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(g.Snapshot()); err != nil {
					fail("Failed to encode scene: %v", err)
				}
				return
			}

			ui.Banner(out, displayPath(store.Path))
			if g.NodeCount() == 0 {
				fmt.Fprintln(out, "  No nodes yet. Run `filemap open <folder>`.")
				return
			}

			var rows [][]string
			for i, n := range g.Nodes() {
				p := n.Pos()
				rows = append(rows, []string{
					strconv.Itoa(i),
					n.Name(),
					fmt.Sprintf("%g,%g", p.X, p.Y),
					ui.Swatch(n.Color()),
					displayPath(n.Path()),
				})
			}
			ui.Table(out, []string{"#", "Node", "Pos", "Color", "File"}, rows)

			if g.EdgeCount() > 0 {
				fmt.Fprintln(out)
				rows = rows[:0]
				for _, e := range g.Edges() {
					rows = append(rows, []string{
						fmt.Sprintf("%d → %d", g.IndexOf(e.Source()), g.IndexOf(e.Target())),
						e.Source().Name() + " → " + e.Target().Name(),
						ui.Swatch(e.Color()),
					})
				}
				ui.Table(out, []string{"Edge", "Link", "Color"}, rows)
			}
			fmt.Fprintf(out, "\n  %d node(s), %d edge(s)\n", g.NodeCount(), g.EdgeCount())
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the scene snapshot as JSON")
	return cmd
}

func viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "view <node>",
		Short:             "Print the content of a node's file",
		Aliases:           []string{"cat"},
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: nodeCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			g, _ := openLayout()
			n := mustNode(g, args[0])
			text, err := workspace.Read(n.Path())
			if err != nil {
				fail("%v", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
		},
	}
}

func exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the layout document as JSON or YAML",
		Run: func(cmd *cobra.Command, args []string) {
			g, store := openLayout()
			doc, err := layout.Capture(g, store.Base)
			if err != nil {
				fail("Failed to capture layout: %v", err)
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					fail("Failed to create %s: %v", output, err)
				}
				defer f.Close()
				out = f
			}

			switch format {
			case "json":
				err = layout.Encode(out, doc)
			case "yaml", "yml":
				err = layout.EncodeYAML(out, doc)
			default:
				fail("Unknown format %q (use json or yaml)", format)
			}
			if err != nil {
				fail("Export failed: %v", err)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
