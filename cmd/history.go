package cmd

import (
	"fmt"

	"github.com/msalah0e/filemap/internal/history"
	"github.com/msalah0e/filemap/internal/ui"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var (
		count  int
		search string
		wipe   bool
	)

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "Show recent layout edits",
		Aliases: []string{"log"},
		Run: func(cmd *cobra.Command, args []string) {
			if wipe {
				if err := history.Clear(); err != nil {
					fail("Failed to clear history: %v", err)
				}
				ui.Good.Printf("  %s History cleared\n", ui.StatusIcon(true))
				return
			}

			var (
				entries []history.Entry
				err     error
			)
			if search != "" {
				entries, err = history.Search(search, count)
			} else {
				entries, err = history.Read(count)
			}
			if err != nil {
				fail("Failed to read history: %v", err)
			}

			out := cmd.OutOrStdout()
			ui.Banner(out, "history")
			if len(entries) == 0 {
				fmt.Fprintln(out, "  No edits recorded yet.")
				return
			}

			var rows [][]string
			for _, e := range entries {
				rows = append(rows, []string{
					e.Timestamp.Local().Format("01-02 15:04:05"),
					e.Action,
					e.Details,
					fmt.Sprintf("%d/%d", e.Nodes, e.Edges),
					displayPath(e.Layout),
				})
			}
			ui.Table(out, []string{"Time", "Action", "Details", "N/E", "Layout"}, rows)
			fmt.Fprintf(out, "\n  %d entries\n", len(entries))
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 20, "Number of entries to show")
	cmd.Flags().StringVar(&search, "search", "", "Only show entries containing this text")
	cmd.Flags().BoolVar(&wipe, "clear", false, "Delete the history")
	return cmd
}
