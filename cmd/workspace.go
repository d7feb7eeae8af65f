package cmd

import (
	"fmt"
	"os"

	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/hooks"
	"github.com/msalah0e/filemap/internal/ui"
	"github.com/msalah0e/filemap/internal/workspace"
	"github.com/spf13/cobra"
)

func openCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "open <folder>",
		Short: "Add the matching files of a folder as nodes",
		Long: `Add every file of <folder> that matches the [folder] pattern (default *.txt)
as a node at the origin. Files already on the canvas are skipped.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if pattern == "" {
				pattern = cfg.Folder.Pattern
			}
			g, store := openLayout()
			added, err := workspace.Import(g, args[0], pattern)
			if err != nil {
				fail("Failed to open folder: %v", err)
			}
			saveLayout(g, store, "open", fmt.Sprintf("%s (+%d)", args[0], added))

			if added == 0 {
				fmt.Printf("  No new %s files in %s\n", pattern, args[0])
				return
			}
			ui.Good.Printf("  %s Added %d node(s) from %s\n", ui.StatusIcon(true), added, args[0])
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "File pattern (overrides [folder] pattern)")
	return cmd
}

func newCmd() *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new file and add it as a node",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if folder == "" {
				ui.Warn.Fprintf(os.Stderr, "  %s Please open a folder first.\n", ui.WarnIcon())
				os.Exit(1)
			}
			g, store := openLayout()
			path, err := workspace.Create(folder, args[0], workspace.Extension(cfg.Folder.Pattern))
			if err != nil {
				fail("Failed to create file: %v", err)
			}
			_, added := g.AddNode(path, geom.Point{})
			saveLayout(g, store, "new", displayPath(path))
			runHook(hooks.PostNew, map[string]string{"FILEMAP_FILE": path})

			if !added {
				fmt.Printf("  %s is already on the canvas\n", displayPath(path))
				return
			}
			ui.Good.Printf("  %s Created %s\n", ui.StatusIcon(true), ui.Brand.Sprint(displayPath(path)))
		},
	}

	cmd.Flags().StringVarP(&folder, "folder", "f", "", "Folder to create the file in")
	return cmd
}
