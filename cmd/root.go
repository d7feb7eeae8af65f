package cmd

import (
	"fmt"

	"github.com/msalah0e/filemap/internal/ui"
	"github.com/spf13/cobra"
)

var version = "0.4.0"

var rootCmd = &cobra.Command{
	Use:   "filemap",
	Short: "filemap: lay out files as a directed graph",
	Long: ui.Brand.Sprint(ui.Mark+" filemap") + "  arrange the files of a folder on a canvas and link them\n" +
		ui.Subtle.Sprint("Nodes are files, arrows are your links, layout.json remembers it all"),
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		g, store := openLayout()
		ui.Banner(cmd.OutOrStdout(), displayPath(store.Path))
		if g.NodeCount() == 0 {
			fmt.Println("  Empty layout. Get started:")
			fmt.Println()
			ui.Info.Println("  filemap open <folder>")
			ui.Info.Println("  filemap link <from> <to>")
			ui.Info.Println("  filemap serve")
			return
		}
		fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-8s", "Nodes"), g.NodeCount())
		fmt.Printf("  %s  %d\n", ui.Brand.Sprintf("%-8s", "Edges"), g.EdgeCount())
		fmt.Println()
		fmt.Printf("  %s\n", ui.Subtle.Sprint("Run `filemap show` for details"))
	},
}

func init() {
	rootCmd.SetVersionTemplate("filemap {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&layoutFlag, "layout", "", "Layout file (overrides [layout] file)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log at debug level")

	rootCmd.AddCommand(
		serveCmd(),
		openCmd(),
		newCmd(),
		showCmd(),
		linkCmd(),
		unlinkCmd(),
		reverseCmd(),
		moveCmd(),
		colorCmd(),
		viewCmd(),
		exportCmd(),
		historyCmd(),
		configCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
