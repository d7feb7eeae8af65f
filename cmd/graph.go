package cmd

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/ui"
	"github.com/spf13/cobra"
)

func linkCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "link <from> <to>",
		Short:             "Draw an arrow from one node to another",
		Long:              "Nodes are referenced by index, path or name. Self-links and duplicate arrows are ignored.",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: nodeCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			g, store := openLayout()
			src, dst := mustNode(g, args[0]), mustNode(g, args[1])

			// Same two clicks as on the canvas.
			g.Click(src)
			e := g.Click(dst)
			if e == nil {
				fmt.Printf("  %s Nothing linked (%s → %s is a self-link or exists already)\n",
					ui.WarnIcon(), src.Name(), dst.Name())
				return
			}
			saveLayout(g, store, "link", src.Name()+" → "+dst.Name())
			ui.Good.Printf("  %s Linked %s → %s\n", ui.StatusIcon(true), ui.Brand.Sprint(src.Name()), ui.Brand.Sprint(dst.Name()))
		},
	}
}

func unlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "unlink <from> <to>",
		Short:             "Delete the arrow between two nodes",
		Aliases:           []string{"rm-edge"},
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: nodeCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			g, store := openLayout()
			e := mustEdge(g, args[0], args[1])
			g.RemoveEdge(e)
			saveLayout(g, store, "unlink", e.Source().Name()+" → "+e.Target().Name())
			ui.Good.Printf("  %s Removed %s → %s\n", ui.StatusIcon(true), e.Source().Name(), e.Target().Name())
		},
	}
}

func reverseCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "reverse <from> <to>",
		Short:             "Flip the direction of an arrow",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: nodeCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			g, store := openLayout()
			e := mustEdge(g, args[0], args[1])
			if !g.Reverse(e) {
				fmt.Printf("  %s %s → %s exists already; nothing reversed\n",
					ui.WarnIcon(), e.Target().Name(), e.Source().Name())
				return
			}
			saveLayout(g, store, "reverse", e.Source().Name()+" → "+e.Target().Name())
			ui.Good.Printf("  %s Now %s → %s\n", ui.StatusIcon(true), e.Source().Name(), e.Target().Name())
		},
	}
}

func moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "move <node> <x> <y>",
		Short:             "Place a node's top-left corner at x,y",
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: nodeCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			x, errX := strconv.ParseFloat(args[1], 64)
			y, errY := strconv.ParseFloat(args[2], 64)
			if errX != nil || errY != nil {
				fail("Coordinates must be numbers, got %q %q", args[1], args[2])
			}
			g, store := openLayout()
			n := mustNode(g, args[0])
			n.Move(geom.Pt(x, y))
			saveLayout(g, store, "move", fmt.Sprintf("%s (%g, %g)", n.Name(), x, y))
			ui.Good.Printf("  %s Moved %s to (%g, %g)\n", ui.StatusIcon(true), n.Name(), x, y)
		},
	}
}

func colorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "color",
		Short: "Recolor a node (keys 0-9) or an arrow (keys 1-3)",
		Long: `Apply a color key the way hovering and pressing a digit does on the canvas.

Node keys:  1 yellow  2 beige  3 orange  4 green  5 purple
            6 olive   7 teal   8 white   9 light blue  0 gray
Arrow keys: 1 white   2 dark blue  3 dark green`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:               "node <node> <key>",
			Short:             "Recolor a node",
			Args:              cobra.ExactArgs(2),
			ValidArgsFunction: nodeCompletionFunc,
			Run: func(cmd *cobra.Command, args []string) {
				g, store := openLayout()
				n := mustNode(g, args[0])
				g.EnterNode(n)
				applyKey(g.ApplyColorKey, args[1])
				saveLayout(g, store, "color", n.Name()+" "+n.Color().Hex())
				ui.Good.Printf("  %s %s is now %s\n", ui.StatusIcon(true), n.Name(), ui.Swatch(n.Color()))
			},
		},
		&cobra.Command{
			Use:               "edge <from> <to> <key>",
			Short:             "Recolor an arrow",
			Args:              cobra.ExactArgs(3),
			ValidArgsFunction: nodeCompletionFunc,
			Run: func(cmd *cobra.Command, args []string) {
				g, store := openLayout()
				e := mustEdge(g, args[0], args[1])
				g.EnterEdge(e)
				applyKey(g.ApplyColorKey, args[2])
				saveLayout(g, store, "color", e.Source().Name()+" → "+e.Target().Name()+" "+e.Color().Hex())
				ui.Good.Printf("  %s %s → %s is now %s\n", ui.StatusIcon(true),
					e.Source().Name(), e.Target().Name(), ui.Swatch(e.Color()))
			},
		},
	)

	return cmd
}

func applyKey(apply func(rune) bool, key string) {
	r, size := utf8.DecodeRuneInString(key)
	if size != len(key) || !apply(r) {
		fail("%q is not a color key here", key)
	}
}
