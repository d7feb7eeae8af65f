package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/msalah0e/filemap/internal/config"
	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/history"
	"github.com/msalah0e/filemap/internal/hooks"
	"github.com/msalah0e/filemap/internal/layout"
	"github.com/msalah0e/filemap/internal/logging"
	"github.com/msalah0e/filemap/internal/scene"
	"github.com/msalah0e/filemap/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg        *config.Config
	logger     = zap.NewNop()
	layoutFlag string
	debugFlag  bool
)

// setup loads config and the logger once per process.
func setup() {
	if cfg != nil {
		return
	}
	cfg = config.Load()
	if layoutFlag != "" {
		cfg.Layout.File = layoutFlag
	}
	if debugFlag {
		cfg.Log.Level = "debug"
	}
	ui.Configure(cfg.UI.Color)

	l, err := logging.New(cfg.Log)
	if err != nil {
		ui.Warn.Fprintf(os.Stderr, "  %s Invalid [log] config: %v\n", ui.WarnIcon(), err)
		return
	}
	logger = l
}

// fail prints a red message to stderr and exits 1.
func fail(format string, args ...any) {
	ui.Bad.Fprintf(os.Stderr, "  "+format+"\n", args...)
	_ = logger.Sync()
	os.Exit(1)
}

func newGraph() *scene.Graph {
	return scene.New(
		scene.WithNodeSize(geom.Size{W: cfg.Canvas.NodeWidth, H: cfg.Canvas.NodeHeight}),
		scene.WithLogger(logger),
	)
}

func layoutStore() *layout.Store {
	cwd, err := os.Getwd()
	if err != nil {
		fail("Cannot determine working directory: %v", err)
	}
	return layout.NewStore(cfg.Layout.File, cwd, logger)
}

// openLayout returns the graph stored in the layout file, or an empty one.
func openLayout() (*scene.Graph, *layout.Store) {
	g := newGraph()
	store := layoutStore()
	if err := store.Load(g); err != nil {
		fail("Failed to load layout: %v", err)
	}
	return g, store
}

// saveLayout writes g, journals the edit and runs the post_save hook.
func saveLayout(g *scene.Graph, store *layout.Store, action, details string) {
	if err := store.Save(g); err != nil {
		fail("Failed to save layout: %v", err)
	}
	err := history.Record(history.Entry{
		Action:  action,
		Layout:  store.Path,
		Details: details,
		Nodes:   g.NodeCount(),
		Edges:   g.EdgeCount(),
	})
	if err != nil {
		logger.Warn("history not recorded", zap.Error(err))
	}
	runHook(hooks.PostSave, map[string]string{"FILEMAP_LAYOUT": store.Path})
}

func runHook(phase string, env map[string]string) {
	if err := hooks.Run(cfg.Hooks, phase, env, os.Stderr); err != nil {
		ui.Warn.Fprintf(os.Stderr, "  %s %s hook failed: %v\n", ui.WarnIcon(), phase, err)
	}
}

// resolveNode finds a node by index, by path or by display name.
func resolveNode(g *scene.Graph, ref string) (*scene.Node, error) {
	if i, err := strconv.Atoi(ref); err == nil {
		if n := g.Node(i); n != nil {
			return n, nil
		}
		return nil, fmt.Errorf("no node with index %d (have %d)", i, g.NodeCount())
	}
	if abs, err := filepath.Abs(ref); err == nil {
		if n := g.NodeByPath(abs); n != nil {
			return n, nil
		}
	}
	matches := g.NodesByName(ref)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no node named %q", ref)
	case 1:
		return matches[0], nil
	}
	paths := make([]string, len(matches))
	for i, n := range matches {
		paths[i] = n.Path()
	}
	return nil, fmt.Errorf("%q is ambiguous: %s", ref, strings.Join(paths, ", "))
}

func mustNode(g *scene.Graph, ref string) *scene.Node {
	n, err := resolveNode(g, ref)
	if err != nil {
		fail("%v", err)
	}
	return n
}

func mustEdge(g *scene.Graph, from, to string) *scene.Edge {
	src, dst := mustNode(g, from), mustNode(g, to)
	e := g.EdgeBetween(src, dst)
	if e == nil {
		fail("No edge %s → %s", src.Name(), dst.Name())
	}
	return e
}

// displayPath shortens p relative to the working directory when possible.
func displayPath(p string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return p
	}
	if rel, err := filepath.Rel(cwd, p); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return p
}

// nodeCompletionFunc completes node names from the layout in the working
// directory. It never fails; a missing or broken layout yields nothing.
func nodeCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	setup()
	g := newGraph()
	if err := layoutStore().Load(g); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var completions []string
	for _, n := range g.Nodes() {
		completions = append(completions, n.Name()+"\t"+displayPath(n.Path()))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
