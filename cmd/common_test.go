package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/scene"
)

func testGraph(t *testing.T) (*scene.Graph, string) {
	t.Helper()
	dir := t.TempDir()
	g := scene.New()
	for _, p := range []string{
		filepath.Join(dir, "alpha.txt"),
		filepath.Join(dir, "beta.txt"),
		filepath.Join(dir, "sub", "beta.txt"),
	} {
		g.AddNode(p, geom.Point{})
	}
	return g, dir
}

func TestResolveNodeByIndex(t *testing.T) {
	g, _ := testGraph(t)

	n, err := resolveNode(g, "0")
	if err != nil {
		t.Fatalf("resolveNode failed: %v", err)
	}
	if n.Name() != "alpha" {
		t.Errorf("expected alpha, got %q", n.Name())
	}

	if _, err := resolveNode(g, "9"); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestResolveNodeByName(t *testing.T) {
	g, _ := testGraph(t)

	n, err := resolveNode(g, "alpha")
	if err != nil {
		t.Fatalf("resolveNode failed: %v", err)
	}
	if g.IndexOf(n) != 0 {
		t.Errorf("expected index 0, got %d", g.IndexOf(n))
	}

	_, err = resolveNode(g, "beta")
	if err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("expected ambiguous error, got %v", err)
	}

	if _, err := resolveNode(g, "gamma"); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestResolveNodeByPath(t *testing.T) {
	g, dir := testGraph(t)

	n, err := resolveNode(g, filepath.Join(dir, "sub", "beta.txt"))
	if err != nil {
		t.Fatalf("resolveNode failed: %v", err)
	}
	if g.IndexOf(n) != 2 {
		t.Errorf("expected index 2, got %d", g.IndexOf(n))
	}

	chdir(t, dir)
	n, err = resolveNode(g, "beta.txt")
	if err != nil {
		t.Fatalf("relative path: %v", err)
	}
	if g.IndexOf(n) != 1 {
		t.Errorf("expected index 1, got %d", g.IndexOf(n))
	}
}

func TestDisplayPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	if got := displayPath(filepath.Join(dir, "notes", "a.txt")); got != filepath.Join("notes", "a.txt") {
		t.Errorf("expected relative path, got %q", got)
	}
	outside := filepath.Join(filepath.Dir(dir), "elsewhere.txt")
	if got := displayPath(outside); got != outside {
		t.Errorf("expected absolute path for outside file, got %q", got)
	}
}
