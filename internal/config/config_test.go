package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Layout.File != "layout.json" {
		t.Errorf("expected layout file 'layout.json', got %q", cfg.Layout.File)
	}
	if cfg.Canvas.NodeWidth != 200 || cfg.Canvas.NodeHeight != 50 {
		t.Errorf("expected 200x50 nodes, got %vx%v", cfg.Canvas.NodeWidth, cfg.Canvas.NodeHeight)
	}
	if cfg.Canvas.EdgeTolerance != 5 {
		t.Errorf("expected edge tolerance 5, got %v", cfg.Canvas.EdgeTolerance)
	}
	if cfg.Gesture.DragThreshold != 0 {
		t.Errorf("expected drag threshold 0, got %v", cfg.Gesture.DragThreshold)
	}
	if cfg.Folder.Pattern != "*.txt" {
		t.Errorf("expected pattern '*.txt', got %q", cfg.Folder.Pattern)
	}
	if !cfg.Serve.Watch {
		t.Error("default serve.watch should be true")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %q", cfg.Log.Level)
	}
	if !cfg.UI.Color {
		t.Error("default color should be true")
	}
}

func TestConfigDir(t *testing.T) {
	// Test with XDG_CONFIG_HOME set
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	dir := ConfigDir()
	if dir != "/tmp/test-xdg/filemap" {
		t.Errorf("expected /tmp/test-xdg/filemap, got %q", dir)
	}

	// Test without XDG_CONFIG_HOME
	t.Setenv("XDG_CONFIG_HOME", "")
	dir = ConfigDir()
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", "filemap")
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	chdir(t, t.TempDir())

	cfg := Default()
	cfg.Gesture.DragThreshold = 3
	cfg.Serve.Watch = false

	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Load()
	if loaded.Gesture.DragThreshold != 3 {
		t.Errorf("expected drag threshold 3, got %v", loaded.Gesture.DragThreshold)
	}
	if loaded.Serve.Watch {
		t.Error("expected serve.watch false after load")
	}
}

func TestEnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	if err := EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}

	path := filepath.Join(tmpDir, "filemap", "config.toml")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}

	// Second call should be no-op
	if err := EnsureExists(); err != nil {
		t.Fatalf("EnsureExists second call failed: %v", err)
	}
}

func TestFindProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "a", "b", "c")
	os.MkdirAll(subDir, 0o755)

	// Write .filemap.toml in the root tmpDir
	os.WriteFile(filepath.Join(tmpDir, ProjectFile), []byte("[canvas]\nnode_width = 120.0\n"), 0o644)

	chdir(t, subDir)

	found := findProjectConfig()
	// Resolve symlinks (macOS /var -> /private/var)
	expectedResolved, _ := filepath.EvalSymlinks(filepath.Join(tmpDir, ProjectFile))
	foundResolved, _ := filepath.EvalSymlinks(found)
	if foundResolved != expectedResolved {
		t.Errorf("expected %q, got %q", expectedResolved, foundResolved)
	}
}

func TestProjectConfigOverridesGlobal(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg := Default()
	cfg.Canvas.NodeWidth = 300
	cfg.Folder.Pattern = "*.md"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	project := t.TempDir()
	os.WriteFile(filepath.Join(project, ProjectFile), []byte("[canvas]\nnode_width = 120.0\n"), 0o644)
	chdir(t, project)

	loaded := Load()
	if loaded.Canvas.NodeWidth != 120 {
		t.Errorf("expected project node_width 120, got %v", loaded.Canvas.NodeWidth)
	}
	if loaded.Folder.Pattern != "*.md" {
		t.Errorf("expected global pattern to survive, got %q", loaded.Folder.Pattern)
	}
	if loaded.Canvas.NodeHeight != 50 {
		t.Errorf("expected default node_height 50, got %v", loaded.Canvas.NodeHeight)
	}
}
