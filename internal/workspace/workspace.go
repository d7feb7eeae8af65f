// Package workspace connects the layout graph to the host filesystem:
// importing a folder's files as nodes, creating new empty files and reading
// a file for the read-only viewer.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/scene"
)

// DefaultPattern selects plain text files.
const DefaultPattern = "*.txt"

// ErrNoFolder is returned when a file is to be created before any folder
// was opened.
var ErrNoFolder = errors.New("no folder opened")

// Match reports whether the base name of path matches pattern, ignoring case.
func Match(pattern, path string) bool {
	ok, err := doublestar.Match(strings.ToLower(pattern), strings.ToLower(filepath.Base(path)))
	return err == nil && ok
}

// Extension returns the literal extension a pattern like "*.txt" implies,
// or "" if the pattern has none.
func Extension(pattern string) string {
	ext := filepath.Ext(pattern)
	if strings.ContainsAny(ext, "*?[]{}") {
		return ""
	}
	return ext
}

// Scan lists the regular files directly inside dir whose names match
// pattern. Paths are absolute and in directory order.
func Scan(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if Match(pattern, entry.Name()) {
			paths = append(paths, filepath.Join(abs, entry.Name()))
		}
	}
	return paths, nil
}

// Import adds a node at the origin for every matching file in dir that is
// not already in g. It returns the number of nodes added.
func Import(g *scene.Graph, dir, pattern string) (int, error) {
	paths, err := Scan(dir, pattern)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, p := range paths {
		if _, ok := g.AddNode(p, geom.Point{}); ok {
			added++
		}
	}
	return added, nil
}

// Create makes an empty file called name inside folder, appending ext
// when the name lacks it, and returns its absolute path. An existing file
// keeps its content.
func Create(folder, name, ext string) (string, error) {
	if folder == "" {
		return "", ErrNoFolder
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("file name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	if ext != "" && !strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
		name += ext
	}
	abs, err := filepath.Abs(folder)
	if err != nil {
		return "", err
	}
	path := filepath.Join(abs, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	return path, nil
}

// Read returns the content of path for display.
func Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not open file: %w", err)
	}
	return string(data), nil
}
