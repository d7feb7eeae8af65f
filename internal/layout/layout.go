// Package layout reads and writes the persisted layout document: the node
// list with cwd-relative file paths, positions and colors, and the edge list
// referencing nodes by their index in that list.
package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/palette"
	"github.com/msalah0e/filemap/internal/scene"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the document name used when none is configured.
const DefaultFile = "layout.json"

// Document is the on-disk layout.
type Document struct {
	Nodes []NodeRecord `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges []EdgeRecord `json:"edges" yaml:"edges" validate:"dive"`
}

// NodeRecord is one node. File is relative to the base directory unless it
// is absolute. Color is optional on read.
type NodeRecord struct {
	File  string         `json:"file" yaml:"file" validate:"required"`
	X     float64        `json:"x" yaml:"x"`
	Y     float64        `json:"y" yaml:"y"`
	Color *palette.Color `json:"color,omitempty" yaml:"color,omitempty"`
}

// EdgeRecord is one edge; Start and End index Document.Nodes.
type EdgeRecord struct {
	Start int            `json:"start" yaml:"start" validate:"min=0"`
	End   int            `json:"end" yaml:"end" validate:"min=0"`
	Color *palette.Color `json:"color,omitempty" yaml:"color,omitempty"`
}

func colorOr(c *palette.Color, def palette.Color) palette.Color {
	if c == nil {
		return def
	}
	return *c
}

func colorRef(c palette.Color) *palette.Color {
	return &c
}

// Capture converts g into a document. Node order is the graph's insertion
// order and edge endpoints are indices into it. Paths are made relative to
// base.
func Capture(g *scene.Graph, base string) (*Document, error) {
	nodes := g.Nodes()
	doc := &Document{
		Nodes: make([]NodeRecord, 0, len(nodes)),
		Edges: make([]EdgeRecord, 0, g.EdgeCount()),
	}
	index := make(map[*scene.Node]int, len(nodes))
	for i, n := range nodes {
		rel, err := filepath.Rel(base, n.Path())
		if err != nil {
			return nil, fmt.Errorf("relative path for %s: %w", n.Path(), err)
		}
		index[n] = i
		doc.Nodes = append(doc.Nodes, NodeRecord{
			File:  filepath.ToSlash(rel),
			X:     n.Pos().X,
			Y:     n.Pos().Y,
			Color: colorRef(n.Color()),
		})
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, EdgeRecord{
			Start: index[e.Source()],
			End:   index[e.Target()],
			Color: colorRef(e.Color()),
		})
	}
	return doc, nil
}

// Restore replaces the contents of g with doc. Relative paths are resolved
// against base. The document is validated first; on error g is untouched.
func Restore(g *scene.Graph, doc *Document, base string) error {
	if err := Validate(doc, base); err != nil {
		return err
	}
	g.Reset()
	nodes := make([]*scene.Node, len(doc.Nodes))
	for i, rec := range doc.Nodes {
		n, _ := g.AddNode(resolve(base, rec.File), geom.Pt(rec.X, rec.Y))
		n.SetColor(colorOr(rec.Color, palette.DefaultNode))
		nodes[i] = n
	}
	for _, rec := range doc.Edges {
		e, _ := g.Connect(nodes[rec.Start], nodes[rec.End])
		e.SetColor(colorOr(rec.Color, palette.DefaultEdge))
	}
	return nil
}

func resolve(base, file string) string {
	file = filepath.FromSlash(file)
	if filepath.IsAbs(file) {
		return filepath.Clean(file)
	}
	return filepath.Join(base, file)
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Decode parses a JSON document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &CorruptError{Edge: -1, Reason: "parse: " + err.Error()}
	}
	return &doc, nil
}

// EncodeYAML writes doc as YAML with the same field names.
func EncodeYAML(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// Read loads the document at path. A missing file yields an error matching
// fs.ErrNotExist.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data))
}

// Write stores doc at path. The document goes to a temporary file in the
// same directory first and is renamed over path, so readers never see a
// partial write.
func Write(path string, doc *Document) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Store is a layout document location together with the directory its
// relative paths are resolved against.
type Store struct {
	Path string
	Base string
	Log  *zap.Logger
}

// NewStore resolves file against base. An empty file means DefaultFile.
func NewStore(file, base string, log *zap.Logger) *Store {
	if file == "" {
		file = DefaultFile
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{Path: resolve(base, file), Base: base, Log: log}
}

// Save writes g to the store.
func (s *Store) Save(g *scene.Graph) error {
	doc, err := Capture(g, s.Base)
	if err != nil {
		return err
	}
	if err := Write(s.Path, doc); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	s.Log.Debug("layout saved", zap.String("path", s.Path),
		zap.Int("nodes", len(doc.Nodes)), zap.Int("edges", len(doc.Edges)))
	return nil
}

// Load replaces g with the stored layout. When no document exists, g is
// left as it is and no error is returned.
func (s *Store) Load(g *scene.Graph) error {
	doc, err := Read(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		s.Log.Debug("no layout document", zap.String("path", s.Path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load layout %s: %w", s.Path, err)
	}
	if err := Restore(g, doc, s.Base); err != nil {
		return fmt.Errorf("load layout %s: %w", s.Path, err)
	}
	s.Log.Debug("layout loaded", zap.String("path", s.Path),
		zap.Int("nodes", g.NodeCount()), zap.Int("edges", g.EdgeCount()))
	return nil
}

// Exists reports whether a document is stored.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}
