package scene

import (
	"path/filepath"
	"strings"

	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/palette"
)

// DefaultNodeSize is the rectangle every node occupies unless configured.
var DefaultNodeSize = geom.Size{W: 200, H: 50}

// Node is a graph vertex backed by one file.
type Node struct {
	path  string
	pos   geom.Point
	size  geom.Size
	color palette.Color
}

// Path returns the absolute path of the backing file.
func (n *Node) Path() string { return n.path }

// Name returns the file base name without extension.
func (n *Node) Name() string {
	base := filepath.Base(n.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Pos returns the top-left corner of the node rectangle.
func (n *Node) Pos() geom.Point { return n.pos }

// Move places the node's top-left corner at p. Edges touching the node pick
// up the new position on their next geometry query.
func (n *Node) Move(p geom.Point) { n.pos = p }

func (n *Node) Color() palette.Color { return n.color }

func (n *Node) SetColor(c palette.Color) { n.color = c }

// Bounds returns the node rectangle at its current position.
func (n *Node) Bounds() geom.Rect { return geom.RectAt(n.pos, n.size) }

// BoundsCenter is the anchor used by every connected edge.
func (n *Node) BoundsCenter() geom.Point { return n.Bounds().Center() }
