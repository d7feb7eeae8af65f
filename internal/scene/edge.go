package scene

import (
	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/palette"
)

// Edge is a directed relationship between two distinct nodes. It holds
// non-owning references; the Graph owns the nodes.
type Edge struct {
	source *Node
	target *Node
	color  palette.Color
}

// Geometry is the drawable form of an edge: the line between both node
// centers and an arrowhead at its midpoint filled with the edge color.
type Geometry struct {
	Line  geom.Line     `json:"line"`
	Arrow geom.Polygon  `json:"arrow"`
	Color palette.Color `json:"color"`
}

func (e *Edge) Source() *Node { return e.source }
func (e *Edge) Target() *Node { return e.target }

func (e *Edge) Color() palette.Color { return e.color }

// SetColor recolors the line and the arrowhead together.
func (e *Edge) SetColor(c palette.Color) { e.color = c }

// Touches reports whether n is one of the edge endpoints.
func (e *Edge) Touches(n *Node) bool {
	return e.source == n || e.target == n
}

// Line runs from the source center to the target center.
func (e *Edge) Line() geom.Line {
	return geom.Line{P1: e.source.BoundsCenter(), P2: e.target.BoundsCenter()}
}

// Geometry derives line and arrowhead from the current node positions. It
// is recomputed on every call, so it can never lag behind a node move.
func (e *Edge) Geometry() Geometry {
	l := e.Line()
	return Geometry{
		Line:  l,
		Arrow: geom.Arrowhead(l.P1, l.P2, geom.DefaultArrowSize, geom.DefaultArrowSpread),
		Color: e.color,
	}
}

// reverse swaps source and target in place.
func (e *Edge) reverse() {
	e.source, e.target = e.target, e.source
}
