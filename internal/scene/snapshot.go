package scene

import (
	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/palette"
)

// Snapshot is a read-only copy of the scene for renderers. Node and edge
// references are list indices.
type Snapshot struct {
	Nodes       []NodeView `json:"nodes"`
	Edges       []EdgeView `json:"edges"`
	State       string     `json:"state"`
	Pending     int        `json:"pending"`
	Preview     *geom.Line `json:"preview,omitempty"`
	HoveredNode int        `json:"hovered_node"`
	HoveredEdge int        `json:"hovered_edge"`
}

// NodeView describes one node.
type NodeView struct {
	Index  int           `json:"index"`
	Path   string        `json:"path"`
	Name   string        `json:"name"`
	Bounds geom.Rect     `json:"bounds"`
	Color  palette.Color `json:"color"`
	Hex    string        `json:"hex"`
}

// EdgeView describes one edge with its derived geometry.
type EdgeView struct {
	Index int           `json:"index"`
	Start int           `json:"start"`
	End   int           `json:"end"`
	Line  geom.Line     `json:"line"`
	Arrow geom.Polygon  `json:"arrow"`
	Color palette.Color `json:"color"`
	Hex   string        `json:"hex"`
}

// Snapshot captures the current scene. Missing references are -1.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{
		Nodes:       make([]NodeView, 0, len(g.nodes)),
		Edges:       make([]EdgeView, 0, len(g.edges)),
		State:       g.State().String(),
		Pending:     g.IndexOf(g.pending),
		HoveredNode: g.IndexOf(g.hoveredNode),
		HoveredEdge: g.indexOfEdge(g.hoveredEdge),
	}
	index := make(map[*Node]int, len(g.nodes))
	for i, n := range g.nodes {
		index[n] = i
		s.Nodes = append(s.Nodes, NodeView{
			Index:  i,
			Path:   n.path,
			Name:   n.Name(),
			Bounds: n.Bounds(),
			Color:  n.color,
			Hex:    n.color.Hex(),
		})
	}
	for i, e := range g.edges {
		geo := e.Geometry()
		s.Edges = append(s.Edges, EdgeView{
			Index: i,
			Start: index[e.source],
			End:   index[e.target],
			Line:  geo.Line,
			Arrow: geo.Arrow,
			Color: geo.Color,
			Hex:   geo.Color.Hex(),
		})
	}
	if l, ok := g.Preview(); ok {
		s.Preview = &l
	}
	return s
}
