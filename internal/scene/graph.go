// Package scene is the interactive graph model: file-backed nodes, directed
// colored edges, the two-click edge creation state machine, hover tracking
// and the color-key commands.
//
// A Graph is not safe for concurrent use. All calls are expected to come
// from a single event loop.
package scene

import (
	"path/filepath"
	"strconv"

	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/palette"
	"go.uber.org/zap"
)

// State is the edge creation state.
type State int

const (
	Idle State = iota
	PendingSource
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingSource:
		return "pending"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Option configures a Graph.
type Option func(*Graph)

// WithNodeSize sets the rectangle size of nodes added afterwards.
func WithNodeSize(s geom.Size) Option {
	return func(g *Graph) { g.nodeSize = s }
}

// WithLogger attaches a logger for state transitions.
func WithLogger(l *zap.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.log = l
		}
	}
}

// Graph owns the node and edge lists, both in insertion order. Node order
// is the identity used by the layout document, so it is never re-sorted.
type Graph struct {
	nodes  []*Node
	edges  []*Edge
	byPath map[string]*Node

	pending *Node
	pointer geom.Point

	hoveredNode *Node
	hoveredEdge *Edge

	nodeSize geom.Size
	log      *zap.Logger
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		byPath:   make(map[string]*Node),
		nodeSize: DefaultNodeSize,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NodeSize returns the size given to new nodes.
func (g *Graph) NodeSize() geom.Size { return g.nodeSize }

// ─── Nodes ───

// AddNode appends a node for path at pos with the default color. Paths are
// cleaned before comparison. If a node for the path already exists it is
// returned unchanged with added == false.
func (g *Graph) AddNode(path string, pos geom.Point) (n *Node, added bool) {
	path = filepath.Clean(path)
	if existing, ok := g.byPath[path]; ok {
		return existing, false
	}
	n = &Node{path: path, pos: pos, size: g.nodeSize, color: palette.DefaultNode}
	g.nodes = append(g.nodes, n)
	g.byPath[path] = n
	g.log.Debug("node added", zap.String("path", path), zap.Float64("x", pos.X), zap.Float64("y", pos.Y))
	return n, true
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Node returns the node at index i, or nil when out of range.
func (g *Graph) Node(i int) *Node {
	if i < 0 || i >= len(g.nodes) {
		return nil
	}
	return g.nodes[i]
}

// NodeByPath returns the node backed by path, or nil.
func (g *Graph) NodeByPath(path string) *Node {
	return g.byPath[filepath.Clean(path)]
}

// NodesByName returns every node whose display name equals name.
func (g *Graph) NodesByName(name string) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Name() == name {
			out = append(out, n)
		}
	}
	return out
}

// IndexOf returns the list position of n, or -1 if n is not in the graph.
func (g *Graph) IndexOf(n *Node) int {
	if n == nil {
		return -1
	}
	for i, m := range g.nodes {
		if m == n {
			return i
		}
	}
	return -1
}

// Contains reports whether n belongs to this graph.
func (g *Graph) Contains(n *Node) bool {
	return n != nil && g.byPath[n.path] == n
}

// NodeAt returns the topmost node whose rectangle contains p. Later nodes
// are drawn above earlier ones.
func (g *Graph) NodeAt(p geom.Point) *Node {
	for i := len(g.nodes) - 1; i >= 0; i-- {
		if g.nodes[i].Bounds().Contains(p) {
			return g.nodes[i]
		}
	}
	return nil
}

// ─── Edges ───

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// EdgeBetween returns the edge source→target, or nil.
func (g *Graph) EdgeBetween(source, target *Node) *Edge {
	for _, e := range g.edges {
		if e.source == source && e.target == target {
			return e
		}
	}
	return nil
}

// EdgesOf returns the edges that have n as source or target.
func (g *Graph) EdgesOf(n *Node) []*Edge {
	var out []*Edge
	for _, e := range g.edges {
		if e.Touches(n) {
			out = append(out, e)
		}
	}
	return out
}

// EdgeAt returns the last added edge passing within tolerance of p.
func (g *Graph) EdgeAt(p geom.Point, tolerance float64) *Edge {
	for i := len(g.edges) - 1; i >= 0; i-- {
		if g.edges[i].Line().Distance(p) <= tolerance {
			return g.edges[i]
		}
	}
	return nil
}

// Connect creates the edge source→target with the default color. Self loops,
// nodes outside the graph and already existing directed pairs are ignored
// and reported with created == false.
func (g *Graph) Connect(source, target *Node) (e *Edge, created bool) {
	if source == target || !g.Contains(source) || !g.Contains(target) {
		return nil, false
	}
	if g.EdgeBetween(source, target) != nil {
		return nil, false
	}
	e = &Edge{source: source, target: target, color: palette.DefaultEdge}
	g.edges = append(g.edges, e)
	g.log.Debug("edge created", zap.String("source", source.path), zap.String("target", target.path))
	return e, true
}

// RemoveEdge deletes e. It returns false if e is not part of the graph.
func (g *Graph) RemoveEdge(e *Edge) bool {
	for i, m := range g.edges {
		if m != e {
			continue
		}
		g.edges = append(g.edges[:i], g.edges[i+1:]...)
		if g.hoveredEdge == e {
			g.hoveredEdge = nil
		}
		g.log.Debug("edge deleted", zap.String("source", e.source.path), zap.String("target", e.target.path))
		return true
	}
	return false
}

// Reverse swaps the direction of e in place. It refuses when the opposite
// edge already exists, since the result would duplicate it.
func (g *Graph) Reverse(e *Edge) bool {
	if g.indexOfEdge(e) < 0 {
		return false
	}
	if g.EdgeBetween(e.target, e.source) != nil {
		return false
	}
	e.reverse()
	g.log.Debug("edge reversed", zap.String("source", e.source.path), zap.String("target", e.target.path))
	return true
}

func (g *Graph) indexOfEdge(e *Edge) int {
	for i, m := range g.edges {
		if m == e {
			return i
		}
	}
	return -1
}

// ─── Edge creation state machine ───

// State reports whether an edge source is pending.
func (g *Graph) State() State {
	if g.pending != nil {
		return PendingSource
	}
	return Idle
}

// Pending returns the pending source node, or nil when idle.
func (g *Graph) Pending() *Node { return g.pending }

// Click feeds a commit click on n into the edge creation state machine.
//
// Idle + click N selects N as pending source. Pending S + click T (T != S)
// creates S→T unless it already exists. Pending S + click S cancels. Both
// of the latter return to Idle. The created edge is returned, if any.
func (g *Graph) Click(n *Node) *Edge {
	if !g.Contains(n) {
		return nil
	}
	if g.pending == nil {
		g.pending = n
		g.log.Debug("pending edge source", zap.String("path", n.path))
		return nil
	}
	source := g.pending
	g.pending = nil
	if source == n {
		g.log.Debug("pending edge cancelled", zap.String("path", n.path))
		return nil
	}
	e, _ := g.Connect(source, n)
	return e
}

// CancelPending drops the pending source, if any.
func (g *Graph) CancelPending() {
	g.pending = nil
}

// TrackPointer records the latest pointer position in scene coordinates.
// It drives the preview line end while a source is pending.
func (g *Graph) TrackPointer(p geom.Point) {
	g.pointer = p
}

// Pointer returns the last tracked pointer position.
func (g *Graph) Pointer() geom.Point { return g.pointer }

// Preview returns the rubber band line from the pending source center to
// the pointer. ok is false when no source is pending.
func (g *Graph) Preview() (l geom.Line, ok bool) {
	if g.pending == nil {
		return geom.Line{}, false
	}
	return geom.Line{P1: g.pending.BoundsCenter(), P2: g.pointer}, true
}

// ─── Hover ───

// EnterNode records n as the hovered node.
func (g *Graph) EnterNode(n *Node) {
	if g.Contains(n) {
		g.hoveredNode = n
	}
}

// LeaveNode clears the hovered node only if it is still n.
func (g *Graph) LeaveNode(n *Node) {
	if g.hoveredNode == n {
		g.hoveredNode = nil
	}
}

// EnterEdge records e as the hovered edge.
func (g *Graph) EnterEdge(e *Edge) {
	if g.indexOfEdge(e) >= 0 {
		g.hoveredEdge = e
	}
}

// LeaveEdge clears the hovered edge only if it is still e.
func (g *Graph) LeaveEdge(e *Edge) {
	if g.hoveredEdge == e {
		g.hoveredEdge = nil
	}
}

func (g *Graph) HoveredNode() *Node { return g.hoveredNode }
func (g *Graph) HoveredEdge() *Edge { return g.hoveredEdge }

// ─── Color keys ───

// ApplyColorKey recolors the hovered item for a digit key. A hovered edge
// with key 1-3 takes the edge palette; otherwise a hovered node takes the
// node palette entry for any digit. It reports whether anything changed.
func (g *Graph) ApplyColorKey(key rune) bool {
	if g.hoveredEdge != nil {
		if c, ok := palette.EdgeColor(key); ok {
			g.hoveredEdge.SetColor(c)
			return true
		}
	}
	if g.hoveredNode != nil {
		if c, ok := palette.NodeColor(key); ok {
			g.hoveredNode.SetColor(c)
			return true
		}
	}
	return false
}

// ─── Lifecycle ───

// Reset removes every node and edge and clears all transient state.
func (g *Graph) Reset() {
	g.nodes = nil
	g.edges = nil
	g.byPath = make(map[string]*Node)
	g.pending = nil
	g.hoveredNode = nil
	g.hoveredEdge = nil
}
