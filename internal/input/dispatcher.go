package input

import (
	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/scene"
	"go.uber.org/zap"
)

// Viewer shows the content of a node's file read-only. Failures are the
// viewer's to report.
type Viewer interface {
	View(path string)
}

// ViewerFunc adapts a function to Viewer.
type ViewerFunc func(path string)

func (f ViewerFunc) View(path string) { f(path) }

// Options tune hit testing and click detection.
type Options struct {
	DragThreshold float64
	EdgeTolerance float64
}

// DefaultOptions treats any movement as a drag and matches a 5 unit edge pen.
func DefaultOptions() Options {
	return Options{DragThreshold: 0, EdgeTolerance: 5}
}

// Dispatcher feeds pointer and key events to a scene.Graph.
type Dispatcher struct {
	graph  *scene.Graph
	viewer Viewer
	opts   Options
	log    *zap.Logger

	gesture *Gesture
}

// NewDispatcher creates a dispatcher for g. viewer may be nil.
func NewDispatcher(g *scene.Graph, viewer Viewer, opts Options, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{graph: g, viewer: viewer, opts: opts, log: log}
}

// Graph returns the graph the dispatcher drives.
func (d *Dispatcher) Graph() *scene.Graph { return d.graph }

// Gesture returns the press in progress, if any.
func (d *Dispatcher) Gesture() (Gesture, bool) {
	if d.gesture == nil {
		return Gesture{}, false
	}
	return *d.gesture, true
}

// PointerDown handles a button press at p. A press on a node starts a
// gesture. A press on an edge with no node above it reverses the edge
// (left) or deletes it (right).
func (d *Dispatcher) PointerDown(p geom.Point, b Button) {
	d.graph.TrackPointer(p)
	if n := d.graph.NodeAt(p); n != nil {
		g := Press(n, b, p)
		d.gesture = &g
		return
	}
	e := d.graph.EdgeAt(p, d.opts.EdgeTolerance)
	if e == nil {
		return
	}
	switch b {
	case Left:
		d.graph.Reverse(e)
	case Right:
		d.graph.RemoveEdge(e)
	}
}

// PointerMove handles pointer motion to p, pressed or not.
func (d *Dispatcher) PointerMove(p geom.Point) {
	if d.gesture != nil {
		g := d.gesture.Moved(p, d.opts.DragThreshold)
		d.gesture = &g
		if g.Drag && g.Button == Left {
			g.Node.Move(g.NodePos(p))
		}
	}
	d.graph.TrackPointer(p)
	d.updateHover(p)
}

// PointerUp handles a button release at p. A release that ends a click on
// the pressed node commits it: left feeds the edge creation state machine,
// right asks the viewer for the node's file.
func (d *Dispatcher) PointerUp(p geom.Point, b Button) {
	d.graph.TrackPointer(p)
	g := d.gesture
	if g == nil || g.Button != b {
		return
	}
	d.gesture = nil
	if g.Drag {
		if b == Left {
			g.Node.Move(g.NodePos(p))
			d.log.Debug("node moved", zap.String("path", g.Node.Path()),
				zap.Float64("x", g.Node.Pos().X), zap.Float64("y", g.Node.Pos().Y))
		}
		return
	}
	if d.graph.NodeAt(p) != g.Node {
		return
	}
	switch b {
	case Left:
		d.graph.Click(g.Node)
	case Right:
		if d.viewer != nil {
			d.viewer.View(g.Node.Path())
		}
	}
}

// Key handles a typed character. Digits recolor the hovered item.
func (d *Dispatcher) Key(r rune) bool {
	return d.graph.ApplyColorKey(r)
}

// updateHover enters the node under p, or the edge under p when no node
// covers it, and leaves whatever was hovered before.
func (d *Dispatcher) updateHover(p geom.Point) {
	n := d.graph.NodeAt(p)
	if prev := d.graph.HoveredNode(); prev != n {
		d.graph.LeaveNode(prev)
		if n != nil {
			d.graph.EnterNode(n)
		}
	}
	var e *scene.Edge
	if n == nil {
		e = d.graph.EdgeAt(p, d.opts.EdgeTolerance)
	}
	if prev := d.graph.HoveredEdge(); prev != e {
		d.graph.LeaveEdge(prev)
		if e != nil {
			d.graph.EnterEdge(e)
		}
	}
}
