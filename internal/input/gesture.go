// Package input translates raw pointer and keyboard events into scene
// operations: click versus drag discrimination, dragging, hover tracking,
// edge reverse/delete gestures and color keys.
package input

import (
	"fmt"

	"github.com/msalah0e/filemap/internal/geom"
	"github.com/msalah0e/filemap/internal/scene"
)

// Button identifies a pointer button.
type Button int

const (
	Left Button = iota + 1
	Right
)

func (b Button) String() string {
	switch b {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// ParseButton maps "left"/"right" to a Button.
func ParseButton(s string) (Button, error) {
	switch s {
	case "left", "":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("unknown button %q", s)
	}
}

// Gesture follows one press on a node until release. It accumulates the
// pointer travel since the press; once the travel exceeds the threshold the
// press is a drag and can no longer become a click.
type Gesture struct {
	Node   *scene.Node
	Button Button
	Origin geom.Point
	Grab   geom.Point // pointer offset from the node's top-left corner at press
	Last   geom.Point
	Travel float64
	Drag   bool
}

// Press starts a gesture on n at p.
func Press(n *scene.Node, b Button, p geom.Point) Gesture {
	return Gesture{
		Node:   n,
		Button: b,
		Origin: p,
		Grab:   p.Sub(n.Pos()),
		Last:   p,
	}
}

// Moved returns the gesture after the pointer moved to p.
func (g Gesture) Moved(p geom.Point, threshold float64) Gesture {
	g.Travel += g.Last.Dist(p)
	g.Last = p
	if g.Travel > threshold {
		g.Drag = true
	}
	return g
}

// IsClick reports whether the gesture is still a click.
func (g Gesture) IsClick() bool {
	return !g.Drag
}

// NodePos returns where the dragged node belongs for pointer position p.
func (g Gesture) NodePos(p geom.Point) geom.Point {
	return p.Sub(g.Grab)
}
