// Package geom holds the plain geometry values used by the layout scene.
package geom

import "math"

// Arrowhead defaults: 30 units long, 30 degrees off the line on each side.
const (
	DefaultArrowSize   = 30
	DefaultArrowSpread = math.Pi / 6
)

// Point is a position in scene coordinates. Y grows downwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RectAt places a rectangle of size s with its top-left corner at p.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H}
}

// Center returns the middle of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Line is a segment from P1 to P2.
type Line struct {
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
}

// Mid returns the point halfway along l.
func (l Line) Mid() Point {
	return Point{X: (l.P1.X + l.P2.X) / 2, Y: (l.P1.Y + l.P2.Y) / 2}
}

// Degenerate reports whether both endpoints coincide.
func (l Line) Degenerate() bool {
	return l.P1 == l.P2
}

// Angle returns the direction of l in radians, 0 for a degenerate line.
func (l Line) Angle() float64 {
	if l.Degenerate() {
		return 0
	}
	return math.Atan2(l.P2.Y-l.P1.Y, l.P2.X-l.P1.X)
}

// Distance returns the shortest distance from p to the segment l.
func (l Line) Distance(p Point) float64 {
	dx, dy := l.P2.X-l.P1.X, l.P2.Y-l.P1.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Dist(l.P1)
	}
	t := ((p.X-l.P1.X)*dx + (p.Y-l.P1.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Dist(Point{X: l.P1.X + t*dx, Y: l.P1.Y + t*dy})
}

// Polygon is a closed sequence of points.
type Polygon []Point

// Area returns the absolute area of the polygon (shoelace formula).
func (pg Polygon) Area() float64 {
	if len(pg) < 3 {
		return 0
	}
	var sum float64
	for i := range pg {
		j := (i + 1) % len(pg)
		sum += pg[i].X*pg[j].Y - pg[j].X*pg[i].Y
	}
	return math.Abs(sum) / 2
}

// Arrowhead returns the triangle [tip, left, right] for the segment p1→p2.
// The tip sits on the segment midpoint; the back corners lie size units
// behind it, rotated by ±spread from the segment direction. When p1 == p2
// the direction is undefined and all three points collapse onto the tip.
func Arrowhead(p1, p2 Point, size, spread float64) Polygon {
	l := Line{P1: p1, P2: p2}
	tip := l.Mid()
	if l.Degenerate() {
		return Polygon{tip, tip, tip}
	}
	angle := l.Angle()
	left := Point{
		X: tip.X - size*math.Cos(angle-spread),
		Y: tip.Y - size*math.Sin(angle-spread),
	}
	right := Point{
		X: tip.X - size*math.Cos(angle+spread),
		Y: tip.Y - size*math.Sin(angle+spread),
	}
	return Polygon{tip, left, right}
}
