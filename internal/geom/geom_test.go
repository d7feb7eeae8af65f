package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestArrowheadTipAtMidpoint(t *testing.T) {
	poly := Arrowhead(Pt(0, 0), Pt(100, 0), DefaultArrowSize, DefaultArrowSpread)
	require.Len(t, poly, 3)

	assert.Equal(t, Pt(50, 0), poly[0])
	for _, corner := range poly[1:] {
		assert.InDelta(t, DefaultArrowSize, corner.Dist(poly[0]), eps)
		assert.Less(t, corner.X, poly[0].X, "back corners sit behind the tip")
	}
	// Symmetric about the horizontal line.
	assert.InDelta(t, -poly[1].Y, poly[2].Y, eps)
	assert.InDelta(t, 15, math.Abs(poly[1].Y), eps)
}

func TestArrowheadFollowsDirection(t *testing.T) {
	fwd := Arrowhead(Pt(0, 0), Pt(0, 100), 30, DefaultArrowSpread)
	back := Arrowhead(Pt(0, 100), Pt(0, 0), 30, DefaultArrowSpread)

	assert.Equal(t, fwd[0], back[0], "same midpoint either way")
	assert.Less(t, fwd[1].Y, fwd[0].Y, "pointing down puts the corners above the tip")
	assert.Greater(t, back[1].Y, back[0].Y, "pointing up puts the corners below the tip")
}

func TestArrowheadDegenerate(t *testing.T) {
	poly := Arrowhead(Pt(7, 7), Pt(7, 7), 30, DefaultArrowSpread)
	require.Len(t, poly, 3)
	assert.Zero(t, poly.Area())
	for _, p := range poly {
		assert.Equal(t, Pt(7, 7), p)
	}
}

func TestLineAngleDegenerate(t *testing.T) {
	assert.Zero(t, Line{P1: Pt(1, 1), P2: Pt(1, 1)}.Angle())
	assert.InDelta(t, math.Pi/2, Line{P1: Pt(0, 0), P2: Pt(0, 1)}.Angle(), eps)
}

func TestLineDistance(t *testing.T) {
	l := Line{P1: Pt(0, 0), P2: Pt(10, 0)}

	assert.InDelta(t, 3, l.Distance(Pt(5, 3)), eps)
	assert.InDelta(t, 5, l.Distance(Pt(-3, 4)), eps, "clamped to the P1 end")
	assert.InDelta(t, 5, l.Distance(Pt(13, 4)), eps, "clamped to the P2 end")
	assert.InDelta(t, 5, Line{P1: Pt(0, 0), P2: Pt(0, 0)}.Distance(Pt(3, 4)), eps)
}

func TestRect(t *testing.T) {
	r := RectAt(Pt(10, 20), Size{W: 200, H: 50})

	assert.Equal(t, Pt(110, 45), r.Center())
	assert.True(t, r.Contains(Pt(10, 20)))
	assert.True(t, r.Contains(Pt(210, 70)))
	assert.False(t, r.Contains(Pt(211, 70)))
}

func TestPolygonArea(t *testing.T) {
	square := Polygon{Pt(0, 0), Pt(2, 0), Pt(2, 2), Pt(0, 2)}
	assert.InDelta(t, 4, square.Area(), eps)
	assert.Zero(t, Polygon{Pt(0, 0), Pt(1, 1)}.Area())
}
