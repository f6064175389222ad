package hexgrid

import (
	"math"

	"github.com/vovakirdan/hexbubble/internal/core"
)

// FindLandingCell picks the empty cell a projectile settles into after it
// hits the bubble at anchorPos. The preferred neighbour depends on where
// the impact point lies relative to the anchor center; if it is unusable
// the closest valid empty neighbour to the impact point is taken.
// Returns false when the anchor has no valid empty neighbour.
func (g *Grid) FindLandingCell(anchorPos, impact core.Vec2) (Cell, bool) {
	if g.rows == 0 || g.cols == 0 {
		return Unregistered, false
	}
	anchor := g.ToGrid(anchorPos)
	center := g.ToWorld(anchor.Row, anchor.Col)

	dx := impact.X - center.X
	dy := impact.Y - center.Y
	left := dx < 0

	var dir Direction
	switch {
	case math.Abs(dy) < g.layout.RowHeight/4:
		dir = pick(left, DirLeft, DirRight)
	case dy > 0:
		dir = pick(left, DirDownLeft, DirDownRight)
	default:
		dir = pick(left, DirUpLeft, DirUpRight)
	}

	if c := anchor.Neighbor(dir); g.IsEmpty(c.Row, c.Col) {
		return c, true
	}

	best := Unregistered
	bestDist := math.Inf(1)
	for _, c := range g.Adjacent(anchor.Row, anchor.Col) {
		if !g.IsEmpty(c.Row, c.Col) {
			continue
		}
		// Strict less keeps the first cell in table order on ties.
		if d := g.ToWorld(c.Row, c.Col).DistSq(impact); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best != Unregistered
}

func pick(left bool, l, r Direction) Direction {
	if left {
		return l
	}
	return r
}
