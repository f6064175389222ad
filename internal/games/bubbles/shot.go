package bubbles

import (
	"math"

	"github.com/vovakirdan/hexbubble/internal/core"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
)

// contactDist is the normalized distance at which a shot touches a
// bubble. A diagonal neighbour sits at sqrt(0.25+1) ~ 1.118.
const contactDist = 1.12

// maxSubstep limits how far a shot moves between contact checks, in rows.
const maxSubstep = 0.25

// Projectile is a bubble in flight. It travels straight up.
type Projectile struct {
	Bubble *hexgrid.Bubble
	Pos    core.Vec2
}

// landing is where a projectile comes to rest.
type landing struct {
	cell hexgrid.Cell
	ok   bool
}

// normDist measures distance in cell units so that one column step and
// one row step both count as 1.
func normDist(l hexgrid.Layout, a, b core.Vec2) float64 {
	dx := (a.X - b.X) / l.CellWidth
	dy := (a.Y - b.Y) / l.RowHeight
	return math.Sqrt(dx*dx + dy*dy)
}

// advance moves the projectile up by rows and reports where it lands, if
// it touched the ceiling or a bubble on the way.
func advance(g *hexgrid.Grid, p *Projectile, rows float64) (landing, bool) {
	l := g.Layout()
	remaining := rows
	for remaining > 0 {
		step := math.Min(remaining, maxSubstep)
		remaining -= step
		p.Pos.Y -= step * l.RowHeight

		if res, hit := contact(g, p.Pos); hit {
			return res, true
		}
	}
	return landing{}, false
}

// contact checks the projectile against the ceiling and nearby bubbles.
func contact(g *hexgrid.Grid, pos core.Vec2) (landing, bool) {
	l := g.Layout()
	top := g.ToWorld(0, 0).Y
	cell := g.ToGrid(pos)

	if g.At(cell) != nil {
		return land(g, cell, pos), true
	}

	anchor := hexgrid.Unregistered
	best := math.Inf(1)
	for _, n := range g.Adjacent(cell.Row, cell.Col) {
		if g.At(n) == nil {
			continue
		}
		if d := normDist(l, pos, g.ToWorld(n.Row, n.Col)); d <= contactDist && d < best {
			anchor, best = n, d
		}
	}
	if anchor != hexgrid.Unregistered {
		return land(g, anchor, pos), true
	}

	if pos.Y <= top {
		ceiling := g.ToGrid(core.V(pos.X, top))
		if g.IsEmpty(ceiling.Row, ceiling.Col) {
			return landing{cell: ceiling, ok: true}, true
		}
		return land(g, ceiling, pos), true
	}
	return landing{}, false
}

func land(g *hexgrid.Grid, anchor hexgrid.Cell, pos core.Vec2) landing {
	c, ok := g.FindLandingCell(g.ToWorld(anchor.Row, anchor.Col), pos)
	return landing{cell: c, ok: ok}
}

// columnTargets returns the world positions of occupied cells the aim
// column passes through, top to bottom. They pre-aim a Nero shot.
func columnTargets(g *hexgrid.Grid, x float64) []core.Vec2 {
	l := g.Layout()
	var out []core.Vec2
	for row := 0; row < g.Rows(); row++ {
		c := l.ToGrid(core.V(x, l.ToWorld(row, 0).Y))
		if g.Bubble(c.Row, c.Col) != nil {
			out = append(out, g.ToWorld(c.Row, c.Col))
		}
	}
	return out
}
