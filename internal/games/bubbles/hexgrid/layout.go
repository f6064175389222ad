package hexgrid

import (
	"math"

	"github.com/vovakirdan/hexbubble/internal/core"
)

// Layout maps grid cells to world space. Odd rows sit half a cell to the
// right of even rows.
type Layout struct {
	Origin         core.Vec2 // World position of cell (0,0)
	CellWidth      float64   // Horizontal distance between column centers
	RowHeight      float64   // Vertical distance between row centers
	VerticalOffset float64   // Scroll offset for boards taller than the view
}

// DefaultLayout returns a unit layout with regular hexagon spacing.
func DefaultLayout() Layout {
	return Layout{
		CellWidth: 1,
		RowHeight: math.Sqrt(3) / 2,
	}
}

// rowShift returns the horizontal shift applied to a row.
func (l Layout) rowShift(row int) float64 {
	if row&1 == 1 {
		return l.CellWidth / 2
	}
	return 0
}

// ToWorld returns the world-space center of a cell. Out-of-range cells are
// still projected so callers can measure distances to them.
func (l Layout) ToWorld(row, col int) core.Vec2 {
	return core.Vec2{
		X: l.Origin.X + float64(col)*l.CellWidth + l.rowShift(row),
		Y: l.Origin.Y + float64(row)*l.RowHeight + l.VerticalOffset,
	}
}

// ToGrid returns the nearest cell to a world position, unclamped.
func (l Layout) ToGrid(p core.Vec2) Cell {
	row := int(math.Round((p.Y - l.Origin.Y - l.VerticalOffset) / l.RowHeight))
	col := int(math.Round((p.X - l.Origin.X - l.rowShift(row)) / l.CellWidth))
	return Cell{Row: row, Col: col}
}
