package hexgrid

import "fmt"

// Cell addresses one grid slot. Row 0 is the anchor row at the top.
type Cell struct {
	Row int
	Col int
}

// Unregistered is the back-reference of a bubble that is not on the grid.
var Unregistered = Cell{Row: -1, Col: -1}

// C is a convenience constructor for Cell.
func C(row, col int) Cell {
	return Cell{Row: row, Col: col}
}

// String returns a string representation of the cell.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Direction indexes the fixed neighbour table.
type Direction uint8

const (
	DirUpLeft Direction = iota
	DirUpRight
	DirLeft
	DirRight
	DirDownLeft
	DirDownRight
)

// neighborOffsets holds (dRow, dCol) per direction for even and odd rows.
// Odd rows are shifted half a cell to the right. Table order is the BFS
// visiting order and must stay fixed for deterministic replays.
var neighborOffsets = [2][6]Cell{
	{ // even rows
		{Row: -1, Col: -1},
		{Row: -1, Col: 0},
		{Row: 0, Col: -1},
		{Row: 0, Col: 1},
		{Row: 1, Col: -1},
		{Row: 1, Col: 0},
	},
	{ // odd rows
		{Row: -1, Col: 0},
		{Row: -1, Col: 1},
		{Row: 0, Col: -1},
		{Row: 0, Col: 1},
		{Row: 1, Col: 0},
		{Row: 1, Col: 1},
	},
}

// Neighbor returns the cell one step in the given direction, ignoring bounds.
func (c Cell) Neighbor(d Direction) Cell {
	off := neighborOffsets[c.Row&1][d]
	return Cell{Row: c.Row + off.Row, Col: c.Col + off.Col}
}
