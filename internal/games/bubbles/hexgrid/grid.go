package hexgrid

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/vovakirdan/hexbubble/internal/core"
)

// MatchChecker is invoked after a bubble is registered with match checking.
type MatchChecker interface {
	ResolvePlacement(row, col int)
}

// Grid is the fixed-size board. Cells are stored in row-major order:
// index = row*cols + col. A nil entry is an empty cell.
type Grid struct {
	rows    int
	cols    int
	cells   []*Bubble
	layout  Layout
	checker MatchChecker
}

// New creates an empty grid with the given dimensions and layout.
func New(rows, cols int, layout Layout) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid{
		rows:   rows,
		cols:   cols,
		cells:  make([]*Bubble, rows*cols),
		layout: layout,
	}
}

// SetMatchChecker installs the resolver invoked by Register(..., true).
func (g *Grid) SetMatchChecker(mc MatchChecker) {
	g.checker = mc
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

// Layout returns the world-space layout.
func (g *Grid) Layout() Layout {
	return g.layout
}

// SetVerticalOffset scrolls the board in world space.
func (g *Grid) SetVerticalOffset(offset float64) {
	g.layout.VerticalOffset = offset
}

func (g *Grid) index(row, col int) int {
	return row*g.cols + col
}

// IsValidCell returns true if the cell is within the grid boundaries.
func (g *Grid) IsValidCell(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// IsEmpty returns true for a valid cell holding no bubble.
func (g *Grid) IsEmpty(row, col int) bool {
	if !g.IsValidCell(row, col) {
		return false
	}
	return g.cells[g.index(row, col)] == nil
}

// Bubble returns the bubble at the cell, or nil for invalid or empty cells.
func (g *Grid) Bubble(row, col int) *Bubble {
	if !g.IsValidCell(row, col) {
		return nil
	}
	return g.cells[g.index(row, col)]
}

// At is Bubble addressed by Cell.
func (g *Grid) At(c Cell) *Bubble {
	return g.Bubble(c.Row, c.Col)
}

// Register places b at (row, col). A different occupant is unregistered
// first, and so is b's own previous cell. When checkMatches is set the
// installed MatchChecker is run for the cell. Returns false for an invalid
// cell or nil bubble.
func (g *Grid) Register(row, col int, b *Bubble, checkMatches bool) bool {
	if b == nil || !g.IsValidCell(row, col) {
		return false
	}

	if prev, ok := b.Cell(); ok && g.At(prev) == b && prev != C(row, col) {
		g.Unregister(prev.Row, prev.Col)
	}
	if cur := g.cells[g.index(row, col)]; cur != nil && cur != b {
		g.Unregister(row, col)
	}

	g.cells[g.index(row, col)] = b
	b.cell = C(row, col)
	b.registered = true

	if checkMatches && g.checker != nil {
		g.checker.ResolvePlacement(row, col)
	}
	return true
}

// Unregister clears the cell and returns the bubble that was there.
// No-op on invalid or empty cells.
func (g *Grid) Unregister(row, col int) *Bubble {
	if !g.IsValidCell(row, col) {
		return nil
	}
	i := g.index(row, col)
	b := g.cells[i]
	if b == nil {
		return nil
	}
	g.cells[i] = nil
	b.cell = Unregistered
	b.registered = false
	return b
}

// Adjacent returns up to six valid neighbours in fixed table order.
func (g *Grid) Adjacent(row, col int) []Cell {
	if !g.IsValidCell(row, col) {
		return nil
	}
	out := make([]Cell, 0, 6)
	c := C(row, col)
	for d := DirUpLeft; d <= DirDownRight; d++ {
		n := c.Neighbor(d)
		if g.IsValidCell(n.Row, n.Col) {
			out = append(out, n)
		}
	}
	return out
}

// ToWorld returns the world-space center of a cell.
func (g *Grid) ToWorld(row, col int) core.Vec2 {
	return g.layout.ToWorld(row, col)
}

// ToGrid converts a world position to the nearest cell, clamped into range.
func (g *Grid) ToGrid(p core.Vec2) Cell {
	c := g.layout.ToGrid(p)
	c.Row = core.Clamp(c.Row, 0, max(g.rows-1, 0))
	c.Col = core.Clamp(c.Col, 0, max(g.cols-1, 0))
	return c
}

// Occupied returns all occupied cells in row-major order.
func (g *Grid) Occupied() []Cell {
	out := make([]Cell, 0)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if g.cells[g.index(row, col)] != nil {
				out = append(out, C(row, col))
			}
		}
	}
	return out
}

// Count returns the number of occupied cells.
func (g *Grid) Count() int {
	n := 0
	for _, b := range g.cells {
		if b != nil {
			n++
		}
	}
	return n
}

// Clear unregisters every bubble and returns them in row-major order.
func (g *Grid) Clear() []*Bubble {
	out := make([]*Bubble, 0, g.Count())
	for _, c := range g.Occupied() {
		out = append(out, g.Unregister(c.Row, c.Col))
	}
	return out
}

// String renders the board as ASCII, odd rows indented by one space.
// Fairy bubbles are printed in lowercase.
func (g *Grid) String() string {
	var sb strings.Builder
	for row := 0; row < g.rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		if row&1 == 1 {
			sb.WriteByte(' ')
		}
		for col := 0; col < g.cols; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			b := g.cells[g.index(row, col)]
			if b == nil {
				sb.WriteRune('.')
				continue
			}
			ch := b.Type.Char()
			if b.Fairy {
				ch = unicode.ToLower(ch)
			}
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// Hash returns a hash of the board contents for determinism checks.
func (g *Grid) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%dx%d;", g.rows, g.cols)
	for i, b := range g.cells {
		if b != nil {
			fmt.Fprintf(h, "%d:%d:%v,", i, b.Type, b.Fairy)
		}
	}
	return h.Sum64()
}
