// Package connectivity answers graph queries over a hex board: same-type
// clusters, BFS depth layers, anchor support and floating bubbles.
// It never mutates the board.
package connectivity

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"

	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
)

// AnchorRow is the ceiling row that supports every attached bubble.
const AnchorRow = 0

// Board is the read-only view of the grid used by the analyzer.
type Board interface {
	Rows() int
	Cols() int
	IsValidCell(row, col int) bool
	Bubble(row, col int) *hexgrid.Bubble
	Adjacent(row, col int) []hexgrid.Cell
}

// Analyzer runs BFS queries against a Board.
type Analyzer struct {
	board Board
}

// New creates an analyzer for the board.
func New(board Board) *Analyzer {
	return &Analyzer{board: board}
}

func (a *Analyzer) occupied(c hexgrid.Cell) bool {
	return a.board.Bubble(c.Row, c.Col) != nil
}

// FindConnectedSameType returns the cells reachable from seed through
// occupied neighbours of the seed's type, in BFS visit order. The seed is
// first. Returns nil for an empty seed.
func (a *Analyzer) FindConnectedSameType(seed hexgrid.Cell) []hexgrid.Cell {
	var out []hexgrid.Cell
	for _, level := range a.CollectConnectedByLevel(seed) {
		out = append(out, level...)
	}
	return out
}

// CollectConnectedByLevel returns the same-type component of seed grouped
// by BFS depth. Level 0 is the seed alone. Returns nil for an empty seed.
func (a *Analyzer) CollectConnectedByLevel(seed hexgrid.Cell) [][]hexgrid.Cell {
	start := a.board.Bubble(seed.Row, seed.Col)
	if start == nil {
		return nil
	}
	want := start.Type

	visited := mapset.New[hexgrid.Cell]()
	visited.Put(seed)
	levels := [][]hexgrid.Cell{{seed}}
	frontier := []hexgrid.Cell{seed}

	for len(frontier) > 0 {
		var next []hexgrid.Cell
		for _, c := range frontier {
			for _, n := range a.board.Adjacent(c.Row, c.Col) {
				if visited.Has(n) {
					continue
				}
				b := a.board.Bubble(n.Row, n.Col)
				if b == nil || b.Type != want {
					continue
				}
				visited.Put(n)
				next = append(next, n)
			}
		}
		if len(next) > 0 {
			levels = append(levels, next)
		}
		frontier = next
	}
	return levels
}

// IsConnectedToAnchor reports whether an occupied path links the cell to
// the anchor row. Empty cells are never connected.
func (a *Analyzer) IsConnectedToAnchor(cell hexgrid.Cell) bool {
	if !a.occupied(cell) {
		return false
	}
	if cell.Row == AnchorRow {
		return true
	}
	return a.supported(mapset.New[hexgrid.Cell]()).Has(cell)
}

// FindFloating returns every occupied cell with no path to the anchor row,
// in row-major order.
func (a *Analyzer) FindFloating() []hexgrid.Cell {
	return a.FindFloatingAfterRemoval(mapset.New[hexgrid.Cell]())
}

// FindFloatingAfterRemoval is FindFloating on the board as it would be
// once the removal cells are cleared. Removal cells are neither traversed
// nor reported.
func (a *Analyzer) FindFloatingAfterRemoval(removal mapset.Set[hexgrid.Cell]) []hexgrid.Cell {
	reached := a.supported(removal)

	var out []hexgrid.Cell
	for row := 0; row < a.board.Rows(); row++ {
		for col := 0; col < a.board.Cols(); col++ {
			c := hexgrid.C(row, col)
			if !a.occupied(c) || removal.Has(c) || reached.Has(c) {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

// supported floods from every occupied anchor cell over occupied cells,
// skipping removed ones.
func (a *Analyzer) supported(removal mapset.Set[hexgrid.Cell]) mapset.Set[hexgrid.Cell] {
	reached := mapset.New[hexgrid.Cell]()
	q := queue.New[hexgrid.Cell]()

	for col := 0; col < a.board.Cols(); col++ {
		c := hexgrid.C(AnchorRow, col)
		if a.occupied(c) && !removal.Has(c) {
			reached.Put(c)
			q.Enqueue(c)
		}
	}

	for !q.Empty() {
		c := q.Dequeue()
		for _, n := range a.board.Adjacent(c.Row, c.Col) {
			if reached.Has(n) || removal.Has(n) || !a.occupied(n) {
				continue
			}
			reached.Put(n)
			q.Enqueue(n)
		}
	}
	return reached
}

// DistancesFrom returns BFS depths from seed, walking only through cells in
// targets. Targets not reachable that way are absent from the result.
func (a *Analyzer) DistancesFrom(seed hexgrid.Cell, targets []hexgrid.Cell) map[hexgrid.Cell]int {
	allowed := mapset.New[hexgrid.Cell]()
	for _, c := range targets {
		allowed.Put(c)
	}

	dist := make(map[hexgrid.Cell]int, len(targets))
	if !allowed.Has(seed) {
		return dist
	}
	dist[seed] = 0
	q := queue.New[hexgrid.Cell]()
	q.Enqueue(seed)

	for !q.Empty() {
		c := q.Dequeue()
		for _, n := range a.board.Adjacent(c.Row, c.Col) {
			if _, seen := dist[n]; seen || !allowed.Has(n) {
				continue
			}
			dist[n] = dist[c] + 1
			q.Enqueue(n)
		}
	}
	return dist
}

// SortByDistance orders cells by BFS distance from the first cell through
// the set itself. Unreachable cells keep their relative order at the end.
func (a *Analyzer) SortByDistance(cells []hexgrid.Cell) []hexgrid.Cell {
	out := append([]hexgrid.Cell(nil), cells...)
	if len(out) < 2 {
		return out
	}
	dist := a.DistancesFrom(out[0], out)
	sort.SliceStable(out, func(i, j int) bool {
		di, iok := dist[out[i]]
		dj, jok := dist[out[j]]
		if iok != jok {
			return iok
		}
		return di < dj
	})
	return out
}

// CellsWithinRadius returns all valid cells at most radius steps from seed,
// ignoring occupancy, in BFS order. The seed is included.
func (a *Analyzer) CellsWithinRadius(seed hexgrid.Cell, radius int) []hexgrid.Cell {
	if !a.board.IsValidCell(seed.Row, seed.Col) || radius < 0 {
		return nil
	}
	dist := map[hexgrid.Cell]int{seed: 0}
	out := []hexgrid.Cell{seed}
	q := queue.New[hexgrid.Cell]()
	q.Enqueue(seed)

	for !q.Empty() {
		c := q.Dequeue()
		if dist[c] == radius {
			continue
		}
		for _, n := range a.board.Adjacent(c.Row, c.Col) {
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[c] + 1
			out = append(out, n)
			q.Enqueue(n)
		}
	}
	return out
}
