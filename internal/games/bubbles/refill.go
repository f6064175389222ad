package bubbles

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexbubble/internal/games/bubbles/cascade"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
)

// Refiller pushes fresh rows in from the top. It is the resolver's Spawner
// and BattleState: while rows are being placed the respawn guard is up
// and no placement is resolved.
type Refiller struct {
	grid   *hexgrid.Grid
	pool   cascade.Pool
	rng    *rand.Rand
	logger *log.Logger

	// Rows per push and successful matches between pushes.
	Rows        int
	Every       int
	FairyChance float64
	// RespawnTicks keeps the guard up after a push.
	RespawnTicks int
	// Busy holds scheduled pushes while it reports true, typically while
	// the resolver has a resolution in flight.
	Busy func() bool

	matches     int
	requested   bool
	respawnLeft int
	pushing     bool
	pushes      int
}

// NewRefiller creates a refiller for the grid.
func NewRefiller(grid *hexgrid.Grid, pool cascade.Pool, rng *rand.Rand, logger *log.Logger) *Refiller {
	return &Refiller{
		grid:   grid,
		pool:   pool,
		rng:    rng,
		logger: logger,
		Rows:   2,
		Every:  1,
	}
}

// OnBubblesDestroyed counts a successful match and schedules a push once
// enough have accumulated.
func (r *Refiller) OnBubblesDestroyed() {
	r.matches++
	if r.Every > 0 && r.matches >= r.Every {
		r.matches = 0
		r.requested = true
	}
}

// Request schedules a push on the next tick regardless of the match count.
func (r *Refiller) Request() {
	r.requested = true
}

// IsRespawnInProgress reports whether the board is being repopulated.
func (r *Refiller) IsRespawnInProgress() bool {
	return r.pushing || r.respawnLeft > 0
}

// Pending reports whether a push is scheduled.
func (r *Refiller) Pending() bool {
	return r.requested
}

// Pushes returns the number of pushes performed.
func (r *Refiller) Pushes() int {
	return r.pushes
}

// Tick performs a scheduled push and counts down the guard. A push stays
// scheduled while Busy reports true.
func (r *Refiller) Tick() {
	if r.respawnLeft > 0 {
		r.respawnLeft--
	}
	if r.requested && r.Busy != nil && r.Busy() {
		return
	}
	if r.requested {
		r.requested = false
		r.Push(r.Rows)
	}
}

// Push shifts the board down and fills the freed top rows. The shift is
// rounded up to an even number of rows so row parity, and with it every
// neighbour relation, is preserved. Bubbles pushed past the last row are
// released.
func (r *Refiller) Push(rows int) {
	if rows <= 0 {
		return
	}
	if rows%2 == 1 {
		rows++
	}

	r.pushing = true
	defer func() { r.pushing = false }()
	r.respawnLeft = r.RespawnTicks
	r.pushes++

	released := 0
	for row := r.grid.Rows() - 1; row >= 0; row-- {
		for col := 0; col < r.grid.Cols(); col++ {
			b := r.grid.Bubble(row, col)
			if b == nil {
				continue
			}
			if row+rows >= r.grid.Rows() {
				r.grid.Unregister(row, col)
				r.pool.Release(b)
				released++
				continue
			}
			r.grid.Register(row+rows, col, b, false)
		}
	}

	palette := boardColors(r.grid)
	for row := 0; row < rows && row < r.grid.Rows(); row++ {
		for col := 0; col < r.grid.Cols(); col++ {
			b := r.pool.Acquire(palette[r.rng.Intn(len(palette))])
			b.Fairy = r.rng.Float64() < r.FairyChance
			// Resolution is suppressed while pushing.
			r.grid.Register(row, col, b, true)
		}
	}

	r.logger.Debug("board refilled", "rows", rows, "released", released, "bubbles", r.grid.Count())
}

// boardColors returns the ordinary colors still on the board, or all of
// them when the board holds none.
func boardColors(g *hexgrid.Grid) []hexgrid.BubbleType {
	var seen [8]bool
	var out []hexgrid.BubbleType
	for _, c := range g.Occupied() {
		t := g.At(c).Type
		if t.IsOrdinary() && !seen[t] {
			seen[t] = true
		}
	}
	for _, t := range hexgrid.OrdinaryTypes() {
		if seen[t] {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return hexgrid.OrdinaryTypes()
	}
	return out
}
