// Package bubbles implements the hex bubble shooter on top of the
// hexgrid, connectivity and cascade packages.
package bubbles

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexbubble/internal/config"
	"github.com/vovakirdan/hexbubble/internal/core"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/cascade"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/levels"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/pool"
	"github.com/vovakirdan/hexbubble/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

const (
	hudHeight       = 3
	levelClearTicks = 90
	scrollMargin    = 3 // Empty rows kept above the launcher
)

// Game implements the bubble shooter.
type Game struct {
	mode   Mode
	rng    *rand.Rand
	tick   uint64
	cfg    config.BubblesConfig
	diff   *config.DifficultyManager
	logger *log.Logger

	grid     *hexgrid.Grid
	pool     *pool.Pool
	resolver *cascade.Resolver
	session  *Session
	effects  *Effects
	refill   *Refiller

	levels     []levels.Level
	levelIndex int
	queue      []hexgrid.BubbleType // Scripted shots left from the level file

	loaded    hexgrid.BubbleType
	next      hexgrid.BubbleType
	aimCol    int
	shot      *Projectile
	shotsLeft int
	awaiting  bool // A placement is resolving
	outcome   cascade.Outcome

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	gameOver     bool
	won          bool
	paused       bool
	tooSmall     bool
	levelCleared bool
	clearTicks   int
}

// Package-level settings applied on Reset.
var (
	selectedStartLevel int
	gameConfig         *config.BubblesConfig
	configPath         string
	levelsDir          string
	gameLogger         *log.Logger
)

// SetStartLevel sets the starting campaign level (1-based). 0 means start
// from the beginning.
func SetStartLevel(level int) {
	selectedStartLevel = level
}

// SetConfig overrides the configuration used by new games.
func SetConfig(cfg config.BubblesConfig) {
	gameConfig = &cfg
}

// SetConfigPath makes new games read their configuration from path on every
// Reset. SetConfig takes precedence.
func SetConfigPath(path string) {
	configPath = path
}

// SetLevelsDir makes the campaign load levels from a directory instead of
// the built-in set.
func SetLevelsDir(dir string) {
	levelsDir = dir
}

// SetLogger sets the logger handed to the cascade resolver.
func SetLogger(l *log.Logger) {
	gameLogger = l
}

// New creates a new campaign game.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewEndless creates a new endless game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

func init() {
	registry.Register("bubbles", func() registry.Game {
		return New()
	})
	registry.Register("bubbles_endless", func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "bubbles_endless"
	}
	return "bubbles"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Hex Bubbles (Endless)"
	}
	return "Hex Bubbles"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.gameOver = false
	g.won = false
	g.paused = false
	g.levelCleared = false
	g.clearTicks = 0
	g.outcome = cascade.OutcomeNone

	g.logger = gameLogger
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}
	if gameConfig != nil {
		g.cfg = *gameConfig
	} else {
		cfg, err := config.LoadBubbles(configPath)
		if err != nil {
			g.logger.Warn("falling back to default config", "path", configPath, "err", err)
			cfg = config.DefaultBubblesConfig()
		}
		g.cfg = cfg
	}
	g.diff = config.NewDifficultyManager(g.cfg.Difficulty)
	g.session = NewSession(g.cfg.Scoring)

	g.levelIndex = 0
	if g.mode == ModeCampaign {
		loader := levels.Builtin()
		if levelsDir != "" {
			loader = levels.NewLoader(levelsDir)
		}
		all, err := loader.LoadAll()
		if err != nil || len(all) == 0 {
			g.logger.Error("no levels available", "err", err)
			g.gameOver = true
			return
		}
		g.levels = all
		if selectedStartLevel > 0 && selectedStartLevel <= len(all) {
			g.levelIndex = selectedStartLevel - 1
			selectedStartLevel = 0 // Reset after use
		}
	}

	g.setupBoard()
}

// setupBoard builds the grid and collaborators for the current level.
func (g *Game) setupBoard() {
	rows, cols := g.cfg.Board.Rows, g.cfg.Board.Cols
	var lvl *levels.Level
	if g.mode == ModeCampaign {
		lvl = &g.levels[g.levelIndex]
		rows, cols = lvl.Rows, lvl.Cols
	}

	boardW := float64(cols)*g.cfg.Board.CellWidth + g.cfg.Board.CellWidth/2
	originX := g.cfg.Board.OriginX
	if centered := (float64(g.screenW) - boardW) / 2; centered > originX {
		originX = centered
	}
	layout := hexgrid.Layout{
		Origin:    core.V(originX+g.cfg.Board.CellWidth/4, g.cfg.Board.OriginY),
		CellWidth: g.cfg.Board.CellWidth,
		RowHeight: g.cfg.Board.RowHeight,
	}

	g.grid = hexgrid.New(rows, cols, layout)
	g.pool = pool.New(rows * cols)
	g.effects = NewEffects(g.grid, g.session.OnFairyFreed, func() { g.refill.Request() })
	g.refill = NewRefiller(g.grid, g.pool, g.rng, g.logger)
	g.refill.Every = g.cfg.Spawn.RefillEvery
	g.refill.Rows = g.cfg.Spawn.RefillRows
	g.refill.FairyChance = g.cfg.Spawn.FairyChance
	g.refill.RespawnTicks = g.cfg.Spawn.RespawnTicks

	g.resolver = cascade.New(g.grid, cascade.Deps{
		Pool:      g.pool,
		Presenter: g.effects,
		Scorer:    g.session,
		Spawner:   g.refill,
		Battle:    g.refill,
		Logger:    g.logger,
	}, cascade.Config{
		MatchThreshold: g.cfg.Rules.MatchThreshold,
		NeroRadius:     g.cfg.Rules.NeroRadius,
		WaveDelay:      g.cfg.Timing.WaveDelay,
		DropDelay:      g.cfg.Timing.DropDelay,
	})
	g.refill.Busy = g.resolver.Busy

	g.queue = nil
	if lvl != nil {
		lvl.Populate(g.grid, g.pool)
		g.queue = append(g.queue, lvl.Queue...)
		g.shotsLeft = lvl.Shots
		// Campaign boards are fixed; refills only come from freed fairies.
		g.refill.Every = 0
	} else {
		g.refill.Push(g.cfg.Spawn.InitialRows)
		g.shotsLeft = g.cfg.Rules.Shots
	}

	g.shot = nil
	g.awaiting = false
	g.aimCol = cols / 2
	g.loaded = g.nextShot()
	g.next = g.nextShot()
	g.updateScroll()
	g.checkScreenSize()
}

// nextShot draws the next bubble type for the launcher.
func (g *Game) nextShot() hexgrid.BubbleType {
	if len(g.queue) > 0 {
		t := g.queue[0]
		g.queue = g.queue[1:]
		return t
	}

	score := g.session.Score
	special := g.diff.SpecialChance(g.cfg.Spawn.SpellChance+g.cfg.Spawn.NeroChance, score, int(g.tick))
	if roll := g.rng.Float64(); roll < special {
		total := g.cfg.Spawn.SpellChance + g.cfg.Spawn.NeroChance
		if g.rng.Float64()*total < g.cfg.Spawn.SpellChance {
			return hexgrid.TypeSpell
		}
		return hexgrid.TypeNero
	}

	palette := boardColors(g.grid)
	return palette[g.rng.Intn(len(palette))]
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	minW := int(float64(g.grid.Cols())*g.cfg.Board.CellWidth+g.cfg.Board.CellWidth) + 2
	minH := hudHeight + int(float64(g.visibleRows()+1)*g.cfg.Board.RowHeight) + 2
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

func (g *Game) visibleRows() int {
	return min(g.cfg.Board.VisibleRows, g.grid.Rows())
}

// loseRow is the first row a bubble may not settle in.
func (g *Game) loseRow() int {
	if g.mode == ModeEndless {
		return min(g.cfg.Rules.LoseRow, g.grid.Rows()-1)
	}
	return g.grid.Rows() - 1
}

// launchPos is where shots start, fixed relative to the screen.
func (g *Game) launchPos() core.Vec2 {
	l := g.grid.Layout()
	x := g.grid.ToWorld(0, g.aimCol).X
	return core.V(x, l.Origin.Y+float64(g.visibleRows())*l.RowHeight)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	// Restart is handled by the platform
	if g.gameOver || g.won {
		return core.StepResult{State: g.State()}
	}

	if g.levelCleared {
		g.clearTicks++
		if g.clearTicks >= levelClearTicks {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	g.resolver.Tick()
	g.effects.Tick()
	g.refill.Tick()
	g.settleIfIdle()

	g.handleInput(in)

	if g.shot != nil {
		speed := g.diff.Speed(g.cfg.Timing.ShotSpeed, g.session.Score, int(g.tick))
		if res, hit := advance(g.grid, g.shot, speed); hit {
			g.place(res)
		}
	}

	g.checkEnd()
	return core.StepResult{State: g.State()}
}

func (g *Game) handleInput(in core.InputFrame) {
	if g.shot != nil {
		return
	}
	if in.Has(core.ActionLeft) && g.aimCol > 0 {
		g.aimCol--
	}
	if in.Has(core.ActionRight) && g.aimCol < g.grid.Cols()-1 {
		g.aimCol++
	}
	if in.Has(core.ActionSwap) {
		g.loaded, g.next = g.next, g.loaded
	}
	if in.Has(core.ActionFire) && g.CanFire() {
		g.fire()
	}
}

// CanFire reports whether a new shot may be launched.
func (g *Game) CanFire() bool {
	return g.shot == nil && !g.awaiting && !g.resolver.Busy() &&
		!g.refill.IsRespawnInProgress() && g.shotsLeft > 0
}

func (g *Game) fire() {
	pos := g.launchPos()
	b := g.pool.Acquire(g.loaded)
	if b.Type == hexgrid.TypeNero {
		g.resolver.SetPendingTargets(columnTargets(g.grid, pos.X))
	}
	g.shot = &Projectile{Bubble: b, Pos: pos}
	g.shotsLeft--
	g.loaded = g.next
	g.next = g.nextShot()
}

// place settles the projectile. The grid runs the resolver on register.
func (g *Game) place(res landing) {
	b := g.shot.Bubble
	g.shot = nil

	if !res.ok {
		g.logger.Debug("shot found no landing cell")
		g.resolver.ClearPendingTargets()
		g.pool.Release(b)
		g.session.OnMatchFailure()
		g.outcome = cascade.OutcomeFailure
		return
	}

	g.awaiting = true
	g.grid.Register(res.cell.Row, res.cell.Col, b, true)
	g.settleIfIdle()
}

// settleIfIdle finishes a placement once its resolution is over.
func (g *Game) settleIfIdle() {
	if !g.awaiting || g.resolver.Busy() {
		return
	}
	g.awaiting = false
	g.outcome = g.resolver.LastOutcome()

	if g.grid.Count() == 0 {
		if g.mode == ModeCampaign {
			g.levelCleared = true
			g.clearTicks = 0
			return
		}
		g.refill.Request()
	}
	if g.mode == ModeEndless {
		g.refill.Every = g.diff.RefillEvery(g.cfg.Spawn.RefillEvery, g.session.Score, int(g.tick))
		g.refill.Rows = g.diff.RefillRows(g.cfg.Spawn.RefillRows, g.session.Score, int(g.tick))
	}
	g.updateScroll()
}

// updateScroll shifts tall boards so the lowest bubbles stay in view.
func (g *Game) updateScroll() {
	lowest := -1
	for _, c := range g.grid.Occupied() {
		lowest = max(lowest, c.Row)
	}
	offset := 0.0
	if over := lowest + scrollMargin - g.visibleRows(); over > 0 {
		offset = -float64(over) * g.grid.Layout().RowHeight
	}
	g.grid.SetVerticalOffset(offset)
}

// checkEnd ends the game when the board overflows or shots run out.
func (g *Game) checkEnd() {
	if g.shot != nil || g.awaiting || g.levelCleared || g.resolver.Busy() {
		return
	}
	if g.refill.IsRespawnInProgress() || g.refill.Pending() {
		return
	}
	lose := g.loseRow()
	for _, c := range g.grid.Occupied() {
		if c.Row >= lose {
			g.gameOver = true
			return
		}
	}
	if g.shotsLeft <= 0 && g.grid.Count() > 0 && !g.effects.Active() {
		g.gameOver = true
	}
}

// advanceLevel moves to the next campaign level.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.clearTicks = 0

	if g.levelIndex >= len(g.levels)-1 {
		g.won = true
		return
	}
	g.levelIndex++
	g.setupBoard()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	combo := 0
	score := 0
	if g.session != nil {
		combo = g.session.Combo
		score = g.session.Score
	}
	return core.GameState{
		Score:    score,
		Combo:    combo,
		GameOver: g.gameOver || g.won,
		Won:      g.won,
		Paused:   g.paused || g.tooSmall || g.levelCleared,
	}
}

// Stats returns the session counters for storage.
func (g *Game) Stats() registry.SessionStats {
	s := registry.SessionStats{Mode: string(g.mode), Level: g.levelIndex + 1}
	if g.session != nil {
		s.Score = g.session.Score
		s.BestCombo = g.session.BestCombo
		s.Matches = g.session.Matches
		s.Misses = g.session.Misses
		s.Dropped = g.session.Dropped
	}
	return s
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "←/→: Aim | Space: Fire | Tab: Swap | P: Pause | R: Restart | Q: Quit"
}
