package bubbles

import (
	"bytes"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexbubble/internal/config"
	"github.com/vovakirdan/hexbubble/internal/core"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/cascade"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/pool"
	"github.com/vovakirdan/hexbubble/internal/registry"
)

func testLayout() hexgrid.Layout {
	return hexgrid.Layout{CellWidth: 4, RowHeight: 2}
}

func testConfig() config.BubblesConfig {
	cfg := config.DefaultBubblesConfig()
	cfg.Timing.WaveDelay = 0
	cfg.Timing.DropDelay = 0
	return cfg
}

func newTestGame(t *testing.T, mode Mode, seed int64) *Game {
	t.Helper()
	SetConfig(testConfig())
	g := &Game{mode: mode}
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 40, TickRate: 60, Seed: seed})
	if g.grid == nil {
		t.Fatal("board not set up")
	}
	return g
}

func TestSessionScoring(t *testing.T) {
	s := NewSession(config.ScoringConfig{DestroyPoints: 10, DropPoints: 20, ComboBonus: 5, FairyBonus: 50})

	for i := 0; i < 3; i++ {
		s.OnBubbleDestroyed(hexgrid.TypeRed, hexgrid.TypeRed)
	}
	s.OnMatchSuccess()
	if s.Score != 30 || s.Combo != 1 {
		t.Fatalf("after first match: score=%d combo=%d", s.Score, s.Combo)
	}

	s.OnBubbleDropped(hexgrid.TypeBlue)
	s.OnMatchSuccess()
	if s.Score != 55 || s.Combo != 2 {
		t.Fatalf("after second match: score=%d combo=%d, want 55 2", s.Score, s.Combo)
	}

	s.OnMatchFailure()
	s.OnFairyFreed()
	if s.Combo != 0 || s.BestCombo != 2 || s.Misses != 1 || s.Score != 105 {
		t.Errorf("session = %+v", s)
	}
}

func TestAdvanceLandsBelowBubble(t *testing.T) {
	g := hexgrid.New(6, 5, testLayout())
	g.Register(0, 2, hexgrid.NewBubble(1, hexgrid.TypeRed), false)

	p := &Projectile{
		Bubble: hexgrid.NewBubble(2, hexgrid.TypeBlue),
		Pos:    core.V(g.ToWorld(0, 2).X, g.ToWorld(5, 0).Y),
	}
	res, hit := advance(g, p, 10)
	if !hit || !res.ok {
		t.Fatalf("expected a landing, got %+v hit=%v", res, hit)
	}
	if res.cell != hexgrid.C(1, 2) {
		t.Errorf("landing = %v, want (1,2)", res.cell)
	}
}

func TestAdvanceStopsAtCeiling(t *testing.T) {
	g := hexgrid.New(6, 5, testLayout())
	p := &Projectile{
		Bubble: hexgrid.NewBubble(1, hexgrid.TypeGreen),
		Pos:    core.V(g.ToWorld(0, 3).X, g.ToWorld(5, 0).Y),
	}

	if _, hit := advance(g, p, 1); hit {
		t.Fatal("shot should still be in flight")
	}
	res, hit := advance(g, p, 10)
	if !hit || !res.ok || res.cell != hexgrid.C(0, 3) {
		t.Errorf("landing = %+v hit=%v, want (0,3)", res, hit)
	}
}

func TestColumnTargets(t *testing.T) {
	g := hexgrid.New(6, 5, testLayout())
	g.Register(0, 2, hexgrid.NewBubble(1, hexgrid.TypeRed), false)
	g.Register(1, 2, hexgrid.NewBubble(2, hexgrid.TypeRed), false)
	g.Register(3, 1, hexgrid.NewBubble(3, hexgrid.TypeRed), false)

	got := columnTargets(g, g.ToWorld(0, 2).X)
	if len(got) != 2 || got[0] != g.ToWorld(0, 2) || got[1] != g.ToWorld(1, 2) {
		t.Errorf("targets = %v", got)
	}
}

func newTestRefiller(rows, cols int) (*hexgrid.Grid, *Refiller, *cascade.Resolver) {
	g := hexgrid.New(rows, cols, testLayout())
	p := pool.New(rows * cols)
	r := NewRefiller(g, p, rand.New(rand.NewSource(7)), log.New(io.Discard))
	res := cascade.New(g, cascade.Deps{Pool: p, Spawner: r, Battle: r}, cascade.DefaultConfig())
	return g, r, res
}

func TestRefillerPushKeepsParity(t *testing.T) {
	g, r, _ := newTestRefiller(6, 4)
	kept := hexgrid.NewBubble(100, hexgrid.TypeRed)
	g.Register(0, 1, kept, false)
	g.Register(4, 0, hexgrid.NewBubble(101, hexgrid.TypeBlue), false)

	r.Push(1)

	if c, _ := kept.Cell(); c != hexgrid.C(2, 1) {
		t.Errorf("kept bubble at %v, want (2,1)", c)
	}
	// Two fresh rows plus the survivor; the bubble at row 4 fell off.
	if g.Count() != 9 {
		t.Errorf("count = %d, want 9\n%s", g.Count(), g)
	}
	for col := 0; col < 4; col++ {
		if g.Bubble(0, col) == nil || g.Bubble(1, col) == nil {
			t.Errorf("top rows not filled at col %d", col)
		}
	}
}

func TestRefillerGuardSuppressesResolution(t *testing.T) {
	g, r, res := newTestRefiller(8, 6)
	r.RespawnTicks = 2

	r.Push(4)
	if g.Count() != 24 {
		t.Fatalf("count = %d, want 24 (nothing resolved during push)", g.Count())
	}
	if res.LastOutcome() != cascade.OutcomeSuppressed {
		t.Errorf("outcome = %v, want suppressed", res.LastOutcome())
	}

	if !r.IsRespawnInProgress() {
		t.Fatal("guard should be up after push")
	}
	r.Tick()
	r.Tick()
	if r.IsRespawnInProgress() {
		t.Error("guard should drop after RespawnTicks")
	}
}

func TestRefillerEvery(t *testing.T) {
	_, r, _ := newTestRefiller(6, 4)
	r.Every = 2

	r.OnBubblesDestroyed()
	if r.Pending() {
		t.Fatal("one match should not schedule a push")
	}
	r.OnBubblesDestroyed()
	if !r.Pending() {
		t.Fatal("second match should schedule a push")
	}
	r.Tick()
	if r.Pending() || r.Pushes() != 1 {
		t.Errorf("pending=%v pushes=%d", r.Pending(), r.Pushes())
	}
}

func TestEffectsFairyFadeRequestsRefill(t *testing.T) {
	g := hexgrid.New(4, 4, testLayout())
	freed, faded := 0, 0
	fx := NewEffects(g, func() { freed++ }, func() { faded++ })

	fx.OnSpecialMarkerSpawned(core.V(1, 1))
	if freed != 1 || !fx.Active() {
		t.Fatalf("freed=%d active=%v", freed, fx.Active())
	}
	for i := 0; i < fairyTicks; i++ {
		fx.Tick()
	}
	if faded != 1 || fx.Active() || len(fx.List()) != 0 {
		t.Errorf("faded=%d active=%v effects=%d", faded, fx.Active(), len(fx.List()))
	}
}

// hangColumn fills col 0 with red from row 0 down to row n-2 and returns a
// red bubble ready to settle at row n-1, completing an n-long cluster
// whose match levels are one cell each.
func hangColumn(g *hexgrid.Grid, p cascade.Pool, n int) *hexgrid.Bubble {
	for row := 0; row < n-1; row++ {
		g.Register(row, 0, p.Acquire(hexgrid.TypeRed), false)
	}
	return p.Acquire(hexgrid.TypeRed)
}

func TestRefillerWaitsForResolution(t *testing.T) {
	g := hexgrid.New(10, 6, testLayout())
	p := pool.New(60)
	r := NewRefiller(g, p, rand.New(rand.NewSource(7)), log.New(io.Discard))
	fx := NewEffects(g, nil, r.Request)
	cfg := cascade.DefaultConfig()
	cfg.WaveDelay = 3
	res := cascade.New(g, cascade.Deps{Pool: p, Presenter: fx, Spawner: r, Battle: r}, cfg)
	r.Busy = res.Busy

	// A freed fairy fades two ticks into an eight-wave resolution.
	fx.add(EffectFairy, core.V(0, 0), hexgrid.TypeNone, 2)
	g.Register(7, 0, hangColumn(g, p, 8), true)
	if !res.Busy() {
		t.Fatal("expected a resolution in flight")
	}

	for i := 0; i < 100 && (res.Busy() || r.Pending()); i++ {
		res.Tick()
		fx.Tick()
		busy := res.Busy()
		r.Tick()
		if busy && r.Pushes() > 0 {
			t.Fatalf("refill pushed at tick %d while resolving:\n%s", i, g)
		}
	}

	if r.Pushes() != 1 {
		t.Fatalf("pushes = %d, want 1 once the resolution finished", r.Pushes())
	}
	if got := res.LastReport(); got.Outcome != cascade.OutcomeSuccess || got.Destroyed != 8 || got.Waves != 8 {
		t.Errorf("report = %+v, want 8 destroyed over 8 waves", got)
	}
	// Only the two fresh rows remain; the whole red column is gone.
	if g.Count() != 12 {
		t.Errorf("count = %d, want 12\n%s", g.Count(), g)
	}
	for row := 2; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			if g.Bubble(row, col) != nil {
				t.Errorf("leftover bubble at (%d,%d)\n%s", row, col, g)
			}
		}
	}
}

func TestStepHoldsRefillDuringCascade(t *testing.T) {
	cfg := testConfig()
	cfg.Timing.WaveDelay = 3
	cfg.Spawn.RespawnTicks = 0
	SetConfig(cfg)
	g := &Game{mode: ModeEndless}
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 40, TickRate: 60, Seed: 5})

	for _, b := range g.grid.Clear() {
		g.pool.Release(b)
	}
	last := hangColumn(g.grid, g.pool, 8)
	g.awaiting = true
	g.grid.Register(7, 0, last, true)
	g.refill.Request()
	before := g.refill.Pushes()

	idle := core.NewInputFrame()
	steps := 0
	for ; steps < 200 && g.resolver.Busy(); steps++ {
		if g.refill.Pushes() != before {
			t.Fatalf("refill pushed at step %d while resolving:\n%s", steps, g.grid)
		}
		if !g.refill.Pending() {
			t.Fatalf("refill request dropped at step %d", steps)
		}
		g.Step(idle)
	}
	if g.resolver.Busy() {
		t.Fatal("resolution never finished")
	}
	if steps < 7*cfg.Timing.WaveDelay {
		t.Errorf("resolution took %d steps, want at least %d", steps, 7*cfg.Timing.WaveDelay)
	}
	if g.refill.Pushes() != before+1 {
		t.Errorf("pushes = %d, want %d after the cascade", g.refill.Pushes(), before+1)
	}
	for row := 2; row < g.grid.Rows(); row++ {
		if g.grid.Bubble(row, 0) != nil {
			t.Errorf("column bubble survived at row %d\n%s", row, g.grid)
		}
	}
	if g.awaiting || g.State().GameOver {
		t.Errorf("awaiting=%v state=%+v", g.awaiting, g.State())
	}
}

func TestResetFallsBackOnConfigError(t *testing.T) {
	prevCfg, prevPath, prevLogger := gameConfig, configPath, gameLogger
	t.Cleanup(func() { gameConfig, configPath, gameLogger = prevCfg, prevPath, prevLogger })

	var buf bytes.Buffer
	gameConfig = nil
	SetConfigPath(filepath.Join(t.TempDir(), "missing.yaml"))
	SetLogger(log.New(&buf))

	g := NewEndless()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 40, TickRate: 60, Seed: 1})

	def := config.DefaultBubblesConfig()
	if g.cfg.Rules != def.Rules || g.cfg.Scoring != def.Scoring {
		t.Errorf("config = %+v, want defaults", g.cfg)
	}
	if g.grid == nil || g.grid.Rows() != def.Board.Rows {
		t.Fatal("board not built from the default config")
	}
	if !strings.Contains(buf.String(), "missing.yaml") {
		t.Errorf("config error not logged: %q", buf.String())
	}
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"bubbles", "bubbles_endless"} {
		if !registry.Exists(id) {
			t.Errorf("game %q not registered", id)
		}
	}
}

func TestCampaignReset(t *testing.T) {
	g := newTestGame(t, ModeCampaign, 1)

	if g.levelIndex != 0 || g.shotsLeft != g.levels[0].Shots {
		t.Errorf("level=%d shots=%d", g.levelIndex, g.shotsLeft)
	}
	if g.grid.Count() != len(g.levels[0].Cells) {
		t.Errorf("board count = %d, want %d", g.grid.Count(), len(g.levels[0].Cells))
	}
	if g.tooSmall {
		t.Error("80x40 should be large enough")
	}
	if s := g.State(); s.GameOver || s.Paused {
		t.Errorf("state = %+v", s)
	}
}

func TestFireConsumesShot(t *testing.T) {
	g := newTestGame(t, ModeCampaign, 1)
	before := g.shotsLeft

	fire := core.NewInputFrame()
	fire.Set(core.ActionFire)
	g.Step(fire)
	if g.shot == nil || g.shotsLeft != before-1 {
		t.Fatalf("shot=%v shots=%d", g.shot, g.shotsLeft)
	}

	idle := core.NewInputFrame()
	for i := 0; i < 200 && (g.shot != nil || g.awaiting); i++ {
		g.Step(idle)
	}
	if g.shot != nil || g.awaiting {
		t.Fatal("shot never settled")
	}
	if g.outcome == cascade.OutcomeNone {
		t.Error("settled shot should record an outcome")
	}
}

func TestEndlessDeterministic(t *testing.T) {
	run := func() Snapshot {
		g := newTestGame(t, ModeEndless, 42)
		for i := 0; i < 600; i++ {
			in := core.NewInputFrame()
			switch i % 30 {
			case 0:
				in.Set(core.ActionFire)
			case 10:
				if i%60 == 10 {
					in.Set(core.ActionLeft)
				} else {
					in.Set(core.ActionRight)
				}
			}
			g.Step(in)
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("snapshots differ:\n%+v\n%+v", a, b)
	}
	if a.ShotsLeft == testConfig().Rules.Shots {
		t.Error("no shots were fired")
	}
}

func TestRenderShowsBoard(t *testing.T) {
	g := newTestGame(t, ModeCampaign, 3)
	screen := core.NewScreen(80, 40)
	g.Render(screen)

	out := screen.String()
	if !strings.Contains(out, "Hex Bubbles") {
		t.Error("title missing")
	}
	if !strings.ContainsRune(out, glyphBubble) {
		t.Error("no bubbles rendered")
	}
	if !strings.ContainsRune(out, glyphLauncher) {
		t.Error("launcher missing")
	}
}

func TestPauseFreezesShot(t *testing.T) {
	g := newTestGame(t, ModeCampaign, 1)
	fire := core.NewInputFrame()
	fire.Set(core.ActionFire)
	g.Step(fire)
	pos := g.shot.Pos

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	g.Step(core.NewInputFrame())

	if g.shot == nil || g.shot.Pos != pos {
		t.Error("paused game should not move the shot")
	}
	if !g.State().Paused {
		t.Error("state should report paused")
	}
}
