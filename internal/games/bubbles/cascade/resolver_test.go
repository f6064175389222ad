package cascade_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/vovakirdan/hexbubble/internal/core"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/cascade"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
)

// recorder implements every collaborator and logs calls in order.
type recorder struct {
	events    []string
	released  []*hexgrid.Bubble
	markers   []core.Vec2
	successes int
	failures  int
	refills   int
	destroyed map[hexgrid.BubbleType]int // by attacker
	dropped   int
	respawn   bool
	nextID    int
}

func newRecorder() *recorder {
	return &recorder{destroyed: make(map[hexgrid.BubbleType]int)}
}

func (r *recorder) Acquire(t hexgrid.BubbleType) *hexgrid.Bubble {
	r.nextID++
	return hexgrid.NewBubble(r.nextID, t)
}

func (r *recorder) Release(b *hexgrid.Bubble) {
	r.released = append(r.released, b)
	r.events = append(r.events, fmt.Sprintf("release %d", b.ID))
}

func (r *recorder) OnBubbleDestroyed(b *hexgrid.Bubble, attacker hexgrid.BubbleType) {
	r.events = append(r.events, fmt.Sprintf("destroy %d by %s", b.ID, attacker))
}

func (r *recorder) OnSpecialMarkerSpawned(pos core.Vec2) {
	r.markers = append(r.markers, pos)
	r.events = append(r.events, "marker")
}

func (r *recorder) OnFloatingDropStarted(b *hexgrid.Bubble) {
	r.events = append(r.events, fmt.Sprintf("drop %d", b.ID))
}

func (r *recorder) OnMatchSuccess() {
	r.successes++
	r.events = append(r.events, "success")
}

func (r *recorder) OnMatchFailure() {
	r.failures++
	r.events = append(r.events, "failure")
}

func (r *recorder) OnBubblesDestroyed() {
	r.refills++
	r.events = append(r.events, "refill")
}

func (r *recorder) IsRespawnInProgress() bool {
	return r.respawn
}

// scorer is split out because Scorer and Presenter share a method name.
type scorer struct{ r *recorder }

func (s scorer) OnBubbleDestroyed(victim, attacker hexgrid.BubbleType) {
	s.r.destroyed[attacker]++
	s.r.events = append(s.r.events, fmt.Sprintf("score %s", victim))
}
func (s scorer) OnBubbleDropped(hexgrid.BubbleType) { s.r.dropped++ }
func (s scorer) OnMatchSuccess()                    { s.r.OnMatchSuccess() }
func (s scorer) OnMatchFailure()                    { s.r.OnMatchFailure() }

// setup builds a grid from ASCII rows. Uppercase letters are bubbles,
// lowercase letters are fairy bubbles, '.' is empty.
func setup(t *testing.T, cfg cascade.Config, rows ...string) (*hexgrid.Grid, *cascade.Resolver, *recorder) {
	t.Helper()
	cols := len(strings.ReplaceAll(strings.TrimSpace(rows[0]), " ", ""))
	g := hexgrid.New(len(rows), cols, hexgrid.Layout{CellWidth: 2, RowHeight: 2})
	rec := newRecorder()
	for r, line := range rows {
		line = strings.ReplaceAll(strings.TrimSpace(line), " ", "")
		for c, ch := range line {
			if ch == '.' {
				continue
			}
			bt, ok := hexgrid.ParseBubbleType(string(ch))
			if !ok {
				t.Fatalf("unknown cell %q", ch)
			}
			b := rec.Acquire(bt)
			b.Fairy = ch >= 'a' && ch <= 'z'
			g.Register(r, c, b, false)
		}
	}
	res := cascade.New(g, cascade.Deps{
		Pool:      rec,
		Presenter: rec,
		Scorer:    scorer{rec},
		Spawner:   rec,
		Battle:    rec,
	}, cfg)
	return g, res, rec
}

func place(g *hexgrid.Grid, rec *recorder, row, col int, t hexgrid.BubbleType) *hexgrid.Bubble {
	b := rec.Acquire(t)
	g.Register(row, col, b, true)
	return b
}

func TestOrdinaryMatchEndToEnd(t *testing.T) {
	rows := make([]string, 7)
	for i := range rows {
		rows[i] = strings.Repeat(".", 11)
	}
	rows[3] = "....R.R...."
	g, res, rec := setup(t, cascade.DefaultConfig(), rows...)

	place(g, rec, 3, 5, hexgrid.TypeRed)

	if res.LastOutcome() != cascade.OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", res.LastOutcome())
	}
	if rec.destroyed[hexgrid.TypeRed] != 3 {
		t.Errorf("destroyed by red = %d, want 3", rec.destroyed[hexgrid.TypeRed])
	}
	if rec.successes != 1 || rec.failures != 0 {
		t.Errorf("success/failure = %d/%d, want 1/0", rec.successes, rec.failures)
	}
	if rec.refills != 1 {
		t.Errorf("refills = %d, want 1", rec.refills)
	}
	if len(rec.released) != 3 {
		t.Errorf("released = %d, want 3", len(rec.released))
	}
	if g.Count() != 0 {
		t.Errorf("grid count = %d, want 0", g.Count())
	}
	if res.Busy() || res.Phase() != cascade.PhaseComplete {
		t.Errorf("state = %v/%v, want idle/complete", res.State(), res.Phase())
	}
}

func TestDestroyCallbackOrder(t *testing.T) {
	g, _, rec := setup(t, cascade.DefaultConfig(),
		"R R .",
		" . . .",
	)
	b := place(g, rec, 0, 2, hexgrid.TypeRed)

	want := []string{
		"score red", fmt.Sprintf("destroy %d by red", b.ID), fmt.Sprintf("release %d", b.ID),
	}
	for i, w := range want {
		if rec.events[i] != w {
			t.Fatalf("events[%d] = %q, want %q (all: %v)", i, rec.events[i], w, rec.events)
		}
	}
	if last := rec.events[len(rec.events)-1]; last != "refill" {
		t.Errorf("last event = %q, want refill", last)
	}
}

func TestMatchThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		want      cascade.Outcome
		count     int
	}{
		{"pair below default", 3, cascade.OutcomeFailure, 2},
		{"pair meets two", 2, cascade.OutcomeSuccess, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := cascade.DefaultConfig()
			cfg.MatchThreshold = tt.threshold
			g, res, rec := setup(t, cfg,
				"R . .",
				" . . .",
			)
			place(g, rec, 0, 1, hexgrid.TypeRed)

			if res.LastOutcome() != tt.want {
				t.Errorf("outcome = %v, want %v", res.LastOutcome(), tt.want)
			}
			if g.Count() != tt.count {
				t.Errorf("count = %d, want %d", g.Count(), tt.count)
			}
		})
	}
}

func TestFailureDoesNotMutate(t *testing.T) {
	g, res, rec := setup(t, cascade.DefaultConfig(),
		"R G .",
		" . . .",
	)
	before := g.Hash()
	g.Register(0, 2, rec.Acquire(hexgrid.TypeBlue), false)
	withShot := g.Hash()
	res.ResolvePlacement(0, 2)

	if g.Hash() != withShot || before == withShot {
		t.Error("failure should leave the board as placed")
	}
	if rec.failures != 1 || rec.refills != 0 || len(rec.released) != 0 {
		t.Errorf("failures=%d refills=%d released=%d", rec.failures, rec.refills, len(rec.released))
	}
}

func TestEmptySeedIsNoop(t *testing.T) {
	g, res, rec := setup(t, cascade.DefaultConfig(), "R . .")
	res.ResolvePlacement(0, 2)
	res.ResolvePlacement(-1, 9)

	if res.LastOutcome() != cascade.OutcomeNone {
		t.Errorf("outcome = %v, want none", res.LastOutcome())
	}
	if len(rec.events) != 0 || g.Count() != 1 {
		t.Errorf("unexpected effects: %v", rec.events)
	}
}

func TestWavesAdvanceOnTicks(t *testing.T) {
	cfg := cascade.DefaultConfig()
	cfg.WaveDelay = 2
	g, res, rec := setup(t, cfg,
		"R R . R R",
		" . . . . .",
	)
	place(g, rec, 0, 2, hexgrid.TypeRed)

	steps := []struct {
		remaining int
		busy      bool
	}{
		{4, true}, // after placement: level 0 only
		{4, true},
		{2, true},
		{2, true},
		{0, false},
	}

	for i, s := range steps {
		if i > 0 {
			res.Tick()
		}
		if g.Count() != s.remaining || res.Busy() != s.busy {
			t.Fatalf("tick %d: count=%d busy=%v, want %d %v", i, g.Count(), res.Busy(), s.remaining, s.busy)
		}
	}
	if rec.successes != 1 {
		t.Errorf("successes = %d, want 1", rec.successes)
	}
	if r := res.LastReport(); r.Waves != 3 || r.Destroyed != 5 {
		t.Errorf("report = %+v, want 3 waves 5 destroyed", r)
	}
}

func TestFloatingDropsAfterWaves(t *testing.T) {
	cfg := cascade.DefaultConfig()
	cfg.WaveDelay = 1
	cfg.DropDelay = 1
	g, res, rec := setup(t, cfg,
		"R . R . .",
		" . G . . .",
		". G . . .",
		" . . . . .",
	)
	place(g, rec, 0, 1, hexgrid.TypeRed)

	if res.Phase() != cascade.PhaseWaves || g.Count() != 4 {
		t.Fatalf("after placement: phase=%v count=%d", res.Phase(), g.Count())
	}

	res.Tick()
	if res.Phase() != cascade.PhaseDropping || g.Count() != 2 {
		t.Fatalf("tick 1: phase=%v count=%d, want dropping 2", res.Phase(), g.Count())
	}

	res.Tick()
	if g.At(hexgrid.C(1, 1)) != nil || g.At(hexgrid.C(2, 1)) == nil {
		t.Fatal("tick 2: nearest floating bubble should drop first")
	}

	res.Tick()
	if res.Busy() || g.Count() != 0 {
		t.Fatalf("tick 3: busy=%v count=%d", res.Busy(), g.Count())
	}
	if rec.dropped != 2 || rec.successes != 1 || rec.refills != 1 {
		t.Errorf("dropped=%d successes=%d refills=%d", rec.dropped, rec.successes, rec.refills)
	}
}

func TestDrainCompletes(t *testing.T) {
	cfg := cascade.DefaultConfig()
	cfg.WaveDelay = 5
	cfg.DropDelay = 5
	g, res, rec := setup(t, cfg,
		"R . R . .",
		" . G . . .",
		". G . . .",
	)
	place(g, rec, 0, 1, hexgrid.TypeRed)

	if got := res.Drain(); got != cascade.OutcomeSuccess {
		t.Fatalf("Drain = %v, want success", got)
	}
	if g.Count() != 0 || rec.successes != 1 {
		t.Errorf("count=%d successes=%d", g.Count(), rec.successes)
	}
}

func TestPlacementRejectedWhileResolving(t *testing.T) {
	cfg := cascade.DefaultConfig()
	cfg.WaveDelay = 3
	g, res, rec := setup(t, cfg,
		"R R . . . G G",
		" . . . . . . .",
	)
	place(g, rec, 0, 2, hexgrid.TypeRed)
	if !res.Busy() {
		t.Fatal("expected resolution in flight")
	}

	place(g, rec, 0, 4, hexgrid.TypeGreen)
	if g.At(hexgrid.C(0, 4)) == nil {
		t.Fatal("rejected placement should stay on the board")
	}
	if r := res.LastReport(); r.Outcome != cascade.OutcomeSuppressed || r.Seed != hexgrid.C(0, 4) {
		t.Errorf("rejected placement report = %+v, want suppressed at (0,4)", r)
	}

	if got := res.Drain(); got != cascade.OutcomeSuccess {
		t.Errorf("Drain = %v, want success for the running resolution", got)
	}
	if rec.successes != 1 {
		t.Errorf("successes = %d, want 1", rec.successes)
	}
	if g.Count() != 3 {
		t.Errorf("count = %d, want 3 greens left", g.Count())
	}
}

func TestRespawnGuard(t *testing.T) {
	g, res, rec := setup(t, cascade.DefaultConfig(), "R R . .")
	rec.respawn = true
	place(g, rec, 0, 2, hexgrid.TypeRed)

	if res.LastOutcome() != cascade.OutcomeSuppressed {
		t.Errorf("outcome = %v, want suppressed", res.LastOutcome())
	}
	if g.Count() != 3 || len(rec.events) != 0 {
		t.Errorf("respawn should suppress resolution: count=%d events=%v", g.Count(), rec.events)
	}
}

func TestSpellBlast(t *testing.T) {
	g, res, rec := setup(t, cascade.DefaultConfig(),
		"R G B G R",
		" . B . . .",
		". . . . .",
	)
	place(g, rec, 1, 2, hexgrid.TypeSpell)

	// Occupied neighbours of (1,2) are (0,2) (0,3) and (1,1).
	if res.LastOutcome() != cascade.OutcomeSuccess {
		t.Fatalf("outcome = %v", res.LastOutcome())
	}
	if rec.destroyed[hexgrid.TypeSpell] != 4 {
		t.Errorf("destroyed by spell = %d, want 4", rec.destroyed[hexgrid.TypeSpell])
	}
	if g.Count() != 3 {
		t.Errorf("count = %d, want 3 (%s)", g.Count(), g)
	}
	if r := res.LastReport(); r.Waves != 1 {
		t.Errorf("spell should destroy in one layer, got %d", r.Waves)
	}
}

func TestSpellChainTerminates(t *testing.T) {
	g, res, rec := setup(t, cascade.DefaultConfig(),
		". S R G",
		" . . . .",
	)
	place(g, rec, 0, 0, hexgrid.TypeSpell)

	if res.LastOutcome() != cascade.OutcomeSuccess {
		t.Fatalf("outcome = %v", res.LastOutcome())
	}
	// (0,0) and (0,1) blast each other; the chain reaches (0,2) but not (0,3).
	if g.Count() != 1 || g.At(hexgrid.C(0, 3)) == nil {
		t.Errorf("board after chain:\n%s", g)
	}
	if rec.successes != 1 {
		t.Errorf("successes = %d, want 1", rec.successes)
	}
}

func TestOrdinaryNextToSpell(t *testing.T) {
	g, res, rec := setup(t, cascade.DefaultConfig(),
		". S R B",
		" . . . .",
	)
	place(g, rec, 0, 0, hexgrid.TypeGreen)

	if res.LastReport().Attacker != hexgrid.TypeSpell {
		t.Errorf("attacker = %v, want spell", res.LastReport().Attacker)
	}
	if g.Count() != 1 || g.At(hexgrid.C(0, 3)) == nil {
		t.Errorf("board:\n%s", g)
	}
	if rec.failures != 0 {
		t.Error("spell trigger should bypass ordinary matching")
	}
}

func TestNeroRadiusFallback(t *testing.T) {
	g, res, rec := setup(t, cascade.DefaultConfig(),
		"R . . . .",
		" . . . . .",
		". . . G .",
		" . . . . .",
		". . . . B",
	)
	place(g, rec, 2, 2, hexgrid.TypeNero)

	if res.LastOutcome() != cascade.OutcomeSuccess {
		t.Fatalf("outcome = %v", res.LastOutcome())
	}
	r := res.LastReport()
	if r.Destroyed != 2 || r.Dropped != 1 {
		t.Errorf("report = %+v, want 2 destroyed 1 dropped", r)
	}
	if rec.destroyed[hexgrid.TypeNero] != 2 {
		t.Errorf("destroyed by nero = %d", rec.destroyed[hexgrid.TypeNero])
	}
	if g.Count() != 1 || g.At(hexgrid.C(0, 0)) == nil {
		t.Errorf("board:\n%s", g)
	}
}

func TestNeroAloneRemovesItself(t *testing.T) {
	tests := []struct {
		name    string
		targets []core.Vec2
	}{
		{"radius finds nothing", nil},
		{"targets off the board", []core.Vec2{core.V(-100, -100)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, res, rec := setup(t, cascade.DefaultConfig(),
				"R . . . . .",
				" . . . . . .",
				". . . . . .",
			)
			if tt.targets != nil {
				res.SetPendingTargets(tt.targets)
			}
			place(g, rec, 2, 5, hexgrid.TypeNero)

			if r := res.LastReport(); r.Outcome != cascade.OutcomeSuccess || r.Destroyed != 1 {
				t.Fatalf("report = %+v, want success with the nero destroyed", r)
			}
			if g.At(hexgrid.C(2, 5)) != nil {
				t.Error("nero should not stay on the board")
			}
			if g.Count() != 1 || g.At(hexgrid.C(0, 0)) == nil {
				t.Errorf("board:\n%s", g)
			}
			if rec.successes != 1 || rec.failures != 0 || rec.destroyed[hexgrid.TypeNero] != 1 {
				t.Errorf("events = %v", rec.events)
			}
		})
	}
}

func TestNeroPendingTargets(t *testing.T) {
	g, res, rec := setup(t, cascade.DefaultConfig(),
		"R . . . R",
		" . . . . .",
		". . . . .",
	)
	target := g.ToWorld(0, 0)
	res.SetPendingTargets([]core.Vec2{target, target, core.V(-100, -100)})
	place(g, rec, 2, 2, hexgrid.TypeNero)

	if r := res.LastReport(); r.Outcome != cascade.OutcomeSuccess || r.Destroyed != 2 {
		t.Fatalf("report = %+v, want success with 2 destroyed", r)
	}
	if g.At(hexgrid.C(0, 0)) != nil || g.At(hexgrid.C(0, 4)) == nil {
		t.Errorf("board:\n%s", g)
	}

	// Targets are consumed; the next Nero falls back to its radius, which
	// holds nothing but the Nero itself.
	place(g, rec, 2, 2, hexgrid.TypeNero)
	if r := res.LastReport(); r.Outcome != cascade.OutcomeSuccess || r.Destroyed != 1 {
		t.Errorf("second nero report = %+v, want only itself destroyed", r)
	}
	if g.Count() != 1 || g.At(hexgrid.C(0, 4)) == nil {
		t.Errorf("board after second nero:\n%s", g)
	}
}

func TestFairySuppressesRefill(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		seed    hexgrid.Cell
		markers int
	}{
		{
			name:    "fairy destroyed",
			rows:    []string{"r R . .", " . . . ."},
			seed:    hexgrid.C(0, 2),
			markers: 1,
		},
		{
			name:    "fairy dropped",
			rows:    []string{"R R . .", " . g . .", ". . . ."},
			seed:    hexgrid.C(0, 2),
			markers: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, res, rec := setup(t, cascade.DefaultConfig(), tt.rows...)
			place(g, rec, tt.seed.Row, tt.seed.Col, hexgrid.TypeRed)

			if res.LastOutcome() != cascade.OutcomeSuccess {
				t.Fatalf("outcome = %v", res.LastOutcome())
			}
			if len(rec.markers) != tt.markers {
				t.Errorf("markers = %d, want %d", len(rec.markers), tt.markers)
			}
			if rec.refills != 0 {
				t.Errorf("refills = %d, want 0", rec.refills)
			}
			if !res.LastReport().FairyInvolved {
				t.Error("report should flag fairy involvement")
			}
		})
	}
}

func TestFairyMarkerPosition(t *testing.T) {
	g, _, rec := setup(t, cascade.DefaultConfig(), "r R . .")
	want := g.ToWorld(0, 0)
	place(g, rec, 0, 2, hexgrid.TypeRed)

	if len(rec.markers) != 1 || rec.markers[0] != want {
		t.Errorf("markers = %v, want [%v]", rec.markers, want)
	}
}
