// Package cascade resolves a settled placement into matches, special
// bubble blasts and floating drops. Removal runs in phases advanced by
// Tick so presentation can pace waves and drops; with zero delays the
// whole resolution completes inside ResolvePlacement.
package cascade

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/hexbubble/internal/core"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/connectivity"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
)

// Config holds resolution rules and pacing.
type Config struct {
	MatchThreshold int // Minimum cluster size for an ordinary match
	NeroRadius     int // Fallback blast radius when no targets are pre-aimed
	WaveDelay      int // Ticks between match levels
	DropDelay      int // Ticks between floating drops
}

// DefaultConfig returns the standard rules with immediate resolution.
func DefaultConfig() Config {
	return Config{
		MatchThreshold: 3,
		NeroRadius:     2,
	}
}

// Deps are the external collaborators. Nil fields get no-op defaults.
type Deps struct {
	Pool      Pool
	Presenter Presenter
	Scorer    Scorer
	Spawner   Spawner
	Battle    BattleState
	Logger    *log.Logger
}

func (d *Deps) fill() {
	if d.Pool == nil {
		d.Pool = &NopPool{}
	}
	if d.Presenter == nil {
		d.Presenter = NopPresenter{}
	}
	if d.Scorer == nil {
		d.Scorer = NopScorer{}
	}
	if d.Spawner == nil {
		d.Spawner = NopSpawner{}
	}
	if d.Battle == nil {
		d.Battle = NopBattle{}
	}
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
}

// job is the in-flight resolution.
type job struct {
	report   Report
	levels   [][]hexgrid.Cell // Match levels not yet destroyed
	floating []hexgrid.Cell   // Drop order
	wait     int              // Ticks until the next step
}

// Resolver is the cascade state machine for one grid.
type Resolver struct {
	grid     *hexgrid.Grid
	analyzer *connectivity.Analyzer
	deps     Deps
	cfg      Config
	log      *log.Logger

	state   State
	phase   Phase
	pending []core.Vec2
	job     *job
	last    Report
}

// New creates a resolver and installs it as the grid's match checker.
func New(grid *hexgrid.Grid, deps Deps, cfg Config) *Resolver {
	deps.fill()
	if cfg.MatchThreshold <= 0 {
		cfg.MatchThreshold = DefaultConfig().MatchThreshold
	}
	if cfg.NeroRadius < 0 {
		cfg.NeroRadius = DefaultConfig().NeroRadius
	}
	r := &Resolver{
		grid:     grid,
		analyzer: connectivity.New(grid),
		deps:     deps,
		cfg:      cfg,
		log:      deps.Logger.WithPrefix("cascade"),
	}
	grid.SetMatchChecker(r)
	return r
}

// State returns the top-level state.
func (r *Resolver) State() State {
	return r.state
}

// Phase returns the phase of the current or last resolution.
func (r *Resolver) Phase() Phase {
	return r.phase
}

// Busy reports whether a resolution is in flight.
func (r *Resolver) Busy() bool {
	return r.state == StateResolving
}

// LastOutcome returns the outcome of the most recent placement.
func (r *Resolver) LastOutcome() Outcome {
	return r.last.Outcome
}

// LastReport returns the summary of the most recent placement.
func (r *Resolver) LastReport() Report {
	return r.last
}

// SetPendingTargets pre-aims the next Nero bubble at world positions.
func (r *Resolver) SetPendingTargets(targets []core.Vec2) {
	r.pending = append(r.pending[:0], targets...)
}

// ClearPendingTargets discards any pre-aimed Nero targets.
func (r *Resolver) ClearPendingTargets() {
	r.pending = r.pending[:0]
}

// ResolvePlacement evaluates the bubble that just settled at (row, col).
func (r *Resolver) ResolvePlacement(row, col int) {
	seed := hexgrid.C(row, col)

	if r.deps.Battle.IsRespawnInProgress() {
		r.last = Report{Outcome: OutcomeSuppressed, Seed: seed}
		r.log.Debug("resolution suppressed during respawn", "cell", seed)
		return
	}
	if r.state == StateResolving {
		r.last = Report{Outcome: OutcomeSuppressed, Seed: seed}
		r.log.Warn("placement rejected while resolving", "cell", seed, "phase", r.phase)
		return
	}

	b := r.grid.Bubble(row, col)
	if b == nil {
		r.last = Report{Outcome: OutcomeNone, Seed: seed}
		return
	}

	switch b.Type {
	case hexgrid.TypeNero:
		r.resolveNero(seed)
	case hexgrid.TypeSpell:
		r.resolveSpell(seed, []hexgrid.Cell{seed})
	default:
		if spells := r.spellNeighbors(seed); len(spells) > 0 {
			r.resolveSpell(seed, spells)
			return
		}
		r.resolveMatch(seed, b.Type)
	}
}

func (r *Resolver) spellNeighbors(seed hexgrid.Cell) []hexgrid.Cell {
	var out []hexgrid.Cell
	for _, n := range r.grid.Adjacent(seed.Row, seed.Col) {
		if nb := r.grid.At(n); nb != nil && nb.Type == hexgrid.TypeSpell {
			out = append(out, n)
		}
	}
	return out
}

func (r *Resolver) resolveMatch(seed hexgrid.Cell, t hexgrid.BubbleType) {
	levels := r.analyzer.CollectConnectedByLevel(seed)
	total := 0
	for _, level := range levels {
		total += len(level)
	}

	if total < r.cfg.MatchThreshold {
		r.last = Report{Outcome: OutcomeFailure, Seed: seed, Attacker: t}
		r.log.Debug("not enough matches", "cell", seed, "type", t, "count", total)
		r.deps.Scorer.OnMatchFailure()
		return
	}

	r.commit(seed, t, levels)
}

// resolveSpell blasts every start cell and chains through Spell bubbles it
// reaches. All chains are merged into one layer.
func (r *Resolver) resolveSpell(seed hexgrid.Cell, starts []hexgrid.Cell) {
	removal := mapset.New[hexgrid.Cell]()
	inProgress := mapset.New[hexgrid.Cell]()
	var order []hexgrid.Cell
	add := func(c hexgrid.Cell) {
		if !removal.Has(c) {
			removal.Put(c)
			order = append(order, c)
		}
	}

	work := append([]hexgrid.Cell(nil), starts...)
	for len(work) > 0 {
		c := work[0]
		work = work[1:]
		if inProgress.Has(c) {
			continue
		}
		inProgress.Put(c)
		add(c)

		for _, n := range r.grid.Adjacent(c.Row, c.Col) {
			nb := r.grid.At(n)
			if nb == nil {
				continue
			}
			add(n)
			if nb.Type == hexgrid.TypeSpell && !inProgress.Has(n) {
				work = append(work, n)
			}
		}
	}

	r.log.Debug("spell blast", "cell", seed, "chains", inProgress.Size(), "cells", len(order))
	r.commit(seed, hexgrid.TypeSpell, [][]hexgrid.Cell{order})
}

// resolveNero removes the seed together with every occupied target.
// Targets come from pre-aimed world positions, else the cells within
// NeroRadius of the seed.
func (r *Resolver) resolveNero(seed hexgrid.Cell) {
	var candidates []hexgrid.Cell
	if len(r.pending) > 0 {
		seen := mapset.New[hexgrid.Cell]()
		layout := r.grid.Layout()
		for _, p := range r.pending {
			c := layout.ToGrid(p)
			if !r.grid.IsValidCell(c.Row, c.Col) || seen.Has(c) {
				continue
			}
			seen.Put(c)
			candidates = append(candidates, c)
		}
	} else {
		candidates = r.analyzer.CellsWithinRadius(seed, r.cfg.NeroRadius)
	}
	r.ClearPendingTargets()

	// The seed is always part of the target set.
	var removal []hexgrid.Cell
	if r.grid.At(seed) != nil {
		removal = append(removal, seed)
	}
	for _, c := range candidates {
		if c != seed && r.grid.At(c) != nil {
			removal = append(removal, c)
		}
	}

	if len(removal) == 0 {
		r.last = Report{Outcome: OutcomeNoTarget, Seed: seed, Attacker: hexgrid.TypeNero}
		r.log.Debug("nero found no targets", "cell", seed, "candidates", len(candidates))
		return
	}

	r.commit(seed, hexgrid.TypeNero, [][]hexgrid.Cell{removal})
}

// commit snapshots the floating set for the final board, destroys the
// first layer and schedules the rest.
func (r *Resolver) commit(seed hexgrid.Cell, attacker hexgrid.BubbleType, levels [][]hexgrid.Cell) {
	removal := mapset.New[hexgrid.Cell]()
	for _, level := range levels {
		for _, c := range level {
			removal.Put(c)
		}
	}
	floating := r.analyzer.SortByDistance(r.analyzer.FindFloatingAfterRemoval(removal))

	r.state = StateResolving
	r.phase = PhaseWaves
	r.job = &job{
		report:   Report{Seed: seed, Attacker: attacker},
		levels:   levels[1:],
		floating: floating,
	}
	r.log.Debug("resolution started",
		"cell", seed, "attacker", attacker,
		"removed", removal.Size(), "levels", len(levels), "floating", len(floating))

	r.destroyLayer(levels[0])
	if len(r.job.levels) > 0 {
		r.job.wait = r.cfg.WaveDelay
	}
	r.advance()
}

// Tick advances the scheduler by one tick.
func (r *Resolver) Tick() {
	if r.state != StateResolving {
		return
	}
	if r.job.wait > 0 {
		r.job.wait--
	}
	r.advance()
}

// Drain ticks until the current resolution finishes and returns its outcome.
func (r *Resolver) Drain() Outcome {
	for r.state == StateResolving {
		r.Tick()
	}
	return r.last.Outcome
}

// advance runs every step whose delay has elapsed.
func (r *Resolver) advance() {
	for r.state == StateResolving && r.job.wait == 0 {
		r.step()
	}
}

func (r *Resolver) step() {
	j := r.job
	switch r.phase {
	case PhaseWaves:
		if len(j.levels) == 0 {
			r.phase = PhaseDropping
			if len(j.floating) > 0 {
				j.wait = r.cfg.DropDelay
			}
			return
		}
		r.destroyLayer(j.levels[0])
		j.levels = j.levels[1:]
		if len(j.levels) > 0 {
			j.wait = r.cfg.WaveDelay
		}

	case PhaseDropping:
		if len(j.floating) == 0 {
			r.finish()
			return
		}
		r.drop(j.floating[0])
		j.floating = j.floating[1:]
		if len(j.floating) > 0 {
			j.wait = r.cfg.DropDelay
		}
	}
}

func (r *Resolver) destroyLayer(cells []hexgrid.Cell) {
	for _, c := range cells {
		r.destroy(c)
	}
	r.job.report.Waves++
}

func (r *Resolver) destroy(c hexgrid.Cell) {
	b := r.grid.At(c)
	if b == nil {
		return
	}
	attacker := r.job.report.Attacker

	if b.Fairy {
		r.job.report.FairyInvolved = true
		r.deps.Presenter.OnSpecialMarkerSpawned(r.grid.ToWorld(c.Row, c.Col))
	}
	r.deps.Scorer.OnBubbleDestroyed(b.Type, attacker)
	r.deps.Presenter.OnBubbleDestroyed(b, attacker)
	r.grid.Unregister(c.Row, c.Col)
	r.deps.Pool.Release(b)
	r.job.report.Destroyed++
}

func (r *Resolver) drop(c hexgrid.Cell) {
	b := r.grid.At(c)
	if b == nil {
		return
	}

	if b.Fairy {
		r.job.report.FairyInvolved = true
		r.deps.Presenter.OnSpecialMarkerSpawned(r.grid.ToWorld(c.Row, c.Col))
	}
	r.deps.Scorer.OnBubbleDropped(b.Type)
	r.deps.Presenter.OnFloatingDropStarted(b)
	r.grid.Unregister(c.Row, c.Col)
	r.deps.Pool.Release(b)
	r.job.report.Dropped++
}

// finish reports the outcome. The resolver is idle again before the
// collaborators run so a refill may place bubbles.
func (r *Resolver) finish() {
	report := r.job.report
	report.Outcome = OutcomeSuccess

	r.state = StateIdle
	r.phase = PhaseComplete
	r.job = nil
	r.last = report

	r.log.Debug("resolution complete",
		"destroyed", report.Destroyed, "dropped", report.Dropped,
		"waves", report.Waves, "fairy", report.FairyInvolved)

	r.deps.Scorer.OnMatchSuccess()
	if !report.FairyInvolved {
		r.deps.Spawner.OnBubblesDestroyed()
	}
}
