package bubbles

import (
	"github.com/vovakirdan/hexbubble/internal/core"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
)

// EffectKind identifies a short-lived visual.
type EffectKind uint8

const (
	EffectPop   EffectKind = iota // Bubble destroyed by a match or blast
	EffectDrop                    // Floating bubble falling away
	EffectFairy                   // Freed fairy; triggers a refill when it fades
)

// Effect durations in ticks.
const (
	popTicks   = 8
	dropTicks  = 14
	fairyTicks = 40
)

// Effect is one visual on the board.
type Effect struct {
	Kind  EffectKind
	Pos   core.Vec2
	Type  hexgrid.BubbleType
	TTL   int
	Total int
}

// Effects collects presentation events. It is the resolver's Presenter.
type Effects struct {
	grid    *hexgrid.Grid
	list    []Effect
	onFairy func()
	onFaded func()
}

// NewEffects creates an effects list. onFairy runs when a fairy marker
// spawns, onFaded when a fairy effect expires.
func NewEffects(grid *hexgrid.Grid, onFairy, onFaded func()) *Effects {
	return &Effects{grid: grid, onFairy: onFairy, onFaded: onFaded}
}

func (e *Effects) add(kind EffectKind, pos core.Vec2, t hexgrid.BubbleType, ttl int) {
	e.list = append(e.list, Effect{Kind: kind, Pos: pos, Type: t, TTL: ttl, Total: ttl})
}

func (e *Effects) cellPos(b *hexgrid.Bubble) core.Vec2 {
	c, _ := b.Cell()
	return e.grid.ToWorld(c.Row, c.Col)
}

// OnBubbleDestroyed records a pop at the bubble's cell.
func (e *Effects) OnBubbleDestroyed(b *hexgrid.Bubble, attacker hexgrid.BubbleType) {
	e.add(EffectPop, e.cellPos(b), b.Type, popTicks)
}

// OnSpecialMarkerSpawned records a freed fairy.
func (e *Effects) OnSpecialMarkerSpawned(pos core.Vec2) {
	e.add(EffectFairy, pos, hexgrid.TypeNone, fairyTicks)
	if e.onFairy != nil {
		e.onFairy()
	}
}

// OnFloatingDropStarted records a falling bubble.
func (e *Effects) OnFloatingDropStarted(b *hexgrid.Bubble) {
	e.add(EffectDrop, e.cellPos(b), b.Type, dropTicks)
}

// Tick ages all effects and removes expired ones.
func (e *Effects) Tick() {
	kept := e.list[:0]
	for _, fx := range e.list {
		fx.TTL--
		if fx.Kind == EffectDrop {
			fx.Pos.Y += 0.5
		}
		if fx.TTL > 0 {
			kept = append(kept, fx)
			continue
		}
		if fx.Kind == EffectFairy && e.onFaded != nil {
			e.onFaded()
		}
	}
	e.list = kept
}

// Active reports whether a fairy effect is still playing.
func (e *Effects) Active() bool {
	for _, fx := range e.list {
		if fx.Kind == EffectFairy {
			return true
		}
	}
	return false
}

// List returns the live effects.
func (e *Effects) List() []Effect {
	return e.list
}

// Clear drops all effects without callbacks.
func (e *Effects) Clear() {
	e.list = e.list[:0]
}
