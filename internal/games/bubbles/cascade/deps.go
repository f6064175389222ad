package cascade

import (
	"github.com/vovakirdan/hexbubble/internal/core"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
)

// Pool owns bubble storage. Destroyed and dropped bubbles are released to it.
type Pool interface {
	Acquire(t hexgrid.BubbleType) *hexgrid.Bubble
	Release(b *hexgrid.Bubble)
}

// Presenter receives visual events. The bubble passed to a callback is
// released right after the call returns, so implementations copy what
// they need.
type Presenter interface {
	OnBubbleDestroyed(b *hexgrid.Bubble, attacker hexgrid.BubbleType)
	OnSpecialMarkerSpawned(pos core.Vec2)
	OnFloatingDropStarted(b *hexgrid.Bubble)
}

// Scorer tracks points and the combo counter.
type Scorer interface {
	OnBubbleDestroyed(victim, attacker hexgrid.BubbleType)
	OnBubbleDropped(victim hexgrid.BubbleType)
	OnMatchSuccess()
	OnMatchFailure()
}

// Spawner refills the board after a resolution that destroyed bubbles.
type Spawner interface {
	OnBubblesDestroyed()
}

// BattleState exposes the respawn guard.
type BattleState interface {
	IsRespawnInProgress() bool
}

// NopPool allocates fresh bubbles and drops released ones.
type NopPool struct {
	next int
}

func (p *NopPool) Acquire(t hexgrid.BubbleType) *hexgrid.Bubble {
	p.next++
	return hexgrid.NewBubble(p.next, t)
}

func (p *NopPool) Release(*hexgrid.Bubble) {}

// NopPresenter ignores all events.
type NopPresenter struct{}

func (NopPresenter) OnBubbleDestroyed(*hexgrid.Bubble, hexgrid.BubbleType) {}
func (NopPresenter) OnSpecialMarkerSpawned(core.Vec2)                     {}
func (NopPresenter) OnFloatingDropStarted(*hexgrid.Bubble)                {}

// NopScorer ignores all events.
type NopScorer struct{}

func (NopScorer) OnBubbleDestroyed(hexgrid.BubbleType, hexgrid.BubbleType) {}
func (NopScorer) OnBubbleDropped(hexgrid.BubbleType)                       {}
func (NopScorer) OnMatchSuccess()                                          {}
func (NopScorer) OnMatchFailure()                                          {}

// NopSpawner ignores refill requests.
type NopSpawner struct{}

func (NopSpawner) OnBubblesDestroyed() {}

// NopBattle never reports a respawn in progress.
type NopBattle struct{}

func (NopBattle) IsRespawnInProgress() bool { return false }
