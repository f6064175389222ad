package bubbles

import (
	"github.com/vovakirdan/hexbubble/internal/config"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
)

// Session keeps score and combo for one game. It is the resolver's Scorer.
type Session struct {
	cfg config.ScoringConfig

	Score     int
	Combo     int
	BestCombo int
	Matches   int
	Misses    int
	Destroyed int
	Dropped   int
	Fairies   int
}

// NewSession creates a session with the given point values.
func NewSession(cfg config.ScoringConfig) *Session {
	return &Session{cfg: cfg}
}

// OnBubbleDestroyed awards points for a matched or blasted bubble.
func (s *Session) OnBubbleDestroyed(victim, attacker hexgrid.BubbleType) {
	s.Destroyed++
	s.Score += s.cfg.DestroyPoints
}

// OnBubbleDropped awards points for a floating bubble.
func (s *Session) OnBubbleDropped(victim hexgrid.BubbleType) {
	s.Dropped++
	s.Score += s.cfg.DropPoints
}

// OnMatchSuccess extends the combo. Each consecutive success is worth
// ComboBonus more than the last.
func (s *Session) OnMatchSuccess() {
	s.Matches++
	s.Combo++
	if s.Combo > s.BestCombo {
		s.BestCombo = s.Combo
	}
	s.Score += s.cfg.ComboBonus * (s.Combo - 1)
}

// OnMatchFailure resets the combo.
func (s *Session) OnMatchFailure() {
	s.Misses++
	s.Combo = 0
}

// OnFairyFreed awards the fairy bonus.
func (s *Session) OnFairyFreed() {
	s.Fairies++
	s.Score += s.cfg.FairyBonus
}
