package bubbles

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateResolving    GameStateType = "resolving"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the game state for determinism testing.
type Snapshot struct {
	Tick      uint64
	Mode      string
	Level     int // 1-based, 0 for endless
	Score     int
	Combo     int
	ShotsLeft int
	Loaded    string
	Next      string
	AimCol    int
	Board     string
	BoardHash uint64
	Outcome   string
	State     GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	case g.awaiting || (g.resolver != nil && g.resolver.Busy()):
		state = StateResolving
	}

	s := Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		ShotsLeft: g.shotsLeft,
		Loaded:    g.loaded.String(),
		Next:      g.next.String(),
		AimCol:    g.aimCol,
		Outcome:   g.outcome.String(),
		State:     state,
	}
	if g.mode == ModeCampaign {
		s.Level = g.levelIndex + 1
	}
	if g.session != nil {
		s.Score = g.session.Score
		s.Combo = g.session.Combo
	}
	if g.grid != nil {
		s.Board = g.grid.String()
		s.BoardHash = g.grid.Hash()
	}
	return s
}
