package config

import (
	_ "embed"
)

//go:embed defaults/bubbles.yaml
var defaultBubblesYAML []byte

// DefaultBubblesConfig returns the default bubble shooter configuration.
func DefaultBubblesConfig() BubblesConfig {
	return BubblesConfig{
		Board: BoardConfig{
			Rows:        14,
			Cols:        9,
			VisibleRows: 12,
			CellWidth:   4,
			RowHeight:   2,
			OriginX:     2,
			OriginY:     1,
		},
		Rules: RulesConfig{
			MatchThreshold: 3,
			NeroRadius:     2,
			Shots:          60,
			LoseRow:        12,
		},
		Timing: TimingConfig{
			WaveDelay: 3,
			DropDelay: 2,
			ShotSpeed: 0.5,
		},
		Spawn: SpawnConfig{
			InitialRows:  5,
			RefillRows:   1,
			RefillEvery:  4,
			SpellChance:  0.06,
			NeroChance:   0.04,
			FairyChance:  0.05,
			RespawnTicks: 6,
		},
		Scoring: ScoringConfig{
			DestroyPoints: 10,
			DropPoints:    20,
			ComboBonus:    5,
			FairyBonus:    50,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 5000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:   1.0,
				SpecialReduction:  0.5,
				RefillRowsBonus:   1,
				RefillEveryCutoff: 2,
			},
		},
	}
}
