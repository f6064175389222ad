// Package config provides YAML-based game configuration loading and
// difficulty management for hexbubble.
package config

// BubblesConfig contains all configuration for the bubble shooter.
type BubblesConfig struct {
	Board      BoardConfig      `yaml:"board"`
	Rules      RulesConfig      `yaml:"rules"`
	Timing     TimingConfig     `yaml:"timing"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BoardConfig defines the grid size and its terminal layout.
type BoardConfig struct {
	Rows        int     `yaml:"rows"`
	Cols        int     `yaml:"cols"`
	VisibleRows int     `yaml:"visible_rows"` // Rows shown before the board scrolls
	CellWidth   float64 `yaml:"cell_width"`   // Screen columns per cell
	RowHeight   float64 `yaml:"row_height"`   // Screen lines per row
	OriginX     float64 `yaml:"origin_x"`
	OriginY     float64 `yaml:"origin_y"`
}

// RulesConfig defines matching rules.
type RulesConfig struct {
	MatchThreshold int `yaml:"match_threshold"`
	NeroRadius     int `yaml:"nero_radius"`
	Shots          int `yaml:"shots"` // Shot budget for endless mode
	LoseRow        int `yaml:"lose_row"`
}

// TimingConfig defines pacing in ticks.
type TimingConfig struct {
	WaveDelay int     `yaml:"wave_delay"`
	DropDelay int     `yaml:"drop_delay"`
	ShotSpeed float64 `yaml:"shot_speed"` // Rows travelled per tick
}

// SpawnConfig defines the shot queue and board refill.
type SpawnConfig struct {
	InitialRows  int     `yaml:"initial_rows"` // Endless mode starting rows
	RefillRows   int     `yaml:"refill_rows"`  // Rows pushed after a clear
	RefillEvery  int     `yaml:"refill_every"` // Successful matches between refills
	SpellChance  float64 `yaml:"spell_chance"`
	NeroChance   float64 `yaml:"nero_chance"`
	FairyChance  float64 `yaml:"fairy_chance"`
	RespawnTicks int     `yaml:"respawn_ticks"`
}

// ScoringConfig defines points.
type ScoringConfig struct {
	DestroyPoints int `yaml:"destroy_points"`
	DropPoints    int `yaml:"drop_points"`
	ComboBonus    int `yaml:"combo_bonus"` // Added per combo step to each success
	FairyBonus    int `yaml:"fairy_bonus"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier   float64 `yaml:"speed_multiplier"`    // Added to shot speed at max difficulty
	SpecialReduction  float64 `yaml:"special_reduction"`   // Fraction of special odds removed at max difficulty
	RefillRowsBonus   int     `yaml:"refill_rows_bonus"`   // Extra refill rows at max difficulty
	RefillEveryCutoff int     `yaml:"refill_every_cutoff"` // Matches removed from the refill interval at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a name to a preset, defaulting to normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return DifficultyNormal, false
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
