package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the bubble shooter config file name.
const ConfigFile = "bubbles.yaml"

// LoadBubbles loads the bubble shooter configuration. Files only need to
// name the fields they override.
// Search order: customPath -> ~/.hexbubble/configs/bubbles.yaml -> ./configs/bubbles.yaml -> embedded default
func LoadBubbles(customPath string) (BubblesConfig, error) {
	cfg := DefaultBubblesConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		cfg.normalize()
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(ConfigFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				cfg.normalize()
				return cfg, nil
			}
			cfg = DefaultBubblesConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", ConfigFile)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			cfg.normalize()
			return cfg, nil
		}
		cfg = DefaultBubblesConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultBubblesYAML, &cfg); err != nil {
		return DefaultBubblesConfig(), nil // Fallback to hardcoded if embed fails
	}
	cfg.normalize()
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".hexbubble", "configs", filename)
}

// normalize replaces values that would make the board unplayable.
func (c *BubblesConfig) normalize() {
	def := DefaultBubblesConfig()
	if c.Board.Rows <= 0 {
		c.Board.Rows = def.Board.Rows
	}
	if c.Board.Cols <= 0 {
		c.Board.Cols = def.Board.Cols
	}
	if c.Board.VisibleRows <= 0 || c.Board.VisibleRows > c.Board.Rows {
		c.Board.VisibleRows = c.Board.Rows
	}
	if c.Board.CellWidth <= 0 {
		c.Board.CellWidth = def.Board.CellWidth
	}
	if c.Board.RowHeight <= 0 {
		c.Board.RowHeight = def.Board.RowHeight
	}
	if c.Rules.MatchThreshold <= 0 {
		c.Rules.MatchThreshold = def.Rules.MatchThreshold
	}
	if c.Rules.NeroRadius < 0 {
		c.Rules.NeroRadius = def.Rules.NeroRadius
	}
	if c.Rules.LoseRow <= 0 || c.Rules.LoseRow >= c.Board.Rows {
		c.Rules.LoseRow = c.Board.Rows - 1
	}
	if c.Timing.WaveDelay < 0 {
		c.Timing.WaveDelay = 0
	}
	if c.Timing.DropDelay < 0 {
		c.Timing.DropDelay = 0
	}
	if c.Timing.ShotSpeed <= 0 {
		c.Timing.ShotSpeed = def.Timing.ShotSpeed
	}
	if c.Spawn.RefillEvery <= 0 {
		c.Spawn.RefillEvery = def.Spawn.RefillEvery
	}
	c.Spawn.SpellChance = clampF(c.Spawn.SpellChance, 0, 1)
	c.Spawn.NeroChance = clampF(c.Spawn.NeroChance, 0, 1)
	c.Spawn.FairyChance = clampF(c.Spawn.FairyChance, 0, 1)
}

// ApplyBubblesPreset modifies the config based on a difficulty preset.
func ApplyBubblesPreset(cfg *BubblesConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Rules.Shots += 20
		cfg.Spawn.SpellChance *= 1.5
		cfg.Spawn.RefillEvery++
	case DifficultyHard:
		cfg.Rules.Shots -= 20
		cfg.Spawn.NeroChance /= 2
		cfg.Spawn.RefillEvery = max(cfg.Spawn.RefillEvery-1, 1)
	}
	cfg.Rules.Shots = max(cfg.Rules.Shots, 10)
	cfg.normalize()
}
