// Package replay runs scripted placements against a board without a
// terminal. Scripts are YAML documents naming a starting board and a list
// of placements; every cascade runs to completion before the next step.
package replay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/hexbubble/internal/games/bubbles/levels/formats"
)

// Script is the on-disk structure of a replay.
type Script struct {
	Name string `yaml:"name"`
	// Level names a level to start from. Board is used when Level is empty.
	Level  string             `yaml:"level,omitempty"`
	Board  *formats.YAMLLevel `yaml:"board,omitempty"`
	Rules  Rules              `yaml:"rules,omitempty"`
	Steps  []Step             `yaml:"steps"`
	Expect *Expect            `yaml:"expect,omitempty"`
}

// Rules overrides resolver settings. Zero values keep the defaults.
type Rules struct {
	MatchThreshold int `yaml:"match_threshold,omitempty"`
	NeroRadius     int `yaml:"nero_radius,omitempty"`
}

// Step places one bubble.
type Step struct {
	Row   int    `yaml:"row"`
	Col   int    `yaml:"col"`
	Type  string `yaml:"type"`
	Fairy bool   `yaml:"fairy,omitempty"`
	// Targets pre-aim a Nero bubble at these cells.
	Targets []Target `yaml:"targets,omitempty"`
}

// Target is a cell reference.
type Target struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// Expect lists assertions checked after the last step.
type Expect struct {
	Outcomes  []string `yaml:"outcomes,omitempty"`
	Remaining *int     `yaml:"remaining,omitempty"`
	Score     *int     `yaml:"score,omitempty"`
	Board     []string `yaml:"board,omitempty"`
}

// Parse reads a script from YAML.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if s.Level == "" && s.Board == nil {
		return Script{}, fmt.Errorf("script %q: neither level nor board given", s.Name)
	}
	if len(s.Steps) == 0 {
		return Script{}, fmt.Errorf("script %q: no steps", s.Name)
	}
	return s, nil
}

// Load reads a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("reading script %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("parsing script %s: %w", path, err)
	}
	return s, nil
}
