package cascade

import "github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"

// State is the resolver's top-level state.
type State uint8

const (
	StateIdle State = iota
	StateResolving
)

func (s State) String() string {
	if s == StateResolving {
		return "resolving"
	}
	return "idle"
}

// Phase is the step of an in-flight resolution.
type Phase uint8

const (
	PhaseNone     Phase = iota // No resolution has run yet
	PhaseWaves                 // Destroying match levels
	PhaseDropping              // Dropping floating bubbles
	PhaseComplete              // Outcome reported
)

func (p Phase) String() string {
	switch p {
	case PhaseWaves:
		return "waves"
	case PhaseDropping:
		return "dropping"
	case PhaseComplete:
		return "complete"
	default:
		return "none"
	}
}

// Outcome is the single result reported per placement.
type Outcome uint8

const (
	OutcomeNone       Outcome = iota // Empty seed or nothing resolved yet
	OutcomeSuccess                   // Bubbles were removed
	OutcomeFailure                   // Cluster below threshold; combo resets
	OutcomeNoTarget                  // Nero seed vanished before resolving; combo kept
	OutcomeSuppressed                // Respawn or another resolution in progress
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeNoTarget:
		return "no_target"
	case OutcomeSuppressed:
		return "suppressed"
	default:
		return "none"
	}
}

// Report summarizes the last finished resolution.
type Report struct {
	Outcome       Outcome
	Seed          hexgrid.Cell
	Attacker      hexgrid.BubbleType
	Waves         int // Layers destroyed, including the first
	Destroyed     int
	Dropped       int
	FairyInvolved bool
}
