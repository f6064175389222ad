// Package hexgrid provides the hex bubble board: cell coordinates, bubble
// records, the offset-row neighbour topology and world-space transforms.
// All queries are total; out-of-range cells read as empty.
package hexgrid

import "strings"

// BubbleType is the closed set of bubble kinds.
type BubbleType uint8

const (
	TypeNone BubbleType = iota // Empty sentinel, never a live bubble
	TypeRed
	TypeGreen
	TypeBlue
	TypeSpell // Blasts itself and all occupied neighbours
	TypeNero  // Destroys a pre-aimed or radius-based target set
	typeCount
)

// String returns the lowercase name of the type.
func (t BubbleType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeRed:
		return "red"
	case TypeGreen:
		return "green"
	case TypeBlue:
		return "blue"
	case TypeSpell:
		return "spell"
	case TypeNero:
		return "nero"
	default:
		return "unknown"
	}
}

// Char returns the single character used in ASCII boards.
func (t BubbleType) Char() rune {
	switch t {
	case TypeRed:
		return 'R'
	case TypeGreen:
		return 'G'
	case TypeBlue:
		return 'B'
	case TypeSpell:
		return 'S'
	case TypeNero:
		return 'N'
	default:
		return '.'
	}
}

// IsOrdinary reports whether the type takes part in color matching.
func (t BubbleType) IsOrdinary() bool {
	return t == TypeRed || t == TypeGreen || t == TypeBlue
}

// IsLive reports whether the type names a real bubble.
func (t BubbleType) IsLive() bool {
	return t > TypeNone && t < typeCount
}

// ParseBubbleType converts a name or ASCII character to a BubbleType.
// Returns TypeNone and false if the string is not recognized.
func ParseBubbleType(s string) (BubbleType, bool) {
	switch strings.ToLower(s) {
	case "red", "r":
		return TypeRed, true
	case "green", "g":
		return TypeGreen, true
	case "blue", "b":
		return TypeBlue, true
	case "spell", "s":
		return TypeSpell, true
	case "nero", "n":
		return TypeNero, true
	default:
		return TypeNone, false
	}
}

// OrdinaryTypes returns the color types in declaration order.
func OrdinaryTypes() []BubbleType {
	return []BubbleType{TypeRed, TypeGreen, TypeBlue}
}

// Bubble is one bubble record. Storage is owned by a pool; the grid only
// tracks which cell currently references it.
type Bubble struct {
	ID    int
	Type  BubbleType
	Fairy bool // Special marker; ignored by matching, consumed on destruction

	cell       Cell
	registered bool
}

// NewBubble returns an unregistered bubble of the given type.
func NewBubble(id int, t BubbleType) *Bubble {
	return &Bubble{ID: id, Type: t, cell: Unregistered}
}

// Cell returns the bubble's cell and whether it is registered in a grid.
func (b *Bubble) Cell() (Cell, bool) {
	return b.cell, b.registered
}

// IsRegistered reports whether the bubble currently occupies a grid cell.
func (b *Bubble) IsRegistered() bool {
	return b.registered
}

// Reset prepares a released bubble for reuse with a new type.
func (b *Bubble) Reset(t BubbleType) {
	b.Type = t
	b.Fairy = false
	b.cell = Unregistered
	b.registered = false
}
