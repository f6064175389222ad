package levels

import (
	"fmt"

	"github.com/vovakirdan/hexbubble/internal/games/bubbles/cascade"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/connectivity"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
)

// Board limits accepted from level files.
const (
	MaxRows = 32
	MaxCols = 24
)

// ValidationError contains details about validation failure.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks a level:
//   - Board size within limits
//   - Every cell in bounds and placed once
//   - At least one bubble and a positive shot count
//   - No bubble floating at start
func Validate(l Level) error {
	if l.Rows <= 0 || l.Cols <= 0 || l.Rows > MaxRows || l.Cols > MaxCols {
		return ValidationError{
			Code:    "BAD_SIZE",
			Message: fmt.Sprintf("board %dx%d outside 1..%dx1..%d", l.Rows, l.Cols, MaxRows, MaxCols),
		}
	}
	if len(l.Cells) == 0 {
		return ValidationError{Code: "EMPTY", Message: "level has no bubbles"}
	}
	if l.Shots <= 0 {
		return ValidationError{Code: "BAD_SHOTS", Message: "shots must be positive"}
	}

	g := hexgrid.New(l.Rows, l.Cols, hexgrid.DefaultLayout())
	pool := &cascade.NopPool{}
	for _, c := range l.Cells {
		if !g.IsValidCell(c.Row, c.Col) {
			return ValidationError{
				Code:    "OUT_OF_BOUNDS",
				Message: fmt.Sprintf("cell %v outside %dx%d board", hexgrid.C(c.Row, c.Col), l.Rows, l.Cols),
			}
		}
		if !g.IsEmpty(c.Row, c.Col) {
			return ValidationError{
				Code:    "DUPLICATE_CELL",
				Message: fmt.Sprintf("cell %v placed twice", hexgrid.C(c.Row, c.Col)),
			}
		}
		g.Register(c.Row, c.Col, pool.Acquire(c.Type), false)
	}

	if floating := connectivity.New(g).FindFloating(); len(floating) > 0 {
		return ValidationError{
			Code:    "FLOATING",
			Message: fmt.Sprintf("%d bubbles not connected to the top row, first at %v", len(floating), floating[0]),
		}
	}
	return nil
}
