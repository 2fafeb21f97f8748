package world

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariant is matched by every step that was rolled back.
	ErrInvariant = errors.New("invariant violation")
	// ErrOutOfBounds is returned for coordinates outside the grid.
	ErrOutOfBounds = errors.New("cell out of bounds")
)

// InvariantError describes the check that failed during a step. The world
// is left at its state from before the step.
type InvariantError struct {
	Day    int
	Phase  string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v on day %d during %s: %s", ErrInvariant, e.Day, e.Phase, e.Detail)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }
