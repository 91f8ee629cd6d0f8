package flight

import (
	"errors"
	"fmt"
)

var (
	// ErrDidNotLand indicates the ball stayed airborne for the whole step budget.
	ErrDidNotLand = errors.New("flight: ball did not land within the step limit")

	// ErrInvalidState indicates position, velocity or spin became NaN or Inf.
	ErrInvalidState = errors.New("flight: invalid state (NaN or Inf detected)")
)

// SimulationError wraps an error with the state at which the run stopped.
type SimulationError struct {
	Step    int
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
