package hjb

import (
	"errors"
	"fmt"
)

// Grid and settings errors fail fast before the first iteration; domain
// errors surface mid-loop wrapped in an IterationError.
var (
	// ErrGridTooSmall indicates a grid with fewer than two points.
	ErrGridTooSmall = errors.New("hjb: grid needs at least two points")

	// ErrGridNotIncreasing indicates grid points out of order.
	ErrGridNotIncreasing = errors.New("hjb: grid points must be strictly increasing")

	// ErrGridNotUniform indicates unequal grid spacing.
	ErrGridNotUniform = errors.New("hjb: grid spacing must be uniform")

	// ErrGuessLength indicates an initial guess that does not match the grid.
	ErrGuessLength = errors.New("hjb: initial guess length does not match grid")

	// ErrInvalidStep indicates a non-positive pseudo-time step.
	ErrInvalidStep = errors.New("hjb: pseudo-time step must be positive")

	// ErrInvalidTolerance indicates a non-positive convergence threshold.
	ErrInvalidTolerance = errors.New("hjb: convergence tolerance must be positive")

	// ErrInvalidBudget indicates a non-positive iteration budget.
	ErrInvalidBudget = errors.New("hjb: max iterations must be positive")

	// ErrNumericDomain indicates NaN or Inf in an iterate, usually from a
	// model callable evaluated outside its domain.
	ErrNumericDomain = errors.New("hjb: NaN or Inf in iterate")
)

// IterationError wraps an error with the iteration it occurred on.
type IterationError struct {
	Iteration int
	Wrapped   error
}

func (e *IterationError) Error() string {
	return fmt.Sprintf("iteration %d: %v", e.Iteration, e.Wrapped)
}

func (e *IterationError) Unwrap() error {
	return e.Wrapped
}
