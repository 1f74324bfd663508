package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidMass indicates a registered point with zero, negative or non-finite mass.
	ErrInvalidMass = errors.New("dynamo: mass must be positive and finite")

	// ErrUnconfiguredIntegrator indicates the active variant has no backing integrator.
	ErrUnconfiguredIntegrator = errors.New("dynamo: no integrator configured for variant")

	// ErrUnknownVariant indicates a variant outside the supported set.
	ErrUnknownVariant = errors.New("dynamo: unknown integration variant")

	// ErrReentrantStep indicates Simulate was called while a step was in progress.
	ErrReentrantStep = errors.New("dynamo: simulate called during a step")

	// ErrInvalidState indicates the integrator produced NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrNilPoint indicates a nil point or a spring with a nil endpoint.
	ErrNilPoint = errors.New("dynamo: nil mass point")

	// ErrForeignPoint indicates a point already owned by another simulator.
	ErrForeignPoint = errors.New("dynamo: mass point belongs to another simulator")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Point   int // registration position of the offending point, -1 if not point specific
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Point >= 0 {
		return fmt.Sprintf("step %d (t=%.4f) point %d: %v", e.Step, e.Time, e.Point, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
