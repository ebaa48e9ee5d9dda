package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfig indicates a run configuration outside the valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrEmptyPopulation indicates an engine was created without particles.
	ErrEmptyPopulation = errors.New("dynamo: empty particle population")

	// ErrFinished indicates a step was requested after the last step.
	ErrFinished = errors.New("dynamo: simulation already finished")

	// ErrSink indicates a snapshot sink rejected a frame.
	ErrSink = errors.New("dynamo: sink failed")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
