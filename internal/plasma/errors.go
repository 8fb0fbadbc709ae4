package plasma

import (
	"errors"
	"fmt"
)

// Domain errors for the stepping engine.
var (
	// ErrBackendUnavailable indicates no usable PDE solve backend.
	ErrBackendUnavailable = errors.New("plasma: solve backend unavailable")

	// ErrShapeMismatch indicates a supplied profile does not match the
	// radial sample count.
	ErrShapeMismatch = errors.New("plasma: conductivity profile shape mismatch")

	// ErrSolveFailed indicates a backend-level failure of an implicit sweep.
	ErrSolveFailed = errors.New("plasma: implicit sweep failed")

	// ErrNoConvergence indicates an iterative solve exhausted its iterations.
	ErrNoConvergence = errors.New("plasma: iterative solve did not converge")

	// ErrInvalidState indicates NaN or Inf in a state field after a solve.
	ErrInvalidState = errors.New("plasma: invalid state (NaN or Inf detected)")
)

// StepError wraps an error with the step and simulation time it occurred at.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g s): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
