package bench

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCases indicates a config that expands to zero cases.
	ErrNoCases = errors.New("bench: no layouts, operations or counts selected")

	// ErrInvalidIterations indicates a non-positive sample count or a negative warmup.
	ErrInvalidIterations = errors.New("bench: iterations must be positive")

	// ErrInvalidCount indicates a negative particle count.
	ErrInvalidCount = errors.New("bench: particle count must not be negative")

	// ErrUnknownOperation indicates an operation name that is not benchmarked.
	ErrUnknownOperation = errors.New("bench: unknown operation")

	// ErrNotEquivalent indicates that the AoS and SoA systems diverged.
	ErrNotEquivalent = errors.New("bench: layouts are not equivalent")
)

// CaseError wraps an error with the case and sample it interrupted.
type CaseError struct {
	Case    Case
	Sample  int
	Wrapped error
}

func (e *CaseError) Error() string {
	return fmt.Sprintf("bench: %s (sample %d): %v", e.Case, e.Sample, e.Wrapped)
}

func (e *CaseError) Unwrap() error {
	return e.Wrapped
}

// EquivalenceError records where Verify saw the layouts diverge.
type EquivalenceError struct {
	Step    int
	Stage   string
	Wrapped error
}

func (e *EquivalenceError) Error() string {
	return fmt.Sprintf("bench: layouts diverged at step %d after %s: %v", e.Step, e.Stage, e.Wrapped)
}

func (e *EquivalenceError) Unwrap() error {
	return e.Wrapped
}

func (e *EquivalenceError) Is(target error) bool {
	return target == ErrNotEquivalent
}
