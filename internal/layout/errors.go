package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownLayout indicates a layout name other than aos or soa.
	ErrUnknownLayout = errors.New("layout: unknown layout")

	// ErrNegativeCount indicates a negative particle count.
	ErrNegativeCount = errors.New("layout: negative particle count")

	// ErrMismatch is matched by every MismatchError.
	ErrMismatch = errors.New("layout: systems differ")
)

// MismatchError describes the first particle at which two systems differ.
// Index is -1 when the lengths differ.
type MismatchError struct {
	Index int
	Field string
	A, B  any
}

func (e *MismatchError) Error() string {
	if e.Index < 0 {
		return "layout: systems differ in length"
	}
	return fmt.Sprintf("layout: particle %d differs in %s: %v != %v", e.Index, e.Field, e.A, e.B)
}

func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}
