package bench

import (
	"fmt"

	"github.com/san-kum/cachelayout/internal/layout"
)

// Verify drives an AoS and an SoA system of count particles through steps
// frames of ApplyGravity, UpdatePositions and Update, and checks after every
// call that both hold bit-identical particles and kinetic energy.
func Verify(count, steps int, p Params) error {
	if count < 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidCount, count)
	}
	a, err := layout.New(layout.AoS, count)
	if err != nil {
		return err
	}
	s, err := layout.New(layout.SoA, count)
	if err != nil {
		return err
	}

	check := func(step int, stage string) error {
		if err := layout.Equal(a, s); err != nil {
			return &EquivalenceError{Step: step, Stage: stage, Wrapped: err}
		}
		return compareEnergy(step, stage, a.KineticEnergy(), s.KineticEnergy())
	}

	if err := check(0, "construction"); err != nil {
		return err
	}

	for step := 1; step <= steps; step++ {
		a.ApplyGravity(p.Gravity, p.Dt)
		s.ApplyGravity(p.Gravity, p.Dt)
		if err := check(step, string(ApplyGravity)); err != nil {
			return err
		}

		a.UpdatePositions(p.Dt)
		s.UpdatePositions(p.Dt)
		if err := check(step, string(UpdatePositions)); err != nil {
			return err
		}

		ea := a.Update(p.Gravity, p.Dt)
		es := s.Update(p.Gravity, p.Dt)
		if err := compareEnergy(step, string(FullUpdate), ea, es); err != nil {
			return err
		}
		if err := check(step, string(FullUpdate)); err != nil {
			return err
		}
	}
	return nil
}

func compareEnergy(step int, stage string, a, s float32) error {
	if layout.Same(a, s) {
		return nil
	}
	return &EquivalenceError{
		Step:    step,
		Stage:   stage,
		Wrapped: fmt.Errorf("kinetic energy aos %g != soa %g", a, s),
	}
}
