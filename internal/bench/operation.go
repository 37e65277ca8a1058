package bench

import (
	"fmt"
	"strings"

	"github.com/san-kum/cachelayout/internal/layout"
	"github.com/san-kum/cachelayout/internal/vec"
)

type Operation string

const (
	UpdatePositions Operation = "update_positions"
	KineticEnergy   Operation = "kinetic_energy"
	ApplyGravity    Operation = "apply_gravity"
	FullUpdate      Operation = "full_update"
)

func Operations() []Operation {
	return []Operation{UpdatePositions, KineticEnergy, ApplyGravity, FullUpdate}
}

func (op Operation) String() string { return string(op) }

func (op Operation) valid() bool {
	for _, o := range Operations() {
		if op == o {
			return true
		}
	}
	return false
}

// ParseOperation accepts the operation names plus a few short aliases.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "update_positions", "positions", "integrate":
		return UpdatePositions, nil
	case "kinetic_energy", "energy", "ke":
		return KineticEnergy, nil
	case "apply_gravity", "gravity":
		return ApplyGravity, nil
	case "full_update", "update", "frame":
		return FullUpdate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// Params are the simulation inputs shared by every case.
type Params struct {
	Dt      float32  `json:"dt"`
	Gravity vec.Vec3 `json:"gravity"`
}

func DefaultParams() Params {
	return Params{
		Dt:      0.016,
		Gravity: vec.New(0, -9.81, 0),
	}
}

// apply runs op once. It returns the kinetic energy for operations that
// compute it and 0 otherwise.
func (op Operation) apply(sys layout.System, p Params) float32 {
	switch op {
	case UpdatePositions:
		sys.UpdatePositions(p.Dt)
	case KineticEnergy:
		return sys.KineticEnergy()
	case ApplyGravity:
		sys.ApplyGravity(p.Gravity, p.Dt)
	case FullUpdate:
		return sys.Update(p.Gravity, p.Dt)
	}
	return 0
}
