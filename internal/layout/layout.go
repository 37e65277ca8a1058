// Package layout ties the AoS and SoA particle systems to one capability
// interface.
//
// The two systems share no base type. They are unified only by [System],
// which harness and test code use to drive either layout:
//
//	sys, err := layout.New(layout.SoA, 100_000)
//	if err != nil {
//		return err
//	}
//	energy := sys.Update(vec.New(0, -9.81, 0), 0.016)
package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/cachelayout/internal/aos"
	"github.com/san-kum/cachelayout/internal/soa"
	"github.com/san-kum/cachelayout/internal/vec"
)

// System is the operation contract both layouts implement.
type System interface {
	Len() int
	Particle(i int) (position, velocity vec.Vec3, mass float32)
	UpdatePositions(dt float32)
	KineticEnergy() float32
	ApplyGravity(gravity vec.Vec3, dt float32)
	Update(gravity vec.Vec3, dt float32) float32
}

var (
	_ System = (*aos.ParticleSystem)(nil)
	_ System = (*soa.ParticleSystem)(nil)
)

type Kind string

const (
	AoS Kind = "aos"
	SoA Kind = "soa"
)

func Kinds() []Kind { return []Kind{AoS, SoA} }

func (k Kind) String() string { return string(k) }

// ParseKind accepts a layout name in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case AoS, SoA:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLayout, s)
}

var constructors = map[Kind]func(int) System{
	AoS: func(n int) System { return aos.New(n) },
	SoA: func(n int) System { return soa.New(n) },
}

// New constructs a system of the given layout with count seeded particles.
func New(kind Kind, count int) (System, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}
	fn, ok := constructors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, string(kind))
	}
	return fn(count), nil
}

// Equal reports the first difference between two systems, or nil when they
// hold bit-identical particles in the same order. Comparison is on the IEEE
// bit patterns, so matching NaNs count as equal.
func Equal(a, b System) error {
	if a.Len() != b.Len() {
		return &MismatchError{Index: -1, Field: "len"}
	}
	for i := 0; i < a.Len(); i++ {
		pa, va, ma := a.Particle(i)
		pb, vb, mb := b.Particle(i)
		switch {
		case !sameVec(pa, pb):
			return &MismatchError{Index: i, Field: "position", A: pa, B: pb}
		case !sameVec(va, vb):
			return &MismatchError{Index: i, Field: "velocity", A: va, B: vb}
		case !Same(ma, mb):
			return &MismatchError{Index: i, Field: "mass", A: ma, B: mb}
		}
	}
	return nil
}

// Same reports whether a and b have the same bit pattern.
func Same(a, b float32) bool {
	return math.Float32bits(a) == math.Float32bits(b)
}

func sameVec(a, b vec.Vec3) bool {
	return Same(a.X, b.X) && Same(a.Y, b.Y) && Same(a.Z, b.Z)
}
