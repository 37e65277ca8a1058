// Package soa stores particles as a Structure of Arrays: one slice per field,
// indexed by a shared particle index.
//
// Each operation walks only the slices it needs, so every cache line it
// loads is fully used. Masses are kept as a plain []float32 rather than a
// vector slice; each field array has its natural width.
package soa

import "github.com/san-kum/cachelayout/internal/vec"

// ParticleSystem holds three parallel slices. Particle i is
// (Positions[i], Velocities[i], Masses[i]); all three always have the same
// length.
type ParticleSystem struct {
	Positions  []vec.Vec3
	Velocities []vec.Vec3
	Masses     []float32
}

// New builds count particles with the same per-index seeds as aos.New.
func New(count int) *ParticleSystem {
	if count < 0 {
		count = 0
	}
	positions := make([]vec.Vec3, 0, count)
	velocities := make([]vec.Vec3, 0, count)
	masses := make([]float32, 0, count)

	for i := 0; i < count; i++ {
		fi := float32(i)
		positions = append(positions, vec.New(fi, float32(fi*2), float32(fi*3)))
		velocities = append(velocities, vec.New(float32(fi*0.1), float32(fi*0.2), float32(fi*0.3)))
		masses = append(masses, 1+float32(fi*0.01))
	}

	return &ParticleSystem{
		Positions:  positions,
		Velocities: velocities,
		Masses:     masses,
	}
}

func (s *ParticleSystem) Len() int { return len(s.Positions) }

func (s *ParticleSystem) Particle(i int) (position, velocity vec.Vec3, mass float32) {
	return s.Positions[i], s.Velocities[i], s.Masses[i]
}

// UpdatePositions touches positions and velocities only.
//
//go:noinline
func (s *ParticleSystem) UpdatePositions(dt float32) {
	pos := s.Positions
	vel := s.Velocities[:len(pos)]
	for i := range pos {
		pos[i] = pos[i].Add(vel[i].Scale(dt))
	}
}

// KineticEnergy touches velocities and masses only. The accumulation order
// matches aos.ParticleSystem.KineticEnergy.
//
//go:noinline
func (s *ParticleSystem) KineticEnergy() float32 {
	vel := s.Velocities
	masses := s.Masses[:len(vel)]
	var total float32
	for i := range vel {
		total += float32(0.5 * masses[i] * vel[i].LengthSq())
	}
	return total
}

// ApplyGravity touches the velocity slice only.
//
//go:noinline
func (s *ParticleSystem) ApplyGravity(gravity vec.Vec3, dt float32) {
	dv := gravity.Scale(dt)
	vel := s.Velocities
	for i := range vel {
		vel[i] = vel[i].Add(dv)
	}
}

// Update applies gravity, integrates positions and returns the resulting
// kinetic energy.
func (s *ParticleSystem) Update(gravity vec.Vec3, dt float32) float32 {
	s.ApplyGravity(gravity, dt)
	s.UpdatePositions(dt)
	return s.KineticEnergy()
}
