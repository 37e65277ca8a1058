package aos

import "github.com/san-kum/cachelayout/internal/vec"

type Particle struct {
	Position vec.Vec3
	Velocity vec.Vec3
	Mass     float32
}

func NewParticle(position, velocity vec.Vec3, mass float32) Particle {
	return Particle{Position: position, Velocity: velocity, Mass: mass}
}

// ParticleSystem owns one contiguous slice of particles. The slice index is
// the particle identity and the iteration order of every operation.
type ParticleSystem struct {
	Particles []Particle
}

// New builds count particles with deterministic seed data derived from the
// index i: position (i, 2i, 3i), velocity (0.1i, 0.2i, 0.3i), mass 1 + 0.01i.
// A count of zero or less yields an empty system.
func New(count int) *ParticleSystem {
	if count < 0 {
		count = 0
	}
	particles := make([]Particle, 0, count)
	for i := 0; i < count; i++ {
		fi := float32(i)
		particles = append(particles, NewParticle(
			vec.New(fi, float32(fi*2), float32(fi*3)),
			vec.New(float32(fi*0.1), float32(fi*0.2), float32(fi*0.3)),
			1+float32(fi*0.01),
		))
	}
	return &ParticleSystem{Particles: particles}
}

func (s *ParticleSystem) Len() int { return len(s.Particles) }

func (s *ParticleSystem) Particle(i int) (position, velocity vec.Vec3, mass float32) {
	p := &s.Particles[i]
	return p.Position, p.Velocity, p.Mass
}

// UpdatePositions advances every position by velocity*dt.
//
//go:noinline
func (s *ParticleSystem) UpdatePositions(dt float32) {
	for i := range s.Particles {
		p := &s.Particles[i]
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
	}
}

// KineticEnergy returns the sum of 0.5*m*|v|^2, accumulated in index order.
//
//go:noinline
func (s *ParticleSystem) KineticEnergy() float32 {
	var total float32
	for i := range s.Particles {
		p := &s.Particles[i]
		total += float32(0.5 * p.Mass * p.Velocity.LengthSq())
	}
	return total
}

// ApplyGravity adds gravity*dt to every velocity.
//
//go:noinline
func (s *ParticleSystem) ApplyGravity(gravity vec.Vec3, dt float32) {
	dv := gravity.Scale(dt)
	for i := range s.Particles {
		p := &s.Particles[i]
		p.Velocity = p.Velocity.Add(dv)
	}
}

// Update runs one simulation frame: gravity first, then integration, and
// returns the kinetic energy after the step.
func (s *ParticleSystem) Update(gravity vec.Vec3, dt float32) float32 {
	s.ApplyGravity(gravity, dt)
	s.UpdatePositions(dt)
	return s.KineticEnergy()
}
