// Package aos stores particles as an Array of Structures.
//
// Each [Particle] keeps its position, velocity and mass next to each other,
// so every pass over [ParticleSystem.Particles] pulls whole records into
// cache even when an operation reads a single field:
//
//   - UpdatePositions needs position and velocity (24 of 28 bytes)
//   - ApplyGravity needs velocity only (12 of 28 bytes)
//   - KineticEnergy needs velocity and mass (16 of 28 bytes)
//
// The unused bytes are the point of the comparison with package soa.
//
// # Thread Safety
//
// A ParticleSystem is owned by one caller and is NOT safe for concurrent use.
package aos
