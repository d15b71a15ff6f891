package body

import "github.com/perihelion-dev/astrosim/internal/units"

// Body is a single point mass. Position, velocity and acceleration are SI
// (m, m/s, m/s^2), mass is kilograms. A zero mass is a valid massless
// tracer: it feels gravity from nothing (no force division) and exerts
// force on nothing.
type Body struct {
	Name string

	Mass         float64
	Position     Vec3
	Velocity     Vec3
	Acceleration Vec3

	// accelInit tracks the two-phase integration protocol: positions are
	// advanced lazily the first time a body is visited in a tick, and the
	// flag must read false between ticks.
	accelInit bool
}

// New returns a body at rest acceleration-wise with the flag cleared.
func New(mass float64, position, velocity Vec3) *Body {
	return &Body{
		Mass:     mass,
		Position: position,
		Velocity: velocity,
	}
}

// AccelerationInitialized reports whether this body's acceleration has
// already been accumulated this tick.
func (b *Body) AccelerationInitialized() bool { return b.accelInit }

// SetAccelerationInitialized marks the per-tick accumulation state. Only
// the integrator should call this.
func (b *Body) SetAccelerationInitialized(v bool) { b.accelInit = v }

// ResetAcceleration zeroes the accumulated acceleration and clears the
// per-tick flag. Called once per tick before accumulation starts.
func (b *Body) ResetAcceleration() {
	b.Acceleration = Vec3{}
	b.accelInit = false
}

// GravitationalForceTo returns F = G*m1*m2/r^2 directed from b toward
// other. Coincident bodies yield the zero vector rather than NaN/Inf.
func (b *Body) GravitationalForceTo(other *Body) Vec3 {
	displacement := other.Position.Sub(b.Position)
	distSq := displacement.LengthSq()
	if distSq == 0 {
		return Vec3{}
	}
	magnitude := units.GravitationalConstant * b.Mass * other.Mass / distSq
	return displacement.Normalize().Scale(magnitude)
}

// ApplyGravitationalAcceleration accumulates the acceleration other induces
// on b. No-op for massless bodies so the F/m division never divides by
// zero.
func (b *Body) ApplyGravitationalAcceleration(other *Body) {
	if b.Mass == 0 {
		return
	}
	force := b.GravitationalForceTo(other)
	b.Acceleration = b.Acceleration.Add(force.Scale(1 / b.Mass))
}

// KineticEnergy returns 1/2 m |v|^2.
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.LengthSq()
}

// Momentum returns m*v.
func (b *Body) Momentum() Vec3 {
	return b.Velocity.Scale(b.Mass)
}

// Clone returns an independent copy.
func (b *Body) Clone() *Body {
	c := *b
	return &c
}
