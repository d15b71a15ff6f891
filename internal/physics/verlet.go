package physics

import (
	"github.com/perihelion-dev/astrosim/internal/body"
	"github.com/perihelion-dev/astrosim/internal/units"
)

// Step advances every committed body in c by one Velocity-Verlet tick of
// dt seconds. It is stateless: all per-tick state lives on the bodies
// themselves (the acceleration-initialized flag) or on the stack.
//
// The caller is responsible for keeping dt numerically sane; Step performs
// no clamping. An empty collection is a no-op.
func Step(c *body.Collection, dt float64) {
	bodies := c.Bodies()
	if len(bodies) == 0 {
		return
	}

	// Phase A: accumulate a(t) lazily, then advance positions with
	// x(t+dt) = x(t) + v(t)*dt + 0.5*a(t)*dt^2.
	for i, b := range bodies {
		if !b.AccelerationInitialized() {
			b.ResetAcceleration()
			b.Acceleration = accelerationAt(bodies, i, b.Position)
			b.SetAccelerationInitialized(true)
		}

		b.Position = b.Position.
			Add(b.Velocity.Scale(dt)).
			Add(b.Acceleration.Scale(0.5 * dt * dt))
	}

	// Phase B: recompute accelerations at the new positions. The slice is
	// index-aligned with bodies; phase C pairs old and new accelerations by
	// index.
	newAccels := make([]body.Vec3, len(bodies))
	for i, b := range bodies {
		newAccels[i] = accelerationAt(bodies, i, b.Position)
	}

	// Phase C: v(t+dt) = v(t) + 0.5*(a(t) + a(t+dt))*dt, then carry the new
	// acceleration into the next tick with the flag cleared.
	for i, b := range bodies {
		b.Velocity = b.Velocity.
			Add(b.Acceleration.Add(newAccels[i]).Scale(0.5 * dt))
		b.Acceleration = newAccels[i]
		b.SetAccelerationInitialized(false)
	}
}

// accelerationAt sums the gravitational acceleration that every body other
// than bodies[i] induces at position pos: a += G*m_j*(r_j-r_i)/|r_j-r_i|^3.
// Pairs at zero separation contribute nothing.
func accelerationAt(bodies []*body.Body, i int, pos body.Vec3) body.Vec3 {
	accel := body.Vec3{}
	for j, other := range bodies {
		if j == i {
			continue
		}

		displacement := other.Position.Sub(pos)
		distSq := displacement.LengthSq()
		if distSq == 0 {
			continue
		}

		dist := displacement.Length()
		magnitude := units.GravitationalConstant * other.Mass / (distSq * dist)
		accel = accel.Add(displacement.Scale(magnitude))
	}
	return accel
}
