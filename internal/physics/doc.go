// Package physics implements the Velocity-Verlet integration step for the
// gravitational N-body core.
//
// Velocity-Verlet is a second-order symplectic scheme: positions advance
// with the old acceleration, accelerations are recomputed at the new
// positions, and velocities advance with the average of the two. On-average
// energy conservation makes it stable for orbital mechanics at large dt
// where explicit Euler diverges.
//
// [Step] operates once per tick over a [body.Collection] and only ever
// touches the committed body list, never the pending queues. All math is
// double precision.
package physics
