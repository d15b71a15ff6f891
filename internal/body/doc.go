// Package body provides the data representation for the N-body core.
//
//   - [Vec3]: double precision 3-vector math
//   - [Body]: a single point mass with position/velocity/acceleration state
//   - [Collection]: the committed body list with pending add/remove queues
//     and aggregate quantities (total energy, momentum, center of mass)
//
// All quantities are SI: kilograms, meters, seconds. Every force and energy
// computation skips pairs at zero separation so that coincident bodies never
// propagate NaN or Inf into the simulation.
//
// # Thread Safety
//
// Neither [Body] nor [Collection] synchronizes access. The simulation
// coordinator owns a Collection behind a reader/writer lock and is the only
// writer of body state.
package body
