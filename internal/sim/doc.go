// Package sim coordinates simulation execution.
//
//   - [Coordinator]: realtime mode. One dedicated background goroutine
//     advances the shared body collection at a throttled wall-clock cadence
//     while other goroutines add bodies, change speed, or take snapshots
//     through short-lived locked operations.
//   - [Run]: batch mode. A deterministic fixed-step loop over a private
//     collection, producing sampled history and metrics.
//
// # Concurrency
//
// The Coordinator's collection sits behind a single reader/writer lock.
// The background loop is the only writer of body state; snapshot reads and
// mutation enqueues take the lock only briefly and never block on a tick in
// progress longer than one O(n^2) step. Cancellation is cooperative: Stop
// sets an atomic flag and joins the loop, so no mutation happens after
// Stop returns.
package sim
