package sim

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/perihelion-dev/astrosim/internal/body"
	"github.com/perihelion-dev/astrosim/internal/physics"
)

const (
	// maxTickSeconds caps the simulated time of a single tick. Frame
	// hitches or a slow machine would otherwise hand the integrator a dt
	// large enough to destabilize orbits.
	maxTickSeconds = 0.1

	// loopThrottle is how long the background loop yields between ticks.
	loopThrottle = time.Millisecond
)

// Coordinator owns a body collection behind a reader/writer lock and
// advances it continuously on a dedicated background goroutine. All other
// goroutines interact through short-lived locked operations: enqueue a
// body, take a snapshot, change the speed scalar.
//
// Exactly one goroutine ever writes body state, so there is no
// writer-writer race by construction.
type Coordinator struct {
	mu     sync.RWMutex
	bodies *body.Collection

	speedMu sync.RWMutex
	speed   float32

	terminate atomic.Bool
	closed    atomic.Bool

	lifeMu sync.Mutex
	done   chan struct{}

	logger *slog.Logger
}

// NewCoordinator returns an idle coordinator with an empty collection and
// speed 1.0. A nil logger falls back to slog.Default.
func NewCoordinator(logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		bodies: body.NewCollection(),
		speed:  1.0,
		logger: logger,
	}
}

// Start spawns the background integration loop. It returns
// ErrAlreadyRunning if the loop is already up; a second loop is never
// spawned.
func (c *Coordinator) Start() error {
	if c.closed.Load() {
		return ErrClosed
	}

	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	if c.done != nil {
		return ErrAlreadyRunning
	}

	c.terminate.Store(false)
	done := make(chan struct{})
	c.done = done

	go c.loop(done)
	return nil
}

// loop measures wall-clock time between iterations, scales it by the speed
// scalar, clamps it, and runs one Velocity-Verlet tick under the write
// lock. An unstable state fail-stops the loop; the simulation simply stops
// advancing, which consumers observe as unchanged snapshots.
func (c *Coordinator) loop(done chan struct{}) {
	defer close(done)

	last := time.Now()
	for !c.terminate.Load() {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		dt *= float64(c.Speed())
		if dt > maxTickSeconds {
			dt = maxTickSeconds
		}

		if err := c.step(dt); err != nil {
			c.logger.Error("integration step failed, stopping loop", "err", err)
			return
		}

		time.Sleep(loopThrottle)
	}

	c.logger.Info("simulation loop terminated")
}

func (c *Coordinator) step(dt float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	physics.Step(c.bodies, dt)

	for i, b := range c.bodies.Bodies() {
		if !b.Position.IsValid() || !b.Velocity.IsValid() {
			return fmt.Errorf("body %d %q: %w", i, b.Name, ErrUnstable)
		}
	}
	return nil
}

// Stop signals the background loop and waits for it to exit. It is
// idempotent; once Stop returns, no further mutation of body state occurs.
func (c *Coordinator) Stop() {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()

	if c.done == nil {
		return
	}

	c.terminate.Store(true)
	<-c.done
	c.done = nil
}

// Running reports whether the background loop is up.
func (c *Coordinator) Running() bool {
	c.lifeMu.Lock()
	defer c.lifeMu.Unlock()
	return c.done != nil
}

// AddBody enqueues b; it becomes visible to the integrator and to
// snapshots after FlushBodies.
func (c *Coordinator) AddBody(b *body.Body) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodies.Add(b)
	return nil
}

// RemoveBody enqueues removal of the body at index. Out-of-range indices
// are ignored, matching Collection semantics.
func (c *Coordinator) RemoveBody(index int) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodies.Remove(index)
	return nil
}

// FlushBodies commits pending additions and removals.
func (c *Coordinator) FlushBodies() error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodies.Flush()
	return nil
}

// Bodies returns a point-in-time value snapshot of the committed bodies.
// Safe to call at any rate from any goroutine; the snapshot reflects
// whatever committed state is visible at lock-acquisition time.
func (c *Coordinator) Bodies() []body.Body {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bodies.Snapshot()
}

// TotalEnergy returns the current total system energy.
func (c *Coordinator) TotalEnergy() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bodies.TotalEnergy()
}

// CenterOfMass returns the current mass-weighted mean position.
func (c *Coordinator) CenterOfMass() body.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bodies.CenterOfMass()
}

// SetSpeed sets the simulation speed multiplier, clamped to >= 0.
func (c *Coordinator) SetSpeed(speed float32) error {
	if c.closed.Load() {
		return ErrClosed
	}
	if speed < 0 {
		speed = 0
	}
	c.speedMu.Lock()
	defer c.speedMu.Unlock()
	c.speed = speed
	return nil
}

// Speed returns the current simulation speed multiplier.
func (c *Coordinator) Speed() float32 {
	c.speedMu.RLock()
	defer c.speedMu.RUnlock()
	return c.speed
}

// Reset stops nothing but replaces the collection wholesale. Used by
// scenario loading before the simulation starts.
func (c *Coordinator) Reset() error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bodies = body.NewCollection()
	return nil
}

// Close stops the loop and marks the coordinator unusable. Every teardown
// path should reach this; it is safe to call more than once.
func (c *Coordinator) Close() error {
	c.Stop()
	c.closed.Store(true)
	return nil
}
