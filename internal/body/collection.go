package body

import (
	"sort"

	"github.com/perihelion-dev/astrosim/internal/units"
)

// Collection owns the committed body list plus the pending add/remove
// queues. The queues decouple external mutation (scenario loading, UI) from
// the integrator, which only ever sees the committed list: an added body is
// not simulated, and does not count toward Len, until Flush runs.
//
// Collection itself is not synchronized; the simulation coordinator guards
// it with a single reader/writer lock.
type Collection struct {
	bodies        []*Body
	pendingAdd    []*Body
	pendingRemove []int
}

func NewCollection() *Collection {
	return &Collection{}
}

// Add enqueues b for the next Flush.
func (c *Collection) Add(b *Body) {
	c.pendingAdd = append(c.pendingAdd, b)
}

// Remove enqueues the body at index for the next Flush. Indices outside the
// current committed range are silently ignored: queued additions may change
// the valid range before the flush, so this is not an error.
func (c *Collection) Remove(index int) {
	if index >= 0 && index < len(c.bodies) {
		c.pendingRemove = append(c.pendingRemove, index)
	}
}

// Flush drains pending additions in FIFO order, then applies pending
// removals in descending index order so earlier removals cannot invalidate
// later ones. Surviving bodies keep their relative order.
func (c *Collection) Flush() {
	c.bodies = append(c.bodies, c.pendingAdd...)
	c.pendingAdd = nil

	sort.Sort(sort.Reverse(sort.IntSlice(c.pendingRemove)))
	for _, index := range c.pendingRemove {
		if index < len(c.bodies) {
			c.bodies = append(c.bodies[:index], c.bodies[index+1:]...)
		}
	}
	c.pendingRemove = nil
}

// Bodies returns the committed list. Callers must not reorder it.
func (c *Collection) Bodies() []*Body { return c.bodies }

func (c *Collection) Len() int { return len(c.bodies) }

func (c *Collection) Empty() bool { return len(c.bodies) == 0 }

// Snapshot returns deep value copies of the committed bodies, decoupled
// from further mutation.
func (c *Collection) Snapshot() []Body {
	out := make([]Body, len(c.bodies))
	for i, b := range c.bodies {
		out[i] = *b
	}
	return out
}

// TotalEnergy returns the sum of kinetic energies plus the gravitational
// potential energy over all unordered pairs. Pairs at zero separation
// contribute nothing instead of -Inf.
func (c *Collection) TotalEnergy() float64 {
	kinetic := 0.0
	for _, b := range c.bodies {
		kinetic += b.KineticEnergy()
	}

	potential := 0.0
	for i, a := range c.bodies {
		for _, b := range c.bodies[i+1:] {
			dist := a.Position.Sub(b.Position).Length()
			if dist > 0 {
				potential -= gravPotential(a.Mass, b.Mass, dist)
			}
		}
	}

	return kinetic + potential
}

// TotalMomentum returns the vector sum of all body momenta.
func (c *Collection) TotalMomentum() Vec3 {
	p := Vec3{}
	for _, b := range c.bodies {
		p = p.Add(b.Momentum())
	}
	return p
}

// CenterOfMass returns the mass-weighted mean position, or the origin for
// an empty or all-massless collection.
func (c *Collection) CenterOfMass() Vec3 {
	totalMass := 0.0
	weighted := Vec3{}
	for _, b := range c.bodies {
		totalMass += b.Mass
		weighted = weighted.Add(b.Position.Scale(b.Mass))
	}
	if totalMass == 0 {
		return Vec3{}
	}
	return weighted.Scale(1 / totalMass)
}

func gravPotential(m1, m2, dist float64) float64 {
	return units.GravitationalConstant * m1 * m2 / dist
}
