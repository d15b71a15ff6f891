// Package metrics provides conservation-law observers for simulation runs.
// Each metric samples the body collection once per step and reduces to a
// single scalar: the worst relative drift seen over the run. A symplectic
// integrator should keep all three near zero.
package metrics

import (
	"math"

	"github.com/perihelion-dev/astrosim/internal/body"
)

// EnergyDrift tracks the maximum relative deviation of total system energy
// from the first observed sample.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(c *body.Collection, t float64) {
	energy := c.TotalEnergy()
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift tracks the maximum deviation of total momentum from the
// first sample, relative to the initial momentum magnitude. A zero initial
// momentum falls back to absolute deviation.
type MomentumDrift struct {
	initial  body.Vec3
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(c *body.Collection, t float64) {
	p := c.TotalMomentum()
	if m.samples == 0 {
		m.initial = p
		m.scale = p.Length()
	}
	m.samples++

	drift := p.Sub(m.initial).Length()
	if m.scale > 0 {
		drift /= m.scale
	}
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = body.Vec3{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}

// CenterOfMassDrift tracks how far the center of mass wanders from its
// first observed position, in meters.
type CenterOfMassDrift struct {
	initial body.Vec3
	maxDist float64
	samples int
}

func NewCenterOfMassDrift() *CenterOfMassDrift {
	return &CenterOfMassDrift{}
}

func (m *CenterOfMassDrift) Name() string { return "com_drift_m" }

func (m *CenterOfMassDrift) Observe(c *body.Collection, t float64) {
	com := c.CenterOfMass()
	if m.samples == 0 {
		m.initial = com
	}
	m.samples++

	m.maxDist = math.Max(m.maxDist, com.Sub(m.initial).Length())
}

func (m *CenterOfMassDrift) Value() float64 { return m.maxDist }

func (m *CenterOfMassDrift) Reset() {
	m.initial = body.Vec3{}
	m.maxDist = 0
	m.samples = 0
}
