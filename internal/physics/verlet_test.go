package physics

import (
	"math"
	"testing"

	"github.com/perihelion-dev/astrosim/internal/body"
	"github.com/perihelion-dev/astrosim/internal/units"
)

func sunEarth() *body.Collection {
	c := body.NewCollection()
	c.Add(body.New(units.SolarMass, body.Vec3{}, body.Vec3{}))
	c.Add(body.New(units.EarthMass,
		body.Vec3{X: units.MetersPerAU},
		body.Vec3{Y: 29780}))
	c.Flush()
	return c
}

func TestStepEmptyCollection(t *testing.T) {
	c := body.NewCollection()
	Step(c, 1.0) // must not panic
	if c.Len() != 0 {
		t.Errorf("expected empty collection, got %d", c.Len())
	}
}

func TestStepFreeDrift(t *testing.T) {
	c := body.NewCollection()
	c.Add(body.New(1.0, body.Vec3{}, body.Vec3{X: 2, Y: -1}))
	c.Flush()

	Step(c, 10.0)

	b := c.Bodies()[0]
	want := body.Vec3{X: 20, Y: -10}
	if b.Position.Sub(want).Length() > 1e-12 {
		t.Errorf("single body must drift freely, got %+v want %+v", b.Position, want)
	}
	if b.Velocity.Sub(body.Vec3{X: 2, Y: -1}).Length() > 1e-12 {
		t.Errorf("single body velocity must not change, got %+v", b.Velocity)
	}
}

func TestStepClearsInitializedFlag(t *testing.T) {
	c := sunEarth()
	Step(c, 60.0)

	for i, b := range c.Bodies() {
		if b.AccelerationInitialized() {
			t.Errorf("body %d: flag must be false between ticks", i)
		}
	}
}

func TestStepCoincidentBodies(t *testing.T) {
	c := body.NewCollection()
	c.Add(body.New(1e25, body.Vec3{X: 1}, body.Vec3{}))
	c.Add(body.New(1e25, body.Vec3{X: 1}, body.Vec3{}))
	c.Flush()

	Step(c, 1.0)

	for i, b := range c.Bodies() {
		if !b.Position.IsValid() || !b.Velocity.IsValid() {
			t.Errorf("body %d: NaN/Inf leaked from coincident pair: pos=%+v vel=%+v",
				i, b.Position, b.Velocity)
		}
	}
}

func TestStepMasslessTracerFollowsField(t *testing.T) {
	c := body.NewCollection()
	c.Add(body.New(units.SolarMass, body.Vec3{}, body.Vec3{}))
	c.Add(body.New(0, body.Vec3{X: units.MetersPerAU}, body.Vec3{}))
	c.Flush()

	Step(c, 3600.0)

	tracer := c.Bodies()[1]
	// A tracer has zero mass but still falls in the field: the integrator
	// accumulates G*m_j/r^2 directly, never dividing by the tracer's mass.
	if tracer.Position.X >= units.MetersPerAU {
		t.Error("massless tracer should fall toward the sun")
	}
	if !tracer.Position.IsValid() {
		t.Errorf("tracer position not finite: %+v", tracer.Position)
	}

	// And the sun must be untouched by the tracer.
	sun := c.Bodies()[0]
	if !sun.Position.IsZero() {
		t.Errorf("massless tracer must exert no force, sun moved to %+v", sun.Position)
	}
}

func TestEnergyAndMomentumConservation(t *testing.T) {
	c := sunEarth()

	e0 := c.TotalEnergy()
	p0 := c.TotalMomentum()

	dt := 3600.0 // 1 hour
	steps := 24 * 365
	for i := 0; i < steps; i++ {
		Step(c, dt)
	}

	e1 := c.TotalEnergy()
	drift := math.Abs(e1-e0) / math.Abs(e0)
	if drift > 1e-4 {
		t.Errorf("energy drift %e exceeds bound over %d steps", drift, steps)
	}

	p1 := c.TotalMomentum()
	pScale := units.EarthMass * 29780 // magnitude of Earth's momentum
	if p1.Sub(p0).Length()/pScale > 1e-6 {
		t.Errorf("momentum drifted by %+v", p1.Sub(p0))
	}
}

func TestEarthOrbitStaysNearOneAU(t *testing.T) {
	if testing.Short() {
		t.Skip("one simulated year of hourly steps")
	}

	c := sunEarth()

	dt := 3600.0
	steps := int(units.SecondsPerYear / dt)
	for i := 0; i < steps; i++ {
		Step(c, dt)

		r := c.Bodies()[1].Position.Sub(c.Bodies()[0].Position).Length()
		ratio := r / units.MetersPerAU
		if ratio < 0.95 || ratio > 1.05 {
			t.Fatalf("step %d: Earth at %.4f AU, outside 5%% band", i, ratio)
		}
	}
}

func TestEarthReturnsAfterOnePeriod(t *testing.T) {
	if testing.Short() {
		t.Skip("one simulated year of hourly steps")
	}

	c := sunEarth()
	start := c.Bodies()[1].Position

	dt := 3600.0
	steps := int(units.SecondsPerYear / dt)
	for i := 0; i < steps; i++ {
		Step(c, dt)
	}

	end := c.Bodies()[1].Position
	// Within a few percent of an AU of the starting point after one period.
	if end.Sub(start).Length() > 0.05*units.MetersPerAU {
		t.Errorf("Earth ended %.4f AU from start after one year",
			units.MetersToAU(end.Sub(start).Length()))
	}
}

func TestStepSymmetricPair(t *testing.T) {
	// Two equal masses attract each other symmetrically: the center of mass
	// must not move.
	c := body.NewCollection()
	c.Add(body.New(1e26, body.Vec3{X: -1e9}, body.Vec3{}))
	c.Add(body.New(1e26, body.Vec3{X: 1e9}, body.Vec3{}))
	c.Flush()

	com0 := c.CenterOfMass()
	for i := 0; i < 100; i++ {
		Step(c, 10.0)
	}
	com1 := c.CenterOfMass()

	if com1.Sub(com0).Length() > 1e-3 {
		t.Errorf("center of mass moved by %e m", com1.Sub(com0).Length())
	}

	a, b := c.Bodies()[0], c.Bodies()[1]
	if a.Position.X >= 0 || b.Position.X <= 0 {
		t.Error("bodies should still be on their own sides while falling inward")
	}
	if math.Abs(a.Position.X+b.Position.X) > 1e-3 {
		t.Errorf("positions lost symmetry: %e vs %e", a.Position.X, b.Position.X)
	}
}
