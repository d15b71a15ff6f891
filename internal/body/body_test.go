package body

import (
	"math"
	"testing"

	"github.com/perihelion-dev/astrosim/internal/units"
)

func TestNewBody(t *testing.T) {
	b := New(1000.0, Vec3{1, 2, 3}, Vec3{10, 20, 30})

	if b.Mass != 1000.0 {
		t.Errorf("expected mass 1000, got %f", b.Mass)
	}
	if b.Position != (Vec3{1, 2, 3}) {
		t.Errorf("unexpected position %+v", b.Position)
	}
	if b.Velocity != (Vec3{10, 20, 30}) {
		t.Errorf("unexpected velocity %+v", b.Velocity)
	}
	if !b.Acceleration.IsZero() {
		t.Errorf("expected zero acceleration, got %+v", b.Acceleration)
	}
	if b.AccelerationInitialized() {
		t.Error("new body must not have acceleration initialized")
	}
}

func TestKineticEnergy(t *testing.T) {
	b := New(2.0, Vec3{}, Vec3{3, 4, 0})
	expected := 0.5 * 2.0 * 25.0
	if math.Abs(b.KineticEnergy()-expected) > 1e-10 {
		t.Errorf("expected %f, got %f", expected, b.KineticEnergy())
	}
}

func TestMomentum(t *testing.T) {
	b := New(3.0, Vec3{}, Vec3{1, -2, 0.5})
	p := b.Momentum()
	if p != (Vec3{3, -6, 1.5}) {
		t.Errorf("unexpected momentum %+v", p)
	}
}

func TestGravitationalForce(t *testing.T) {
	b1 := New(1000.0, Vec3{}, Vec3{})
	b2 := New(2000.0, Vec3{1, 0, 0}, Vec3{})

	force := b1.GravitationalForceTo(b2)

	if force.X <= 0 {
		t.Errorf("force should point toward b2, got x=%e", force.X)
	}
	if force.Y != 0 || force.Z != 0 {
		t.Errorf("force should be on the x axis, got %+v", force)
	}

	expected := units.GravitationalConstant * 1000.0 * 2000.0 / 1.0
	if math.Abs(force.Length()-expected) > 1e-10 {
		t.Errorf("expected magnitude %e, got %e", expected, force.Length())
	}
}

func TestGravitationalForceCoincident(t *testing.T) {
	pos := Vec3{5, 5, 5}
	b1 := New(1e20, pos, Vec3{})
	b2 := New(1e20, pos, Vec3{})

	force := b1.GravitationalForceTo(b2)
	if !force.IsZero() {
		t.Errorf("coincident bodies must yield zero force, got %+v", force)
	}
	if !force.IsValid() {
		t.Errorf("force has non-finite components: %+v", force)
	}
}

func TestApplyAccelerationMasslessNoOp(t *testing.T) {
	tracer := New(0, Vec3{}, Vec3{})
	sun := New(units.SolarMass, Vec3{units.MetersPerAU, 0, 0}, Vec3{})

	tracer.ApplyGravitationalAcceleration(sun)

	if !tracer.Acceleration.IsZero() {
		t.Errorf("massless body must not accumulate acceleration, got %+v", tracer.Acceleration)
	}
}

func TestApplyAcceleration(t *testing.T) {
	earth := New(units.EarthMass, Vec3{units.MetersPerAU, 0, 0}, Vec3{})
	sun := New(units.SolarMass, Vec3{}, Vec3{})

	earth.ApplyGravitationalAcceleration(sun)

	// a = G*M_sun/r^2 toward the sun, ~5.9e-3 m/s^2 at 1 AU.
	expected := units.GravitationalConstant * units.SolarMass / (units.MetersPerAU * units.MetersPerAU)
	got := earth.Acceleration.Length()
	if math.Abs(got-expected)/expected > 1e-12 {
		t.Errorf("expected |a| %e, got %e", expected, got)
	}
	if earth.Acceleration.X >= 0 {
		t.Errorf("acceleration should point toward the sun (negative x), got %+v", earth.Acceleration)
	}
}

func TestResetAcceleration(t *testing.T) {
	b := New(1.0, Vec3{}, Vec3{})
	b.Acceleration = Vec3{1, 2, 3}
	b.SetAccelerationInitialized(true)

	b.ResetAcceleration()

	if !b.Acceleration.IsZero() {
		t.Errorf("expected zero acceleration, got %+v", b.Acceleration)
	}
	if b.AccelerationInitialized() {
		t.Error("reset must clear the initialized flag")
	}
}

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"unit x", Vec3{2, 0, 0}, Vec3{1, 0, 0}},
		{"zero stays zero", Vec3{}, Vec3{}},
		{"diagonal", Vec3{1, 1, 0}, Vec3{1 / math.Sqrt2, 1 / math.Sqrt2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got.Sub(tt.want).Length() > 1e-15 {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
