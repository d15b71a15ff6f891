package body

import (
	"math"
	"testing"

	"github.com/perihelion-dev/astrosim/internal/units"
)

func TestFlushAdditionsFIFO(t *testing.T) {
	c := NewCollection()
	a := New(1, Vec3{1, 0, 0}, Vec3{})
	b := New(2, Vec3{2, 0, 0}, Vec3{})

	c.Add(a)
	c.Add(b)

	if c.Len() != 0 {
		t.Fatalf("additions must not be visible before flush, len=%d", c.Len())
	}

	c.Flush()

	if c.Len() != 2 {
		t.Fatalf("expected 2 bodies after flush, got %d", c.Len())
	}
	if c.Bodies()[0] != a || c.Bodies()[1] != b {
		t.Error("flush must preserve FIFO addition order")
	}
}

func TestFlushRemovalsDescending(t *testing.T) {
	c := NewCollection()
	for i := 0; i < 3; i++ {
		c.Add(New(float64(i+1), Vec3{float64(i), 0, 0}, Vec3{}))
	}
	c.Flush()
	middle := c.Bodies()[1]

	// Removing 0 and 2 must resolve 2 first so index 0 stays valid.
	c.Remove(0)
	c.Remove(2)
	c.Flush()

	if c.Len() != 1 {
		t.Fatalf("expected 1 survivor, got %d", c.Len())
	}
	if c.Bodies()[0] != middle {
		t.Error("the middle body should survive")
	}
}

func TestRemoveOutOfRangeIgnored(t *testing.T) {
	c := NewCollection()
	c.Add(New(1, Vec3{}, Vec3{}))
	c.Flush()

	c.Remove(5)
	c.Remove(-1)
	c.Flush()

	if c.Len() != 1 {
		t.Errorf("out-of-range removals must be ignored, len=%d", c.Len())
	}
}

func TestStaleRemovalIndexDropped(t *testing.T) {
	c := NewCollection()
	c.Add(New(1, Vec3{}, Vec3{}))
	c.Add(New(2, Vec3{}, Vec3{}))
	c.Flush()

	// Both enqueued while valid; the second becomes stale once the first
	// removal shrinks the list.
	c.Remove(1)
	c.Remove(1)
	c.Flush()

	if c.Len() != 1 {
		t.Errorf("expected 1 body, got %d", c.Len())
	}
}

func TestSnapshotDecoupled(t *testing.T) {
	c := NewCollection()
	c.Add(New(1, Vec3{1, 2, 3}, Vec3{}))
	c.Flush()

	snap := c.Snapshot()
	c.Bodies()[0].Position = Vec3{9, 9, 9}

	if snap[0].Position != (Vec3{1, 2, 3}) {
		t.Errorf("snapshot must be a value copy, got %+v", snap[0].Position)
	}
}

func TestCenterOfMass(t *testing.T) {
	tests := []struct {
		name   string
		bodies []*Body
		want   Vec3
	}{
		{"empty", nil, Vec3{}},
		{
			"all massless",
			[]*Body{New(0, Vec3{1, 0, 0}, Vec3{}), New(0, Vec3{3, 0, 0}, Vec3{})},
			Vec3{},
		},
		{
			"equal masses",
			[]*Body{New(2, Vec3{0, 0, 0}, Vec3{}), New(2, Vec3{4, 0, 0}, Vec3{})},
			Vec3{2, 0, 0},
		},
		{
			"weighted",
			[]*Body{New(3, Vec3{0, 0, 0}, Vec3{}), New(1, Vec3{4, 0, 0}, Vec3{})},
			Vec3{1, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollection()
			for _, b := range tt.bodies {
				c.Add(b)
			}
			c.Flush()

			got := c.CenterOfMass()
			if !got.IsValid() {
				t.Fatalf("center of mass is not finite: %+v", got)
			}
			if got.Sub(tt.want).Length() > 1e-12 {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestTotalEnergy(t *testing.T) {
	c := NewCollection()
	c.Add(New(2, Vec3{0, 0, 0}, Vec3{3, 0, 0}))
	c.Add(New(4, Vec3{10, 0, 0}, Vec3{0, 0, 0}))
	c.Flush()

	kinetic := 0.5 * 2 * 9.0
	potential := -units.GravitationalConstant * 2 * 4 / 10.0
	expected := kinetic + potential

	if math.Abs(c.TotalEnergy()-expected) > 1e-15 {
		t.Errorf("expected %e, got %e", expected, c.TotalEnergy())
	}
}

func TestTotalEnergyCoincidentPairSkipped(t *testing.T) {
	c := NewCollection()
	c.Add(New(1e10, Vec3{}, Vec3{}))
	c.Add(New(1e10, Vec3{}, Vec3{}))
	c.Flush()

	e := c.TotalEnergy()
	if math.IsInf(e, 0) || math.IsNaN(e) {
		t.Errorf("coincident pair must contribute zero potential, got %e", e)
	}
	if e != 0 {
		t.Errorf("expected zero total energy, got %e", e)
	}
}

func TestTotalMomentum(t *testing.T) {
	c := NewCollection()
	c.Add(New(2, Vec3{}, Vec3{1, 0, 0}))
	c.Add(New(3, Vec3{}, Vec3{0, -1, 0}))
	c.Flush()

	p := c.TotalMomentum()
	if p != (Vec3{2, -3, 0}) {
		t.Errorf("unexpected total momentum %+v", p)
	}
}
