package sim

import (
	"context"
	"math"

	"github.com/perihelion-dev/astrosim/internal/body"
	"github.com/perihelion-dev/astrosim/internal/physics"
)

// Config holds the parameters of a deterministic fixed-step run.
type Config struct {
	Dt           float64 // simulated seconds per step
	Duration     float64 // total simulated seconds
	SampleStride int     // record every Nth step; <=0 means every step
}

// Metric observes the collection once per step and reduces to a single
// value at the end of a run.
type Metric interface {
	Name() string
	Observe(c *body.Collection, t float64)
	Value() float64
	Reset()
}

// Sample is one recorded point of a run.
type Sample struct {
	Time   float64
	Bodies []body.Body
}

// Result holds everything a finished run produced.
type Result struct {
	Samples     []Sample
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
}

// Run advances c with a fixed logical dt until Duration elapses, observing
// metrics each step and recording sampled snapshots. Unlike the realtime
// Coordinator this path is deterministic: the same collection and config
// always produce the same trajectory.
//
// Run owns c for its duration; the caller must not mutate it concurrently.
func Run(ctx context.Context, c *body.Collection, cfg Config, ms ...Metric) (*Result, error) {
	if cfg.Dt <= 0 {
		return nil, ErrInvalidTimestep
	}
	if cfg.Duration <= 0 {
		return nil, ErrInvalidDuration
	}

	stride := cfg.SampleStride
	if stride <= 0 {
		stride = 1
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Samples: make([]Sample, 0, steps/stride+2),
		Metrics: make(map[string]float64),
	}

	for _, m := range ms {
		m.Reset()
	}

	t := 0.0
	result.Samples = append(result.Samples, Sample{Time: t, Bodies: c.Snapshot()})
	initialEnergy := c.TotalEnergy()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		physics.Step(c, cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		for _, b := range c.Bodies() {
			if !b.Position.IsValid() || !b.Velocity.IsValid() {
				return result, ErrUnstable
			}
		}

		for _, m := range ms {
			m.Observe(c, t)
		}

		if (i+1)%stride == 0 || i == steps-1 {
			result.Samples = append(result.Samples, Sample{Time: t, Bodies: c.Snapshot()})
		}
	}

	finalEnergy := c.TotalEnergy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range ms {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}
