// Package config loads and saves run configuration as YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt           = 3600.0    // one hour per step
	DefaultDurationDays = 365.25    // one year
	DefaultSpeed        = 1_000_000 // realtime multiplier for live mode
	DefaultSampleStride = 24
	DefaultStreamAddr   = ":8480"
)

// Config holds every knob a run or live session needs.
type Config struct {
	Scenario     string  `yaml:"scenario"`      // path; empty means builtin Sun-Earth
	Dt           float64 `yaml:"dt"`            // simulated seconds per step (batch)
	DurationDays float64 `yaml:"duration_days"` // batch run length
	Speed        float32 `yaml:"speed"`         // live-mode speed multiplier
	SampleStride int     `yaml:"sample_stride"` // record every Nth step
	DataDir      string  `yaml:"data_dir"`      // run storage location
	StreamAddr   string  `yaml:"stream_addr"`   // websocket listen address
}

func Default() *Config {
	return &Config{
		Dt:           DefaultDt,
		DurationDays: DefaultDurationDays,
		Speed:        DefaultSpeed,
		SampleStride: DefaultSampleStride,
		DataDir:      ".astrosim",
		StreamAddr:   DefaultStreamAddr,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %f", c.Dt)
	}
	if c.DurationDays <= 0 {
		return fmt.Errorf("config: duration_days must be positive, got %f", c.DurationDays)
	}
	if c.Speed < 0 {
		return fmt.Errorf("config: speed must be non-negative, got %f", c.Speed)
	}
	return nil
}
