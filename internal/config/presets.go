package config

import "sort"

// Presets are named ready-to-run configurations. The scenario field stays
// empty where the builtin Sun-Earth pair is the subject.
var Presets = map[string]*Config{
	"sun-earth": {
		Dt: 3600, DurationDays: 365.25, Speed: 1_000_000,
		SampleStride: 24,
	},
	"sun-earth-fine": {
		Dt: 600, DurationDays: 365.25, Speed: 1_000_000,
		SampleStride: 144,
	},
	"inner-planets": {
		Scenario: "scenarios/inner_planets.yaml",
		Dt:       1800, DurationDays: 687, Speed: 2_000_000,
		SampleStride: 48,
	},
	"binary-pair": {
		Scenario: "scenarios/binary_pair.yaml",
		Dt:       3600, DurationDays: 1000, Speed: 5_000_000,
		SampleStride: 24,
	},
}

// GetPreset returns the named preset filled out with defaults for the
// fields presets leave zero, or nil if the name is unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}

	cfg := *p
	if cfg.DataDir == "" {
		cfg.DataDir = Default().DataDir
	}
	if cfg.StreamAddr == "" {
		cfg.StreamAddr = DefaultStreamAddr
	}
	if cfg.SampleStride == 0 {
		cfg.SampleStride = DefaultSampleStride
	}
	return &cfg
}

// ListPresets returns preset names in stable order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
