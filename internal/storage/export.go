package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/perihelion-dev/astrosim/internal/sim"
)

// ExportData is the JSON export layout for external tooling.
type ExportData struct {
	Scenario     string             `json:"scenario"`
	Dt           float64            `json:"dt"`
	DurationDays float64            `json:"duration_days"`
	Steps        int                `json:"steps"`
	Samples      []ExportSample     `json:"samples"`
	Metrics      map[string]float64 `json:"metrics"`
	EnergyDrift  float64            `json:"energy_drift"`
}

type ExportSample struct {
	Time   float64      `json:"time"`
	Bodies []ExportBody `json:"bodies"`
}

type ExportBody struct {
	Name     string     `json:"name,omitempty"`
	Mass     float64    `json:"mass"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
}

// ExportJSON writes a run as indented JSON to w.
func ExportJSON(w io.Writer, scenario string, dt, durationDays float64, result *sim.Result) error {
	data := ExportData{
		Scenario:     scenario,
		Dt:           dt,
		DurationDays: durationDays,
		Steps:        result.StepsTaken,
		Samples:      make([]ExportSample, len(result.Samples)),
		Metrics:      result.Metrics,
		EnergyDrift:  result.EnergyDrift,
	}

	for i, s := range result.Samples {
		es := ExportSample{Time: s.Time, Bodies: make([]ExportBody, len(s.Bodies))}
		for j, b := range s.Bodies {
			es.Bodies[j] = ExportBody{
				Name:     b.Name,
				Mass:     b.Mass,
				Position: [3]float64{b.Position.X, b.Position.Y, b.Position.Z},
				Velocity: [3]float64{b.Velocity.X, b.Velocity.Y, b.Velocity.Z},
			}
		}
		data.Samples[i] = es
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile writes a run as indented JSON to path.
func ExportJSONFile(path, scenario string, dt, durationDays float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, scenario, dt, durationDays, result)
}
