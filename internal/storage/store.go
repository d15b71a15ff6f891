// Package storage persists finished simulation runs. Each run gets its own
// directory under the base dir holding metadata.json and states.csv, the
// CSV carrying one row per sample: time, then x,y,z,vx,vy,vz per body.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/perihelion-dev/astrosim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Scenario     string             `json:"scenario"`
	Timestamp    time.Time          `json:"timestamp"`
	Dt           float64            `json:"dt"`
	DurationDays float64            `json:"duration_days"`
	BodyCount    int                `json:"body_count"`
	BodyNames    []string           `json:"body_names"`
	EnergyDrift  float64            `json:"energy_drift"`
	Metrics      map[string]float64 `json:"metrics"`
}

// Save writes a run's metadata and sampled states and returns the run id.
func (s *Store) Save(scenario string, dt, durationDays float64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", runLabel(scenario), time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	bodyCount := 0
	var bodyNames []string
	if len(result.Samples) > 0 {
		bodyCount = len(result.Samples[0].Bodies)
		for _, b := range result.Samples[0].Bodies {
			bodyNames = append(bodyNames, b.Name)
		}
	}

	meta := RunMetadata{
		ID:           runID,
		Scenario:     scenario,
		Timestamp:    time.Now(),
		Dt:           dt,
		DurationDays: durationDays,
		BodyCount:    bodyCount,
		BodyNames:    bodyNames,
		EnergyDrift:  result.EnergyDrift,
		Metrics:      result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Samples) == 0 {
		return runID, nil
	}

	header := []string{"time"}
	for i := 0; i < bodyCount; i++ {
		prefix := fmt.Sprintf("b%d", i)
		header = append(header,
			prefix+"_x", prefix+"_y", prefix+"_z",
			prefix+"_vx", prefix+"_vy", prefix+"_vz")
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, sample := range result.Samples {
		row := []string{strconv.FormatFloat(sample.Time, 'g', 17, 64)}
		for _, b := range sample.Bodies {
			row = append(row,
				strconv.FormatFloat(b.Position.X, 'g', 17, 64),
				strconv.FormatFloat(b.Position.Y, 'g', 17, 64),
				strconv.FormatFloat(b.Position.Z, 'g', 17, 64),
				strconv.FormatFloat(b.Velocity.X, 'g', 17, 64),
				strconv.FormatFloat(b.Velocity.Y, 'g', 17, 64),
				strconv.FormatFloat(b.Velocity.Z, 'g', 17, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadStates reads back the sampled rows: times plus the flat per-body
// state values in file order.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}

		state := make([]float64, 0, len(record)-1)
		for _, field := range record[1:] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}

		times = append(times, t)
		states = append(states, state)
	}

	return states, times, nil
}

func runLabel(scenario string) string {
	if scenario == "" {
		return "builtin"
	}
	base := filepath.Base(scenario)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base
}
