package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/perihelion-dev/astrosim/internal/body"
	"github.com/perihelion-dev/astrosim/internal/sim"
)

func sampleResult() *sim.Result {
	earth := body.New(5.972e24, body.Vec3{X: 1.5e11}, body.Vec3{Y: 29780})
	earth.Name = "Earth"
	sun := body.New(1.989e30, body.Vec3{}, body.Vec3{})
	sun.Name = "Sun"

	return &sim.Result{
		Samples: []sim.Sample{
			{Time: 0, Bodies: []body.Body{*sun, *earth}},
			{Time: 3600, Bodies: []body.Body{*sun, *earth}},
		},
		Metrics:     map[string]float64{"energy_drift": 1.5e-7},
		EnergyDrift: 1.5e-7,
		StepsTaken:  1,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("scenarios/test.yaml", 3600, 1.0, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}
	if !strings.HasPrefix(runID, "test_") {
		t.Errorf("run id should carry the scenario label, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "scenarios/test.yaml" {
		t.Errorf("unexpected scenario %q", meta.Scenario)
	}
	if meta.BodyCount != 2 {
		t.Errorf("expected 2 bodies, got %d", meta.BodyCount)
	}
	if len(meta.BodyNames) != 2 || meta.BodyNames[1] != "Earth" {
		t.Errorf("unexpected body names %v", meta.BodyNames)
	}
	if meta.Metrics["energy_drift"] != 1.5e-7 {
		t.Errorf("unexpected metrics %v", meta.Metrics)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 2 || len(times) != 2 {
		t.Fatalf("expected 2 rows, got %d/%d", len(states), len(times))
	}
	if times[1] != 3600 {
		t.Errorf("expected t=3600, got %f", times[1])
	}
	// 6 values per body, 2 bodies
	if len(states[0]) != 12 {
		t.Errorf("expected 12 state values per row, got %d", len(states[0]))
	}
	// Earth's x position is the 7th value
	if states[0][6] != 1.5e11 {
		t.Errorf("expected Earth x 1.5e11, got %e", states[0][6])
	}
}

func TestStoreBuiltinLabel(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runID, err := st.Save("", 3600, 1.0, sampleResult())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(runID, "builtin_") {
		t.Errorf("empty scenario should label the run builtin, got %q", runID)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on empty store: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if _, err := st.Save("a.yaml", 3600, 1.0, sampleResult()); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestListMissingBaseDir(t *testing.T) {
	st := New("/nonexistent/path/for/sure")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list of missing dir must not error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, "test.yaml", 3600, 1.0, sampleResult()); err != nil {
		t.Fatalf("export: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export produced invalid JSON: %v", err)
	}
	if data.Scenario != "test.yaml" || data.Steps != 1 {
		t.Errorf("unexpected export header: %+v", data)
	}
	if len(data.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(data.Samples))
	}
	if data.Samples[0].Bodies[1].Name != "Earth" {
		t.Errorf("unexpected body: %+v", data.Samples[0].Bodies[1])
	}
	if data.Samples[0].Bodies[1].Position[0] != 1.5e11 {
		t.Errorf("unexpected position: %+v", data.Samples[0].Bodies[1].Position)
	}
}
