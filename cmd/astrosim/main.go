package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/perihelion-dev/astrosim/internal/body"
	"github.com/perihelion-dev/astrosim/internal/config"
	"github.com/perihelion-dev/astrosim/internal/metrics"
	"github.com/perihelion-dev/astrosim/internal/scenario"
	"github.com/perihelion-dev/astrosim/internal/sim"
	"github.com/perihelion-dev/astrosim/internal/storage"
	"github.com/perihelion-dev/astrosim/internal/stream"
	"github.com/perihelion-dev/astrosim/internal/units"
	"github.com/perihelion-dev/astrosim/internal/viz"
)

var (
	dataDir      string
	configFile   string
	preset       string
	scenarioFile string
	dt           float64
	durationDays float64
	sampleStride int
	speed        float32
	streamAddr   string
	scaleAU      float64
	bodyIndex    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "astrosim",
		Short: "gravitational n-body simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".astrosim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a deterministic batch simulation",
		RunE:  runBatch,
	}
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (yaml or v3 text)")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep in simulated seconds")
	runCmd.Flags().Float64Var(&durationDays, "days", config.DefaultDurationDays, "simulated duration in days")
	runCmd.Flags().IntVar(&sampleStride, "stride", config.DefaultSampleStride, "record every Nth step")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (yaml or v3 text)")
	liveCmd.Flags().Float32Var(&speed, "speed", config.DefaultSpeed, "simulation speed multiplier")
	liveCmd.Flags().Float64Var(&scaleAU, "scale", 2, "view half-width in AU")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run headless and stream state over websocket",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file (yaml or v3 text)")
	serveCmd.Flags().Float32Var(&speed, "speed", config.DefaultSpeed, "simulation speed multiplier")
	serveCmd.Flags().StringVar(&streamAddr, "addr", config.DefaultStreamAddr, "listen address")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&bodyIndex, "body", 0, "body index to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id] [out.json]",
		Short: "re-run a stored configuration and export JSON",
		Args:  cobra.ExactArgs(2),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig merges preset, config file, and flags. Flags that were set
// explicitly win over both.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("scenario") {
		cfg.Scenario = scenarioFile
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("days") {
		cfg.DurationDays = durationDays
	}
	if cmd.Flags().Changed("stride") {
		cfg.SampleStride = sampleStride
	}
	if cmd.Flags().Changed("speed") {
		cfg.Speed = speed
	}
	if cmd.Flags().Changed("addr") {
		cfg.StreamAddr = streamAddr
	}
	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	return cfg, cfg.Validate()
}

func loadScenario(path string) (*scenario.Scenario, error) {
	if path == "" {
		return scenario.Builtin(), nil
	}
	return scenario.Load(path)
}

func collectionFor(s *scenario.Scenario) *body.Collection {
	c := body.NewCollection()
	for _, sb := range s.Bodies {
		c.Add(sb.NewBody())
	}
	c.Flush()
	return c
}

func startCoordinator(cfg *config.Config) (*sim.Coordinator, error) {
	sc, err := loadScenario(cfg.Scenario)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	coord := sim.NewCoordinator(logger)
	if err := scenario.Install(coord, sc); err != nil {
		return nil, err
	}
	if err := coord.SetSpeed(cfg.Speed); err != nil {
		return nil, err
	}
	if err := coord.Start(); err != nil {
		return nil, err
	}
	return coord, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sc, err := loadScenario(cfg.Scenario)
	if err != nil {
		return err
	}
	coll := collectionFor(sc)

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runCfg := sim.Config{
		Dt:           cfg.Dt,
		Duration:     units.DaysToSeconds(cfg.DurationDays),
		SampleStride: cfg.SampleStride,
	}

	fmt.Printf("running %d bodies for %.1f days (dt=%.0fs)...\n",
		coll.Len(), cfg.DurationDays, cfg.Dt)
	start := time.Now()

	result, err := sim.Run(context.Background(), coll, runCfg,
		metrics.NewEnergyDrift(),
		metrics.NewMomentumDrift(),
		metrics.NewCenterOfMassDrift(),
	)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Scenario, cfg.Dt, cfg.DurationDays, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("samples: %d\n", len(result.Samples))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6e\n", name, val)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	coord, err := startCoordinator(cfg)
	if err != nil {
		return err
	}
	defer coord.Close()

	return viz.Run(coord, scaleAU)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	coord, err := startCoordinator(cfg)
	if err != nil {
		return err
	}
	defer coord.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	srv := stream.NewServer(coord, time.Second/10, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	fmt.Printf("streaming on ws://%s/ws\n", cfg.StreamAddr)
	return srv.ListenAndServe(cfg.StreamAddr)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDAYS\tDT\tBODIES\tDRIFT")
	for _, run := range runs {
		name := run.Scenario
		if name == "" {
			name = "builtin"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.0fs\t%d\t%.2e\n",
			run.ID,
			name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.DurationDays,
			run.Dt,
			run.BodyCount,
			run.EnergyDrift,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if bodyIndex < 0 || bodyIndex >= meta.BodyCount {
		return fmt.Errorf("body index %d out of range (run has %d bodies)", bodyIndex, meta.BodyCount)
	}

	name := fmt.Sprintf("body %d", bodyIndex)
	if bodyIndex < len(meta.BodyNames) {
		name = meta.BodyNames[bodyIndex]
	}
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("body: %s\n", name)
	fmt.Printf("samples: %d over %.1f days\n\n", len(states), units.SecondsToDays(times[len(times)-1]))

	// Each body contributes 6 columns: x, y, z, vx, vy, vz.
	base := bodyIndex * 6
	axes := []struct {
		label  string
		column int
	}{
		{"x (AU)", base},
		{"y (AU)", base + 1},
	}
	for _, ax := range axes {
		data := make([]float64, len(states))
		for i := range states {
			data[i] = units.MetersToAU(states[i][ax.column])
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption(ax.label))
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

// exportRun replays a stored run's configuration and writes the full
// sampled trajectory as JSON. The stored CSV keeps only positions and
// velocities, so replaying is what recovers a self-contained export.
func exportRun(cmd *cobra.Command, args []string) error {
	runID, outPath := args[0], args[1]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	sc, err := loadScenario(meta.Scenario)
	if err != nil {
		return err
	}
	coll := collectionFor(sc)

	runCfg := sim.Config{
		Dt:           meta.Dt,
		Duration:     units.DaysToSeconds(meta.DurationDays),
		SampleStride: config.DefaultSampleStride,
	}
	result, err := sim.Run(context.Background(), coll, runCfg, metrics.NewEnergyDrift())
	if err != nil {
		return err
	}

	if err := storage.ExportJSONFile(outPath, meta.Scenario, meta.Dt, meta.DurationDays, result); err != nil {
		return err
	}
	fmt.Printf("exported %s\n", outPath)
	return nil
}
