package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nkoval/plife/internal/life"
	"github.com/nkoval/plife/internal/step"
	"github.com/nkoval/plife/internal/storage"
	"github.com/nkoval/plife/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	preset     string
	configFile string
	seed       int64
	width      float64
	height     float64
	wrap       bool
	ticks      int
	useWorker  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "plife",
		Short: "particle life simulator",
		RunE:  runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".plife", "data directory")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "balanced", "settings preset")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "settings file path (yaml)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	rootCmd.PersistentFlags().Float64Var(&width, "width", 1600, "world width")
	rootCmd.PersistentFlags().Float64Var(&height, "height", 900, "world height")
	rootCmd.PersistentFlags().BoolVar(&wrap, "wrap", true, "toroidal world topology")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live terminal view",
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation headless and export the result",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 1000, "number of ticks")
	runCmd.Flags().BoolVar(&useWorker, "worker", false, "drive the simulation through the pull-based worker channel")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list exported runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the tick loop",
		RunE:  benchTicks,
	}
	benchCmd.Flags().IntVar(&ticks, "ticks", 1000, "number of ticks")

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveSettings() (life.Settings, error) {
	if configFile != "" {
		return life.Load(configFile)
	}
	cfg, err := life.GetPreset(preset)
	if err != nil {
		return life.Settings{}, fmt.Errorf("%w: %s (available: %v)", err, preset, life.PresetNames())
	}
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings()
	if err != nil {
		return err
	}

	ch := step.NewThreaded(width, height, seed)
	defer ch.Close()

	// Wrap before seeding, so the initial spread covers the full extent.
	if wrap {
		if err := ch.Send(step.ToggleWrap()); err != nil {
			return err
		}
	}
	if err := ch.Send(step.Seed(settings)); err != nil {
		return err
	}

	model := viz.NewModel(ch, preset, settings, step.Extent{Width: width, Height: height}, wrap)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runHeadless(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings()
	if err != nil {
		return err
	}

	start := time.Now()
	var particles []life.Particle
	if useWorker {
		particles, err = runViaWorker(settings)
	} else {
		particles, err = runDirect(settings)
	}
	if err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}

	runID, err := store.Save(storage.RunMetadata{
		Preset:    preset,
		Timestamp: time.Now(),
		Seed:      seed,
		Ticks:     ticks,
		Width:     width,
		Height:    height,
		Wrap:      wrap,
		Settings:  settings,
		Duration:  time.Since(start).Seconds(),
	}, particles)
	if err != nil {
		return err
	}

	fmt.Printf("saved run %s (%d particles, %d ticks, %.2fs)\n",
		runID, len(particles), ticks, time.Since(start).Seconds())
	return nil
}

func runDirect(settings life.Settings) ([]life.Particle, error) {
	u := life.NewUniverse(width, height, rand.New(rand.NewSource(seed)))
	u.Wrap = wrap
	if err := u.Seed(settings); err != nil {
		return nil, err
	}
	for i := 0; i < ticks; i++ {
		u.Step()
	}
	return u.Snapshot(), nil
}

func runViaWorker(settings life.Settings) ([]life.Particle, error) {
	ch := step.NewWorker(seed)
	defer ch.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ch.WaitReady(ctx); err != nil {
		return nil, err
	}

	if err := ch.Send(step.Resize(width, height)); err != nil {
		return nil, err
	}
	if wrap {
		if err := ch.Send(step.ToggleWrap()); err != nil {
			return nil, err
		}
	}
	if err := ch.Send(step.Seed(settings)); err != nil {
		return nil, err
	}

	var last step.Frame
	for i := 0; i < ticks; i++ {
		f, err := ch.Next(context.Background())
		if err != nil {
			return nil, err
		}
		last = f
	}
	return last.Particles, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tSEED\tTICKS\tWORLD\tWRAP\tWHEN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.0fx%.0f\t%v\t%s\n",
			run.ID, run.Preset, run.Seed, run.Ticks,
			run.Width, run.Height, run.Wrap,
			run.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKINDS\tPARTICLES\tFRICTION\tFLAT\tATTRACTION\tREPEL\tINFLUENCE")
	for _, name := range life.PresetNames() {
		cfg := life.Presets[name]
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%v\tN(%.3f, %.3f)\t[%.0f, %.0f]\t[%.0f, %.0f]\n",
			name, cfg.Kinds, cfg.Particles, cfg.Friction, cfg.FlatForce,
			cfg.Attraction.Mean, cfg.Attraction.Std,
			cfg.RepelDistance.Lower, cfg.RepelDistance.Upper,
			cfg.InfluenceRadius.Lower, cfg.InfluenceRadius.Upper)
	}
	return w.Flush()
}

func benchTicks(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings()
	if err != nil {
		return err
	}

	u := life.NewUniverse(width, height, rand.New(rand.NewSource(seed)))
	u.Wrap = wrap
	if err := u.Seed(settings); err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < ticks; i++ {
		u.Step()
	}
	elapsed := time.Since(start)

	fmt.Printf("preset:    %s\n", preset)
	fmt.Printf("particles: %d\n", settings.Particles)
	fmt.Printf("ticks:     %d\n", ticks)
	fmt.Printf("elapsed:   %v\n", elapsed)
	fmt.Printf("ticks/sec: %.1f\n", float64(ticks)/elapsed.Seconds())
	return nil
}
