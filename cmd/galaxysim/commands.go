package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/galaxysim/internal/config"
	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/galaxy"
	"github.com/san-kum/galaxysim/internal/metrics"
	"github.com/san-kum/galaxysim/internal/sim"
	"github.com/san-kum/galaxysim/internal/storage"
	"github.com/san-kum/galaxysim/internal/viz"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
)

// resolveConfig applies, in increasing priority: defaults, preset, config
// file, explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("radius") {
		cfg.SimRadiusLY = radiusLY
	}
	if flags.Changed("time-scale") {
		cfg.TimeScaleYears = timeYears
	}
	if flags.Changed("steps") {
		cfg.EndStep = endStep
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("guard") {
		cfg.Guard = guard
	}
	if flags.Changed("image-size") {
		cfg.Output.ImageSize = imageSize
	}
	if flags.Changed("every") {
		cfg.Output.FrameEvery = frameEvery
	}
	if flags.Changed("frames") {
		cfg.Output.FrameDir = frameDir
	}
	if flags.Changed("gif") {
		cfg.Output.GIF = gifPath
	}
	if flags.Changed("quiet") {
		cfg.Output.Quiet = quiet
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildEngine generates the initial population and wraps it in an engine.
func buildEngine(cfg *config.Config) (*sim.Engine, error) {
	ps := galaxy.Generate(cfg.Particles, cfg.SimRadius(), cfg.Seed)
	eng, err := sim.New(ps, cfg.Simulation())
	if err != nil {
		return nil, err
	}
	g, ok := sim.GuardByName(cfg.Guard)
	if !ok {
		return nil, fmt.Errorf("%w: unknown guard %q", dynamo.ErrInvalidConfig, cfg.Guard)
	}
	eng.SetGuard(g)
	return eng, nil
}

func progressSink(total int) dynamo.Sink {
	return dynamo.SinkFunc(func(s dynamo.Snapshot) error {
		fmt.Printf("Step #%d/%d\n", s.Step, total)
		return nil
	})
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	every := cfg.Output.FrameEvery
	rec := metrics.NewRecorder(every, metrics.Default(cfg.G)...)
	eng.AddObserver(rec)

	sinks := dynamo.MultiSink{}
	if !cfg.Output.Quiet {
		sinks = append(sinks, progressSink(cfg.EndStep))
	}

	var raster *viz.Raster
	if cfg.Output.FrameDir != "" || cfg.Output.GIF != "" {
		raster = viz.NewRaster(cfg.Output.ImageSize, cfg.SimRadius())
		raster.Every = every
		if cfg.Output.FrameDir != "" {
			if err := os.MkdirAll(cfg.Output.FrameDir, 0755); err != nil {
				return err
			}
			raster.FrameDir = cfg.Output.FrameDir
		}
		if cfg.Output.GIF != "" {
			raster.RecordGIF()
		}
		sinks = append(sinks, raster)
	}

	var run *storage.Run
	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		run, err = st.Create(storage.RunMetadata{
			Seed:           cfg.Seed,
			Particles:      cfg.Particles,
			SimRadiusLY:    cfg.SimRadiusLY,
			TimeScaleYears: cfg.TimeScaleYears,
			EndStep:        cfg.EndStep,
			G:              cfg.G,
			Guard:          cfg.Guard,
			SnapshotEvery:  every,
		})
		if err != nil {
			return err
		}
		sinks = append(sinks, run)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Seed: %d\n", cfg.Seed)
	start := time.Now()
	runErr := eng.Run(ctx, sinks)
	elapsed := time.Since(start)

	if run != nil {
		if err := run.Close(rec); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}
	if raster != nil && cfg.Output.GIF != "" && raster.Frames() > 0 {
		if err := raster.WriteGIF(cfg.Output.GIF); err != nil {
			return fmt.Errorf("write gif: %w", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("completed"))
	fmt.Println(labelStyle.Render("elapsed") + elapsed.Round(time.Millisecond).String())
	fmt.Println(labelStyle.Render("steps") + fmt.Sprintf("%d", eng.StepCount()))
	if run != nil {
		fmt.Println(labelStyle.Render("run id") + run.ID())
	}
	for _, name := range rec.Names() {
		fmt.Println(labelStyle.Render(name) + fmt.Sprintf("%.6e", rec.Latest()[name]))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	m := viz.NewLiveModel(eng, fmt.Sprintf("galaxy seed %d", cfg.Seed), frameRate, gifPath)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.Err()
}

func renderFinal(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := eng.Run(ctx, nil); err != nil {
		return err
	}

	snap := eng.Snapshot()
	mapper := viz.Mapper{Size: cfg.Output.ImageSize, Radius: cfg.SimRadius()}

	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".svg":
		if err := os.WriteFile(outPath, []byte(viz.SnapshotSVG(snap, mapper, 1)), 0644); err != nil {
			return err
		}
	case ".png", "":
		r := viz.NewRaster(mapper.Size, mapper.Radius)
		r.Draw(snap)
		if err := r.WritePNG(outPath); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format: %s", outPath)
	}

	fmt.Printf("wrote %s after %d steps\n", outPath, eng.StepCount())
	return nil
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
	fmt.Fprintln(w, "ID\tTIME\tSEED\tPARTICLES\tSTEPS\tGUARD")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d/%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Particles,
			run.StepsTaken,
			run.EndStep,
			run.Guard,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	names, rows, err := st.LoadMetrics(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	if metricName != "" {
		names = []string{metricName}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(rows))

	for _, name := range names {
		data := make([]float64, 0, len(rows))
		for _, r := range rows {
			if v, ok := r.Values[name]; ok {
				data = append(data, v)
			}
		}
		if len(data) == 0 {
			return fmt.Errorf("unknown metric: %s", name)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs step"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}
