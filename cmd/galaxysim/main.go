package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/galaxysim/internal/config"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       uint64
	particles  int
	radiusLY   float64
	timeYears  float64
	endStep    int
	gravity    float64
	guard      string
	imageSize  int
	frameDir   string
	frameEvery int
	gifPath    string
	quiet      bool
	save       bool
	frameRate  int
	outPath    string
	metricName string
)

// main registers the galaxysim commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "galaxysim",
		Short:        "brute-force gravitational n-body galaxy simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".galaxysim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation headless",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&frameDir, "frames", "", "directory for PNG frames")
	runCmd.Flags().IntVar(&frameEvery, "every", config.DefaultFrameEvery, "write a frame/snapshot every n steps")
	runCmd.Flags().StringVar(&gifPath, "gif", "", "write an animated GIF")
	runCmd.Flags().BoolVar(&quiet, "quiet", false, "suppress per-step progress")
	runCmd.Flags().BoolVar(&save, "save", false, "persist the run to the data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().StringVar(&gifPath, "gif", "galaxy.gif", "GIF path used by the record key")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "simulate and write the final frame as PNG or SVG",
		Args:  cobra.NoArgs,
		RunE:  renderFinal,
	}
	addSimFlags(renderCmd)
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "galaxy.png", "output file (.png or .svg)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded metric over steps",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&metricName, "metric", "", "metric to plot (default: all)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s %5d particles, %6.0f ly, %d steps, guard=%s\n",
					name, p.Particles, p.SimRadiusLY, p.EndStep, p.Guard)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the default configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(preset); cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
				}
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	configCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(runCmd, liveCmd, renderCmd, listCmd, showCmd, exportJSONCmd, plotCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().IntVarP(&particles, "particles", "n", config.DefaultParticles, "number of particles")
	cmd.Flags().Float64Var(&radiusLY, "radius", config.DefaultSimRadiusLY, "simulation radius (light-years)")
	cmd.Flags().Float64Var(&timeYears, "time-scale", config.DefaultTimeScaleYears, "simulated years per step")
	cmd.Flags().IntVar(&endStep, "steps", config.DefaultEndStep, "number of steps")
	cmd.Flags().Float64Var(&gravity, "g", config.DefaultConfig().G, "gravitational constant")
	cmd.Flags().StringVar(&guard, "guard", config.DefaultGuard, "NaN guard: skip or reset")
	cmd.Flags().IntVar(&imageSize, "image-size", config.DefaultImageSize, "image size in pixels")
}
