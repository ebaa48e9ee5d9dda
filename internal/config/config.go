package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/galaxysim/internal/dynamo"
	"github.com/san-kum/galaxysim/internal/galaxy"
)

const (
	DefaultSeed           = 1
	DefaultParticles      = 1000
	DefaultSimRadiusLY    = 30000.0
	DefaultTimeScaleYears = 1e5
	DefaultEndStep        = 10000
	DefaultImageSize      = 1000
	DefaultFrameEvery     = 100
	DefaultGuard          = "skip"
)

// Config describes a run. Lengths are in light-years and time in years; use
// Simulation for SI values.
type Config struct {
	Seed           uint64       `yaml:"seed"`
	Particles      int          `yaml:"particles"`
	SimRadiusLY    float64      `yaml:"sim_radius_ly"`
	TimeScaleYears float64      `yaml:"time_scale_years"`
	EndStep        int          `yaml:"end_step"`
	G              float64      `yaml:"g"`
	Guard          string       `yaml:"guard"`
	Output         OutputConfig `yaml:"output"`
}

type OutputConfig struct {
	ImageSize  int    `yaml:"image_size"`
	FrameEvery int    `yaml:"frame_every"`
	FrameDir   string `yaml:"frame_dir"`
	GIF        string `yaml:"gif"`
	Quiet      bool   `yaml:"quiet"`
}

func DefaultConfig() *Config {
	return &Config{
		Seed:           DefaultSeed,
		Particles:      DefaultParticles,
		SimRadiusLY:    DefaultSimRadiusLY,
		TimeScaleYears: DefaultTimeScaleYears,
		EndStep:        DefaultEndStep,
		G:              galaxy.G,
		Guard:          DefaultGuard,
		Output: OutputConfig{
			ImageSize:  DefaultImageSize,
			FrameEvery: DefaultFrameEvery,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads the file at path on top of a copy of base. Keys missing from
// the file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimRadius returns the simulation radius in meters.
func (c *Config) SimRadius() float64 { return c.SimRadiusLY * galaxy.LightYear }

// Simulation converts c to the engine's SI configuration.
func (c *Config) Simulation() dynamo.Config {
	return dynamo.Config{
		TimeScale: c.TimeScaleYears * galaxy.SecondsPerYear,
		G:         c.G,
		EndStep:   c.EndStep,
		SimRadius: c.SimRadius(),
	}
}

func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("%w: particles must be positive, got %d", dynamo.ErrInvalidConfig, c.Particles)
	}
	switch c.Guard {
	case "", "skip", "reset":
	default:
		return fmt.Errorf("%w: unknown guard %q (want skip or reset)", dynamo.ErrInvalidConfig, c.Guard)
	}
	if c.Output.ImageSize <= 0 {
		return fmt.Errorf("%w: image size must be positive, got %d", dynamo.ErrInvalidConfig, c.Output.ImageSize)
	}
	return c.Simulation().Validate()
}
