package config

import (
	"sort"

	"github.com/san-kum/galaxysim/internal/galaxy"
)

var Presets = map[string]*Config{
	"galaxy": {
		Seed: 1, Particles: 1000, SimRadiusLY: 30000, TimeScaleYears: 1e5, EndStep: 10000,
		G: galaxy.G, Guard: "skip",
		Output: OutputConfig{ImageSize: 1000, FrameEvery: 100},
	},
	"m67": {
		Seed: 67, Particles: 750, SimRadiusLY: 2800, TimeScaleYears: 1e4, EndStep: 5000,
		G: galaxy.G, Guard: "skip",
		Output: OutputConfig{ImageSize: 800, FrameEvery: 50},
	},
	"quick": {
		Seed: 1, Particles: 200, SimRadiusLY: 30000, TimeScaleYears: 1e5, EndStep: 200,
		G: galaxy.G, Guard: "skip",
		Output: OutputConfig{ImageSize: 500, FrameEvery: 20},
	},
	"original": {
		Seed: 1, Particles: 1000, SimRadiusLY: 30000, TimeScaleYears: 1e5, EndStep: 10000,
		G: galaxy.G, Guard: "reset",
		Output: OutputConfig{ImageSize: 1000, FrameEvery: 100},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
