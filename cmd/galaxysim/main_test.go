package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/galaxysim/internal/config"
)

func newTestCmd() *cobra.Command {
	preset, configFile = "", ""
	cmd := &cobra.Command{Use: "test"}
	addSimFlags(cmd)
	cmd.Flags().IntVar(&frameEvery, "every", config.DefaultFrameEvery, "")
	return cmd
}

func TestResolveConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	fileCfg := config.DefaultConfig()
	fileCfg.Particles = 64
	fileCfg.EndStep = 7
	if err := config.Save(path, fileCfg); err != nil {
		t.Fatal(err)
	}

	cmd := newTestCmd()
	for flag, val := range map[string]string{
		"config":    path,
		"steps":     "9",
		"guard":     "reset",
		"every":     "3",
		"particles": "64",
	} {
		if err := cmd.Flags().Set(flag, val); err != nil {
			t.Fatalf("set %s: %v", flag, err)
		}
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.Particles != 64 {
		t.Errorf("expected 64 particles, got %d", cfg.Particles)
	}
	if cfg.EndStep != 9 {
		t.Errorf("flag should override file: got %d steps", cfg.EndStep)
	}
	if cfg.Guard != "reset" || cfg.Output.FrameEvery != 3 {
		t.Errorf("unexpected guard/every: %s/%d", cfg.Guard, cfg.Output.FrameEvery)
	}
}

func TestResolveConfig_Preset(t *testing.T) {
	cmd := newTestCmd()
	if err := cmd.Flags().Set("preset", "quick"); err != nil {
		t.Fatal(err)
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.Particles != 200 || cfg.EndStep != 200 {
		t.Errorf("preset not applied: %+v", cfg)
	}
}

func TestResolveConfig_PresetUnderPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("particles: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newTestCmd()
	for flag, val := range map[string]string{"preset": "m67", "config": path} {
		if err := cmd.Flags().Set(flag, val); err != nil {
			t.Fatalf("set %s: %v", flag, err)
		}
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.Particles != 50 {
		t.Errorf("file should override preset: got %d particles", cfg.Particles)
	}
	if cfg.Seed != 67 || cfg.EndStep != 5000 || cfg.SimRadiusLY != 2800 || cfg.Output.ImageSize != 800 {
		t.Errorf("preset values lost under config file: %+v", cfg)
	}
}

func TestResolveConfig_Invalid(t *testing.T) {
	cmd := newTestCmd()
	if err := cmd.Flags().Set("preset", "nope"); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveConfig(cmd); err == nil {
		t.Error("expected unknown preset error")
	}

	cmd = newTestCmd()
	if err := cmd.Flags().Set("particles", "0"); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveConfig(cmd); err == nil {
		t.Error("expected validation error")
	}
}

func TestBuildEngine(t *testing.T) {
	cfg := config.GetPreset("quick")
	cfg.Particles = 5
	cfg.Guard = "reset"

	eng, err := buildEngine(cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if eng.Len() != 5 {
		t.Errorf("expected 5 particles, got %d", eng.Len())
	}
	if eng.Config().EndStep != cfg.EndStep {
		t.Errorf("end step mismatch")
	}
}
