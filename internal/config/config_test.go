package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	cfg := Default()
	cfg.Geometry.Nr = 96
	cfg.Gas.Species = "Ar"
	cfg.Time.DtS = 1e-6
	cfg.Toggles.Backend = "bicgstab"
	cfg.Output.RunName = "roundtrip"
	cfg.Seed = 1234

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Geometry.Nr != 96 ||
		loaded.Gas.Species != "Ar" ||
		loaded.Time.DtS != 1e-6 ||
		loaded.Toggles.Backend != "bicgstab" ||
		loaded.Output.RunName != "roundtrip" ||
		loaded.Seed != 1234 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
	if loaded.Closures.Ethr != cfg.Closures.Ethr {
		t.Errorf("closure params lost: %g != %g", loaded.Closures.Ethr, cfg.Closures.Ethr)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	partial := "gas:\n  p_torr: 2.5\ntime:\n  n_steps: 7\n"
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gas.PTorr != 2.5 || cfg.Time.NSteps != 7 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Geometry.Nr != Default().Geometry.Nr {
		t.Errorf("unset field lost its default: Nr = %d", cfg.Geometry.Nr)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero radius", func(c *Config) { c.Geometry.RadiusM = 0 }},
		{"tiny grid", func(c *Config) { c.Geometry.Nr = 1 }},
		{"zero dt", func(c *Config) { c.Time.DtS = 0 }},
		{"negative steps", func(c *Config) { c.Time.NSteps = -1 }},
		{"zero save interval", func(c *Config) { c.Time.SaveEvery = 0 }},
		{"zero frequency", func(c *Config) { c.RF.FreqHz = 0 }},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("no presets registered")
	}
	for i := 1; i < len(names); i++ {
		if names[i] < names[i-1] {
			t.Errorf("preset list not sorted: %v", names)
		}
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("GetPreset(%q) = nil", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
	if GetPreset("no-such-preset") != nil {
		t.Error("unknown preset should return nil")
	}

	coarse := GetPreset("coarse")
	if coarse.Geometry.Nr >= Default().Geometry.Nr {
		t.Errorf("coarse preset not coarser: Nr = %d", coarse.Geometry.Nr)
	}
	dens := GetPreset("density-only")
	if dens.RF.UseEnergyEq {
		t.Error("density-only preset keeps the energy equation on")
	}
}

func TestResolvedRunName(t *testing.T) {
	cfg := Default()
	cfg.Output.RunName = "named"
	if got := cfg.ResolvedRunName(); got != "named" {
		t.Errorf("ResolvedRunName = %q", got)
	}

	cfg.Output.RunName = ""
	if got := cfg.ResolvedRunName(); !strings.HasPrefix(got, "run_") {
		t.Errorf("default run name %q lacks timestamp prefix", got)
	}
}
