package config

import "sort"

// Presets are named starting points for common runs. Each preset is a full
// config; callers may still override individual fields afterwards.
var Presets = map[string]func() *Config{
	"default": Default,
	"coarse": func() *Config {
		cfg := Default()
		cfg.Geometry.Nr = 64
		cfg.Geometry.Nz = 128
		cfg.Time.NSteps = 200
		cfg.Time.SaveEvery = 10
		return cfg
	},
	"density-only": func() *Config {
		cfg := Default()
		cfg.RF.UseEnergyEq = false
		return cfg
	},
	"low-pressure": func() *Config {
		cfg := Default()
		cfg.Gas.PTorr = 1.0
		cfg.RF.E0Vpm = 400.0
		return cfg
	},
	"argon": func() *Config {
		cfg := Default()
		cfg.Gas.Species = "Ar"
		cfg.Gas.PTorr = 10.0
		return cfg
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
