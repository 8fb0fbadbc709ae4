// Package config defines the immutable per-run simulation configuration and
// its YAML serialization. Core packages receive values from here; they never
// load files themselves.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/erdlab/erdsim/internal/closures"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Geometry GeometryConfig  `yaml:"geometry"`
	RF       RFConfig        `yaml:"rf"`
	Gas      GasConfig       `yaml:"gas"`
	InitBC   InitBCConfig    `yaml:"init_bc"`
	Time     TimeConfig      `yaml:"time"`
	Output   OutputConfig    `yaml:"output"`
	Toggles  TogglesConfig   `yaml:"toggles"`
	Closures closures.Params `yaml:"closures"`
	Seed     int64           `yaml:"seed"`
}

type GeometryConfig struct {
	RadiusM float64 `yaml:"radius_m"` // cylinder radius [m]
	HeightM float64 `yaml:"height_m"` // cylinder height [m]
	Nr      int     `yaml:"nr"`       // radial cells
	Nz      int     `yaml:"nz"`       // axial cells
}

type RFConfig struct {
	FreqHz      float64 `yaml:"freq_hz"`
	NPhase      int     `yaml:"n_phase"` // phase samples per RF cycle
	E0Vpm       float64 `yaml:"e0_vpm"`  // drive amplitude [V/m]
	PhaseDeg    float64 `yaml:"phase_deg"`
	UseEnergyEq bool    `yaml:"use_energy_eq"`
}

type GasConfig struct {
	Species string  `yaml:"species"`
	PTorr   float64 `yaml:"p_torr"`
	TgasK   float64 `yaml:"tgas_k"`
}

type InitBCConfig struct {
	Ne0 float64 `yaml:"ne0_m3"` // initial center density [1/m^3]
	Te0 float64 `yaml:"te0_ev"` // initial temperature [eV]

	// WallKind selects the wall-loss treatment: "robin" keeps the bulk-sink
	// surrogate for the documented Robin flux, "neumann" drops the sink.
	WallKind   string  `yaml:"wall_kind"`
	VlossScale float64 `yaml:"vloss_scale"`

	// PerturbAmp is the relative amplitude of the seeded multiplicative
	// perturbation on the initial density (0 disables it).
	PerturbAmp float64 `yaml:"perturb_amp"`
}

type TimeConfig struct {
	DtS       float64 `yaml:"dt_s"`
	NSteps    int     `yaml:"n_steps"`
	SaveEvery int     `yaml:"save_every"`
}

type OutputConfig struct {
	Dir     string `yaml:"dir"`
	RunName string `yaml:"run_name"` // defaulted to a timestamp when empty
}

type TogglesConfig struct {
	// UniformSigmaFields keeps the uniform effective-sigma surrogate for the
	// field backend (the only backend in the current design).
	UniformSigmaFields bool `yaml:"uniform_sigma_fields"`

	// AllowCustomSigma permits a caller-supplied conductivity profile.
	AllowCustomSigma bool `yaml:"allow_custom_sigma"`

	// Backend names the PDE solve backend ("auto", "adi", "bicgstab").
	Backend string `yaml:"backend"`
}

func Default() *Config {
	return &Config{
		Geometry: GeometryConfig{RadiusM: 0.06, HeightM: 0.12, Nr: 256, Nz: 512},
		RF: RFConfig{
			FreqHz:      13.56e6,
			NPhase:      32,
			E0Vpm:       200.0,
			PhaseDeg:    0,
			UseEnergyEq: true,
		},
		Gas:    GasConfig{Species: "Xe", PTorr: 15.0, TgasK: 300.0},
		InitBC: InitBCConfig{Ne0: 1e15, Te0: 2.0, WallKind: "robin", VlossScale: 1.0},
		Time:   TimeConfig{DtS: 5e-6, NSteps: 2000, SaveEvery: 50},
		Output: OutputConfig{Dir: "outputs"},
		Toggles: TogglesConfig{
			UniformSigmaFields: true,
			AllowCustomSigma:   true,
			Backend:            "auto",
		},
		Closures: closures.DefaultParams(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Geometry.RadiusM <= 0 || c.Geometry.HeightM <= 0 {
		return fmt.Errorf("config: non-positive geometry %gx%g", c.Geometry.RadiusM, c.Geometry.HeightM)
	}
	if c.Geometry.Nr < 2 || c.Geometry.Nz < 2 {
		return fmt.Errorf("config: grid too small %dx%d", c.Geometry.Nr, c.Geometry.Nz)
	}
	if c.Time.DtS <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Time.DtS)
	}
	if c.Time.NSteps <= 0 {
		return fmt.Errorf("config: n_steps must be positive, got %d", c.Time.NSteps)
	}
	if c.Time.SaveEvery <= 0 {
		return fmt.Errorf("config: save_every must be positive, got %d", c.Time.SaveEvery)
	}
	if c.RF.FreqHz <= 0 {
		return fmt.Errorf("config: rf frequency must be positive, got %g", c.RF.FreqHz)
	}
	return nil
}

// ResolvedRunName returns the configured run name, or a timestamped default.
func (c *Config) ResolvedRunName() string {
	if c.Output.RunName != "" {
		return c.Output.RunName
	}
	return "run_" + time.Now().Format("2006-01-02_15-04-05")
}
