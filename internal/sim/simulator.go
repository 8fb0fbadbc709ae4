// Package sim is the stepping controller: it owns the state fields and runs
// the per-step sequence refresh fields -> refresh coefficients -> one
// implicit sweep per equation -> periodic snapshot. The ordering and the
// freezing of coefficients at start-of-step values determine numerical
// stability and must not be rearranged.
package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/erdlab/erdsim/internal/closures"
	"github.com/erdlab/erdsim/internal/config"
	"github.com/erdlab/erdsim/internal/control"
	"github.com/erdlab/erdsim/internal/fields"
	"github.com/erdlab/erdsim/internal/mesh"
	"github.com/erdlab/erdsim/internal/pde"
	"github.com/erdlab/erdsim/internal/plasma"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/interp"
)

type Simulation struct {
	cfg       *config.Config
	grid      *mesh.Grid
	params    closures.Params
	surrogate *fields.Surrogate
	backend   pde.Backend
	schedule  control.Schedule
	writer    SnapshotWriter
	observers []Observer
	metrics   []Metric
	log       *logrus.Logger
	cond      fields.Conductivity

	// State fields, exclusively owned and mutated here, once per step.
	ne plasma.Field
	te plasma.Field

	step   int
	time   float64
	lastBz []float64
	lastU  plasma.ControlInputs
}

// New builds a simulation from an immutable config. Backend resolution
// happens here: an unavailable solve backend fails construction before any
// stepping is attempted.
func New(cfg *config.Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid, err := mesh.New(cfg.Geometry.RadiusM, cfg.Geometry.HeightM, cfg.Geometry.Nr, cfg.Geometry.Nz)
	if err != nil {
		return nil, err
	}

	backend, err := pde.New(cfg.Toggles.Backend)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:       cfg,
		grid:      grid,
		params:    cfg.Closures,
		surrogate: fields.NewSurrogate(cfg.Closures, cfg.Geometry.RadiusM, cfg.Gas.PTorr, cfg.Gas.TgasK),
		backend:   backend,
		schedule: control.NewConstant(plasma.ControlInputs{
			E0Vpm:    cfg.RF.E0Vpm,
			PhaseDeg: cfg.RF.PhaseDeg,
			FreqHz:   cfg.RF.FreqHz,
		}),
		log:  logrus.StandardLogger(),
		cond: fields.Uniform(),
	}
	s.initState()
	return s, nil
}

// initState seeds a parabolic-in-r density profile, uniform in z, clamped at
// zero, with an optional seeded multiplicative perturbation. Te starts
// uniform.
func (s *Simulation) initState() {
	cfg := s.cfg
	rng := rand.New(rand.NewSource(cfg.Seed))
	n := s.grid.NumCells()

	s.ne = make(plasma.Field, n)
	s.te = make(plasma.Field, n)
	for idx := 0; idx < n; idx++ {
		x := s.grid.CellRadius(idx) / math.Max(s.grid.R, 1e-12)
		v := cfg.InitBC.Ne0 * (1 - x*x)
		if cfg.InitBC.PerturbAmp != 0 {
			v *= 1 + cfg.InitBC.PerturbAmp*(2*rng.Float64()-1)
		}
		s.ne[idx] = math.Max(v, 0)
		s.te[idx] = cfg.InitBC.Te0
	}
}

func (s *Simulation) SetWriter(w SnapshotWriter) { s.writer = w }

func (s *Simulation) SetSchedule(sc control.Schedule) { s.schedule = sc }

func (s *Simulation) SetLogger(l *logrus.Logger) { s.log = l }

func (s *Simulation) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetConductivity overrides how the field surrogate resolves the effective
// conductivity. Rejected when the config does not allow custom profiles.
func (s *Simulation) SetConductivity(c fields.Conductivity) error {
	if !s.cfg.Toggles.AllowCustomSigma {
		return fmt.Errorf("sim: custom conductivity profiles disabled by config")
	}
	s.cond = c
	return nil
}

func (s *Simulation) Grid() *mesh.Grid  { return s.grid }
func (s *Simulation) Ne() plasma.Field  { return s.ne }
func (s *Simulation) Te() plasma.Field  { return s.te }
func (s *Simulation) Time() float64     { return s.time }
func (s *Simulation) LastBz() []float64 { return s.lastBz }

// Step advances the state by one fixed time step: snapshot the control
// inputs, refresh the field surrogate from the current mean state, freeze all
// coefficients, then sweep the density equation and, if enabled, the
// temperature equation exactly once each. No retries; the first failure
// aborts.
func (s *Simulation) Step() error {
	u := s.schedule.Inputs(s.time)
	s.lastU = u

	prof, err := s.surrogate.Compute(s.grid.RadialCenters(), s.ne, s.te, u, s.cond)
	if err != nil {
		return &plasma.StepError{Step: s.step, Time: s.time, Wrapped: err}
	}
	s.lastBz = prof.Bz

	ephiCells, err := interpolateRadial(prof.R, prof.Ephi, s.grid.RadialCenters())
	if err != nil {
		return &plasma.StepError{Step: s.step, Time: s.time, Wrapped: err}
	}

	// Coefficients for both equations are frozen from the pre-step state
	// before either sweep runs.
	neEq := s.assembleDensity(ephiCells)
	var teEq *pde.Equation
	if s.cfg.RF.UseEnergyEq {
		teEq = s.assembleEnergy(ephiCells)
	}

	dt := s.cfg.Time.DtS
	if err := s.backend.Sweep(s.grid, neEq, s.ne, dt); err != nil {
		return &plasma.StepError{Step: s.step, Time: s.time, Wrapped: err}
	}
	if teEq != nil {
		if err := s.backend.Sweep(s.grid, teEq, s.te, dt); err != nil {
			return &plasma.StepError{Step: s.step, Time: s.time, Wrapped: err}
		}
	}

	if !s.ne.IsValid() || !s.te.IsValid() {
		return &plasma.StepError{Step: s.step, Time: s.time, Wrapped: plasma.ErrInvalidState}
	}

	s.time += dt
	s.step++

	if min := s.ne.Min(); min < 0 {
		// Diagnostic only: coarse discretization can undershoot, the state
		// is deliberately not clipped.
		s.log.WithFields(logrus.Fields{
			"step":   s.step,
			"ne_min": min,
		}).Warn("negative density excursion")
	}

	for _, m := range s.metrics {
		m.Observe(s.ne, s.te, s.time)
	}
	for _, o := range s.observers {
		o.OnStep(s.ne, s.te, s.time)
	}
	return nil
}

// Run executes all configured steps, emitting a snapshot every SaveEvery
// steps and at the final step. A solve or field failure aborts the run.
func (s *Simulation) Run(ctx context.Context) (*Result, error) {
	for _, m := range s.metrics {
		m.Reset()
	}

	s.log.WithFields(logrus.Fields{
		"backend": s.backend.Name(),
		"grid":    fmt.Sprintf("%dx%d", s.grid.Nr, s.grid.Nz),
		"steps":   s.cfg.Time.NSteps,
		"dt":      s.cfg.Time.DtS,
		"v_loss": s.params.WallLossVelocity(
			s.te.Mean(), s.cfg.InitBC.VlossScale, s.cfg.Gas.Species),
	}).Info("starting run")

	result := &Result{Metrics: make(map[string]float64)}
	nSteps := s.cfg.Time.NSteps

	for k := 0; k < nSteps; k++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := s.Step(); err != nil {
			return result, err
		}
		result.StepsTaken++
		result.FinalTime = s.time

		if k%s.cfg.Time.SaveEvery == 0 || k == nSteps-1 {
			if s.writer != nil {
				snap := &plasma.Snapshot{
					Time:   s.time,
					Bz:     append([]float64(nil), s.lastBz...),
					Ne:     s.ne.Clone(),
					Te:     s.te.Clone(),
					Inputs: s.lastU,
				}
				if err := s.writer.Append(snap); err != nil {
					return result, &plasma.StepError{Step: s.step, Time: s.time, Wrapped: err}
				}
				result.Snapshots++
			}
			s.log.WithFields(logrus.Fields{
				"step":    s.step,
				"t":       s.time,
				"ne_mean": s.ne.Mean(),
				"te_mean": s.te.Mean(),
			}).Info("snapshot")
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// interpolateRadial maps a field magnitude profile from surrogate samples
// onto per-cell radial coordinates (one value per radial index; the profile
// has no axial variation). Queries are clamped to the sample range.
func interpolateRadial(xs, ys, r []float64) ([]float64, error) {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("field interpolation: %w", err)
	}
	lo, hi := xs[0], xs[len(xs)-1]
	out := make([]float64, len(r))
	for i, ri := range r {
		x := ri
		if x < lo {
			x = lo
		} else if x > hi {
			x = hi
		}
		out[i] = pl.Predict(x)
	}
	return out, nil
}
