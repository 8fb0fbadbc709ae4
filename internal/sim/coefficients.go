package sim

import (
	"math"

	"github.com/erdlab/erdsim/internal/pde"
	"github.com/erdlab/erdsim/internal/plasma"
)

// Coefficient floors applied before every closure evaluation. The state
// itself is never clamped; only closure inputs are.
const (
	neFloor   = 1e10 // m^-3
	teFloor   = 0.1  // eV
	teDaFloor = 0.05 // eV, diffusion-coefficient evaluation
)

// assembleDensity freezes the density-equation coefficients from the
// pre-step state:
//
//	dne/dt = div(Da grad ne) + (S_ion - 1/tau_wall) * ne
//
// Da comes from per-cell Te, S_ion from the interpolated field magnitude, and
// the wall sink is a single scalar rate from the mean diffusion coefficient
// (the bulk-sink surrogate for wall flux; dropped for "neumann" walls).
func (s *Simulation) assembleDensity(ephiCells []float64) *pde.Equation {
	p := s.cfg.Gas.PTorr
	n := s.grid.NumCells()

	teFloored := make([]float64, n)
	plasma.ParallelFor(n, 4096, func(start, end int) {
		for idx := start; idx < end; idx++ {
			teFloored[idx] = math.Max(s.te[idx], teDaFloor)
		}
	})
	da := make([]float64, n)
	s.params.DiffusionField(da, teFloored, p)

	lossCoeff := 0.0
	if s.cfg.InitBC.WallKind != "neumann" {
		teMean := math.Max(s.te.Mean(), teDaFloor)
		daMean := s.params.Diffusion(teMean, p)
		tau := s.params.WallTime(s.grid.R, daMean)
		lossCoeff = s.cfg.InitBC.VlossScale / math.Max(tau, 1e-9)
	}

	// The interpolated field has no axial variation, so the ionization rate
	// only needs one evaluation per radial index.
	ionByR := make([]float64, len(ephiCells))
	s.params.IonizationField(ionByR, ephiCells, p)

	reaction := make([]float64, n)
	plasma.ParallelFor(n, 4096, func(start, end int) {
		for idx := start; idx < end; idx++ {
			reaction[idx] = ionByR[idx%s.grid.Nr] - lossCoeff
		}
	})

	return &pde.Equation{Diffusion: da, Reaction: reaction}
}

// assembleEnergy freezes the temperature-equation coefficients from the
// pre-step state:
//
//	1.5*ne * dTe/dt = div(kappa grad Te) + Qohm - Qloss
//
// The net heat source is explicit: evaluated once here, never relinearized
// against the unknown Te. Keep the asymmetry with the density equation's
// implicit reaction term.
func (s *Simulation) assembleEnergy(ephiCells []float64) *pde.Equation {
	p := s.cfg.Gas.PTorr
	tg := s.cfg.Gas.TgasK
	n := s.grid.NumCells()

	heatCap := make([]float64, n)
	kappa := make([]float64, n)
	source := make([]float64, n)
	plasma.ParallelFor(n, 4096, func(start, end int) {
		for idx := start; idx < end; idx++ {
			ne := math.Max(s.ne[idx], neFloor)
			te := math.Max(s.te[idx], teFloor)
			e := math.Max(math.Abs(ephiCells[idx%s.grid.Nr]), 1.0)

			heatCap[idx] = 1.5 * ne
			kappa[idx] = s.params.ThermalConductivity(te)

			sigma := s.params.Conductivity(ne, p, tg)
			source[idx] = s.params.OhmicHeating(sigma, e) - s.params.CoolingDensity(ne, te)
		}
	})

	return &pde.Equation{Transient: heatCap, Diffusion: kappa, Source: source}
}
