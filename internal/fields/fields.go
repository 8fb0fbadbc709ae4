// Package fields is the electromagnetic surrogate: closed-form azimuthal
// E-field and axial B-field magnitude profiles over radius, scaled by an
// effective conductivity derived from the current plasma state. It stands in
// for a self-consistent wave solve and keeps per-step field refresh cheap.
package fields

import (
	"fmt"
	"math"

	"github.com/erdlab/erdsim/internal/closures"
	"github.com/erdlab/erdsim/internal/plasma"
)

// Profiles are the per-step field samples over radius. Recomputed every step;
// only the Bz profile is persisted, as part of a snapshot.
type Profiles struct {
	R    []float64 // radial sample coordinates [m]
	Ephi []float64 // azimuthal field magnitude [V/m]
	Bz   []float64 // axial field magnitude [T]
}

// Surrogate computes field profiles for a fixed reactor geometry and gas.
type Surrogate struct {
	params closures.Params
	radius float64 // wall radius [m]
	pTorr  float64
	tgasK  float64
}

func NewSurrogate(params closures.Params, radiusM, pTorr, tgasK float64) *Surrogate {
	return &Surrogate{params: params, radius: radiusM, pTorr: pTorr, tgasK: tgasK}
}

// Compute evaluates Ephi(r) and Bz(r) at the given radial samples for the
// drive inputs u. ne and te feed the uniform-conductivity fallback; cond
// selects how the effective sigma for skin-depth scaling is resolved.
// A shape-mismatched explicit profile fails before any field computation.
func (s *Surrogate) Compute(r []float64, ne, te []float64, u plasma.ControlInputs, cond Conductivity) (Profiles, error) {
	sigmaBar, err := s.effectiveSigma(r, ne, cond)
	if err != nil {
		return Profiles{}, err
	}
	sigmaBar = math.Max(sigmaBar, 1e-9)

	omega := 2 * math.Pi * u.FreqHz
	e0 := u.E0Vpm

	ephi := make([]float64, len(r))
	for i, ri := range r {
		x := ri / math.Max(s.radius, 1e-9)
		if x < 0 {
			x = 0
		} else if x > 1 {
			x = 1
		}
		ephi[i] = e0 * (1 - x*x)
	}

	// Quasi-static skin attenuation: k = sqrt(omega mu0 sigma / 2),
	// Bz scaled so |B| ~ |E|/omega near the axis.
	k := math.Sqrt(omega * plasma.Mu0 * sigmaBar / 2)
	bScale := math.Max(e0, 1e-12) / math.Max(omega, 1e-12)
	bz := make([]float64, len(r))
	for i, ri := range r {
		bz[i] = bScale * math.Exp(-k*ri)
	}

	return Profiles{R: r, Ephi: ephi, Bz: bz}, nil
}

// effectiveSigma reduces the conductivity argument to a single effective
// value. Explicit and sampled profiles are averaged with radius weighting
// (area weighting in a cylinder); the uniform variant falls back to the
// closure conductivity of the mean density.
func (s *Surrogate) effectiveSigma(r, ne []float64, cond Conductivity) (float64, error) {
	switch cond.kind {
	case profileKind:
		if len(cond.profile) != len(r) {
			return 0, fmt.Errorf("%w: profile has %d samples, grid has %d",
				plasma.ErrShapeMismatch, len(cond.profile), len(r))
		}
		return radiusWeightedMean(cond.profile, r), nil

	case funcKind:
		sig := make([]float64, len(r))
		for i, ri := range r {
			sig[i] = cond.fn(ri)
		}
		return radiusWeightedMean(sig, r), nil

	default:
		return s.params.UniformConductivity(ne, s.pTorr, s.tgasK), nil
	}
}

func radiusWeightedMean(sigma, r []float64) float64 {
	var num, den float64
	for i, ri := range r {
		w := math.Max(ri, 1e-9)
		num += sigma[i] * w
		den += w
	}
	return num / den
}
