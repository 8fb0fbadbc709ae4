package closures

import (
	"math"

	"github.com/erdlab/erdsim/internal/plasma"
	"gonum.org/v1/gonum/floats"
)

// Params are the tunable coefficients of the constitutive relations. They are
// an explicit per-run value carried in the simulation config, never a shared
// global.
type Params struct {
	// Electron-neutral collision frequency scale: nu ~ Nu0HzPa * p_Pa / Tgas.
	Nu0HzPa float64 `yaml:"nu0_hz_pa"`

	// Ambipolar diffusion scale: Da ~ Da0 * Te[eV] / p[Torr]  [m^2/s].
	Da0 float64 `yaml:"da0"`

	// Townsend-like ionization: S = Alpha0 * p * exp(-Ethr*p/|E|)  [1/s].
	Alpha0 float64 `yaml:"alpha0"`
	Ethr   float64 `yaml:"ethr"`

	// Electron thermal conductivity proxy: kappa ~ K0 * Te[eV]  [W/m/K].
	K0 float64 `yaml:"k0"`

	// Lumped cooling: Qloss = C1*ne*Te + C2*ne  [W/m^3].
	C1 float64 `yaml:"c1"`
	C2 float64 `yaml:"c2"`
}

func DefaultParams() Params {
	return Params{
		Nu0HzPa: 5.0e6,
		Da0:     0.05,
		Alpha0:  5.0e2,
		Ethr:    2.0e3,
		K0:      0.5,
		C1:      1.0e-17,
		C2:      5.0e-18,
	}
}

// CollisionFreq returns the electron-neutral collision frequency [Hz].
// Gas temperature is floored at 1 K.
func (p Params) CollisionFreq(pTorr, tgasK float64) float64 {
	pPa := pTorr * plasma.TorrToPa
	return p.Nu0HzPa * pPa / math.Max(tgasK, 1.0)
}

// Conductivity returns the Ohmic conductivity [S/m], sigma = e^2 ne/(me nu),
// with nu floored at 1 Hz and ne at 0.
func (p Params) Conductivity(ne, pTorr, tgasK float64) float64 {
	nu := p.CollisionFreq(pTorr, tgasK)
	return plasma.ElectronCharge * plasma.ElectronCharge * math.Max(ne, 0) /
		(plasma.ElectronMass * math.Max(nu, 1.0))
}

// UniformConductivity reduces the density field to its mean and evaluates the
// scalar conductivity under the given gas conditions.
func (p Params) UniformConductivity(ne []float64, pTorr, tgasK float64) float64 {
	neAvg := floats.Sum(ne) / float64(len(ne))
	return p.Conductivity(neAvg, pTorr, tgasK)
}

// Diffusion returns the ambipolar diffusion coefficient [m^2/s].
// Te is floored at 0.01 eV and pressure at 0.1 Torr.
func (p Params) Diffusion(teEV, pTorr float64) float64 {
	return p.Da0 * math.Max(teEV, 0.01) / math.Max(pTorr, 0.1)
}

// DiffusionField evaluates Diffusion element-wise into dst.
func (p Params) DiffusionField(dst, te []float64, pTorr float64) {
	for i, t := range te {
		dst[i] = p.Diffusion(t, pTorr)
	}
}

// IonizationFreq returns the Townsend-like ionization frequency coefficient
// [1/s] multiplying ne. |E| is floored at 1 V/m and the exponent argument is
// clamped to [-100, 100] before exponentiation.
func (p Params) IonizationFreq(eVpm, pTorr float64) float64 {
	x := p.Ethr * pTorr / math.Max(math.Abs(eVpm), 1.0)
	if x > 100 {
		x = 100
	} else if x < -100 {
		x = -100
	}
	return p.Alpha0 * pTorr * math.Exp(-x)
}

// IonizationField evaluates IonizationFreq element-wise into dst.
func (p Params) IonizationField(dst, eVpm []float64, pTorr float64) {
	for i, e := range eVpm {
		dst[i] = p.IonizationFreq(e, pTorr)
	}
}

// OhmicHeating returns the heating density [W/m^3], max(sigma,0)*|E|^2.
func (p Params) OhmicHeating(sigma, eVpm float64) float64 {
	return math.Max(sigma, 0) * eVpm * eVpm
}

// CoolingDensity returns the lumped cooling density [W/m^3].
func (p Params) CoolingDensity(ne, teEV float64) float64 {
	return p.C1*math.Max(ne, 0)*math.Max(teEV, 0) + p.C2*math.Max(ne, 0)
}

// ThermalConductivity returns the per-cell electron thermal conductivity
// proxy [W/m/K], scaling with Te floored at 0.1 eV.
func (p Params) ThermalConductivity(teEV float64) float64 {
	return p.K0 * math.Max(teEV, 0.1)
}

// WallLossVelocity returns the ion thermal-speed wall loss scale [m/s],
// sqrt(kB*TeK/m_ion) times the configured multiplier. TeK derives from Te in
// eV via e/kB and is floored at 1 K.
func (p Params) WallLossVelocity(teEV, scale float64, species string) float64 {
	teK := math.Max(teEV, 0) * plasma.ElectronCharge / plasma.Boltzmann
	mi := plasma.IonMassFor(species)
	return math.Sqrt(math.Max(teK, 1.0)*plasma.Boltzmann/mi) * scale
}

// WallTime returns the lumped wall-loss time constant [s] of the slowest
// radial diffusion mode, R^2/(pi^2 Da), with Da floored at 1e-9.
func (p Params) WallTime(radiusM, da float64) float64 {
	return radiusM * radiusM / (math.Pi * math.Pi * math.Max(da, 1e-9))
}
