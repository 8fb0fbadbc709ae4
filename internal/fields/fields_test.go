package fields

import (
	"errors"
	"math"
	"testing"

	"github.com/erdlab/erdsim/internal/closures"
	"github.com/erdlab/erdsim/internal/plasma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSurrogate() *Surrogate {
	return NewSurrogate(closures.DefaultParams(), 0.06, 15.0, 300.0)
}

func testInputs() plasma.ControlInputs {
	return plasma.ControlInputs{E0Vpm: 200, FreqHz: 13.56e6}
}

func uniformState(n int) ([]float64, []float64) {
	ne := make([]float64, n)
	te := make([]float64, n)
	for i := range ne {
		ne[i] = 1e15
		te[i] = 2
	}
	return ne, te
}

func radii(n int, R float64) []float64 {
	r := make([]float64, n)
	for i := range r {
		r[i] = (float64(i) + 0.5) * R / float64(n)
	}
	return r
}

func TestAzimuthalProfileShape(t *testing.T) {
	s := testSurrogate()
	r := []float64{0, 0.01, 0.02, 0.04, 0.06}
	ne, te := uniformState(len(r))

	prof, err := s.Compute(r, ne, te, testInputs(), Uniform())
	require.NoError(t, err)

	assert.InDelta(t, 200.0, prof.Ephi[0], 1e-12, "E0 at the axis")
	assert.InDelta(t, 0.0, prof.Ephi[len(r)-1], 1e-12, "zero at the wall")
	for i := 1; i < len(prof.Ephi); i++ {
		assert.LessOrEqual(t, prof.Ephi[i], prof.Ephi[i-1], "monotone non-increasing")
	}
}

func TestAzimuthalProfileClampedBeyondWall(t *testing.T) {
	s := testSurrogate()
	r := []float64{0.05, 0.06, 0.08} // last sample outside the wall
	ne, te := uniformState(len(r))

	prof, err := s.Compute(r, ne, te, testInputs(), Uniform())
	require.NoError(t, err)
	assert.Equal(t, 0.0, prof.Ephi[2])
}

func TestEffectiveSigmaExplicitProfile(t *testing.T) {
	s := testSurrogate()
	r := []float64{0, 1, 2, 3}
	sigma := []float64{1, 2, 3, 4}

	got, err := s.effectiveSigma(r, nil, Profile(sigma))
	require.NoError(t, err)

	// Radius-weighted mean; the zero-radius sample carries a 1e-9 weight.
	w := []float64{1e-9, 1, 2, 3}
	num, den := 0.0, 0.0
	for i := range w {
		num += sigma[i] * w[i]
		den += w[i]
	}
	assert.InEpsilon(t, num/den, got, 1e-12)
}

func TestEffectiveSigmaFuncMatchesArray(t *testing.T) {
	s := testSurrogate()
	r := radii(16, 0.06)

	fn := func(rr float64) float64 { return 100 * (1 + rr) }
	sigma := make([]float64, len(r))
	for i, rr := range r {
		sigma[i] = fn(rr)
	}

	fromFn, err := s.effectiveSigma(r, nil, ProfileFunc(fn))
	require.NoError(t, err)
	fromArr, err := s.effectiveSigma(r, nil, Profile(sigma))
	require.NoError(t, err)
	assert.InEpsilon(t, fromArr, fromFn, 1e-12)
}

func TestShapeMismatchRejected(t *testing.T) {
	s := testSurrogate()
	r := radii(16, 0.06)
	ne, te := uniformState(len(r))

	_, err := s.Compute(r, ne, te, testInputs(), Profile([]float64{1, 2, 3}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, plasma.ErrShapeMismatch))
}

func TestAxialProfileMonotone(t *testing.T) {
	s := testSurrogate()
	r := radii(32, 0.06)
	ne, te := uniformState(len(r))

	prof, err := s.Compute(r, ne, te, testInputs(), Uniform())
	require.NoError(t, err)
	for i := 1; i < len(prof.Bz); i++ {
		assert.LessOrEqual(t, prof.Bz[i], prof.Bz[i-1])
	}
	assert.Greater(t, prof.Bz[0], 0.0)
}

func TestAxialProfileAttenuatesWithConductivity(t *testing.T) {
	s := testSurrogate()
	r := radii(32, 0.06)
	ne, te := uniformState(len(r))

	low, err := s.Compute(r, ne, te, testInputs(), ProfileFunc(func(float64) float64 { return 10 }))
	require.NoError(t, err)
	high, err := s.Compute(r, ne, te, testInputs(), ProfileFunc(func(float64) float64 { return 1000 }))
	require.NoError(t, err)

	// Faster decay under higher conductivity at every radius.
	for i, rr := range r {
		if rr == 0 {
			continue
		}
		assert.Less(t, high.Bz[i], low.Bz[i], "r=%g", rr)
	}
}

func TestUniformFallbackUsesMeanDensity(t *testing.T) {
	s := testSurrogate()
	r := radii(8, 0.06)
	ne, te := uniformState(len(r))

	prof, err := s.Compute(r, ne, te, testInputs(), Uniform())
	require.NoError(t, err)

	sigma := closures.DefaultParams().Conductivity(1e15, 15, 300)
	omega := 2 * math.Pi * 13.56e6
	k := math.Sqrt(omega * plasma.Mu0 * math.Max(sigma, 1e-9) / 2)
	want := (200 / omega) * math.Exp(-k*r[3])
	assert.InEpsilon(t, want, prof.Bz[3], 1e-9)
}
