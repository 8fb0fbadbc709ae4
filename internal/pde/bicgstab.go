package pde

import (
	"fmt"

	"github.com/erdlab/erdsim/internal/mesh"
	"github.com/erdlab/erdsim/internal/plasma"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
)

// BiCGStab solves the unsplit five-point system (a/dt - L - c) u1 = (a/dt) u + s
// with an unpreconditioned BiCGSTAB iteration over a CSR operator. Slower than
// the ADI split but exercises the full 2-D coupling in one solve; useful as a
// cross-check backend.
type BiCGStab struct {
	Tol     float64
	MaxIter int
}

func NewBiCGStab() *BiCGStab {
	return &BiCGStab{Tol: 1e-10, MaxIter: 2000}
}

func (*BiCGStab) Name() string    { return "bicgstab" }
func (*BiCGStab) Available() bool { return true }

func (b *BiCGStab) Sweep(g *mesh.Grid, eq *Equation, u []float64, dt float64) error {
	n := g.NumCells()
	a, rhs := b.assemble(g, eq, u, dt)

	x := make([]float64, n)
	copy(x, u)
	if err := b.solve(a, x, rhs); err != nil {
		return err
	}
	copy(u, x)
	return nil
}

// assemble builds the CSR operator and right-hand side for one sweep.
func (b *BiCGStab) assemble(g *mesh.Grid, eq *Equation, u []float64, dt float64) (*sparse.CSR, []float64) {
	nr, nz := g.Nr, g.Nz
	invDr2 := 1 / (g.Dr * g.Dr)
	invDz2 := 1 / (g.Dz * g.Dz)
	D := eq.Diffusion
	n := nr * nz

	dok := sparse.NewDOK(n, n)
	rhs := make([]float64, n)

	for j := 0; j < nz; j++ {
		for i := 0; i < nr; i++ {
			idx := j*nr + i

			aw, ae, as, an := 0.0, 0.0, 0.0, 0.0
			if i > 0 {
				aw = harmonicMean(D[idx-1], D[idx]) * invDr2
			}
			if i < nr-1 {
				ae = harmonicMean(D[idx], D[idx+1]) * invDr2
			}
			if j > 0 {
				as = harmonicMean(D[idx-nr], D[idx]) * invDz2
			}
			if j < nz-1 {
				an = harmonicMean(D[idx], D[idx+nr]) * invDz2
			}

			at := eq.transientAt(idx) / dt
			dok.Set(idx, idx, at+aw+ae+as+an-eq.reactionAt(idx))
			if aw != 0 {
				dok.Set(idx, idx-1, -aw)
			}
			if ae != 0 {
				dok.Set(idx, idx+1, -ae)
			}
			if as != 0 {
				dok.Set(idx, idx-nr, -as)
			}
			if an != 0 {
				dok.Set(idx, idx+nr, -an)
			}

			rhs[idx] = at*u[idx] + eq.sourceAt(idx)
		}
	}

	return dok.ToCSR(), rhs
}

func matVec(a *sparse.CSR, x, y []float64) {
	for i := range y {
		y[i] = 0
	}
	a.DoNonZero(func(i, j int, v float64) {
		y[i] += v * x[j]
	})
}

func (b *BiCGStab) solve(a *sparse.CSR, x, rhs []float64) error {
	n := len(rhs)
	r := make([]float64, n)
	matVec(a, x, r)
	floats.SubTo(r, rhs, r)

	bnorm := floats.Norm(rhs, 2)
	if bnorm == 0 {
		bnorm = 1
	}
	if floats.Norm(r, 2)/bnorm < b.Tol {
		return nil
	}

	rhat := make([]float64, n)
	copy(rhat, r)
	p := make([]float64, n)
	v := make([]float64, n)
	s := make([]float64, n)
	t := make([]float64, n)

	rho, alpha, omega := 1.0, 1.0, 1.0

	for iter := 0; iter < b.MaxIter; iter++ {
		rho1 := floats.Dot(rhat, r)
		if rho1 == 0 {
			return fmt.Errorf("%w: bicgstab breakdown (rho=0)", plasma.ErrSolveFailed)
		}
		beta := (rho1 / rho) * (alpha / omega)
		for i := range p {
			p[i] = r[i] + beta*(p[i]-omega*v[i])
		}
		matVec(a, p, v)
		alpha = rho1 / floats.Dot(rhat, v)

		floats.AddScaledTo(s, r, -alpha, v)
		if floats.Norm(s, 2)/bnorm < b.Tol {
			floats.AddScaled(x, alpha, p)
			return nil
		}

		matVec(a, s, t)
		tt := floats.Dot(t, t)
		if tt == 0 {
			return fmt.Errorf("%w: bicgstab breakdown (t=0)", plasma.ErrSolveFailed)
		}
		omega = floats.Dot(t, s) / tt

		floats.AddScaled(x, alpha, p)
		floats.AddScaled(x, omega, s)
		floats.AddScaledTo(r, s, -omega, t)

		if floats.Norm(r, 2)/bnorm < b.Tol {
			return nil
		}
		rho = rho1
	}

	return fmt.Errorf("%w: bicgstab after %d iterations", plasma.ErrNoConvergence, b.MaxIter)
}
