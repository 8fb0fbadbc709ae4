// Package pde advances the finite-volume transport equations. Each equation
// is one linearized implicit sweep per time step: coefficients are frozen at
// start-of-step values and the linear system is solved exactly once, not
// iterated to nonlinear convergence. All exterior faces are zero-flux.
package pde

// Equation holds the frozen per-cell coefficients of one transport equation
//
//	a * du/dt = div(D grad u) + c*u + s
//
// on the simulation grid. The reaction term c multiplies the unknown at the
// new time level (implicit); the source s is explicit. Nil Transient means
// a=1, nil Reaction and Source mean 0.
type Equation struct {
	Transient []float64
	Diffusion []float64
	Reaction  []float64
	Source    []float64
}

func (eq *Equation) transientAt(idx int) float64 {
	if eq.Transient == nil {
		return 1
	}
	return eq.Transient[idx]
}

func (eq *Equation) reactionAt(idx int) float64 {
	if eq.Reaction == nil {
		return 0
	}
	return eq.Reaction[idx]
}

func (eq *Equation) sourceAt(idx int) float64 {
	if eq.Source == nil {
		return 0
	}
	return eq.Source[idx]
}

// harmonicMean is the face value of a cell-centered diffusion coefficient.
func harmonicMean(d1, d2 float64) float64 {
	if d1+d2 <= 0 {
		return 0
	}
	return 2 * d1 * d2 / (d1 + d2)
}
