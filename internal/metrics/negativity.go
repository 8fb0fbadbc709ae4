// Package metrics provides per-step diagnostics over the state fields.
// Metrics observe, they never mutate: in particular negative density
// excursions are reported, not clipped.
package metrics

import "github.com/erdlab/erdsim/internal/plasma"

// Negativity tracks negative electron-density excursions after each solve.
// Small negative values are possible under coarse discretization because the
// state is not hard-clamped; this metric makes them visible.
type Negativity struct {
	name       string
	minValue   float64
	violations int
	samples    int
}

func NewNegativity() *Negativity {
	return &Negativity{name: "ne_negativity"}
}

func (n *Negativity) Name() string { return n.name }

func (n *Negativity) Observe(ne, te plasma.Field, t float64) {
	n.samples++
	m := ne.Min()
	if m < 0 {
		n.violations++
	}
	if m < n.minValue {
		n.minValue = m
	}
}

// Value reports the most negative density seen (0 if none).
func (n *Negativity) Value() float64 { return n.minValue }

// Violations reports how many observed steps contained a negative cell.
func (n *Negativity) Violations() int { return n.violations }

func (n *Negativity) Reset() {
	n.minValue = 0
	n.violations = 0
	n.samples = 0
}
