package metrics

import "github.com/erdlab/erdsim/internal/plasma"

// MeanDensity tracks the running mean of the cell-averaged electron density,
// a cheap proxy for total particle inventory on the uniform grid.
type MeanDensity struct {
	name    string
	total   float64
	samples int
	last    float64
}

func NewMeanDensity() *MeanDensity {
	return &MeanDensity{name: "ne_mean"}
}

func (m *MeanDensity) Name() string { return m.name }

func (m *MeanDensity) Observe(ne, te plasma.Field, t float64) {
	m.last = ne.Mean()
	m.total += m.last
	m.samples++
}

func (m *MeanDensity) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

// Last returns the most recent cell-averaged density.
func (m *MeanDensity) Last() float64 { return m.last }

func (m *MeanDensity) Reset() {
	m.total = 0
	m.samples = 0
	m.last = 0
}
