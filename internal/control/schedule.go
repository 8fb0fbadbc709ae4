// Package control supplies the drive-input schedule for a run. The current
// design fixes the inputs for the whole run; the Schedule interface is the
// seam a closed-loop controller would plug into.
package control

import "github.com/erdlab/erdsim/internal/plasma"

// Schedule yields the control inputs in effect at simulation time t.
type Schedule interface {
	Inputs(t float64) plasma.ControlInputs
}

// Constant returns the same inputs for every step.
type Constant struct {
	U plasma.ControlInputs
}

func NewConstant(u plasma.ControlInputs) *Constant {
	return &Constant{U: u}
}

func (c *Constant) Inputs(t float64) plasma.ControlInputs {
	return c.U
}
