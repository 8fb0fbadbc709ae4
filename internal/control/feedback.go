package control

import "github.com/erdlab/erdsim/internal/plasma"

// DensityPID is a closed-loop schedule: it trims the drive amplitude so the
// cell-averaged electron density tracks a setpoint. Register it as both the
// schedule and a step observer; Inputs uses the measurement from the most
// recent completed step.
type DensityPID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64 // setpoint for the mean density [1/m^3]

	Base  plasma.ControlInputs
	MinE0 float64
	MaxE0 float64

	integral float64
	prevErr  float64
	prevT    float64
	measured float64
	first    bool
}

func NewDensityPID(kp, ki, kd, target float64, base plasma.ControlInputs) *DensityPID {
	return &DensityPID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		Base:   base,
		MinE0:  0,
		MaxE0:  10 * base.E0Vpm,
		first:  true,
	}
}

// OnStep records the controlled measurement after each completed step.
func (p *DensityPID) OnStep(ne, te plasma.Field, t float64) {
	p.measured = ne.Mean()
}

func (p *DensityPID) Inputs(t float64) plasma.ControlInputs {
	u := p.Base
	if p.measured == 0 {
		// No measurement yet (first step): drive at the base amplitude.
		return u
	}

	err := p.Target - p.measured
	corr := p.Kp * err
	if p.first {
		p.first = false
	} else if dt := t - p.prevT; dt > 0 {
		p.integral += err * dt
		corr += p.Ki*p.integral + p.Kd*(err-p.prevErr)/dt
	}
	p.prevErr = err
	p.prevT = t

	e0 := u.E0Vpm + corr
	if e0 < p.MinE0 {
		e0 = p.MinE0
	} else if e0 > p.MaxE0 {
		e0 = p.MaxE0
	}
	u.E0Vpm = e0
	return u
}

// Reset clears the integral and derivative history.
func (p *DensityPID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.prevT = 0
	p.measured = 0
	p.first = true
}
