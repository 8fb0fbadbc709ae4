package plasma

import "math"

// Field is a dense per-cell scalar field on the simulation grid,
// indexed j*Nr+i (row-major in the axial direction).
type Field []float64

func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

func (f Field) IsValid() bool {
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (f Field) Min() float64 {
	if len(f) == 0 {
		return 0
	}
	m := f[0]
	for _, v := range f[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func (f Field) Max() float64 {
	if len(f) == 0 {
		return 0
	}
	m := f[0]
	for _, v := range f[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func (f Field) Mean() float64 {
	if len(f) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range f {
		sum += v
	}
	return sum / float64(len(f))
}

// ControlInputs are the drive parameters in effect for one step.
// Constant for a whole run in the current design; snapshotted per step so a
// future closed-loop schedule needs no format change.
type ControlInputs struct {
	E0Vpm    float64
	PhaseDeg float64
	FreqHz   float64
}

// Snapshot is the persisted record of one save step. Immutable once written.
type Snapshot struct {
	Time   float64
	Bz     []float64 // axial field magnitude per radial sample
	Ne     Field
	Te     Field
	Inputs ControlInputs
}
