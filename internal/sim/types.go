package sim

import "github.com/erdlab/erdsim/internal/plasma"

// SnapshotWriter persists state and control inputs at selected steps. The
// storage engine is an external collaborator; the engine only requires that
// each Append advances the snapshot index by exactly one.
type SnapshotWriter interface {
	Append(snap *plasma.Snapshot) error
}

// Metric accumulates a scalar diagnostic over the run.
type Metric interface {
	Name() string
	Observe(ne, te plasma.Field, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(ne, te plasma.Field, t float64)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ne, te plasma.Field, t float64)

func (f ObserverFunc) OnStep(ne, te plasma.Field, t float64) { f(ne, te, t) }

// Result summarizes a completed (or aborted) run.
type Result struct {
	StepsTaken int
	Snapshots  int
	FinalTime  float64
	Metrics    map[string]float64
}
