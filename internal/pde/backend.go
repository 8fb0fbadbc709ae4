package pde

import (
	"fmt"
	"sort"

	"github.com/erdlab/erdsim/internal/mesh"
	"github.com/erdlab/erdsim/internal/plasma"
)

// Backend performs one implicit sweep of a transport equation, advancing u in
// place by dt. A sweep failure is fatal to the run; there are no retries.
type Backend interface {
	Name() string
	Available() bool
	Sweep(g *mesh.Grid, eq *Equation, u []float64, dt float64) error
}

var builders = map[string]func() Backend{
	"adi":      func() Backend { return NewADI() },
	"bicgstab": func() Backend { return NewBiCGStab() },
}

// New resolves a backend by name. The empty string or "auto" selects the
// first available backend, preferring ADI. An unknown or unavailable backend
// is reported as plasma.ErrBackendUnavailable.
func New(name string) (Backend, error) {
	if name == "" || name == "auto" {
		return autoSelect()
	}
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown backend %q (have %v)",
			plasma.ErrBackendUnavailable, name, Names())
	}
	b := build()
	if !b.Available() {
		return nil, fmt.Errorf("%w: backend %q cannot initialize",
			plasma.ErrBackendUnavailable, name)
	}
	return b, nil
}

func autoSelect() (Backend, error) {
	for _, name := range []string{"adi", "bicgstab"} {
		b := builders[name]()
		if b.Available() {
			return b, nil
		}
	}
	return nil, plasma.ErrBackendUnavailable
}

// Names lists the registered backend names.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
