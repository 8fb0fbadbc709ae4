package fields

// conductivityKind selects how the effective conductivity for skin-depth
// scaling is resolved.
type conductivityKind int

const (
	uniformKind conductivityKind = iota
	profileKind
	funcKind
)

// Conductivity is the tagged variant for the conductivity argument of the
// surrogate: derived from mean state, an explicit per-radius profile, or a
// radius->sigma function.
type Conductivity struct {
	kind    conductivityKind
	profile []float64
	fn      func(r float64) float64
}

// Uniform derives the effective conductivity from the mean plasma state.
func Uniform() Conductivity {
	return Conductivity{kind: uniformKind}
}

// Profile supplies an explicit sigma(r) array; its length must match the
// radial sample count at Compute time.
func Profile(sigma []float64) Conductivity {
	return Conductivity{kind: profileKind, profile: sigma}
}

// ProfileFunc supplies sigma(r) as a function sampled at each radius.
func ProfileFunc(fn func(r float64) float64) Conductivity {
	return Conductivity{kind: funcKind, fn: fn}
}
