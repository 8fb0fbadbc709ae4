package plasma

import "math"

// Physical constants (SI).
const (
	ElectronCharge = 1.602176634e-19 // C
	ElectronMass   = 9.10938356e-31  // kg
	Boltzmann      = 1.380649e-23    // J/K
	Mu0            = 4e-7 * math.Pi  // H/m
	TorrToPa       = 133.322368
)

// Ion masses by neutral species [kg]. Xenon is the default working gas.
var IonMass = map[string]float64{
	"Xe": 2.1801714e-25, // ~131.3 amu
	"Ar": 6.6335209e-26,
	"He": 6.6464731e-27,
}

// IonMassFor returns the ion mass for a species, falling back to Xenon for
// unknown names.
func IonMassFor(species string) float64 {
	if m, ok := IonMass[species]; ok {
		return m
	}
	return IonMass["Xe"]
}
