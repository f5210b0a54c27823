package viscosity

import "math"

// Boltzmann is the Boltzmann constant in J/K.
const Boltzmann = 1.380649e-23

// HydrodynamicDiameter returns the sphere diameter in metres that diffuses at
// the given coefficient (m^2/s) in a fluid of the given viscosity (Pa*s).
// Non-positive inputs yield 0.
func HydrodynamicDiameter(diffusion, tempC, viscosity float64) float64 {
	t := Kelvin(tempC)
	if diffusion <= 0 || viscosity <= 0 || t <= 0 {
		return 0
	}
	return Boltzmann * t / (3 * math.Pi * viscosity * diffusion)
}

// DiffusionCoefficient is the inverse of HydrodynamicDiameter.
func DiffusionCoefficient(diameter, tempC, viscosity float64) float64 {
	t := Kelvin(tempC)
	if diameter <= 0 || viscosity <= 0 || t <= 0 {
		return 0
	}
	return Boltzmann * t / (3 * math.Pi * viscosity * diameter)
}
