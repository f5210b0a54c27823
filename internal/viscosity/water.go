package viscosity

import "math"

// Vogel-Fulcher-Tammann constants for liquid water.
const (
	VogelA = 2.414e-5 // Pa*s
	VogelB = 247.8    // K
	VogelC = 140.0    // K

	KelvinOffset = 273.15
)

// WaterViscosity returns the dynamic viscosity of pure water in Pa*s at the
// given temperature in degrees Celsius.
//
// The fit diverges at VogelC-KelvinOffset (about -133 C); callers are expected
// to stay within laboratory temperatures.
func WaterViscosity(tempC float64) float64 {
	return VogelA * math.Pow(10, VogelB/(tempC+KelvinOffset-VogelC))
}

// Kelvin converts a Celsius temperature.
func Kelvin(tempC float64) float64 { return tempC + KelvinOffset }
