package viscosity

import (
	"fmt"
	"strings"
)

// Correction is the result of comparing a measurement condition against a
// reference condition. Factor multiplies a measured diameter to estimate the
// diameter that would have been observed at the reference condition.
type Correction struct {
	MeasurementTemp float64 `json:"measurement_temp_c" yaml:"measurement_temp_c"`
	ReferenceTemp   float64 `json:"reference_temp_c" yaml:"reference_temp_c"`
	Medium          string  `json:"medium" yaml:"medium"`
	KnownMedium     bool    `json:"known_medium" yaml:"known_medium"`
	Multiplier      float64 `json:"multiplier" yaml:"multiplier"`

	MeasuredViscosity  float64 `json:"measured_viscosity_pa_s" yaml:"measured_viscosity_pa_s"`
	ReferenceViscosity float64 `json:"reference_viscosity_pa_s" yaml:"reference_viscosity_pa_s"`
	ViscosityRatio     float64 `json:"viscosity_ratio" yaml:"viscosity_ratio"`
	TemperatureRatio   float64 `json:"temperature_ratio" yaml:"temperature_ratio"`
	Factor             float64 `json:"factor" yaml:"factor"`
}

// CorrectionFactor computes the size correction for a sample measured at
// measTempC in the named medium, normalised to pure water at refTempC.
//
// Unknown media silently use a multiplier of 1.0; KnownMedium reports whether
// the label matched the table.
//
// The reference leg always assumes water, so swapping the two temperatures
// does not invert the correction unless the medium is water.
func CorrectionFactor(measTempC, refTempC float64, medium string) Correction {
	m, ok := ParseMedium(medium)
	label := medium
	mult := 1.0
	if ok {
		label = m.String()
		mult = m.Multiplier()
	}
	c := compute(measTempC, refTempC, mult)
	c.Medium = label
	c.KnownMedium = ok
	return c
}

// CorrectionForMedium is CorrectionFactor for an already-resolved medium.
func CorrectionForMedium(measTempC, refTempC float64, m Medium) Correction {
	c := compute(measTempC, refTempC, m.Multiplier())
	c.Medium = m.String()
	c.KnownMedium = m.valid()
	return c
}

func compute(measTempC, refTempC, multiplier float64) Correction {
	measured := WaterViscosity(measTempC) * multiplier
	reference := WaterViscosity(refTempC)
	viscRatio := reference / measured
	tempRatio := Kelvin(measTempC) / Kelvin(refTempC)

	return Correction{
		MeasurementTemp:    measTempC,
		ReferenceTemp:      refTempC,
		Multiplier:         multiplier,
		MeasuredViscosity:  measured,
		ReferenceViscosity: reference,
		ViscosityRatio:     viscRatio,
		TemperatureRatio:   tempRatio,
		Factor:             viscRatio * tempRatio,
	}
}

// Apply scales a single measured diameter.
func (c Correction) Apply(diameter float64) float64 {
	return diameter * c.Factor
}

// ApplyAll returns a new slice with every diameter scaled.
func (c Correction) ApplyAll(diameters []float64) []float64 {
	out := make([]float64, len(diameters))
	for i, d := range diameters {
		out[i] = d * c.Factor
	}
	return out
}

// IsIdentity reports whether the correction leaves sizes unchanged within tol.
func (c Correction) IsIdentity(tol float64) bool {
	d := c.Factor - 1
	return d <= tol && d >= -tol
}

// Breakdown explains how the factor was derived.
func (c Correction) Breakdown() string {
	var b strings.Builder
	medium := c.Medium
	if !c.KnownMedium {
		medium = fmt.Sprintf("%s (unknown, treated as water)", c.Medium)
	}
	fmt.Fprintf(&b, "medium: %s, relative viscosity x%.2f\n", medium, c.Multiplier)
	fmt.Fprintf(&b, "viscosity at %.1f°C: %.4f mPa·s\n", c.MeasurementTemp, c.MeasuredViscosity*1e3)
	fmt.Fprintf(&b, "viscosity at %.1f°C (water reference): %.4f mPa·s\n", c.ReferenceTemp, c.ReferenceViscosity*1e3)
	fmt.Fprintf(&b, "viscosity ratio: %.4f\n", c.ViscosityRatio)
	fmt.Fprintf(&b, "temperature ratio: %.2f K / %.2f K = %.4f\n", Kelvin(c.MeasurementTemp), Kelvin(c.ReferenceTemp), c.TemperatureRatio)
	fmt.Fprintf(&b, "correction factor: %.4f", c.Factor)
	return b.String()
}
