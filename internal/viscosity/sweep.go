package viscosity

// SweepPoint is one sample of a temperature sweep.
type SweepPoint struct {
	TempC     float64
	Viscosity float64
	Factor    float64
}

// TemperatureSweep evaluates the correction for measurement temperatures
// evenly spaced over [from, to] against a fixed reference. Fewer than two
// steps yields the single point at from.
func TemperatureSweep(refTempC float64, medium string, from, to float64, steps int) []SweepPoint {
	if steps < 2 {
		c := CorrectionFactor(from, refTempC, medium)
		return []SweepPoint{{TempC: from, Viscosity: c.MeasuredViscosity, Factor: c.Factor}}
	}

	step := (to - from) / float64(steps-1)
	points := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		t := from + float64(i)*step
		c := CorrectionFactor(t, refTempC, medium)
		points = append(points, SweepPoint{TempC: t, Viscosity: c.MeasuredViscosity, Factor: c.Factor})
	}
	return points
}

// Factors extracts the factor column, ready for plotting.
func Factors(points []SweepPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Factor
	}
	return out
}
