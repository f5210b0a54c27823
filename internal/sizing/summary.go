// Package sizing summarises particle size distributions.
package sizing

import (
	"sort"

	"github.com/san-kum/particlelab/internal/viscosity"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a set of particle diameters. D10, D50 and D90 are the
// diameters below which 10%, 50% and 90% of the population falls.
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	D10    float64 `json:"d10" yaml:"d10"`
	D50    float64 `json:"d50" yaml:"d50"`
	D90    float64 `json:"d90" yaml:"d90"`
}

// Summarize computes the distribution summary. It returns nil for an empty
// input. The input slice is not modified.
func Summarize(diameters []float64) *Summary {
	if len(diameters) == 0 {
		return nil
	}

	sorted := make([]float64, len(diameters))
	copy(sorted, diameters)
	sort.Float64s(sorted)

	mean, std := sorted[0], 0.0
	if len(sorted) > 1 {
		mean, std = stat.PopMeanStdDev(sorted, nil)
	}
	return &Summary{
		Count:  len(sorted),
		Mean:   mean,
		StdDev: std,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		D10:    stat.Quantile(0.10, stat.Empirical, sorted, nil),
		D50:    stat.Quantile(0.50, stat.Empirical, sorted, nil),
		D90:    stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// Span is (D90-D10)/D50, or 0 when the median is zero.
func (s *Summary) Span() float64 {
	if s == nil || s.D50 == 0 {
		return 0
	}
	return (s.D90 - s.D10) / s.D50
}

// Corrected returns a copy with every size statistic scaled by the
// correction factor. Count is unchanged.
func (s *Summary) Corrected(c viscosity.Correction) *Summary {
	if s == nil {
		return nil
	}
	f := c.Factor
	return &Summary{
		Count:  s.Count,
		Mean:   s.Mean * f,
		StdDev: s.StdDev * f,
		Min:    s.Min * f,
		Max:    s.Max * f,
		D10:    s.D10 * f,
		D50:    s.D50 * f,
		D90:    s.D90 * f,
	}
}
