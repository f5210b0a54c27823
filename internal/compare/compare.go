// Package compare contrasts two analysed samples, the way the dashboard's
// overlay mode places one sample over another.
package compare

import (
	"github.com/san-kum/particlelab/internal/sizing"
	"github.com/san-kum/particlelab/internal/spatial"
)

// Sample is one side of a comparison. Either statistic may be nil.
type Sample struct {
	Label   string
	Spatial *spatial.Stats
	Sizes   *sizing.Summary
}

// Delta is a single metric on both sides. Diff is B-A and Ratio is B/A (zero
// when A is zero).
type Delta struct {
	Metric string  `json:"metric"`
	A      float64 `json:"a"`
	B      float64 `json:"b"`
	Diff   float64 `json:"diff"`
	Ratio  float64 `json:"ratio"`
}

type Comparison struct {
	A, B   string
	Deltas []Delta

	// InterpretationA and InterpretationB are empty when a side has no
	// spatial statistics.
	InterpretationA     spatial.Interpretation
	InterpretationB     spatial.Interpretation
	InterpretationShift bool
}

// Compare lines up the metrics both samples have. Metrics missing on
// either side are left out.
func Compare(a, b Sample) *Comparison {
	c := &Comparison{A: a.Label, B: b.Label}

	if a.Spatial != nil && b.Spatial != nil {
		c.add("count", float64(a.Spatial.Count), float64(b.Spatial.Count))
		c.add("mean_nearest_neighbor", a.Spatial.MeanNearestNeighbor, b.Spatial.MeanNearestNeighbor)
		c.add("clustering_index", a.Spatial.ClusteringIndex, b.Spatial.ClusteringIndex)
		c.add("std_x", a.Spatial.StdX, b.Spatial.StdX)
		c.add("std_y", a.Spatial.StdY, b.Spatial.StdY)
	}
	if a.Spatial != nil {
		c.InterpretationA = a.Spatial.Interpretation
	}
	if b.Spatial != nil {
		c.InterpretationB = b.Spatial.Interpretation
	}
	c.InterpretationShift = c.InterpretationA != "" && c.InterpretationB != "" &&
		c.InterpretationA != c.InterpretationB

	if a.Sizes != nil && b.Sizes != nil {
		c.add("d10", a.Sizes.D10, b.Sizes.D10)
		c.add("d50", a.Sizes.D50, b.Sizes.D50)
		c.add("d90", a.Sizes.D90, b.Sizes.D90)
		c.add("span", a.Sizes.Span(), b.Sizes.Span())
	}
	return c
}

func (c *Comparison) add(metric string, a, b float64) {
	d := Delta{Metric: metric, A: a, B: b, Diff: b - a}
	if a != 0 {
		d.Ratio = b / a
	}
	c.Deltas = append(c.Deltas, d)
}

// Get returns the delta for a metric.
func (c *Comparison) Get(metric string) (Delta, bool) {
	for _, d := range c.Deltas {
		if d.Metric == metric {
			return d, true
		}
	}
	return Delta{}, false
}
