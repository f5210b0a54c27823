package spatial

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Quadrants counts particles on each side of the frame midpoint. Particles
// exactly on a midline go right or lower.
type Quadrants struct {
	UpperLeft  int `json:"upper_left" yaml:"upper_left"`
	UpperRight int `json:"upper_right" yaml:"upper_right"`
	LowerLeft  int `json:"lower_left" yaml:"lower_left"`
	LowerRight int `json:"lower_right" yaml:"lower_right"`
}

func (q Quadrants) Total() int {
	return q.UpperLeft + q.UpperRight + q.LowerLeft + q.LowerRight
}

// Stats is the spatial summary of one position dataset.
type Stats struct {
	Count     int       `json:"count" yaml:"count"`
	Frame     Frame     `json:"frame" yaml:"frame"`
	Quadrants Quadrants `json:"quadrants" yaml:"quadrants"`

	MeanX float64 `json:"mean_x" yaml:"mean_x"`
	MeanY float64 `json:"mean_y" yaml:"mean_y"`
	StdX  float64 `json:"std_x" yaml:"std_x"`
	StdY  float64 `json:"std_y" yaml:"std_y"`

	Density                 float64 `json:"density" yaml:"density"`
	MeanNearestNeighbor     float64 `json:"mean_nearest_neighbor" yaml:"mean_nearest_neighbor"`
	ExpectedNearestNeighbor float64 `json:"expected_nearest_neighbor" yaml:"expected_nearest_neighbor"`
	ClusteringIndex         float64 `json:"clustering_index" yaml:"clustering_index"`

	Interpretation Interpretation `json:"interpretation" yaml:"interpretation"`
	Thresholds     Thresholds     `json:"thresholds" yaml:"thresholds"`
}

type options struct {
	thresholds      Thresholds
	bruteForceLimit int
}

// Option adjusts Analyze.
type Option func(*options)

// WithThresholds overrides the clustering index cutoffs.
func WithThresholds(t Thresholds) Option {
	return func(o *options) { o.thresholds = t }
}

// WithBruteForceLimit sets the largest input scanned pairwise. Values below
// two force the k-d tree for every input.
func WithBruteForceLimit(n int) Option {
	return func(o *options) { o.bruteForceLimit = n }
}

// Analyze computes the spatial statistics of positions observed in frame.
// It returns nil when there are no positions.
//
// With a single position, or a frame without positive area, the
// nearest-neighbour figures are zero and the interpretation is NotApplicable.
func Analyze(positions []Position, frame Frame, opts ...Option) *Stats {
	s, _ := AnalyzeWithDistances(positions, frame, opts...)
	return s
}

// AnalyzeWithDistances is Analyze that also returns the per-particle
// nearest-neighbour distances the statistics were computed from, in input
// order. A single position yields one zero distance.
func AnalyzeWithDistances(positions []Position, frame Frame, opts ...Option) (*Stats, []float64) {
	if len(positions) == 0 {
		return nil, nil
	}

	o := options{thresholds: DefaultThresholds, bruteForceLimit: DefaultBruteForceLimit}
	for _, opt := range opts {
		opt(&o)
	}

	n := len(positions)
	s := &Stats{
		Count:          n,
		Frame:          frame,
		Quadrants:      countQuadrants(positions, frame),
		Thresholds:     o.thresholds,
		Interpretation: NotApplicable,
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range positions {
		xs[i], ys[i] = p.X, p.Y
	}
	s.MeanX, s.StdX = meanStd(xs)
	s.MeanY, s.StdY = meanStd(ys)

	area := frame.Area()
	if area > 0 && !math.IsInf(area, 0) {
		s.Density = float64(n) / area
	}

	dists := nearestNeighbors(positions, o.bruteForceLimit)
	if n < 2 || s.Density == 0 {
		return s, dists
	}

	s.MeanNearestNeighbor = stat.Mean(dists, nil)
	s.ExpectedNearestNeighbor = 0.5 / math.Sqrt(s.Density)
	s.ClusteringIndex = s.MeanNearestNeighbor / s.ExpectedNearestNeighbor
	s.Interpretation = Classify(s.ClusteringIndex, o.thresholds)
	return s, dists
}

func countQuadrants(positions []Position, frame Frame) Quadrants {
	midX, midY := frame.Midpoint()
	var q Quadrants
	for _, p := range positions {
		right := p.X >= midX
		lower := p.Y >= midY
		switch {
		case !right && !lower:
			q.UpperLeft++
		case right && !lower:
			q.UpperRight++
		case !right && lower:
			q.LowerLeft++
		default:
			q.LowerRight++
		}
	}
	return q
}

// meanStd returns the mean and population standard deviation. A single
// sample has zero spread.
func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 1 {
		return xs[0], 0
	}
	return stat.PopMeanStdDev(xs, nil)
}
