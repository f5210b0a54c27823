package spatial_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particlelab/internal/spatial"
	"github.com/san-kum/particlelab/internal/synth"
)

var _ = Describe("Analyze", func() {
	frame := spatial.Frame{Width: 100, Height: 100}

	It("returns nil for an empty position list", func() {
		Expect(spatial.Analyze(nil, frame)).To(BeNil())
		Expect(spatial.Analyze([]spatial.Position{}, frame)).To(BeNil())
	})

	Context("with a single particle", func() {
		var s *spatial.Stats

		BeforeEach(func() {
			s = spatial.Analyze([]spatial.Position{{X: 12, Y: 34, Size: 90}}, frame)
		})

		It("reports the particle as the mean position with no spread", func() {
			Expect(s).NotTo(BeNil())
			Expect(s.Count).To(Equal(1))
			Expect(s.MeanX).To(Equal(12.0))
			Expect(s.MeanY).To(Equal(34.0))
			Expect(s.StdX).To(BeZero())
			Expect(s.StdY).To(BeZero())
		})

		It("leaves nearest-neighbour figures undefined", func() {
			Expect(s.MeanNearestNeighbor).To(BeZero())
			Expect(s.ClusteringIndex).To(BeZero())
			Expect(s.Interpretation).To(Equal(spatial.NotApplicable))
		})
	})

	Context("with one particle at the centre of each quadrant", func() {
		var s *spatial.Stats

		BeforeEach(func() {
			s = spatial.Analyze([]spatial.Position{
				{X: 25, Y: 25}, {X: 75, Y: 25}, {X: 25, Y: 75}, {X: 75, Y: 75},
			}, frame)
		})

		It("counts one particle per quadrant", func() {
			Expect(s.Quadrants).To(Equal(spatial.Quadrants{UpperLeft: 1, UpperRight: 1, LowerLeft: 1, LowerRight: 1}))
			Expect(s.Quadrants.Total()).To(Equal(s.Count))
		})

		It("computes the centroid, spread and neighbour distances", func() {
			Expect(s.MeanX).To(BeNumerically("~", 50, 1e-12))
			Expect(s.MeanY).To(BeNumerically("~", 50, 1e-12))
			Expect(s.StdX).To(BeNumerically("~", 25, 1e-12))
			Expect(s.StdY).To(BeNumerically("~", 25, 1e-12))
			Expect(s.MeanNearestNeighbor).To(BeNumerically("~", 50, 1e-12))
			Expect(s.ExpectedNearestNeighbor).To(BeNumerically("~", 25, 1e-12))
			Expect(s.ClusteringIndex).To(BeNumerically("~", 2, 1e-12))
			Expect(s.Interpretation).To(Equal(spatial.Dispersed))
		})
	})

	It("puts particles on the midlines in the right and lower quadrants", func() {
		s := spatial.Analyze([]spatial.Position{{X: 50, Y: 10}, {X: 10, Y: 50}, {X: 50, Y: 50}}, frame)
		Expect(s.Quadrants).To(Equal(spatial.Quadrants{UpperRight: 1, LowerLeft: 1, LowerRight: 1}))
	})

	It("treats a frame without area as not applicable", func() {
		s := spatial.Analyze([]spatial.Position{{X: 1, Y: 1}, {X: 2, Y: 2}}, spatial.Frame{})
		Expect(s).NotTo(BeNil())
		Expect(s.Density).To(BeZero())
		Expect(s.ClusteringIndex).To(BeZero())
		Expect(s.Interpretation).To(Equal(spatial.NotApplicable))
	})

	Describe("clustering index against synthetic fixtures", func() {
		big := spatial.Frame{Width: 1000, Height: 1000}

		It("stays close to 1 for uniformly random points", func() {
			pos := synth.New(big, 2024).Uniform(1000)
			s := spatial.Analyze(pos, big)
			Expect(s.ClusteringIndex).To(BeNumerically("~", 1.0, 0.1))
			Expect(s.Interpretation).To(Equal(spatial.Random))
		})

		It("falls below 0.8 for tight clusters", func() {
			pos := synth.New(big, 5).Clustered(500, 5, 10)
			s := spatial.Analyze(pos, big)
			Expect(s.ClusteringIndex).To(BeNumerically("<", 0.8))
			Expect(s.Interpretation).To(Equal(spatial.Clustered))
		})

		It("rises above 1.2 for an evenly spaced grid", func() {
			pos := synth.New(big, 5).Grid(20, 20)
			s := spatial.Analyze(pos, big)
			Expect(s.MeanNearestNeighbor).To(BeNumerically("~", 50, 1e-9))
			Expect(s.ClusteringIndex).To(BeNumerically(">", 1.2))
			Expect(s.Interpretation).To(Equal(spatial.Dispersed))
		})
	})

	It("honours custom thresholds", func() {
		pos := synth.New(frame, 1).Grid(4, 4)
		s := spatial.Analyze(pos, frame, spatial.WithThresholds(spatial.Thresholds{Clustered: 0.5, Dispersed: 3}))
		Expect(s.ClusteringIndex).To(BeNumerically("~", 2, 1e-9))
		Expect(s.Interpretation).To(Equal(spatial.Random))
		Expect(s.Thresholds.Dispersed).To(Equal(3.0))
	})

	It("gives the same answer with and without the k-d tree", func() {
		big := spatial.Frame{Width: 800, Height: 600}
		pos := synth.New(big, 77).Clustered(900, 6, 40)

		brute := spatial.Analyze(pos, big, spatial.WithBruteForceLimit(len(pos)))
		tree := spatial.Analyze(pos, big, spatial.WithBruteForceLimit(0))

		Expect(tree.MeanNearestNeighbor).To(BeNumerically("~", brute.MeanNearestNeighbor, 1e-9))
		Expect(tree.ClusteringIndex).To(BeNumerically("~", brute.ClusteringIndex, 1e-9))
	})
})

var _ = Describe("AnalyzeWithDistances", func() {
	frame := spatial.Frame{Width: 200, Height: 200}

	It("returns the distances behind the mean", func() {
		pos := synth.New(frame, 4).Uniform(50)
		s, dists := spatial.AnalyzeWithDistances(pos, frame)

		Expect(dists).To(HaveLen(len(pos)))
		Expect(dists).To(Equal(spatial.NearestNeighborDistances(pos)))

		sum := 0.0
		for _, d := range dists {
			sum += d
		}
		Expect(s.MeanNearestNeighbor).To(BeNumerically("~", sum/float64(len(dists)), 1e-9))
	})

	It("uses the configured search for both outputs", func() {
		pos := synth.New(frame, 9).Clustered(40, 2, 15)
		s, dists := spatial.AnalyzeWithDistances(pos, frame, spatial.WithBruteForceLimit(0))
		Expect(dists).To(HaveLen(40))
		Expect(s).To(Equal(spatial.Analyze(pos, frame, spatial.WithBruteForceLimit(0))))
		for i, d := range spatial.NearestNeighborDistances(pos) {
			Expect(dists[i]).To(BeNumerically("~", d, 1e-9))
		}
	})

	It("returns nothing for empty input", func() {
		s, dists := spatial.AnalyzeWithDistances(nil, frame)
		Expect(s).To(BeNil())
		Expect(dists).To(BeNil())
	})
})

var _ = Describe("NearestNeighborDistances", func() {
	It("returns zeros for fewer than two positions", func() {
		Expect(spatial.NearestNeighborDistances(nil)).To(BeEmpty())
		Expect(spatial.NearestNeighborDistances([]spatial.Position{{X: 3, Y: 4}})).To(Equal([]float64{0}))
	})

	It("finds the closest other particle for each position", func() {
		d := spatial.NearestNeighborDistances([]spatial.Position{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 10}})
		Expect(d).To(HaveLen(3))
		Expect(d[0]).To(BeNumerically("~", 5, 1e-12))
		Expect(d[1]).To(BeNumerically("~", 5, 1e-12))
		Expect(d[2]).To(BeNumerically("~", 6, 1e-12))
	})

	It("reports zero for coincident particles", func() {
		d := spatial.NearestNeighborDistances([]spatial.Position{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 9, Y: 9}})
		Expect(d[0]).To(BeZero())
		Expect(d[1]).To(BeZero())
		Expect(d[2]).To(BeNumerically("~", math.Hypot(8, 8), 1e-12))
	})
})

var _ = Describe("Classify", func() {
	DescribeTable("maps the index onto an interpretation",
		func(index float64, want spatial.Interpretation) {
			Expect(spatial.Classify(index, spatial.DefaultThresholds)).To(Equal(want))
		},
		Entry("strongly clustered", 0.3, spatial.Clustered),
		Entry("just below the band", 0.79, spatial.Clustered),
		Entry("lower edge", 0.8, spatial.Random),
		Entry("csr", 1.0, spatial.Random),
		Entry("upper edge", 1.2, spatial.Random),
		Entry("just above the band", 1.21, spatial.Dispersed),
	)
})

var _ = Describe("Validation", func() {
	It("rejects unordered thresholds", func() {
		Expect(spatial.DefaultThresholds.Validate()).To(Succeed())
		Expect(spatial.Thresholds{Clustered: 1.5, Dispersed: 1.0}.Validate()).To(MatchError(spatial.ErrInvalidThresholds))
		Expect(spatial.Thresholds{Clustered: 0, Dispersed: 1.0}.Validate()).To(MatchError(spatial.ErrInvalidThresholds))
	})

	It("rejects degenerate frames", func() {
		Expect(spatial.Frame{Width: 10, Height: 10}.Validate()).To(Succeed())
		Expect(spatial.Frame{Width: 0, Height: 10}.Validate()).To(MatchError(spatial.ErrInvalidFrame))
		Expect(spatial.Frame{Width: 10, Height: math.Inf(1)}.Validate()).To(MatchError(spatial.ErrInvalidFrame))
	})
})
