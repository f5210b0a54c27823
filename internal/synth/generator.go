// Package synth generates reproducible demonstration particle datasets for
// use when no measured coordinates are available.
package synth

import (
	"math"
	"math/rand"

	"github.com/san-kum/particlelab/internal/spatial"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultMedianSize = 100.0 // nm
	DefaultSizeSigma  = 0.35  // log-space spread
)

// Generator produces positions inside a fixed frame. It is not safe for
// concurrent use.
type Generator struct {
	frame  spatial.Frame
	rng    *rand.Rand
	sizes  distuv.LogNormal
	median float64
	frames int
}

// Option configures a Generator.
type Option func(*Generator)

// WithSizeDistribution sets the median diameter and log-space sigma of the
// generated sizes.
func WithSizeDistribution(median, sigma float64) Option {
	return func(g *Generator) {
		if median > 0 {
			g.median = median
		}
		if sigma > 0 {
			g.sizes.Sigma = sigma
		}
	}
}

// WithFrames spreads particles over n video frames, numbered from 1.
func WithFrames(n int) Option {
	return func(g *Generator) { g.frames = n }
}

func New(frame spatial.Frame, seed int64, opts ...Option) *Generator {
	g := &Generator{
		frame:  frame,
		rng:    rand.New(rand.NewSource(seed)),
		median: DefaultMedianSize,
		sizes:  distuv.LogNormal{Sigma: DefaultSizeSigma},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.sizes.Mu = math.Log(g.median)
	return g
}

func (g *Generator) Frame() spatial.Frame { return g.frame }

// Uniform scatters n particles uniformly over the frame. n <= 0 yields no
// particles.
func (g *Generator) Uniform(n int) []spatial.Position {
	if n <= 0 {
		return nil
	}
	out := make([]spatial.Position, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.particle(i, g.rng.Float64()*g.frame.Width, g.rng.Float64()*g.frame.Height))
	}
	return out
}

// Clustered places n particles in Gaussian clumps of standard deviation sigma
// around uniformly placed centres. Coordinates are clamped to the frame.
// n <= 0 yields no particles.
func (g *Generator) Clustered(n, clusters int, sigma float64) []spatial.Position {
	if n <= 0 {
		return nil
	}
	if clusters < 1 {
		clusters = 1
	}
	centers := make([][2]float64, clusters)
	for i := range centers {
		centers[i] = [2]float64{g.rng.Float64() * g.frame.Width, g.rng.Float64() * g.frame.Height}
	}

	out := make([]spatial.Position, 0, n)
	for i := 0; i < n; i++ {
		c := centers[i%clusters]
		x := clamp(c[0]+g.rng.NormFloat64()*sigma, 0, g.frame.Width)
		y := clamp(c[1]+g.rng.NormFloat64()*sigma, 0, g.frame.Height)
		out = append(out, g.particle(i, x, y))
	}
	return out
}

// Grid places one particle at the centre of every cell of a rows x cols
// lattice spanning the frame.
func (g *Generator) Grid(rows, cols int) []spatial.Position {
	if rows < 1 || cols < 1 {
		return nil
	}
	dx := g.frame.Width / float64(cols)
	dy := g.frame.Height / float64(rows)

	out := make([]spatial.Position, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out = append(out, g.particle(len(out), (float64(c)+0.5)*dx, (float64(r)+0.5)*dy))
		}
	}
	return out
}

func (g *Generator) particle(i int, x, y float64) spatial.Position {
	size := g.size()
	p := spatial.Position{
		X:    x,
		Y:    y,
		Size: size,
		// Rayleigh scattering grows with d^6.
		Intensity: math.Pow(size/g.median, 6),
	}
	if g.frames > 0 {
		p.Frame = i%g.frames + 1
	}
	return p
}

func (g *Generator) size() float64 {
	// Quantile(0) is zero; keep sizes strictly positive.
	p := math.Max(g.rng.Float64(), 1e-9)
	return g.sizes.Quantile(p)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
