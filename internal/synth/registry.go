package synth

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/particlelab/internal/spatial"
)

// Pattern generates n positions with g.
type Pattern func(g *Generator, n int) []spatial.Position

type Registry struct {
	patterns map[string]Pattern
}

func NewRegistry() *Registry {
	r := &Registry{patterns: make(map[string]Pattern)}

	r.patterns["uniform"] = func(g *Generator, n int) []spatial.Position {
		return g.Uniform(n)
	}
	r.patterns["clustered"] = func(g *Generator, n int) []spatial.Position {
		clusters := n / 100
		if clusters < 1 {
			clusters = 1
		}
		sigma := 0.02 * math.Min(g.frame.Width, g.frame.Height)
		return g.Clustered(n, clusters, sigma)
	}
	r.patterns["grid"] = func(g *Generator, n int) []spatial.Position {
		rows, cols := gridShape(n)
		grid := g.Grid(rows, cols)
		if len(grid) > n {
			grid = grid[:n]
		}
		return grid
	}

	return r
}

// gridShape picks the lattice for n particles. When n factors into rows x
// cols with cols at most twice rows, every row is full. Otherwise the lattice
// is ceil(sqrt(n)) columns wide and only the last row is partial.
func gridShape(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	for r := int(math.Sqrt(float64(n))); r >= 1; r-- {
		if n%r == 0 {
			if c := n / r; c <= 2*r {
				return r, c
			}
			break
		}
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return rows, cols
}

func (r *Registry) Get(name string) (Pattern, error) {
	fn, ok := r.patterns[name]
	if !ok {
		return nil, fmt.Errorf("unknown pattern: %s", name)
	}
	return fn, nil
}

// List returns the pattern names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.patterns))
	for name := range r.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate is a convenience for Get followed by a call with a fresh generator.
func (r *Registry) Generate(name string, frame spatial.Frame, n int, seed int64, opts ...Option) ([]spatial.Position, error) {
	fn, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return fn(New(frame, seed, opts...), n), nil
}
