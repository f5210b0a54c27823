package spatial

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// DefaultBruteForceLimit is the largest input scanned pairwise. The pairwise
// scan is O(n^2); above the limit a k-d tree is used instead.
const DefaultBruteForceLimit = 512

// minChunk is the smallest per-worker share of tree queries.
const minChunk = 256

// NearestNeighborDistances returns, for every position, the distance to its
// closest other position. Fewer than two positions yield all zeros.
func NearestNeighborDistances(positions []Position) []float64 {
	return nearestNeighbors(positions, DefaultBruteForceLimit)
}

func nearestNeighbors(positions []Position, bruteForceLimit int) []float64 {
	out := make([]float64, len(positions))
	if len(positions) < 2 {
		return out
	}
	if len(positions) <= bruteForceLimit {
		bruteForce(positions, out)
		return out
	}
	treeSearch(positions, out)
	return out
}

func bruteForce(positions []Position, out []float64) {
	for i := range out {
		out[i] = math.Inf(1)
	}
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			d := positions[i].Dist(positions[j])
			if d < out[i] {
				out[i] = d
			}
			if d < out[j] {
				out[j] = d
			}
		}
	}
}

func treeSearch(positions []Position, out []float64) {
	pts := make(points, len(positions))
	for i, p := range positions {
		pts[i] = point{x: p.X, y: p.Y}
	}
	// kdtree.New reorders pts in place; queries below use positions.
	tree := kdtree.New(pts, false)

	parallelFor(len(positions), minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			// Keep two: the query point itself and its nearest neighbour.
			keeper := kdtree.NewNKeeper(2)
			tree.NearestSet(keeper, point{x: positions[i].X, y: positions[i].Y})

			dists := make([]float64, 0, 2)
			for _, item := range keeper.Heap {
				if item.Comparable == nil {
					continue
				}
				dists = append(dists, item.Dist)
			}
			sort.Float64s(dists)
			out[i] = math.Sqrt(dists[len(dists)-1])
		}
	})
}

// parallelFor runs fn over [0, n) split into contiguous chunks. Each chunk
// owns a disjoint range, so fn may write to per-index slots without locking.
func parallelFor(n, chunk int, fn func(start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if n <= chunk || workers <= 1 {
		fn(0, n)
		return
	}
	if n/chunk < workers {
		workers = n / chunk
	}

	size := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// point is the k-d tree view of a position.
type point struct{ x, y float64 }

func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(point)
	switch d {
	case 0:
		return p.x - q.x
	case 1:
		return p.y - q.y
	default:
		panic("spatial: illegal dimension")
	}
}

func (p point) Dims() int { return 2 }

// Distance returns the squared Euclidean distance, as kdtree expects.
func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

type points []point

func (p points) Index(i int) kdtree.Comparable         { return p[i] }
func (p points) Len() int                              { return len(p) }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p points) Pivot(d kdtree.Dim) int {
	pl := plane{points: p, Dim: d}
	return kdtree.Partition(pl, kdtree.MedianOfRandoms(pl, 100))
}

type plane struct {
	points
	kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.points[i].x < p.points[j].x
	case 1:
		return p.points[i].y < p.points[j].y
	default:
		panic("spatial: illegal dimension")
	}
}

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{points: p.points[start:end], Dim: p.Dim}
}

func (p plane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
