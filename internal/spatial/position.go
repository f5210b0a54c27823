package spatial

import "math"

// Position is one tracked particle. Frame and Intensity are optional
// metadata; zero means not recorded.
type Position struct {
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	Size      float64 `json:"size" yaml:"size"`
	Frame     int     `json:"frame,omitempty" yaml:"frame,omitempty"`
	Intensity float64 `json:"intensity,omitempty" yaml:"intensity,omitempty"`
}

// Dist returns the Euclidean distance between two positions.
func (p Position) Dist(q Position) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Frame is the field of view the positions were observed in.
type Frame struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

func (f Frame) Area() float64 { return f.Width * f.Height }

func (f Frame) Midpoint() (float64, float64) { return f.Width / 2, f.Height / 2 }

// Validate reports ErrInvalidFrame for non-positive or non-finite dimensions.
func (f Frame) Validate() error {
	for _, v := range []float64{f.Width, f.Height} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidFrame
		}
	}
	return nil
}

// Sizes extracts the size column.
func Sizes(positions []Position) []float64 {
	out := make([]float64, len(positions))
	for i, p := range positions {
		out[i] = p.Size
	}
	return out
}
