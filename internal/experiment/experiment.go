package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/particlelab/internal/compare"
	"github.com/san-kum/particlelab/internal/config"
	"github.com/san-kum/particlelab/internal/sizing"
	"github.com/san-kum/particlelab/internal/spatial"
	"github.com/san-kum/particlelab/internal/storage"
	"github.com/san-kum/particlelab/internal/viscosity"
)

var ErrNotSetup = errors.New("experiment: not setup")

// Config describes one sample analysis: the measurement condition and the
// frame the positions were observed in.
type Config struct {
	Label           string
	Source          string
	MeasurementTemp float64
	ReferenceTemp   float64
	Medium          string
	Frame           spatial.Frame
	Thresholds      spatial.Thresholds
	BruteForceLimit int
	Seed            int64
}

// FromConfig copies the analysis settings out of a loaded config file.
func FromConfig(label, source string, c *config.Config) Config {
	return Config{
		Label:           label,
		Source:          source,
		MeasurementTemp: c.MeasurementTemp,
		ReferenceTemp:   c.ReferenceTemp,
		Medium:          c.Medium,
		Frame:           c.SpatialFrame(),
		Thresholds:      c.Thresholds(),
		BruteForceLimit: c.Clustering.BruteForceLimit,
		Seed:            c.Seed,
	}
}

type Experiment struct {
	cfg       Config
	positions []spatial.Position
	ready     bool
}

func New(cfg Config) *Experiment {
	if cfg.Thresholds == (spatial.Thresholds{}) {
		cfg.Thresholds = spatial.DefaultThresholds
	}
	return &Experiment{cfg: cfg}
}

// Setup validates the frame and thresholds and attaches the positions.
func (e *Experiment) Setup(positions []spatial.Position) error {
	if err := e.cfg.Frame.Validate(); err != nil {
		return fmt.Errorf("%s: %w", e.cfg.Label, err)
	}
	if err := e.cfg.Thresholds.Validate(); err != nil {
		return fmt.Errorf("%s: %w", e.cfg.Label, err)
	}
	e.positions = positions
	e.ready = true
	return nil
}

// Result holds everything derived from one sample.
type Result struct {
	Label     string
	Source    string
	Seed      int64
	Positions []spatial.Position

	Correction       viscosity.Correction
	Spatial          *spatial.Stats
	NearestNeighbors []float64
	Sizes            *sizing.Summary
	CorrectedSizes   *sizing.Summary
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if !e.ready {
		return nil, ErrNotSetup
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := []spatial.Option{spatial.WithThresholds(e.cfg.Thresholds)}
	if e.cfg.BruteForceLimit > 0 {
		opts = append(opts, spatial.WithBruteForceLimit(e.cfg.BruteForceLimit))
	}

	c := viscosity.CorrectionFactor(e.cfg.MeasurementTemp, e.cfg.ReferenceTemp, e.cfg.Medium)
	sizes := sizing.Summarize(positiveSizes(e.positions))
	stats, nn := spatial.AnalyzeWithDistances(e.positions, e.cfg.Frame, opts...)

	return &Result{
		Label:            e.cfg.Label,
		Source:           e.cfg.Source,
		Seed:             e.cfg.Seed,
		Positions:        e.positions,
		Correction:       c,
		Spatial:          stats,
		NearestNeighbors: nn,
		Sizes:            sizes,
		CorrectedSizes:   sizes.Corrected(c),
	}, nil
}

// Record converts the result into a storable run.
func (r *Result) Record() *storage.Run {
	return &storage.Run{
		Label:          r.Label,
		Source:         r.Source,
		Seed:           r.Seed,
		Correction:     r.Correction,
		Spatial:        r.Spatial,
		Sizes:          r.Sizes,
		CorrectedSizes: r.CorrectedSizes,
	}
}

// Sample is the comparison view of the result. Sizes are the corrected
// ones, so samples measured under different conditions line up.
func (r *Result) Sample() compare.Sample {
	return compare.Sample{Label: r.Label, Spatial: r.Spatial, Sizes: r.CorrectedSizes}
}

// positiveSizes drops unrecorded (zero) sizes.
func positiveSizes(positions []spatial.Position) []float64 {
	out := make([]float64, 0, len(positions))
	for _, p := range positions {
		if p.Size > 0 {
			out = append(out, p.Size)
		}
	}
	return out
}
