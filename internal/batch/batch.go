// Package batch runs a list of sample analyses described in a YAML
// scenario file.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/particlelab/internal/config"
	"github.com/san-kum/particlelab/internal/experiment"
	"github.com/san-kum/particlelab/internal/spatial"
	"github.com/san-kum/particlelab/internal/storage"
	"github.com/san-kum/particlelab/internal/synth"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var ErrNoSource = errors.New("batch: sample needs either positions or synth")

// Scenario is a named set of samples sharing defaults.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Samples     []Sample `yaml:"samples"`

	// dir resolves relative position paths.
	dir string
}

// Sample overrides the base config for one analysis. Zero values inherit.
type Sample struct {
	Label           string       `yaml:"label"`
	MeasurementTemp *float64     `yaml:"measurement_temp"`
	ReferenceTemp   *float64     `yaml:"reference_temp"`
	Medium          string       `yaml:"medium"`
	Preset          string       `yaml:"preset"`
	Frame           *FrameSpec   `yaml:"frame"`
	Positions       string       `yaml:"positions"`
	Synth           *SynthSample `yaml:"synth"`
}

type FrameSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type SynthSample struct {
	Pattern string `yaml:"pattern"`
	Count   int    `yaml:"count"`
	Seed    int64  `yaml:"seed"`
}

// SampleError wraps a failure with the sample it came from.
type SampleError struct {
	Index   int
	Label   string
	Wrapped error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample %d (%s): %v", e.Index+1, e.Label, e.Wrapped)
}

func (e *SampleError) Unwrap() error {
	return e.Wrapped
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("batch: parse %s: %w", path, err)
	}
	scenario.dir = filepath.Dir(path)
	return &scenario, nil
}

// RunScenario analyses every sample in order. It stops at the first failure
// and returns the results gathered so far together with a *SampleError.
// Cancellation is checked between samples. A nil logger discards output.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, logger *zap.Logger) ([]*experiment.Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]*experiment.Result, 0, len(scenario.Samples))
	registry := synth.NewRegistry()

	for i, s := range scenario.Samples {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		label := s.Label
		if label == "" {
			label = fmt.Sprintf("sample-%d", i+1)
		}
		logger.Debug("running sample", zap.String("scenario", scenario.Name), zap.Int("index", i+1), zap.String("label", label))

		result, err := runSample(ctx, scenario, s, label, base, registry)
		if err != nil {
			return results, &SampleError{Index: i, Label: label, Wrapped: err}
		}

		if result.Spatial != nil {
			logger.Info("sample analysed",
				zap.String("label", label),
				zap.Int("particles", result.Spatial.Count),
				zap.Float64("clustering_index", result.Spatial.ClusteringIndex),
				zap.Float64("factor", result.Correction.Factor))
		} else {
			logger.Warn("sample has no particles", zap.String("label", label))
		}
		results = append(results, result)
	}

	return results, nil
}

func runSample(ctx context.Context, scenario *Scenario, s Sample, label string, base *config.Config, registry *synth.Registry) (*experiment.Result, error) {
	cfg := *base
	if s.Preset != "" {
		p, ok := config.GetPreset(s.Preset)
		if !ok {
			return nil, fmt.Errorf("%w: %s", config.ErrUnknownPreset, s.Preset)
		}
		p.Apply(&cfg)
	}
	if s.MeasurementTemp != nil {
		cfg.MeasurementTemp = *s.MeasurementTemp
	}
	if s.ReferenceTemp != nil {
		cfg.ReferenceTemp = *s.ReferenceTemp
	}
	if s.Medium != "" {
		cfg.Medium = s.Medium
	}
	if s.Frame != nil {
		cfg.Frame = config.FrameConfig{Width: s.Frame.Width, Height: s.Frame.Height}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	positions, source, err := loadPositions(scenario, s, &cfg, registry)
	if err != nil {
		return nil, err
	}

	exp := experiment.New(experiment.FromConfig(label, source, &cfg))
	if err := exp.Setup(positions); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

func loadPositions(scenario *Scenario, s Sample, cfg *config.Config, registry *synth.Registry) ([]spatial.Position, string, error) {
	switch {
	case s.Positions != "":
		path := s.Positions
		if !filepath.IsAbs(path) && scenario.dir != "" {
			path = filepath.Join(scenario.dir, path)
		}
		positions, err := storage.ReadPositionsFile(path)
		return positions, path, err

	case s.Synth != nil:
		if s.Synth.Count < 0 {
			return nil, "", config.ErrInvalidSynth
		}
		pattern := s.Synth.Pattern
		if pattern == "" {
			pattern = cfg.Synth.Pattern
		}
		count := s.Synth.Count
		if count == 0 {
			count = cfg.Synth.Count
		}
		seed := s.Synth.Seed
		if seed == 0 {
			seed = cfg.Seed
		}
		cfg.Seed = seed
		positions, err := registry.Generate(pattern, cfg.SpatialFrame(), count, seed,
			synth.WithSizeDistribution(cfg.Synth.MedianSize, cfg.Synth.SizeSigma),
			synth.WithFrames(cfg.Synth.Frames))
		return positions, "synth:" + pattern, err
	}
	return nil, "", ErrNoSource
}
