package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/particlelab/internal/spatial"
	"github.com/san-kum/particlelab/internal/viscosity"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMeasurementTemp = 25.0
	DefaultReferenceTemp   = 25.0
	DefaultMedium          = "Water"
	DefaultFrameWidth      = 640.0
	DefaultFrameHeight     = 480.0
	DefaultSynthCount      = 300
	DefaultSynthPattern    = "uniform"
	DefaultSeed            = 42
)

var (
	ErrInvalidTemperature = errors.New("config: temperature must lie above the viscosity fit singularity")
	ErrInvalidSynth       = errors.New("config: synth count and frames must not be negative")
	ErrUnknownPreset      = errors.New("config: unknown preset")
)

type Config struct {
	MeasurementTemp float64       `yaml:"measurement_temp"`
	ReferenceTemp   float64       `yaml:"reference_temp"`
	Medium          string        `yaml:"medium"`
	Frame           FrameConfig   `yaml:"frame"`
	Clustering      ClusterConfig `yaml:"clustering"`
	Synth           SynthConfig   `yaml:"synth"`
	Seed            int64         `yaml:"seed"`
}

type FrameConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ClusterConfig struct {
	ClusteredBelow  float64 `yaml:"clustered_below"`
	DispersedAbove  float64 `yaml:"dispersed_above"`
	BruteForceLimit int     `yaml:"brute_force_limit"`
}

type SynthConfig struct {
	Pattern    string  `yaml:"pattern"`
	Count      int     `yaml:"count"`
	MedianSize float64 `yaml:"median_size"`
	SizeSigma  float64 `yaml:"size_sigma"`
	Frames     int     `yaml:"frames"`
}

func DefaultConfig() *Config {
	return &Config{
		MeasurementTemp: DefaultMeasurementTemp,
		ReferenceTemp:   DefaultReferenceTemp,
		Medium:          DefaultMedium,
		Frame: FrameConfig{
			Width:  DefaultFrameWidth,
			Height: DefaultFrameHeight,
		},
		Clustering: ClusterConfig{
			ClusteredBelow:  spatial.DefaultClusteredBelow,
			DispersedAbove:  spatial.DefaultDispersedAbove,
			BruteForceLimit: spatial.DefaultBruteForceLimit,
		},
		Synth: SynthConfig{
			Pattern:    DefaultSynthPattern,
			Count:      DefaultSynthCount,
			MedianSize: 100,
			SizeSigma:  0.35,
		},
		Seed: DefaultSeed,
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over base, which is modified and returned.
// Keys absent from the file keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values that would otherwise produce meaningless
// statistics. Unknown media are allowed and fall back to water.
func (c *Config) Validate() error {
	minTemp := viscosity.VogelC - viscosity.KelvinOffset
	if c.MeasurementTemp <= minTemp || c.ReferenceTemp <= minTemp {
		return ErrInvalidTemperature
	}
	if c.Synth.Count < 0 || c.Synth.Frames < 0 {
		return ErrInvalidSynth
	}
	if err := c.SpatialFrame().Validate(); err != nil {
		return err
	}
	return c.Thresholds().Validate()
}

// Resolve layers the defaults, the named preset, the config file and
// overrides, each over the previous one, and validates the result. Empty
// preset and file names are skipped; overrides may be nil.
func Resolve(preset, file string, overrides func(*Config)) (*Config, error) {
	cfg := DefaultConfig()

	if preset != "" {
		p, ok := GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, preset, ListPresets())
		}
		p.Apply(cfg)
	}

	if file != "" {
		if _, err := LoadOver(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if overrides != nil {
		overrides(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) SpatialFrame() spatial.Frame {
	return spatial.Frame{Width: c.Frame.Width, Height: c.Frame.Height}
}

func (c *Config) Thresholds() spatial.Thresholds {
	return spatial.Thresholds{
		Clustered: c.Clustering.ClusteredBelow,
		Dispersed: c.Clustering.DispersedAbove,
	}
}

// AnalyzeOptions turns the clustering settings into spatial.Analyze options.
func (c *Config) AnalyzeOptions() []spatial.Option {
	opts := []spatial.Option{spatial.WithThresholds(c.Thresholds())}
	if c.Clustering.BruteForceLimit > 0 {
		opts = append(opts, spatial.WithBruteForceLimit(c.Clustering.BruteForceLimit))
	}
	return opts
}

func (c *Config) Correction() viscosity.Correction {
	return viscosity.CorrectionFactor(c.MeasurementTemp, c.ReferenceTemp, c.Medium)
}
