// Package config loads analysis tuning from an optional YAML file. Missing
// files and fields fall back to the built-in defaults, so a config file is
// never required.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Loganavter/Tkonverter-sub001/pkg/chart"
)

// ConfigDirName is the per-project settings directory searched by Discover.
const ConfigDirName = ".tkonverter"

// ConfigFileName is the analysis settings file inside ConfigDirName.
const ConfigFileName = "analysis.yaml"

// Config mirrors the chart tuning plus snapshot defaults.
type Config struct {
	Chart struct {
		HoleRadius   float64   `yaml:"hole_radius"`
		RingWidth    float64   `yaml:"ring_width"`
		MaxDepth     int       `yaml:"max_depth"`
		Margin       float64   `yaml:"margin"`
		Saturations  []float64 `yaml:"saturations"`
		Brightnesses []float64 `yaml:"brightnesses"`
		DarkenFactor float64   `yaml:"darken_factor"`
	} `yaml:"chart"`

	Snapshot struct {
		Width      int    `yaml:"width"`
		Height     int    `yaml:"height"`
		Background string `yaml:"background"`
		ShowLabels bool   `yaml:"show_labels"`
	} `yaml:"snapshot"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	t := chart.DefaultTuning()
	cfg.Chart.HoleRadius = t.HoleRadius
	cfg.Chart.RingWidth = t.RingWidth
	cfg.Chart.MaxDepth = t.MaxDepth
	cfg.Chart.Margin = t.Margin
	cfg.Chart.Saturations = t.Saturations
	cfg.Chart.Brightnesses = t.Brightnesses
	cfg.Chart.DarkenFactor = t.DarkenFactor

	cfg.Snapshot.Width = 600
	cfg.Snapshot.Height = 600
	cfg.Snapshot.Background = "#ffffff"
	cfg.Snapshot.ShowLabels = true
	return cfg
}

// Load reads a config file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects tunings that would produce degenerate or unbounded
// layouts.
func (c Config) Validate() error {
	if c.Chart.RingWidth <= 0 {
		return fmt.Errorf("config: ring_width must be positive, got %v", c.Chart.RingWidth)
	}
	if c.Chart.HoleRadius < 0 {
		return fmt.Errorf("config: hole_radius must not be negative, got %v", c.Chart.HoleRadius)
	}
	if c.Chart.MaxDepth < 1 {
		return fmt.Errorf("config: max_depth must be at least 1, got %d", c.Chart.MaxDepth)
	}
	if c.Chart.Margin <= 0 || c.Chart.Margin > 1 {
		return fmt.Errorf("config: margin must be in (0, 1], got %v", c.Chart.Margin)
	}
	if c.Chart.DarkenFactor <= 0 || c.Chart.DarkenFactor > 1 {
		return fmt.Errorf("config: darken_factor must be in (0, 1], got %v", c.Chart.DarkenFactor)
	}
	return nil
}

// Tuning converts the chart section into the layout engine's constants.
func (c Config) Tuning() chart.Tuning {
	return chart.Tuning{
		HoleRadius:   c.Chart.HoleRadius,
		RingWidth:    c.Chart.RingWidth,
		MaxDepth:     c.Chart.MaxDepth,
		Margin:       c.Chart.Margin,
		Saturations:  c.Chart.Saturations,
		Brightnesses: c.Chart.Brightnesses,
		DarkenFactor: c.Chart.DarkenFactor,
	}
}
