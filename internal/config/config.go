// Package config loads the YAML configuration file: reference pitch,
// search constraints, artificial harmonic intervals and custom instrument
// files. Command-line flags override these values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pjcdawkins/harmonics/internal/harmonic"
	"github.com/pjcdawkins/harmonics/internal/instrument"
	"github.com/pjcdawkins/harmonics/internal/lookup"
	"github.com/pjcdawkins/harmonics/internal/pitch"
)

// Config is the configuration file. Unset fields keep their defaults.
type Config struct {
	// Reference is the frequency of A4 in hertz.
	Reference float64 `yaml:"reference,omitempty"`

	Constraints Constraints `yaml:"constraints,omitempty"`

	// Intervals lists the artificial harmonic fingerings to search, by
	// name ("fourth", "major-third", ...). An explicit empty list disables
	// artificial harmonics.
	Intervals []string `yaml:"intervals,omitempty"`

	// Instruments lists CUE files defining custom instruments. Relative
	// paths are resolved against the configuration file's directory.
	Instruments []string `yaml:"instruments,omitempty"`

	// History is the path of the lookup history database.
	History string `yaml:"history,omitempty"`
}

// Constraints overrides individual search constraints.
type Constraints struct {
	MinStopDistance *float64 `yaml:"min_stop_distance_mm,omitempty"`
	MaxStopDistance *float64 `yaml:"max_stop_distance_mm,omitempty"`
	MinBowedLength  *float64 `yaml:"min_bowed_distance_mm,omitempty"`
	MaxCents        *float64 `yaml:"max_cents,omitempty"`
}

// Apply overlays the set fields onto c.
func (o Constraints) Apply(c harmonic.Constraints) harmonic.Constraints {
	if o.MinStopDistance != nil {
		c.MinStopDistance = *o.MinStopDistance
	}
	if o.MaxStopDistance != nil {
		c.MaxStopDistance = *o.MaxStopDistance
	}
	if o.MinBowedLength != nil {
		c.MinBowedLength = *o.MinBowedLength
	}
	if o.MaxCents != nil {
		c.MaxCentsDeviation = *o.MaxCents
	}
	return c
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Reference: pitch.DefaultReference}
}

// Load reads a configuration file. Instrument paths are made relative to
// the file's directory.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	base := filepath.Dir(path)
	for i, p := range cfg.Instruments {
		if !filepath.IsAbs(p) {
			cfg.Instruments[i] = filepath.Join(base, p)
		}
	}
	if cfg.History != "" && cfg.History != ":memory:" && !filepath.IsAbs(cfg.History) {
		cfg.History = filepath.Join(base, cfg.History)
	}
	return cfg, nil
}

// Parse decodes YAML configuration from r and validates it. Unknown fields
// are rejected.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the reference, constraints and interval names.
func (c *Config) Validate() error {
	if _, err := c.Defaults(); err != nil {
		return err
	}
	return nil
}

// Defaults converts the configuration to lookup defaults.
func (c *Config) Defaults() (lookup.Defaults, error) {
	calc, err := c.calculator()
	if err != nil {
		return lookup.Defaults{}, err
	}
	return lookup.Defaults{
		Constraints: calc.Constraints(),
		Intervals:   calc.Intervals(),
	}, nil
}

// calculator builds a Calculator from the configuration, which validates
// every setting the same way a search would.
func (c *Config) calculator() (*harmonic.Calculator, error) {
	opts := []harmonic.Option{
		harmonic.WithReference(c.Reference),
		harmonic.WithConstraints(c.Constraints.Apply(harmonic.DefaultConstraints())),
	}
	if c.Intervals != nil {
		ivs, err := harmonic.ParseIntervals(c.Intervals)
		if err != nil {
			return nil, err
		}
		opts = append(opts, harmonic.WithIntervals(ivs...))
	}
	return harmonic.NewCalculator(opts...)
}

// Catalog builds the instrument catalog: the presets plus every instrument
// defined in the configured CUE files, tuned against Reference.
func (c *Config) Catalog() (*instrument.Catalog, error) {
	var custom []*instrument.Instrument
	for _, path := range c.Instruments {
		insts, err := instrument.LoadCUE(path, c.Reference)
		if err != nil {
			return nil, err
		}
		custom = append(custom, insts...)
	}
	return instrument.NewCatalog(c.Reference, custom...)
}

// Service builds a lookup service from the configuration.
func (c *Config) Service() (*lookup.Service, error) {
	catalog, err := c.Catalog()
	if err != nil {
		return nil, err
	}
	defaults, err := c.Defaults()
	if err != nil {
		return nil, err
	}
	return lookup.NewService(catalog).WithDefaults(defaults), nil
}
