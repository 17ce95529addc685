package cli

import (
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/pjcdawkins/harmonics/internal/config"
	"github.com/pjcdawkins/harmonics/internal/harmonic"
)

// CatalogOptions holds the flags that select the configuration file,
// custom instruments and reference pitch.
type CatalogOptions struct {
	Config      string
	Instruments []string
	Reference   float64
}

// SearchOptions holds the flags that override search constraints and
// intervals.
type SearchOptions struct {
	MinStopDistance float64
	MaxStopDistance float64
	MinBowedLength  float64
	MaxCents        float64
	Intervals       []string
}

func addCatalogFlags(fs *pflag.FlagSet, o *CatalogOptions) {
	fs.StringVar(&o.Config, "config", "", "path to YAML configuration file")
	fs.StringSliceVar(&o.Instruments, "instruments", nil, "CUE files defining custom instruments")
	fs.Float64Var(&o.Reference, "reference", 0, "frequency of A4 in Hz (default 440)")
}

func addSearchFlags(fs *pflag.FlagSet, o *SearchOptions) {
	d := harmonic.DefaultConstraints()
	fs.Float64Var(&o.MinStopDistance, "min-stop-distance", d.MinStopDistance, "minimum distance between stops in mm")
	fs.Float64Var(&o.MaxStopDistance, "max-stop-distance", d.MaxStopDistance, "maximum distance between stops in mm")
	fs.Float64Var(&o.MinBowedLength, "min-bowed", d.MinBowedLength, "minimum bowed string length in mm")
	fs.Float64Var(&o.MaxCents, "max-cents", d.MaxCentsDeviation, "maximum deviation from the target in cents")
	fs.StringSliceVar(&o.Intervals, "intervals", nil, "artificial harmonic intervals (empty to disable)")
}

// loadConfig reads the configuration file, if any, and overlays the flags
// that were set on the command line. Files are reported through f in
// verbose mode.
func loadConfig(f *OutputFormatter, fs *pflag.FlagSet, c *CatalogOptions, s *SearchOptions) (*config.Config, error) {
	cfg := config.Default()
	if c.Config != "" {
		f.VerboseLog("Loading config %s", c.Config)
		var err error
		if cfg, err = config.Load(c.Config); err != nil {
			return nil, err
		}
		slog.Debug("config loaded", "path", c.Config)
	}

	if fs.Changed("reference") {
		cfg.Reference = c.Reference
	}
	cfg.Instruments = append(cfg.Instruments, c.Instruments...)
	for _, path := range cfg.Instruments {
		f.VerboseLog("Loading instruments %s", path)
	}

	if s != nil {
		overlay := func(flag string, v float64, dst **float64) {
			if fs.Changed(flag) {
				*dst = &v
			}
		}
		overlay("min-stop-distance", s.MinStopDistance, &cfg.Constraints.MinStopDistance)
		overlay("max-stop-distance", s.MaxStopDistance, &cfg.Constraints.MaxStopDistance)
		overlay("min-bowed", s.MinBowedLength, &cfg.Constraints.MinBowedLength)
		overlay("max-cents", s.MaxCents, &cfg.Constraints.MaxCents)
		if fs.Changed("intervals") {
			cfg.Intervals = append([]string{}, s.Intervals...)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configFailure reports a failure to load settings or build the catalog.
func configFailure(f *OutputFormatter, err error) error {
	code := ErrorCode(err)
	if code == ErrCodeGeneric {
		code = ErrCodeConfig
	}
	message := "failed to load configuration"
	if harmonic.IsInvalidConstraint(err) {
		message = "invalid search settings"
	}
	return f.Fail(ExitCommandError, code, message, err)
}
