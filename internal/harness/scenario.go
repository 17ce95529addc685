package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pjcdawkins/harmonics/internal/config"
	"github.com/pjcdawkins/harmonics/internal/harmonic"
	"github.com/pjcdawkins/harmonics/internal/pitch"
)

// Scenario defines a lookup test scenario: a sequence of lookups against
// the preset and custom instruments, each with optional expectations, and
// assertions over the recorded history.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Reference is the frequency of A4 the catalog is tuned to. Zero means
	// 440 Hz.
	Reference float64 `yaml:"reference,omitempty"`

	// Instruments lists CUE files defining custom instruments.
	// Paths are relative to the scenario file location.
	Instruments []string `yaml:"instruments,omitempty"`

	// Lookups are performed in order. Each successful lookup is recorded.
	Lookups []LookupStep `yaml:"lookups"`

	// Assertions validate the recorded history after all lookups.
	// Supported types: history_count, replay, same_request
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunToken is an optional fixed run token. If empty,
	// testutil.DefaultRunToken is used so golden files stay stable.
	RunToken string `yaml:"run_token,omitempty"`
}

// LookupStep is a single harmonics lookup.
type LookupStep struct {
	Note       string `yaml:"note"`
	Instrument string `yaml:"instrument"`

	// Reference overrides the scenario reference for this lookup.
	Reference float64 `yaml:"reference,omitempty"`

	// Constraints overrides individual search constraints.
	Constraints *config.Constraints `yaml:"constraints,omitempty"`

	// Intervals replaces the default artificial harmonic intervals. An
	// explicit empty list disables artificial harmonics.
	Intervals []string `yaml:"intervals,omitempty"`

	// Expect specifies the expected outcome. If nil, any outcome passes.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a lookup.
type Expect struct {
	// Error is the expected error kind: invalid_note, unknown_instrument
	// or invalid_constraint. Empty means the lookup must succeed.
	Error string `yaml:"error,omitempty"`

	// Count is the exact number of harmonics found.
	Count *int `yaml:"count,omitempty"`

	// Empty requires that no harmonics are found.
	Empty bool `yaml:"empty,omitempty"`

	// Contains lists harmonics that must appear in the result.
	// Each is a subset match against the report rows.
	Contains []HarmonicMatch `yaml:"contains,omitempty"`
}

// HarmonicMatch selects harmonics by their display fields. Empty fields
// match anything. Note names are compared after parsing, so "C#7" matches
// "C♯7".
type HarmonicMatch struct {
	String    string `yaml:"string,omitempty"`
	Kind      string `yaml:"kind,omitempty"`
	Number    int    `yaml:"number,omitempty"`
	Interval  string `yaml:"interval,omitempty"`
	Sounding  string `yaml:"sounding,omitempty"`
	BaseStop  string `yaml:"base_stop,omitempty"`
	TouchStop string `yaml:"touch_stop,omitempty"`
}

// Assertion validates the recorded history.
type Assertion struct {
	// Type specifies the assertion type:
	// - "history_count": the store holds exactly Count lookups
	// - "replay": every stored lookup replays to the same result hash
	// - "same_request": the lookups at Steps share one request hash
	Type string `yaml:"type"`

	// Count is the expected number of stored lookups (used by history_count).
	Count int `yaml:"count,omitempty"`

	// Steps are 1-based lookup positions (used by same_request).
	Steps []int `yaml:"steps,omitempty"`
}

// Assertion type constants.
const (
	AssertHistoryCount = "history_count"
	AssertReplay       = "replay"
	AssertSameRequest  = "same_request"
)

// Error kinds reported for failed lookups.
const (
	ErrorInvalidNote       = "invalid_note"
	ErrorUnknownInstrument = "unknown_instrument"
	ErrorInvalidConstraint = "invalid_constraint"
	ErrorOther             = "error"
)

// LoadScenario reads and parses a scenario YAML file.
// Instrument paths are resolved relative to the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving instrument paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "lookup:" vs "lookups:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, p := range scenario.Instruments {
		if !filepath.IsAbs(p) && basePath != "" {
			scenario.Instruments[i] = filepath.Join(basePath, p)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Reference < 0 {
		return fmt.Errorf("reference must be positive")
	}
	if len(s.Lookups) == 0 {
		return fmt.Errorf("lookups list is required and must be non-empty")
	}

	for _, p := range s.Instruments {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("instrument file not found: %s", p)
		}
	}

	for i, step := range s.Lookups {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, len(s.Lookups)); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *LookupStep) error {
	if step.Note == "" {
		return fmt.Errorf("lookups[%d]: note is required", index)
	}
	if step.Instrument == "" {
		return fmt.Errorf("lookups[%d]: instrument is required", index)
	}
	if step.Reference < 0 {
		return fmt.Errorf("lookups[%d]: reference must be positive", index)
	}
	if _, err := harmonic.ParseIntervals(step.Intervals); err != nil {
		return fmt.Errorf("lookups[%d]: %w", index, err)
	}

	e := step.Expect
	if e == nil {
		return nil
	}
	switch e.Error {
	case "", ErrorInvalidNote, ErrorUnknownInstrument, ErrorInvalidConstraint:
	default:
		return fmt.Errorf("lookups[%d].expect: unknown error kind %q", index, e.Error)
	}
	if e.Error != "" && (e.Count != nil || e.Empty || len(e.Contains) > 0) {
		return fmt.Errorf("lookups[%d].expect: error cannot be combined with result expectations", index)
	}
	if e.Empty && e.Count != nil && *e.Count != 0 {
		return fmt.Errorf("lookups[%d].expect: empty contradicts count %d", index, *e.Count)
	}
	for j := range e.Contains {
		if err := normalizeMatch(&e.Contains[j]); err != nil {
			return fmt.Errorf("lookups[%d].expect.contains[%d]: %w", index, j, err)
		}
	}
	return nil
}

// normalizeMatch respells note names the way reports do and checks the
// kind and interval names.
func normalizeMatch(m *HarmonicMatch) error {
	for _, name := range []*string{&m.String, &m.Sounding, &m.BaseStop, &m.TouchStop} {
		if *name == "" {
			continue
		}
		n, err := pitch.Parse(*name)
		if err != nil {
			return err
		}
		*name = n.String()
	}
	switch m.Kind {
	case "", harmonic.KindNatural.String(), harmonic.KindArtificial.String():
	default:
		return fmt.Errorf("unknown kind %q", m.Kind)
	}
	if m.Interval != "" {
		iv, err := harmonic.ParseInterval(m.Interval)
		if err != nil {
			return err
		}
		m.Interval = iv.String()
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, steps int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertHistoryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for history_count", index)
		}
	case AssertReplay:
	case AssertSameRequest:
		if len(a.Steps) < 2 {
			return fmt.Errorf("assertions[%d]: at least two steps are required for same_request", index)
		}
		for _, s := range a.Steps {
			if s < 1 || s > steps {
				return fmt.Errorf("assertions[%d]: step %d out of range", index, s)
			}
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
