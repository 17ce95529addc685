package harmonic

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/pjcdawkins/harmonics/internal/instrument"
	"github.com/pjcdawkins/harmonics/internal/pitch"
)

// Calculator finds the harmonics that sound a requested note.
//
// Its configuration persists between searches until changed. Searches
// work on a snapshot of the configuration, so a Calculator may be shared
// between goroutines.
type Calculator struct {
	mu          sync.RWMutex
	constraints Constraints
	reference   float64
	intervals   []Interval
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithConstraints replaces the default constraints.
func WithConstraints(c Constraints) Option {
	return func(calc *Calculator) { calc.constraints = c }
}

// WithReference sets the frequency of A4 used to resolve target notes.
func WithReference(hz float64) Option {
	return func(calc *Calculator) { calc.reference = hz }
}

// WithIntervals sets the artificial harmonic fingerings to search.
func WithIntervals(ivs ...Interval) Option {
	return func(calc *Calculator) { calc.intervals = slices.Clone(ivs) }
}

// NewCalculator returns a Calculator with DefaultConstraints, A4 = 440 Hz
// and DefaultIntervals, then applies opts.
func NewCalculator(opts ...Option) (*Calculator, error) {
	c := &Calculator{
		constraints: DefaultConstraints(),
		reference:   pitch.DefaultReference,
		intervals:   DefaultIntervals(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.constraints.Validate(); err != nil {
		return nil, err
	}
	if !(c.reference > 0) || math.IsInf(c.reference, 0) {
		return nil, &ConstraintError{Field: "reference", Value: c.reference, Reason: "must be a positive frequency"}
	}
	if err := checkIntervals(c.intervals); err != nil {
		return nil, err
	}
	return c, nil
}

// SetPhysicalDistanceConstraints sets the stop distance bounds and minimum
// bowed length, all in millimetres. On error the calculator is unchanged.
func (c *Calculator) SetPhysicalDistanceConstraints(minStopDistance, maxStopDistance, minBowedLength float64) error {
	if err := checkPhysical(minStopDistance, maxStopDistance, minBowedLength); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.constraints.MinStopDistance = minStopDistance
	c.constraints.MaxStopDistance = maxStopDistance
	c.constraints.MinBowedLength = minBowedLength
	return nil
}

// SetMaxSoundingNoteDifferenceCents sets the pitch tolerance.
func (c *Calculator) SetMaxSoundingNoteDifferenceCents(cents float64) error {
	if err := checkValue("max_cents", cents, MaxCentsLimit); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.constraints.MaxCentsDeviation = cents
	return nil
}

// SetIntervals sets the artificial harmonic fingerings to search. An empty
// list disables the artificial search.
func (c *Calculator) SetIntervals(ivs ...Interval) error {
	if err := checkIntervals(ivs); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intervals = slices.Clone(ivs)
	return nil
}

func checkIntervals(ivs []Interval) error {
	for _, iv := range ivs {
		if !iv.valid() {
			return &ConstraintError{Field: "intervals", Value: float64(iv), Reason: "unknown interval"}
		}
	}
	return nil
}

// Constraints returns the current constraints.
func (c *Calculator) Constraints() Constraints {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.constraints
}

// Reference returns the frequency of A4 used to resolve target notes.
func (c *Calculator) Reference() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reference
}

// Intervals returns the artificial harmonic fingerings searched.
func (c *Calculator) Intervals() []Interval {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.intervals)
}

// Find parses noteName, builds the named preset tuned to the calculator's
// reference and searches it. Both inputs are validated before searching.
func (c *Calculator) Find(noteName, instrumentName string) ([]Harmonic, error) {
	target, err := pitch.Parse(noteName)
	if err != nil {
		return nil, err
	}
	inst, err := instrument.FromPresetAt(instrumentName, c.Reference())
	if err != nil {
		return nil, err
	}
	return c.FindHarmonics(target, inst), nil
}

// FindHarmonics returns every harmonic on inst that sounds target within
// the configured constraints.
//
// Results are grouped by string in instrument order. Within a string,
// natural harmonics come first by harmonic number, then artificial
// harmonics by pressed position and partial. An empty result means no
// harmonic qualifies.
func (c *Calculator) FindHarmonics(target pitch.Note, inst *instrument.Instrument) []Harmonic {
	return c.FindFrequency(target.Frequency(c.Reference()), inst)
}

// FindFrequency is FindHarmonics for a target given in hertz. A target
// that is not a positive, finite frequency matches nothing.
func (c *Calculator) FindFrequency(target float64, inst *instrument.Instrument) []Harmonic {
	if !(target > 0) || math.IsInf(target, 0) {
		return nil
	}

	c.mu.RLock()
	s := search{
		constraints: c.constraints,
		intervals:   slices.Clone(c.intervals),
		target:      target,
	}
	c.mu.RUnlock()

	var out []Harmonic
	for i := 0; i < inst.NumStrings(); i++ {
		str := inst.StringAt(i)
		out = append(out, s.naturals(str)...)
		out = append(out, s.artificials(str)...)
	}
	return out
}

// search is one FindHarmonics call's snapshot of the configuration.
type search struct {
	constraints Constraints
	intervals   []Interval
	target      float64
}

// deviation is the candidate's distance from the target in cents.
func (s *search) deviation(sounding float64) float64 {
	return pitch.CentsBetween(sounding, s.target)
}

// Search ceilings, independent of the constraints.
const (
	MaxHarmonicNumber = 64 // highest natural harmonic searched
	MaxBaseSemitones  = 96 // highest pressed stop above the open note
)

// naturals walks harmonic numbers upward. The nut-to-node segment shrinks
// as L/n; the walk stops once it is shorter than the minimum bowed length,
// once the sounding pitch has passed the target, or at MaxHarmonicNumber.
func (s *search) naturals(str *instrument.String) []Harmonic {
	var out []Harmonic
	length := str.PhysicalLength()
	for n := 1; n <= MaxHarmonicNumber && length/float64(n) >= s.constraints.MinBowedLength; n++ {
		h := newNatural(str, n)
		dev := s.deviation(h.SoundingFrequency())
		if dev > s.constraints.MaxCentsDeviation {
			break
		}
		if dev < -s.constraints.MaxCentsDeviation {
			continue
		}
		if h.RemainingLength()*length < s.constraints.MinBowedLength {
			continue
		}
		out = append(out, h)
	}
	return out
}

// artificials sweeps the pressed stop up the string a semitone at a time
// for each interval. A sweep ends when the touched stop leaves less than
// the minimum bowed length, when the sounding pitch has passed the target,
// or at MaxBaseSemitones.
func (s *search) artificials(str *instrument.String) []Harmonic {
	var out []Harmonic
	for _, iv := range s.intervals {
		for k := 1; k <= MaxBaseSemitones; k++ {
			a, ok := newArtificial(str, k, iv)
			if !ok || a.touch.RemainingMillimetres(str) < s.constraints.MinBowedLength {
				break
			}
			dev := s.deviation(a.SoundingFrequency())
			if dev > s.constraints.MaxCentsDeviation {
				break
			}
			if dev < -s.constraints.MaxCentsDeviation {
				continue
			}
			d := DistanceMillimetres(a.base, a.touch, str)
			if d < s.constraints.MinStopDistance || d > s.constraints.MaxStopDistance {
				continue
			}
			out = append(out, a)
		}
	}

	slices.SortStableFunc(out, func(x, y Harmonic) int {
		ax, ay := x.(Artificial), y.(Artificial)
		if c := cmp.Compare(ax.base.Position, ay.base.Position); c != 0 {
			return c
		}
		return cmp.Compare(ax.Number(), ay.Number())
	})
	return out
}

// Describe renders a one-line summary, e.g. "natural 3 on A4 at 1/3".
func Describe(h Harmonic) string {
	switch v := h.(type) {
	case Natural:
		if v.IsOpen() {
			return fmt.Sprintf("open %s", v.str.Name())
		}
		node, _ := v.Node()
		return fmt.Sprintf("natural %d on %s at %s", v.number, v.str.Name(), node)
	case Artificial:
		return fmt.Sprintf("artificial %s on %s, pressed %d semitones up", v.interval, v.str.Name(), v.semitones)
	default:
		return "unknown harmonic"
	}
}
