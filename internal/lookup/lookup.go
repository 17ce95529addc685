// Package lookup resolves a harmonic request against an instrument catalog
// and runs the search. The CLI, history replay and scenario runner all go
// through Service so that a request means the same thing everywhere.
package lookup

import (
	"fmt"
	"slices"

	"github.com/pjcdawkins/harmonics/internal/harmonic"
	"github.com/pjcdawkins/harmonics/internal/instrument"
	"github.com/pjcdawkins/harmonics/internal/ir"
	"github.com/pjcdawkins/harmonics/internal/pitch"
)

// Request asks for the harmonics that sound Note on Instrument.
//
// Zero values select the service defaults: a zero Reference, nil
// Constraints or nil Intervals. A non-nil empty Intervals disables
// artificial harmonics.
type Request struct {
	Note        string
	Instrument  string
	Reference   float64
	Constraints *harmonic.Constraints
	Intervals   []harmonic.Interval
}

// Result is a completed lookup.
type Result struct {
	// Request is the canonical request that was searched, with every
	// default filled in.
	Request ir.Request

	Target     pitch.Note
	Instrument *instrument.Instrument
	Reference  float64
	Harmonics  []harmonic.Harmonic
}

// Defaults are the values used for fields a Request leaves unset.
type Defaults struct {
	Constraints harmonic.Constraints
	Intervals   []harmonic.Interval
}

// Service runs lookups against a catalog.
type Service struct {
	catalog  *instrument.Catalog
	defaults Defaults
}

// NewService returns a Service with harmonic.DefaultConstraints and
// harmonic.DefaultIntervals as its defaults.
func NewService(catalog *instrument.Catalog) *Service {
	return &Service{
		catalog: catalog,
		defaults: Defaults{
			Constraints: harmonic.DefaultConstraints(),
			Intervals:   harmonic.DefaultIntervals(),
		},
	}
}

// WithDefaults returns a copy of the service using d for unset fields.
func (s *Service) WithDefaults(d Defaults) *Service {
	d.Intervals = slices.Clone(d.Intervals)
	return &Service{catalog: s.catalog, defaults: d}
}

// Catalog returns the service's catalog.
func (s *Service) Catalog() *instrument.Catalog {
	return s.catalog
}

// Defaults returns the values used for unset request fields.
func (s *Service) Defaults() Defaults {
	d := s.defaults
	d.Intervals = slices.Clone(d.Intervals)
	return d
}

// Lookup validates the request and searches for harmonics.
//
// Constraints are checked first, then the note name, then the instrument.
// Numeric settings are rounded to the precision of ir.Request before the
// search, so replaying the canonical request reproduces the result
// exactly.
func (s *Service) Lookup(req Request) (*Result, error) {
	reference := req.Reference
	if reference == 0 {
		reference = s.catalog.Reference()
	}
	constraints := s.defaults.Constraints
	if req.Constraints != nil {
		constraints = *req.Constraints
	}
	intervals := s.defaults.Intervals
	if req.Intervals != nil {
		intervals = req.Intervals
	}

	if err := constraints.Validate(); err != nil {
		return nil, err
	}
	constraints = quantize(constraints)
	reference = ir.Unscale(ir.Scale(reference, ir.Milli), ir.Milli)

	calc, err := harmonic.NewCalculator(
		harmonic.WithConstraints(constraints),
		harmonic.WithReference(reference),
		harmonic.WithIntervals(intervals...),
	)
	if err != nil {
		return nil, err
	}

	target, err := pitch.Parse(req.Note)
	if err != nil {
		return nil, err
	}

	inst, err := s.catalog.Lookup(req.Instrument)
	if err != nil {
		return nil, err
	}
	if inst.Reference() != reference {
		if inst, err = inst.Retune(reference); err != nil {
			return nil, err
		}
	}

	return &Result{
		Request:    canonicalRequest(target, inst.Name(), reference, constraints, intervals),
		Target:     target,
		Instrument: inst,
		Reference:  reference,
		Harmonics:  calc.FindHarmonics(target, inst),
	}, nil
}

// Replay repeats a stored canonical request.
func (s *Service) Replay(r ir.Request) (*Result, error) {
	req, err := FromIR(r)
	if err != nil {
		return nil, err
	}
	return s.Lookup(req)
}

// FromIR converts a canonical request back to a Request.
func FromIR(r ir.Request) (Request, error) {
	intervals, err := harmonic.ParseIntervals(r.Intervals)
	if err != nil {
		return Request{}, fmt.Errorf("stored request: %w", err)
	}
	c := harmonic.Constraints{
		MinStopDistance:   ir.Unscale(r.Constraints.MinStopDistance, ir.Milli),
		MaxStopDistance:   ir.Unscale(r.Constraints.MaxStopDistance, ir.Milli),
		MinBowedLength:    ir.Unscale(r.Constraints.MinBowedLength, ir.Milli),
		MaxCentsDeviation: ir.Unscale(r.Constraints.MaxCentsDeviation, ir.Milli),
	}
	return Request{
		Note:        r.Note,
		Instrument:  r.Instrument,
		Reference:   ir.Unscale(r.Reference, ir.Milli),
		Constraints: &c,
		Intervals:   intervals,
	}, nil
}

func quantize(c harmonic.Constraints) harmonic.Constraints {
	q := func(v float64) float64 { return ir.Unscale(ir.Scale(v, ir.Milli), ir.Milli) }
	return harmonic.Constraints{
		MinStopDistance:   q(c.MinStopDistance),
		MaxStopDistance:   q(c.MaxStopDistance),
		MinBowedLength:    q(c.MinBowedLength),
		MaxCentsDeviation: q(c.MaxCentsDeviation),
	}
}

func canonicalRequest(target pitch.Note, instrumentName string, reference float64, c harmonic.Constraints, ivs []harmonic.Interval) ir.Request {
	names := make([]string, len(ivs))
	for i, iv := range ivs {
		names[i] = iv.String()
	}
	return ir.Request{
		Note:       target.ASCII(),
		Instrument: instrumentName,
		Reference:  ir.Scale(reference, ir.Milli),
		Constraints: ir.Constraints{
			MinStopDistance:   ir.Scale(c.MinStopDistance, ir.Milli),
			MaxStopDistance:   ir.Scale(c.MaxStopDistance, ir.Milli),
			MinBowedLength:    ir.Scale(c.MinBowedLength, ir.Milli),
			MaxCentsDeviation: ir.Scale(c.MaxCentsDeviation, ir.Milli),
		},
		Intervals: names,
	}
}

// Records converts the harmonics to canonical records, numbered in result
// order.
func (r *Result) Records() []ir.HarmonicRecord {
	out := make([]ir.HarmonicRecord, len(r.Harmonics))
	for i, h := range r.Harmonics {
		str := h.InstrumentString()
		rec := ir.HarmonicRecord{
			Ordinal:     int64(i),
			StringIndex: int64(str.Index()),
			String:      str.Tuning().ASCII(),
			Kind:        h.Kind().String(),
			Number:      int64(h.Number()),
			Sounding:    ir.Scale(h.SoundingFrequency(), ir.Milli),
		}
		if touch, ok := h.TouchStop(); ok {
			rec.TouchStop = ir.Scale(touch.Position, ir.PPM)
		}
		if a, ok := h.(harmonic.Artificial); ok {
			rec.Interval = a.Interval().String()
			rec.Semitones = int64(a.Semitones())
			rec.BaseStop = ir.Scale(a.BaseStop().Position, ir.PPM)
		}
		out[i] = rec
	}
	return out
}

// ResultHash is the content hash of Records.
func (r *Result) ResultHash() (string, error) {
	return ir.ResultHash(r.Records())
}

// RequestHash is the content hash of Request.
func (r *Result) RequestHash() (string, error) {
	return ir.RequestHash(r.Request)
}
