package instrument

import (
	"fmt"
	"math"

	"github.com/pjcdawkins/harmonics/internal/pitch"
)

// String is one string of an instrument: its open tuning and the length of
// its vibrating portion. Strings are immutable.
type String struct {
	index     int
	tuning    pitch.Note
	frequency float64
	length    float64
}

// Index is the string's position on its instrument, lowest string first.
func (s *String) Index() int { return s.index }

// Tuning is the open-string note.
func (s *String) Tuning() pitch.Note { return s.tuning }

// OpenFrequency is the open-string frequency in hertz.
func (s *String) OpenFrequency() float64 { return s.frequency }

// PhysicalLength is the open-string scale length in millimetres.
func (s *String) PhysicalLength() float64 { return s.length }

// Name returns the open-string note name, e.g. "G3".
func (s *String) Name() string { return s.tuning.String() }

// StringSpec describes a string before it is attached to an instrument.
type StringSpec struct {
	Tuning pitch.Note
	// Length is the scale length in millimetres.
	Length float64
}

// Instrument is an immutable, named set of strings ordered as tuned.
type Instrument struct {
	name      string
	reference float64
	strings   []*String
}

// New builds an instrument from string specs, tuned against reference (the
// frequency of A4). It fails with a *DefinitionError if there are no
// strings, a length is not positive, or the reference is invalid.
func New(name string, reference float64, specs ...StringSpec) (*Instrument, error) {
	if name == "" {
		return nil, &DefinitionError{Message: "instrument name is required"}
	}
	if !(reference > 0) || math.IsInf(reference, 0) {
		return nil, &DefinitionError{Name: name, Message: fmt.Sprintf("reference frequency must be positive, got %v", reference)}
	}
	if len(specs) == 0 {
		return nil, &DefinitionError{Name: name, Message: "at least one string is required"}
	}

	inst := &Instrument{
		name:      name,
		reference: reference,
		strings:   make([]*String, len(specs)),
	}
	for i, spec := range specs {
		if !(spec.Length > 0) || math.IsInf(spec.Length, 0) {
			return nil, &DefinitionError{Name: name, Message: fmt.Sprintf("string %d (%s): length must be positive, got %v", i, spec.Tuning, spec.Length)}
		}
		inst.strings[i] = &String{
			index:     i,
			tuning:    spec.Tuning,
			frequency: spec.Tuning.Frequency(reference),
			length:    spec.Length,
		}
	}
	return inst, nil
}

// Name returns the instrument's name.
func (i *Instrument) Name() string { return i.name }

// Reference returns the A4 frequency the strings are tuned against.
func (i *Instrument) Reference() float64 { return i.reference }

// Strings returns the strings in instrument order. The slice is a copy.
func (i *Instrument) Strings() []*String {
	out := make([]*String, len(i.strings))
	copy(out, i.strings)
	return out
}

// StringAt returns the string at index, or nil if out of range.
func (i *Instrument) StringAt(index int) *String {
	if index < 0 || index >= len(i.strings) {
		return nil
	}
	return i.strings[index]
}

// NumStrings returns the number of strings.
func (i *Instrument) NumStrings() int { return len(i.strings) }

// Retune returns a copy of the instrument tuned against another reference.
func (i *Instrument) Retune(reference float64) (*Instrument, error) {
	specs := make([]StringSpec, len(i.strings))
	for k, s := range i.strings {
		specs[k] = StringSpec{Tuning: s.tuning, Length: s.length}
	}
	return New(i.name, reference, specs...)
}
