package harmonic

import (
	"github.com/pjcdawkins/harmonics/internal/instrument"
	"github.com/pjcdawkins/harmonics/internal/pitch"
	"github.com/pjcdawkins/harmonics/internal/ratio"
)

// Kind distinguishes the two harmonic techniques.
type Kind int

const (
	KindNatural Kind = iota
	KindArtificial
)

func (k Kind) String() string {
	if k == KindArtificial {
		return "artificial"
	}
	return "natural"
}

// Harmonic is one way of playing a sounding pitch. It is either a Natural
// or an Artificial; both are comparable values.
type Harmonic interface {
	// InstrumentString is the string the harmonic is played on.
	InstrumentString() *instrument.String

	Kind() Kind

	// IsNatural reports whether the harmonic is a Natural.
	IsNatural() bool

	// Number is the partial that sounds: the harmonic number of the open
	// string for naturals, the partial of the pressed note for artificials.
	Number() int

	// SoundingFrequency is the pitch heard, in hertz.
	SoundingFrequency() float64

	// TouchStop is the lightly touched stop. The open string has none.
	TouchStop() (Stop, bool)

	isHarmonic()
}

// Natural is a natural harmonic: the string is touched at the node of
// partial Number nearest the nut, or played open when Number is 1.
type Natural struct {
	str    *instrument.String
	number int
}

func (Natural) isHarmonic() {}

func (n Natural) InstrumentString() *instrument.String { return n.str }
func (n Natural) Kind() Kind                           { return KindNatural }
func (n Natural) IsNatural() bool                      { return true }
func (n Natural) Number() int                          { return n.number }

// IsOpen reports whether this is the open string.
func (n Natural) IsOpen() bool { return n.number == 1 }

// SoundingFrequency is the open frequency times the harmonic number.
func (n Natural) SoundingFrequency() float64 {
	return n.str.OpenFrequency() * float64(n.number)
}

// Node returns the touch point as a fraction of the string from the nut.
func (n Natural) Node() (ratio.Ratio, bool) {
	if n.IsOpen() {
		return ratio.Ratio{}, false
	}
	r, _ := ratio.New(1, n.number)
	return r, true
}

// TouchStop returns the node as a Stop.
func (n Natural) TouchStop() (Stop, bool) {
	node, ok := n.Node()
	if !ok {
		return Stop{}, false
	}
	return Stop{Position: node.Float64()}, true
}

// RemainingLength is the fraction of the string left between the touch
// point and the bridge; 1 for the open string.
func (n Natural) RemainingLength() float64 {
	if s, ok := n.TouchStop(); ok {
		return s.RemainingLength()
	}
	return 1
}

// Artificial is an artificial harmonic: Base is pressed firmly and Touch,
// an Interval above it, is touched lightly.
type Artificial struct {
	str       *instrument.String
	base      Stop
	touch     Stop
	interval  Interval
	semitones int
}

func (Artificial) isHarmonic() {}

func (a Artificial) InstrumentString() *instrument.String { return a.str }
func (a Artificial) Kind() Kind                           { return KindArtificial }
func (a Artificial) IsNatural() bool                      { return false }
func (a Artificial) Number() int                          { return a.interval.Partial() }
func (a Artificial) TouchStop() (Stop, bool)              { return a.touch, true }

// BaseStop is the pressed stop.
func (a Artificial) BaseStop() Stop { return a.base }

// Interval is the interval between the two stops.
func (a Artificial) Interval() Interval { return a.interval }

// Semitones is the pressed note's distance above the open string.
func (a Artificial) Semitones() int { return a.semitones }

// SoundingFrequency is the pressed note's frequency times the partial.
func (a Artificial) SoundingFrequency() float64 {
	return a.base.Frequency(a.str) * float64(a.interval.Partial())
}

// StopDistanceMillimetres is the physical gap between the two fingers.
func (a Artificial) StopDistanceMillimetres() float64 {
	return DistanceMillimetres(a.base, a.touch, a.str)
}

// IntervalCents is the size of the gap between the stops in cents.
func (a Artificial) IntervalCents() float64 {
	return pitch.CentsBetween(a.base.RemainingLength(), a.touch.RemainingLength())
}

func newNatural(str *instrument.String, number int) Natural {
	return Natural{str: str, number: number}
}

// newArtificial presses the string semitones above the open note and
// touches it an interval higher. ok is false if either stop falls off the
// string.
func newArtificial(str *instrument.String, semitones int, iv Interval) (Artificial, bool) {
	baseRemaining := pitch.RatioFromCents(-100 * float64(semitones))
	a := Artificial{
		str:       str,
		base:      StopAtRemaining(baseRemaining),
		touch:     StopAtRemaining(baseRemaining * iv.TouchRatio()),
		interval:  iv,
		semitones: semitones,
	}
	if !a.base.Valid() || !a.touch.Valid() || a.base.Position >= a.touch.Position {
		return Artificial{}, false
	}
	return a, true
}
