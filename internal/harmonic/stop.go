package harmonic

import (
	"github.com/pjcdawkins/harmonics/internal/instrument"
)

// Stop is a finger position on a string, measured from the nut as a
// fraction of the scale length. Valid stops lie strictly between 0 and 1.
type Stop struct {
	Position float64
}

// StopAtRemaining returns the stop that leaves remaining of the string
// vibrating between the finger and the bridge.
func StopAtRemaining(remaining float64) Stop {
	return Stop{Position: 1 - remaining}
}

// Valid reports whether the stop lies strictly inside the string.
func (s Stop) Valid() bool {
	return s.Position > 0 && s.Position < 1
}

// RemainingLength is the fraction of the string between the stop and the
// bridge.
func (s Stop) RemainingLength() float64 {
	return 1 - s.Position
}

// Frequency is the pitch heard if the string were pressed down at the stop.
func (s Stop) Frequency(str *instrument.String) float64 {
	return str.OpenFrequency() / s.RemainingLength()
}

// RemainingMillimetres is the physical length between the stop and the
// bridge.
func (s Stop) RemainingMillimetres(str *instrument.String) float64 {
	return s.RemainingLength() * str.PhysicalLength()
}

// DistanceMillimetres is the physical distance between two stops.
func DistanceMillimetres(a, b Stop, str *instrument.String) float64 {
	d := (b.Position - a.Position) * str.PhysicalLength()
	if d < 0 {
		return -d
	}
	return d
}
