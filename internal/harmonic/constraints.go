package harmonic

import (
	"fmt"
	"math"
)

// Default constraint values.
const (
	DefaultMinStopDistance   = 1.0   // mm
	DefaultMaxStopDistance   = 120.0 // mm
	DefaultMinBowedLength    = 20.0  // mm
	DefaultMaxCentsDeviation = 50.0  // cents, half a semitone
)

// Upper limits accepted for each constraint.
const (
	MaxLengthLimit = 10_000.0 // mm
	MaxCentsLimit  = 4_800.0  // cents, four octaves
)

// Constraints are the physical and pitch limits a harmonic must satisfy.
type Constraints struct {
	// MinStopDistance and MaxStopDistance bound the gap, in millimetres,
	// between the two fingers of an artificial harmonic.
	MinStopDistance float64
	MaxStopDistance float64

	// MinBowedLength is the shortest string length, in millimetres, left
	// between the touch point and the bridge for the bow to play on.
	MinBowedLength float64

	// MaxCentsDeviation is the largest accepted difference between a
	// harmonic's sounding pitch and the requested note.
	MaxCentsDeviation float64
}

// DefaultConstraints returns the default limits.
func DefaultConstraints() Constraints {
	return Constraints{
		MinStopDistance:   DefaultMinStopDistance,
		MaxStopDistance:   DefaultMaxStopDistance,
		MinBowedLength:    DefaultMinBowedLength,
		MaxCentsDeviation: DefaultMaxCentsDeviation,
	}
}

// Validate checks every value is finite and non-negative, and that the
// minimum stop distance does not exceed the maximum.
func (c Constraints) Validate() error {
	if err := checkPhysical(c.MinStopDistance, c.MaxStopDistance, c.MinBowedLength); err != nil {
		return err
	}
	return checkValue("max_cents", c.MaxCentsDeviation, MaxCentsLimit)
}

func checkPhysical(minStop, maxStop, minBowed float64) error {
	if err := checkValue("min_stop_distance_mm", minStop, MaxLengthLimit); err != nil {
		return err
	}
	if err := checkValue("max_stop_distance_mm", maxStop, MaxLengthLimit); err != nil {
		return err
	}
	if err := checkValue("min_bowed_distance_mm", minBowed, MaxLengthLimit); err != nil {
		return err
	}
	if minStop > maxStop {
		return &ConstraintError{Field: "min_stop_distance_mm", Value: minStop, Reason: "exceeds max_stop_distance_mm"}
	}
	return nil
}

func checkValue(field string, v, limit float64) error {
	switch {
	case math.IsNaN(v):
		return &ConstraintError{Field: field, Value: v, Reason: "not a number"}
	case math.IsInf(v, 0):
		return &ConstraintError{Field: field, Value: v, Reason: "must be finite"}
	case v < 0:
		return &ConstraintError{Field: field, Value: v, Reason: "must not be negative"}
	case v > limit:
		return &ConstraintError{Field: field, Value: v, Reason: fmt.Sprintf("must not exceed %g", limit)}
	}
	return nil
}
